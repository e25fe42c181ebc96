// Package kvstore is the local persistence layer: a namespaced JSON document
// store over a pluggable raw key-value backend.
package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by backends and Store.Lookup for unset keys.
	ErrKeyNotFound = errors.New("kvstore: key not found")

	// ErrCorrupt is returned by Store.Lookup when a stored value cannot be decoded.
	ErrCorrupt = errors.New("kvstore: value cannot be decoded")
)

// Backend is the raw medium the Store writes to. Keys are full (namespaced)
// keys; values are opaque bytes.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
