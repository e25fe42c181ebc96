package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/golang/snappy"

	apperrors "swapi/pkg/errors"
	"swapi/pkg/logger"
)

const DefaultNamespace = "swapi_"

// compressedMarker prefixes snappy payloads. JSON text never starts with 0xff,
// so compressed and plain values can live side by side.
const compressedMarker byte = 0xff

// Store serialises values as JSON under namespaced keys.
type Store struct {
	backend   Backend
	namespace string
	compress  bool
}

type Option func(*Store)

func WithNamespace(namespace string) Option {
	return func(s *Store) {
		s.namespace = namespace
	}
}

// WithCompression snappy-compresses values on write. Reads accept both forms.
func WithCompression(enabled bool) Option {
	return func(s *Store) {
		s.compress = enabled
	}
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		namespace: DefaultNamespace,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Namespace() string {
	return s.namespace
}

// Set replaces the value stored under key.
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Storage("encode "+key, err)
	}

	if s.compress {
		data = append([]byte{compressedMarker}, snappy.Encode(nil, data)...)
	}

	if err := s.backend.Set(ctx, s.namespace+key, data); err != nil {
		return apperrors.Storage("write "+key, err)
	}
	return nil
}

// Get decodes the value under key into v and reports whether it was present.
// A value that cannot be decoded is logged and reported as absent; use Lookup
// to tell the two apart.
func (s *Store) Get(ctx context.Context, key string, v interface{}) (bool, error) {
	err := s.Lookup(ctx, key, v)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrKeyNotFound):
		return false, nil
	case errors.Is(err, ErrCorrupt):
		logger.Warn("kvstore: discarding unreadable value for %s: %v", key, err)
		resetValue(v)
		return false, nil
	default:
		return false, err
	}
}

// Lookup is the strict form of Get: it returns ErrKeyNotFound for unset keys
// and ErrCorrupt for undecodable values.
func (s *Store) Lookup(ctx context.Context, key string, v interface{}) error {
	raw, err := s.backend.Get(ctx, s.namespace+key)
	if errors.Is(err, ErrKeyNotFound) {
		return ErrKeyNotFound
	}
	if err != nil {
		return apperrors.Storage("read "+key, err)
	}

	if err := decode(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}

// Remove deletes key. Removing an unset key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, s.namespace+key); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return apperrors.Storage("remove "+key, err)
	}
	return nil
}

// Clear removes every key in this store's namespace and nothing else.
func (s *Store) Clear(ctx context.Context) error {
	keys, err := s.backend.Keys(ctx, s.namespace)
	if err != nil {
		return apperrors.Storage("list keys", err)
	}

	for _, key := range keys {
		if err := s.backend.Delete(ctx, key); err != nil && !errors.Is(err, ErrKeyNotFound) {
			return apperrors.Storage("clear "+key, err)
		}
	}
	return nil
}

// Keys lists the logical keys of this namespace, sorted.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.backend.Keys(ctx, s.namespace)
	if err != nil {
		return nil, apperrors.Storage("list keys", err)
	}

	logical := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, s.namespace) {
			logical = append(logical, strings.TrimPrefix(key, s.namespace))
		}
	}
	sort.Strings(logical)
	return logical, nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func decode(raw []byte, v interface{}) error {
	if len(raw) > 0 && raw[0] == compressedMarker {
		plain, err := snappy.Decode(nil, raw[1:])
		if err != nil {
			return err
		}
		raw = plain
	}
	return json.Unmarshal(raw, v)
}

func resetValue(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
	}
}
