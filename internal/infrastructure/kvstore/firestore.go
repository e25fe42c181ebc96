package kvstore

import (
	"context"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const firestoreCollection = "kv"

type firestoreRecord struct {
	Key       string    `firestore:"key"`
	Value     []byte    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// FirestoreBackend stores one document per key in the "kv" collection.
type FirestoreBackend struct {
	client *firestore.Client
}

func NewFirestoreBackend(client *firestore.Client) *FirestoreBackend {
	return &FirestoreBackend{client: client}
}

// Document ids cannot contain '/', so keys are escaped; the raw key is kept
// in a field for prefix queries.
func (b *FirestoreBackend) doc(key string) *firestore.DocumentRef {
	return b.client.Collection(firestoreCollection).Doc(url.QueryEscape(key))
}

func (b *FirestoreBackend) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := b.doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}

	var record firestoreRecord
	if err := doc.DataTo(&record); err != nil {
		return nil, err
	}
	return record.Value, nil
}

func (b *FirestoreBackend) Set(ctx context.Context, key string, value []byte) error {
	_, err := b.doc(key).Set(ctx, firestoreRecord{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	})
	return err
}

func (b *FirestoreBackend) Delete(ctx context.Context, key string) error {
	_, err := b.doc(key).Delete(ctx)
	return err
}

func (b *FirestoreBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := b.client.Collection(firestoreCollection).
		Where("key", ">=", prefix).
		Where("key", "<", prefix+"\uf8ff")

	iter := query.Documents(ctx)
	defer iter.Stop()

	var keys []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var record firestoreRecord
		if err := doc.DataTo(&record); err != nil {
			continue
		}
		keys = append(keys, record.Key)
	}
	return keys, nil
}

func (b *FirestoreBackend) Close() error {
	return b.client.Close()
}
