package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func TestCollectionEmptyLoad(t *testing.T) {
	c := NewCollection[item](New(NewMemoryBackend()), "items")

	doc, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Len())
	assert.Empty(t, doc.List())
}

func TestCollectionOrder(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[item](New(NewMemoryBackend()), "items")

	_, err := c.Update(ctx, func(doc *Document[item]) (bool, error) {
		doc.Append("a", item{ID: "a"})
		doc.Append("b", item{ID: "b"})
		doc.Prepend("c", item{ID: "c"})
		return true, nil
	})
	require.NoError(t, err)

	doc, err := c.Load(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, it := range doc.List() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	assert.True(t, doc.Delete("a"))
	assert.False(t, doc.Delete("a"))
	assert.Equal(t, []string{"c", "b"}, doc.Order)
	assert.False(t, doc.Replace("missing", item{}))
}

func TestCollectionUnchangedSkipsWrite(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	c := NewCollection[item](New(backend), "items")

	_, err := c.Update(ctx, func(doc *Document[item]) (bool, error) {
		doc.Append("a", item{ID: "a"})
		return false, nil
	})
	require.NoError(t, err)

	_, err = backend.Get(ctx, DefaultNamespace+"items")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestCollectionUpdateError(t *testing.T) {
	c := NewCollection[item](New(NewMemoryBackend()), "items")
	boom := errors.New("boom")

	_, err := c.Update(context.Background(), func(doc *Document[item]) (bool, error) {
		return true, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCollectionConcurrentUpdatesLoseNothing(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[item](New(NewMemoryBackend()), "items")

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("item-%d", i)
			_, err := c.Update(ctx, func(doc *Document[item]) (bool, error) {
				doc.Append(id, item{ID: id, Value: i})
				return true, nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	doc, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, writers, doc.Len())
	assert.Len(t, doc.Order, writers)
}
