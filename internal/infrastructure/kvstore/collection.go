package kvstore

import (
	"context"
	"sync"
)

// Document is the persisted shape of a collection: entities keyed by id plus
// the explicit order they are listed in.
type Document[T any] struct {
	Order []string     `json:"order"`
	Items map[string]T `json:"items"`
}

func newDocument[T any]() *Document[T] {
	return &Document[T]{Items: make(map[string]T)}
}

func (d *Document[T]) Get(id string) (T, bool) {
	item, ok := d.Items[id]
	return item, ok
}

// Append stores item under id, adding it to the end of the order if new.
func (d *Document[T]) Append(id string, item T) {
	if _, ok := d.Items[id]; !ok {
		d.Order = append(d.Order, id)
	}
	d.Items[id] = item
}

// Prepend stores item under id, adding it to the front of the order if new.
func (d *Document[T]) Prepend(id string, item T) {
	if _, ok := d.Items[id]; !ok {
		d.Order = append([]string{id}, d.Order...)
	}
	d.Items[id] = item
}

// Replace overwrites an existing item in place. It reports false if id is unknown.
func (d *Document[T]) Replace(id string, item T) bool {
	if _, ok := d.Items[id]; !ok {
		return false
	}
	d.Items[id] = item
	return true
}

func (d *Document[T]) Delete(id string) bool {
	if _, ok := d.Items[id]; !ok {
		return false
	}
	delete(d.Items, id)
	for i, existing := range d.Order {
		if existing == id {
			d.Order = append(d.Order[:i:i], d.Order[i+1:]...)
			break
		}
	}
	return true
}

// List returns the items in stored order.
func (d *Document[T]) List() []T {
	items := make([]T, 0, len(d.Order))
	for _, id := range d.Order {
		if item, ok := d.Items[id]; ok {
			items = append(items, item)
		}
	}
	return items
}

func (d *Document[T]) Len() int {
	return len(d.Items)
}

// Collection is one logical collection persisted as a single Document. All
// writes go through Update, which holds the collection's lock for the whole
// read-modify-write so in-process writers never lose each other's changes.
type Collection[T any] struct {
	store *Store
	key   string
	mu    sync.Mutex
}

func NewCollection[T any](store *Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns a snapshot of the collection. A missing or unreadable document
// is an empty collection.
func (c *Collection[T]) Load(ctx context.Context) (*Document[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Update applies fn to the current document and writes it back if fn reports
// a change. The returned document is the state after the update.
func (c *Collection[T]) Update(ctx context.Context, fn func(doc *Document[T]) (bool, error)) (*Document[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	changed, err := fn(doc)
	if err != nil {
		return nil, err
	}
	if !changed {
		return doc, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, c.key, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Collection[T]) load(ctx context.Context) (*Document[T], error) {
	doc := newDocument[T]()
	if _, err := c.store.Get(ctx, c.key, doc); err != nil {
		return nil, err
	}
	if doc.Items == nil {
		doc.Items = make(map[string]T)
	}
	return doc, nil
}
