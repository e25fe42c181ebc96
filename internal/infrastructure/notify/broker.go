// Package notify provides explicit change-notification for in-memory state.
package notify

import "sync"

// Broker fans a value out to registered subscribers. A broker made with
// NewBroker remembers the last value published, which new subscribers
// receive immediately.
type Broker[T any] struct {
	mu          sync.RWMutex
	nextID      int64
	subscribers map[int64]func(T)
	replay      bool
	last        T
	hasLast     bool
}

func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{subscribers: make(map[int64]func(T)), replay: true}
}

// NewEventBroker returns a broker for one-shot events: subscribers only see
// values published after they subscribe.
func NewEventBroker[T any]() *Broker[T] {
	return &Broker[T]{subscribers: make(map[int64]func(T))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Broker[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subscribers[id] = fn
	last, hasLast := b.last, b.hasLast && b.replay
	b.mu.Unlock()

	if hasLast {
		fn(last)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
		})
	}
}

// Publish records v as the latest value and delivers it synchronously.
func (b *Broker[T]) Publish(v T) {
	b.mu.Lock()
	b.last = v
	b.hasLast = true
	subscribers := make([]func(T), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		subscribers = append(subscribers, fn)
	}
	b.mu.Unlock()

	for _, fn := range subscribers {
		fn(v)
	}
}

// Last returns the most recently published value.
func (b *Broker[T]) Last() (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last, b.hasLast
}
