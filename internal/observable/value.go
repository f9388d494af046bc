// Package observable holds a single current value and fans changes out to
// subscribers. New subscribers receive the current value first; a slow
// subscriber only ever sees the latest value, never a backlog.
package observable

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Reader is the read-only side of a Value.
type Reader[T any] interface {
	Get() T
	Subscribe() (<-chan T, func())
}

type Value[T any] struct {
	mu          sync.RWMutex
	current     T
	subscribers map[string]chan T
	closed      bool
	name        string
}

// New creates a Value holding initial. name is only used in log fields.
func New[T any](name string, initial T) *Value[T] {
	return &Value[T]{
		current:     initial,
		subscribers: make(map[string]chan T),
		name:        name,
	}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set replaces the current value and notifies subscribers. It returns false
// once the value is closed.
func (v *Value[T]) Set(value T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return false
	}
	v.current = value
	for _, ch := range v.subscribers {
		offer(ch, value)
	}
	return true
}

// Subscribe returns a channel that receives the current value immediately and
// every later value. Call the returned func to unsubscribe.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan T, 1)
	if v.closed {
		close(ch)
		return ch, func() {}
	}

	id := uuid.NewString()
	v.subscribers[id] = ch
	ch <- v.current

	log.Trace().Str("value", v.name).Str("subscriber_id", id).Int("subscribers", len(v.subscribers)).Msg("Subscriber added")

	var once sync.Once
	return ch, func() {
		once.Do(func() { v.unsubscribe(id) })
	}
}

func (v *Value[T]) SubscriberCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subscribers)
}

// Close closes every subscriber channel. Later Set calls are ignored.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	for id, ch := range v.subscribers {
		close(ch)
		delete(v.subscribers, id)
	}
}

func (v *Value[T]) unsubscribe(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if ch, ok := v.subscribers[id]; ok {
		close(ch)
		delete(v.subscribers, id)
	}
}

// offer puts value on a one-slot channel, dropping a stale unread value.
// Callers hold the write lock, so nothing else sends on ch concurrently.
func offer[T any](ch chan T, value T) {
	select {
	case ch <- value:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- value
}
