package events

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/sourcegraph/conc/panics"
)

// SubscriptionID identifies a single subscription on a Bus.
// Handler funcs are not comparable in Go, so removal goes through this id.
type SubscriptionID uint64

// Handler receives an emitted event.
type Handler[E any] func(event E)

type subscription[E any] struct {
	id      SubscriptionID
	handler Handler[E]
}

// Bus is an in-memory registry of handlers keyed by event kind.
// It is safe for concurrent use.
type Bus[K comparable, E any] struct {
	mu       sync.RWMutex
	nextID   SubscriptionID
	handlers map[K][]subscription[E]
	logger   *slog.Logger
}

// NewBus creates an empty Bus. If logger is nil, slog.Default is used.
func NewBus[K comparable, E any](logger *slog.Logger) *Bus[K, E] {
	if logger == nil {
		logger = slog.Default()
	}

	return &Bus[K, E]{
		handlers: make(map[K][]subscription[E]),
		logger:   logger.With("component", "event_bus"),
	}
}

// Subscribe registers handler for kind and returns its id.
func (b *Bus[K, E]) Subscribe(kind K, handler Handler[E]) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[kind] = append(b.handlers[kind], subscription[E]{id: id, handler: handler})

	return id
}

// Unsubscribe removes the subscription with the given id.
// It reports whether a subscription was removed.
func (b *Bus[K, E]) Unsubscribe(kind K, id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[kind]
	idx := slices.IndexFunc(subs, func(s subscription[E]) bool { return s.id == id })
	if idx < 0 {
		return false
	}

	// Build a fresh slice so snapshots taken by Emit stay intact.
	remaining := make([]subscription[E], 0, len(subs)-1)
	remaining = append(remaining, subs[:idx]...)
	remaining = append(remaining, subs[idx+1:]...)
	if len(remaining) == 0 {
		delete(b.handlers, kind)
	} else {
		b.handlers[kind] = remaining
	}

	return true
}

// Emit delivers event to every handler subscribed to kind, in registration
// order. Handlers run on the caller's goroutine without the Bus lock held, so
// they may subscribe or unsubscribe freely. It returns the number of handlers
// that panicked.
func (b *Bus[K, E]) Emit(kind K, event E) int {
	b.mu.RLock()
	subs := b.handlers[kind]
	b.mu.RUnlock()

	failed := 0
	for i, sub := range subs {
		if r := panics.Try(func() { sub.handler(event) }); r != nil {
			failed++
			b.logger.Error("event handler panicked",
				"error", r.AsError(),
				"handler_index", i,
				"subscription_id", uint64(sub.id))
		}
	}

	return failed
}

// Count returns the number of handlers currently subscribed to kind.
func (b *Bus[K, E]) Count(kind K) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[kind])
}

// Clear removes every subscription of every kind.
func (b *Bus[K, E]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.handlers)
	b.logger.Debug("cleared all event handlers")
}
