// Package storegateway provides billing store adapters: an HTTP client
// against the billing gateway, an AMQP feed for live purchase events and
// an in-memory store for local mode.
package storegateway

import (
	"context"
	"sync"

	"github.com/novaplan/premium/internal/premium/domain"
)

// listenerSet holds registered event handlers. Each registration hands out
// a single-owner subscription handle whose Unsubscribe is idempotent.
type listenerSet[T any] struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(ctx context.Context, v T)
}

func (s *listenerSet[T]) add(handler func(ctx context.Context, v T)) domain.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handlers == nil {
		s.handlers = make(map[int]func(ctx context.Context, v T))
	}
	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	return &subscription[T]{set: s, id: id}
}

func (s *listenerSet[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handlers, id)
}

func (s *listenerSet[T]) dispatch(ctx context.Context, v T) {
	s.mu.Lock()
	handlers := make([]func(ctx context.Context, v T), 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(ctx, v)
	}
}

type subscription[T any] struct {
	set  *listenerSet[T]
	id   int
	once sync.Once
}

// Unsubscribe releases the handle. Releasing twice is a no-op.
func (s *subscription[T]) Unsubscribe() error {
	s.once.Do(func() {
		s.set.remove(s.id)
	})
	return nil
}
