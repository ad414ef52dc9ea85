// Package events carries typed in-process broadcasts between feature
// controllers that share a common owner.
package events

import "sync"

// Subject fans a value out to every current subscriber
type Subject[T any] struct {
	mu     sync.RWMutex
	subs   map[uint64]func(T)
	order  []uint64
	nextID uint64
}

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{subs: make(map[uint64]func(T))}
}

// Publish delivers value synchronously, in subscription order
func (s *Subject[T]) Publish(value T) {
	s.mu.RLock()
	handlers := make([]func(T), 0, len(s.order))
	for _, id := range s.order {
		handlers = append(handlers, s.subs[id])
	}
	s.mu.RUnlock()

	for _, h := range handlers {
		h(value)
	}
}

// Subscribe registers fn and returns its cancel func
func (s *Subject[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs[id] = fn
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Len reports the number of live subscriptions
func (s *Subject[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
