package lazy

import (
	"context"
	"sync"
)

// Handle процессный дескриптор клиента, создаётся при первом успешном обращении.
// Неудачная инициализация не кэшируется, следующий Get попробует снова.
type Handle[T any] struct {
	mu    sync.Mutex
	init  func(ctx context.Context) (T, error)
	value T
	ready bool
}

func New[T any](init func(ctx context.Context) (T, error)) *Handle[T] {
	return &Handle[T]{init: init}
}

// Of уже готовый дескриптор, удобно для тестов и подмены клиента
func Of[T any](value T) *Handle[T] {
	return &Handle[T]{value: value, ready: true}
}

func (h *Handle[T]) Get(ctx context.Context) (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ready {
		return h.value, nil
	}

	value, err := h.init(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	h.value = value
	h.ready = true
	return value, nil
}

func (h *Handle[T]) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}
