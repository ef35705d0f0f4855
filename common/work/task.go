package work

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// funcTask adapts a plain function to Executor.
type funcTask[T any] struct {
	id      string
	fn      func(ctx context.Context) (T, error)
	onError func(error)
	timeout time.Duration
}

type TaskOption[T any] func(*funcTask[T])

// WithID replaces the generated UUIDv7, e.g. with a work manager key.
func WithID[T any](id string) TaskOption[T] {
	return func(t *funcTask[T]) { t.id = id }
}

// WithErrorHandler is called with the error of a failed or timed out run.
func WithErrorHandler[T any](handler func(error)) TaskOption[T] {
	return func(t *funcTask[T]) { t.onError = handler }
}

// WithTimeout overrides PoolConfig.TaskTimeout for this task.
func WithTimeout[T any](timeout time.Duration) TaskOption[T] {
	return func(t *funcTask[T]) { t.timeout = timeout }
}

func NewTask[T any](fn func(ctx context.Context) (T, error), options ...TaskOption[T]) (Executor[T], error) {
	t := &funcTask[T]{fn: fn}
	for _, opt := range options {
		opt(t)
	}
	if t.id == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("generating task id: %w", err)
		}
		t.id = id.String()
	}
	return t, nil
}

func (t *funcTask[T]) ExecutorID() string                    { return t.id }
func (t *funcTask[T]) Execute(ctx context.Context) (T, error) { return t.fn(ctx) }
func (t *funcTask[T]) Timeout() time.Duration                 { return t.timeout }

func (t *funcTask[T]) OnError(err error) {
	if t.onError != nil {
		t.onError(err)
	}
}
