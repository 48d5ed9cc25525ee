package item

import (
	"context"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	"github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// NoOpItemReader is an implementation of [port.ItemReader] that is always
// exhausted.
type NoOpItemReader[O any] struct{}

// NewNoOpItemReader creates a new instance of [NoOpItemReader].
func NewNoOpItemReader[O any]() port.ItemReader[O] {
	return &NoOpItemReader[O]{}
}

// Read always returns the zero value of type O and [port.ErrNoMoreItems].
func (r *NoOpItemReader[O]) Read(ctx context.Context) (O, error) {
	var zero O
	return zero, port.ErrNoMoreItems
}

// NoOpItemWriter is an implementation of [port.ItemWriter] that discards
// everything written to it.
type NoOpItemWriter[I any] struct{}

// NewNoOpItemWriter creates a new instance of [NoOpItemWriter].
func NewNoOpItemWriter[I any]() port.ItemWriter[I] {
	return &NoOpItemWriter[I]{}
}

// Open does nothing.
func (w *NoOpItemWriter[I]) Open(ctx context.Context) error {
	logger.Debugf("NoOpItemWriter: Open called.")
	return nil
}

// Write discards the items.
func (w *NoOpItemWriter[I]) Write(ctx context.Context, items []I) error {
	logger.Debugf("NoOpItemWriter: Write called with %d items.", len(items))
	return nil
}

// Flush does nothing.
func (w *NoOpItemWriter[I]) Flush(ctx context.Context) error {
	return nil
}

// Close does nothing.
func (w *NoOpItemWriter[I]) Close(ctx context.Context) error {
	logger.Debugf("NoOpItemWriter: Close called.")
	return nil
}

var _ port.ItemReader[any] = (*NoOpItemReader[any])(nil)
var _ port.ItemWriter[any] = (*NoOpItemWriter[any])(nil)
