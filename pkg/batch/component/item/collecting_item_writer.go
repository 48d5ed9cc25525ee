package item

import (
	"context"
	"sync"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	"github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// CollectingItemWriter is an implementation of [port.ItemWriter] that buffers
// written batches in memory. Write stages a batch; Flush makes it visible in
// Batches. It also counts its lifecycle calls, which makes it useful as an
// in-memory sink in tests and examples.
type CollectingItemWriter[I any] struct {
	mu      sync.Mutex
	pending [][]I
	batches [][]I

	openCount  int
	flushCount int
	closeCount int
}

// NewCollectingItemWriter creates a new instance of [CollectingItemWriter].
func NewCollectingItemWriter[I any]() *CollectingItemWriter[I] {
	return &CollectingItemWriter[I]{}
}

// Open marks the writer ready and counts the call.
func (w *CollectingItemWriter[I]) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.openCount++
	logger.Debugf("CollectingItemWriter: Open called.")
	return nil
}

// Write stages a batch; it becomes visible after the next Flush.
func (w *CollectingItemWriter[I]) Write(ctx context.Context, items []I) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	batch := make([]I, len(items))
	copy(batch, items)
	w.pending = append(w.pending, batch)
	return nil
}

// Flush commits all staged batches.
func (w *CollectingItemWriter[I]) Flush(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.flushCount++
	w.batches = append(w.batches, w.pending...)
	w.pending = nil
	return nil
}

// Close counts the call. Staged but unflushed batches are discarded.
func (w *CollectingItemWriter[I]) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeCount++
	w.pending = nil
	logger.Debugf("CollectingItemWriter: Close called with %d committed batches.", len(w.batches))
	return nil
}

// Batches returns the flushed batches in write order.
func (w *CollectingItemWriter[I]) Batches() [][]I {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]I, len(w.batches))
	copy(out, w.batches)
	return out
}

// Items returns all flushed items flattened in write order.
func (w *CollectingItemWriter[I]) Items() []I {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []I
	for _, b := range w.batches {
		out = append(out, b...)
	}
	return out
}

// OpenCount returns how many times Open was called.
func (w *CollectingItemWriter[I]) OpenCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.openCount
}

// FlushCount returns how many times Flush was called.
func (w *CollectingItemWriter[I]) FlushCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushCount
}

// CloseCount returns how many times Close was called.
func (w *CollectingItemWriter[I]) CloseCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeCount
}

var _ port.ItemWriter[any] = (*CollectingItemWriter[any])(nil)
