package item

import (
	"context"
	"sync"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	"github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// SliceItemReader is an implementation of [port.ItemReader] that reads items
// from an in-memory slice. Once the slice is exhausted it keeps returning
// [port.ErrNoMoreItems] on every subsequent call.
type SliceItemReader[O any] struct {
	mu    sync.Mutex
	items []O
	pos   int
}

// NewSliceItemReader creates a new SliceItemReader over the given items.
// The slice is not copied; callers must not mutate it while the reader is in use.
func NewSliceItemReader[O any](items []O) *SliceItemReader[O] {
	return &SliceItemReader[O]{items: items}
}

// Read returns the next item, or [port.ErrNoMoreItems] once exhausted.
func (r *SliceItemReader[O]) Read(ctx context.Context) (O, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero O
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if r.pos >= len(r.items) {
		return zero, port.ErrNoMoreItems
	}
	item := r.items[r.pos]
	r.pos++
	return item, nil
}

// Reset rewinds the reader to the first item.
func (r *SliceItemReader[O]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	logger.Debugf("SliceItemReader: reset to first of %d items.", len(r.items))
	r.pos = 0
}

var _ port.ItemReader[any] = (*SliceItemReader[any])(nil)
