package item

import (
	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
)

// Chunk is the bounded item buffer filled by the read phase of a
// chunk-oriented step. It holds at most its configured capacity and reports
// its fill state as a ChunkStatus.
type Chunk[I any] struct {
	items    []I
	capacity int
}

// NewChunk creates an empty Chunk with the given capacity.
func NewChunk[I any](capacity int) *Chunk[I] {
	return &Chunk[I]{
		items:    make([]I, 0, capacity),
		capacity: capacity,
	}
}

// Add appends an item to the buffer. Adding beyond capacity is a programming
// error on the caller's side; the buffer does not grow past it.
func (c *Chunk[I]) Add(item I) {
	c.items = append(c.items, item)
}

// Items returns the buffered items in read order.
func (c *Chunk[I]) Items() []I {
	return c.items
}

// Size returns the number of buffered items.
func (c *Chunk[I]) Size() int {
	return len(c.items)
}

// IsFull reports whether the buffer reached its capacity.
func (c *Chunk[I]) IsFull() bool {
	return len(c.items) >= c.capacity
}

// Status returns the fill state of the buffer as a ChunkStatus.
func (c *Chunk[I]) Status() model.ChunkStatus {
	if c.IsFull() {
		return model.ChunkFull
	}
	return model.ChunkContinuable
}
