package alloc

import (
	"slices"
	"sync"

	"github.com/rotisserie/eris"
)

// DefaultChunkSize is the block size used when none is given.
const DefaultChunkSize = 64

// ChunkAllocator stores instances in a list of fixed-size blocks. A block is
// appended when every existing block is full and released as soon as it
// becomes empty.
type ChunkAllocator[T any] struct {
	mu        sync.RWMutex
	chunkSize int
	maxChunks int
	chunks    []*FixedBlock[T]
}

// ChunkOption configures a ChunkAllocator.
type ChunkOption func(*chunkConfig)

type chunkConfig struct {
	maxChunks int
}

// WithMaxChunks caps the number of blocks. Zero means unbounded.
func WithMaxChunks(n int) ChunkOption {
	return func(c *chunkConfig) {
		c.maxChunks = n
	}
}

// NewChunkAllocator creates an allocator with blocks of chunkSize instances.
// A chunkSize of zero or less selects DefaultChunkSize.
func NewChunkAllocator[T any](chunkSize int, opts ...ChunkOption) *ChunkAllocator[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	cfg := chunkConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxChunks < 0 {
		panic("max chunks cannot be negative")
	}

	return &ChunkAllocator[T]{
		chunkSize: chunkSize,
		maxChunks: cfg.maxChunks,
	}
}

// Allocate returns storage from the first block with a free slot, appending
// a new block when all are full.
func (a *ChunkAllocator[T]) Allocate() (*T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, chunk := range a.chunks {
		if !chunk.Full() {
			return chunk.Allocate()
		}
	}

	if a.maxChunks > 0 && len(a.chunks) >= a.maxChunks {
		return nil, eris.Wrapf(ErrCapacityExhausted, "chunk allocator capped at %d chunks of %d", a.maxChunks, a.chunkSize)
	}

	chunk := NewFixedBlock[T](a.chunkSize)
	a.chunks = append(a.chunks, chunk)
	return chunk.Allocate()
}

// Deallocate returns ptr to its block and drops the block if it is now empty.
func (a *ChunkAllocator[T]) Deallocate(ptr *T) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, chunk := range a.chunks {
		idx := chunk.Index(ptr)
		if idx < 0 {
			continue
		}
		if !chunk.IsOccupied(idx) {
			break
		}

		chunk.Deallocate(ptr)
		if chunk.Empty() {
			a.chunks = slices.Delete(a.chunks, i, i+1)
		}
		return nil
	}

	return eris.Wrap(ErrNotOwned, "chunk allocator")
}

// ForEach calls visit for every live instance in block order, then slot order.
func (a *ChunkAllocator[T]) ForEach(visit func(*T)) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, chunk := range a.chunks {
		chunk.forEachOccupied(visit)
	}
}

// ForEachWhere calls visit for every live instance accepted by filter.
func (a *ChunkAllocator[T]) ForEachWhere(visit func(*T), filter func(*T) bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, chunk := range a.chunks {
		chunk.forEachOccupied(func(t *T) {
			if filter(t) {
				visit(t)
			}
		})
	}
}

// Count returns the number of live instances.
func (a *ChunkAllocator[T]) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := 0
	for _, chunk := range a.chunks {
		n += chunk.Count()
	}
	return n
}

// CountWhere returns the number of live instances accepted by filter.
func (a *ChunkAllocator[T]) CountWhere(filter func(*T) bool) int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := 0
	for _, chunk := range a.chunks {
		chunk.forEachOccupied(func(t *T) {
			if filter(t) {
				n++
			}
		})
	}
	return n
}

// ChunkCount returns the number of blocks currently held.
func (a *ChunkAllocator[T]) ChunkCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.chunks)
}

// ChunkSize returns the number of instances per block.
func (a *ChunkAllocator[T]) ChunkSize() int {
	return a.chunkSize
}

// MaxChunks returns the block cap, zero when unbounded.
func (a *ChunkAllocator[T]) MaxChunks() int {
	return a.maxChunks
}
