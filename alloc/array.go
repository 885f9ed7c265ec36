package alloc

import (
	"sync"

	"github.com/rotisserie/eris"
)

// ArrayAllocator is a single fixed-capacity block. Allocation fails once all
// slots are taken and succeeds again after a slot is returned.
type ArrayAllocator[T any] struct {
	mu    sync.RWMutex
	block *FixedBlock[T]
}

// NewArrayAllocator creates an allocator with room for capacity instances.
func NewArrayAllocator[T any](capacity int) *ArrayAllocator[T] {
	return &ArrayAllocator[T]{
		block: NewFixedBlock[T](capacity),
	}
}

// Allocate returns storage for one instance of T.
func (a *ArrayAllocator[T]) Allocate() (*T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ptr, err := a.block.Allocate()
	if err != nil {
		return nil, eris.Wrapf(err, "array allocator full at %d instances", a.block.Capacity())
	}
	return ptr, nil
}

// Deallocate returns ptr to the allocator.
func (a *ArrayAllocator[T]) Deallocate(ptr *T) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.block.Index(ptr)
	if i < 0 || !a.block.IsOccupied(i) {
		return eris.Wrap(ErrNotOwned, "array allocator")
	}
	a.block.Deallocate(ptr)
	return nil
}

// ForEach calls visit for every live instance in slot order.
func (a *ArrayAllocator[T]) ForEach(visit func(*T)) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	a.block.forEachOccupied(visit)
}

// ForEachWhere calls visit for every live instance accepted by filter.
func (a *ArrayAllocator[T]) ForEachWhere(visit func(*T), filter func(*T) bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	a.block.forEachOccupied(func(t *T) {
		if filter(t) {
			visit(t)
		}
	})
}

// Count returns the number of live instances.
func (a *ArrayAllocator[T]) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.block.Count()
}

// CountWhere returns the number of live instances accepted by filter.
func (a *ArrayAllocator[T]) CountWhere(filter func(*T) bool) int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := 0
	a.block.forEachOccupied(func(t *T) {
		if filter(t) {
			n++
		}
	})
	return n
}

// Capacity returns the fixed number of slots.
func (a *ArrayAllocator[T]) Capacity() int {
	return a.block.Capacity()
}

// ChunkCount always reports the single backing block.
func (a *ArrayAllocator[T]) ChunkCount() int {
	return 1
}
