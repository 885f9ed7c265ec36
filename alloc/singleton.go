package alloc

import (
	"sync"

	"github.com/rotisserie/eris"
)

// SingletonAllocator holds at most one instance.
type SingletonAllocator[T any] struct {
	mu       sync.RWMutex
	instance *T
}

// NewSingletonAllocator creates an empty allocator.
func NewSingletonAllocator[T any]() *SingletonAllocator[T] {
	return &SingletonAllocator[T]{}
}

// Allocate returns storage for the instance, or ErrAlreadyAllocated while
// one is outstanding.
func (a *SingletonAllocator[T]) Allocate() (*T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.instance != nil {
		return nil, eris.Wrap(ErrAlreadyAllocated, "singleton allocator")
	}
	a.instance = new(T)
	return a.instance, nil
}

// Deallocate releases the instance.
func (a *SingletonAllocator[T]) Deallocate(ptr *T) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if ptr == nil || ptr != a.instance {
		return eris.Wrap(ErrNotOwned, "singleton allocator")
	}
	a.instance = nil
	return nil
}

// ForEach calls visit with the instance if there is one.
func (a *SingletonAllocator[T]) ForEach(visit func(*T)) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.instance != nil {
		visit(a.instance)
	}
}

// ForEachWhere calls visit with the instance if there is one and filter accepts it.
func (a *SingletonAllocator[T]) ForEachWhere(visit func(*T), filter func(*T) bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.instance != nil && filter(a.instance) {
		visit(a.instance)
	}
}

// Count returns 1 while the instance is allocated, otherwise 0.
func (a *SingletonAllocator[T]) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.instance != nil {
		return 1
	}
	return 0
}

// CountWhere returns 1 if the instance exists and filter accepts it.
func (a *SingletonAllocator[T]) CountWhere(filter func(*T) bool) int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.instance != nil && filter(a.instance) {
		return 1
	}
	return 0
}

// ChunkCount is the same as Count.
func (a *SingletonAllocator[T]) ChunkCount() int {
	return a.Count()
}
