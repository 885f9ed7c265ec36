package alloc

import (
	"sync"

	"github.com/rotisserie/eris"
)

type linkedNode[T any] struct {
	prev, next *linkedNode[T]
	value      T
}

// LinkedAllocator keeps every instance in its own heap node on an intrusive
// doubly-linked list. Allocation appends at the tail; deallocation scans the
// list for the node holding the pointer.
type LinkedAllocator[T any] struct {
	mu    sync.RWMutex
	front *linkedNode[T]
	back  *linkedNode[T]
	size  int
}

// NewLinkedAllocator creates an empty allocator.
func NewLinkedAllocator[T any]() *LinkedAllocator[T] {
	return &LinkedAllocator[T]{}
}

// Allocate appends a new node and returns its storage.
func (a *LinkedAllocator[T]) Allocate() (*T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := &linkedNode[T]{prev: a.back}
	if a.back == nil {
		a.front = n
	} else {
		a.back.next = n
	}
	a.back = n
	a.size++
	return &n.value, nil
}

// Deallocate unlinks the node holding ptr.
func (a *LinkedAllocator[T]) Deallocate(ptr *T) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for n := a.front; n != nil; n = n.next {
		if &n.value != ptr {
			continue
		}

		switch {
		case n.prev != nil && n.next != nil:
			n.prev.next = n.next
			n.next.prev = n.prev
		case n.prev != nil:
			// back
			n.prev.next = nil
			a.back = n.prev
		case n.next != nil:
			// front
			n.next.prev = nil
			a.front = n.next
		default:
			a.front = nil
			a.back = nil
		}
		n.prev, n.next = nil, nil
		a.size--
		return nil
	}

	return eris.Wrap(ErrNotOwned, "linked allocator")
}

// ForEach calls visit for every live instance in allocation order.
func (a *LinkedAllocator[T]) ForEach(visit func(*T)) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for n := a.front; n != nil; n = n.next {
		visit(&n.value)
	}
}

// ForEachWhere calls visit for every live instance accepted by filter.
func (a *LinkedAllocator[T]) ForEachWhere(visit func(*T), filter func(*T) bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for n := a.front; n != nil; n = n.next {
		if filter(&n.value) {
			visit(&n.value)
		}
	}
}

// Count returns the number of live instances.
func (a *LinkedAllocator[T]) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.size
}

// CountWhere returns the number of live instances accepted by filter.
func (a *LinkedAllocator[T]) CountWhere(filter func(*T) bool) int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	count := 0
	for n := a.front; n != nil; n = n.next {
		if filter(&n.value) {
			count++
		}
	}
	return count
}

// ChunkCount reports one node per live instance.
func (a *LinkedAllocator[T]) ChunkCount() int {
	return a.Count()
}
