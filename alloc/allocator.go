// Package alloc provides pooled storage strategies for fixed-layout records.
//
// Every strategy hands out stable pointers to uninitialised slots and keeps
// track of every live allocation so the pool can be iterated and counted.
// They differ in how they grow:
//
//   - ArrayAllocator: one fixed block, fails once full
//   - ChunkAllocator: a list of fixed blocks, grows and shrinks on demand
//   - LinkedAllocator: one heap node per instance, unbounded
//   - SingletonAllocator: at most one instance
//
// All strategies are safe for concurrent use. Iteration and counting take a
// shared lock, allocation and deallocation an exclusive one.
package alloc

import "errors"

var (
	// ErrCapacityExhausted is returned by Allocate when a bounded allocator is full.
	ErrCapacityExhausted = errors.New("allocator capacity exhausted")
	// ErrNotOwned is returned by Deallocate for a pointer the allocator did not
	// issue or has already taken back.
	ErrNotOwned = errors.New("pointer is not owned by this allocator")
	// ErrAlreadyAllocated is returned when a singleton allocator already holds
	// its instance.
	ErrAlreadyAllocated = errors.New("singleton instance already allocated")
)

// Allocator is the operation set a pooling strategy must provide for
// records of type T. Allocate returns uninitialised storage, Deallocate takes
// it back without tearing the value down.
type Allocator[T any] interface {
	Allocate() (*T, error)
	Deallocate(ptr *T) error
	ForEach(visit func(*T))
	ForEachWhere(visit func(*T), filter func(*T) bool)
	Count() int
	CountWhere(filter func(*T) bool) int
}

// ChunkCounter is implemented by allocators that can report how many
// backing blocks they currently hold.
type ChunkCounter interface {
	ChunkCount() int
}

var (
	_ Allocator[int] = (*ArrayAllocator[int])(nil)
	_ Allocator[int] = (*ChunkAllocator[int])(nil)
	_ Allocator[int] = (*LinkedAllocator[int])(nil)
	_ Allocator[int] = (*SingletonAllocator[int])(nil)

	_ ChunkCounter = (*ArrayAllocator[int])(nil)
	_ ChunkCounter = (*ChunkAllocator[int])(nil)
	_ ChunkCounter = (*LinkedAllocator[int])(nil)
	_ ChunkCounter = (*SingletonAllocator[int])(nil)
)
