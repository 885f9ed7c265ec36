package alloc

import (
	"math/bits"
	"unsafe"
)

// FixedBlock is a fixed-capacity slab of storage for instances of T with an
// occupancy bitmap. It never initialises or clears the slots it hands out:
// callers construct a value in place after Allocate and tear it down before
// Deallocate.
//
// FixedBlock does no locking. Callers serialise access.
type FixedBlock[T any] struct {
	slots    []T
	occupied []uint64
}

// NewFixedBlock creates a block holding exactly capacity instances of T.
func NewFixedBlock[T any](capacity int) *FixedBlock[T] {
	if capacity <= 0 {
		panic("block capacity must be greater than zero")
	}
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		panic("zero-sized types cannot be pooled")
	}

	return &FixedBlock[T]{
		slots:    make([]T, capacity),
		occupied: make([]uint64, (capacity+63)/64),
	}
}

// Capacity returns the number of slots in the block.
func (b *FixedBlock[T]) Capacity() int {
	return len(b.slots)
}

// Count returns the number of occupied slots.
func (b *FixedBlock[T]) Count() int {
	n := 0
	for _, word := range b.occupied {
		n += bits.OnesCount64(word)
	}
	return n
}

// Empty reports whether no slot is occupied.
func (b *FixedBlock[T]) Empty() bool {
	for _, word := range b.occupied {
		if word != 0 {
			return false
		}
	}
	return true
}

// Full reports whether every slot is occupied.
func (b *FixedBlock[T]) Full() bool {
	return b.firstFree() < 0
}

// IsOccupied reports whether slot i holds a live value.
func (b *FixedBlock[T]) IsOccupied(i int) bool {
	return b.occupied[i>>6]&(uint64(1)<<uint(i&63)) != 0
}

// At returns a pointer to slot i whether or not it is occupied.
func (b *FixedBlock[T]) At(i int) *T {
	return &b.slots[i]
}

// OwnsPointer reports whether p lies inside this block's storage. It does
// not check that the slot is occupied.
func (b *FixedBlock[T]) OwnsPointer(p *T) bool {
	return b.Index(p) >= 0
}

// Index returns the slot index of p, or -1 if p is outside the block.
func (b *FixedBlock[T]) Index(p *T) int {
	if p == nil {
		return -1
	}
	base := uintptr(unsafe.Pointer(&b.slots[0]))
	addr := uintptr(unsafe.Pointer(p))
	stride := unsafe.Sizeof(b.slots[0])
	if addr < base || addr > base+stride*uintptr(len(b.slots)-1) {
		return -1
	}
	offset := addr - base
	if offset%stride != 0 {
		return -1
	}
	return int(offset / stride)
}

// Allocate marks the lowest free slot as occupied and returns it.
func (b *FixedBlock[T]) Allocate() (*T, error) {
	i := b.firstFree()
	if i < 0 {
		return nil, ErrCapacityExhausted
	}
	b.occupied[i>>6] |= uint64(1) << uint(i&63)
	return &b.slots[i], nil
}

// Deallocate clears the occupancy bit for p. The value at p must already
// be torn down. Panics if p does not belong to the block; multi-block
// callers check OwnsPointer first.
func (b *FixedBlock[T]) Deallocate(p *T) {
	i := b.Index(p)
	if i < 0 {
		panic("pointer is not owned by this block")
	}
	b.occupied[i>>6] &^= uint64(1) << uint(i&63)
}

func (b *FixedBlock[T]) firstFree() int {
	for w, word := range b.occupied {
		if word == ^uint64(0) {
			continue
		}
		i := w<<6 + bits.TrailingZeros64(^word)
		if i >= len(b.slots) {
			return -1
		}
		return i
	}
	return -1
}

// forEachOccupied calls fn for every occupied slot in index order.
func (b *FixedBlock[T]) forEachOccupied(fn func(*T)) {
	for w, word := range b.occupied {
		for word != 0 {
			i := w<<6 + bits.TrailingZeros64(word)
			fn(&b.slots[i])
			word &= word - 1
		}
	}
}
