package alloc_test

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/ecspool/alloc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	I int
	D float64
}

func TestFixedBlockAllocatesLowestFreeSlot(t *testing.T) {
	block := alloc.NewFixedBlock[sample](4)

	assert.True(t, block.Empty())
	assert.False(t, block.Full())
	assert.Equal(t, 4, block.Capacity())

	p0, err := block.Allocate()
	require.NoError(t, err)
	p1, err := block.Allocate()
	require.NoError(t, err)
	p2, err := block.Allocate()
	require.NoError(t, err)

	assert.Same(t, block.At(0), p0)
	assert.Same(t, block.At(1), p1)
	assert.Same(t, block.At(2), p2)

	block.Deallocate(p1)
	assert.False(t, block.IsOccupied(1))

	p, err := block.Allocate()
	require.NoError(t, err)
	assert.Same(t, p1, p, "freed slot should be reused before higher slots")
}

func TestFixedBlockFull(t *testing.T) {
	block := alloc.NewFixedBlock[sample](3)
	for range 3 {
		_, err := block.Allocate()
		require.NoError(t, err)
	}

	assert.True(t, block.Full())
	assert.Equal(t, 3, block.Count())

	_, err := block.Allocate()
	assert.ErrorIs(t, err, alloc.ErrCapacityExhausted)
}

func TestFixedBlockWordBoundary(t *testing.T) {
	block := alloc.NewFixedBlock[sample](130)
	ptrs := make([]*sample, 0, 130)
	for range 130 {
		p, err := block.Allocate()
		require.NoError(t, err)
		ptrs = append(ptrs, p)
	}
	assert.True(t, block.Full())

	block.Deallocate(ptrs[64])
	block.Deallocate(ptrs[129])
	assert.Equal(t, 128, block.Count())
	assert.False(t, block.IsOccupied(64))
	assert.False(t, block.IsOccupied(129))

	p, err := block.Allocate()
	require.NoError(t, err)
	assert.Same(t, ptrs[64], p)
}

func TestFixedBlockOwnsPointer(t *testing.T) {
	block := alloc.NewFixedBlock[sample](8)
	other := alloc.NewFixedBlock[sample](8)

	assert.True(t, block.OwnsPointer(block.At(0)))
	assert.True(t, block.OwnsPointer(block.At(7)))
	assert.False(t, block.OwnsPointer(other.At(0)))
	assert.False(t, block.OwnsPointer(&sample{}))
	assert.False(t, block.OwnsPointer(nil))

	// bounds only, occupancy is not checked
	assert.False(t, block.IsOccupied(3))
	assert.True(t, block.OwnsPointer(block.At(3)))
	assert.Equal(t, 3, block.Index(block.At(3)))
}

func TestFixedBlockDeallocateForeignPointerPanics(t *testing.T) {
	block := alloc.NewFixedBlock[sample](2)
	assert.Panics(t, func() {
		block.Deallocate(&sample{})
	})
}

func TestFixedBlockInvalidConstruction(t *testing.T) {
	assert.Panics(t, func() { alloc.NewFixedBlock[sample](0) })
	assert.Panics(t, func() { alloc.NewFixedBlock[struct{}](4) })
}

// Count and IsOccupied track a model of live slots through a random
// sequence of allocations and frees.
func TestFixedBlockOccupancyMatchesModel(t *testing.T) {
	const capacity = 100
	block := alloc.NewFixedBlock[sample](capacity)
	rng := rand.New(rand.NewPCG(7, 11))
	live := make(map[*sample]struct{})

	for step := 0; step < 5000; step++ {
		if len(live) == 0 || (rng.IntN(2) == 0 && !block.Full()) {
			p, err := block.Allocate()
			require.NoError(t, err)
			_, dup := live[p]
			require.False(t, dup, "slot handed out twice")
			live[p] = struct{}{}
		} else {
			for p := range live {
				block.Deallocate(p)
				delete(live, p)
				break
			}
		}

		require.Equal(t, len(live), block.Count())
		if step%250 == 0 {
			for i := 0; i < capacity; i++ {
				_, ok := live[block.At(i)]
				require.Equal(t, ok, block.IsOccupied(i), "slot %d", i)
			}
		}
	}
}
