package ecs_test

import (
	"testing"

	"github.com/plus3/ecspool/alloc"
	"github.com/plus3/ecspool/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNewEntityIsMonotonic(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	prev := ecs.GlobalEntity
	for range 100 {
		id := storage.NewEntity()
		assert.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, ecs.EntityId(100), prev)
}

func TestNewEntityConcurrent(t *testing.T) {
	const workers, perWorker = 8, 500
	storage := ecs.NewStorage(nil)

	ids := make([][]ecs.EntityId, workers)
	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			for range perWorker {
				ids[w] = append(ids[w], storage.NewEntity())
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[ecs.EntityId]bool, workers*perWorker)
	for _, batch := range ids {
		for _, id := range batch {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, workers*perWorker)
	for id := ecs.EntityId(1); id <= workers*perWorker; id++ {
		assert.True(t, seen[id], "missing id %d", id)
	}
}

func TestCreateAndFind(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	entity := storage.NewEntity()

	pos, err := ecs.Create(storage, entity, Position{X: 3, Y: 4})
	require.NoError(t, err)

	assert.Equal(t, entity, pos.Entity())
	assert.Equal(t, Position{X: 3, Y: 4}, pos.Data)
	assert.Same(t, pos, ecs.FindOne[Position](storage, entity))
	assert.Nil(t, ecs.FindOne[Velocity](storage, entity))
	assert.Nil(t, ecs.FindOne[Position](storage, storage.NewEntity()))

	require.NoError(t, pos.Delete())
	assert.Nil(t, ecs.FindOne[Position](storage, entity))
	assert.Equal(t, 0, ecs.Count[Position](storage))
}

func TestConstruct(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	entity := storage.NewEntity()

	health, err := ecs.PoolOf[Health](storage).Construct(entity, func(h *Health) {
		h.Max = 100
		h.Current = h.Max / 2
	})
	require.NoError(t, err)
	assert.Equal(t, Health{Current: 50, Max: 100}, health.Data)
	assert.Same(t, health, ecs.FindOne[Health](storage, entity))
}

func TestFindAll(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	entity := storage.NewEntity()
	other := storage.NewEntity()

	a, err := ecs.Create(storage, entity, Tag("a"))
	require.NoError(t, err)
	b, err := ecs.Create(storage, entity, Tag("b"))
	require.NoError(t, err)
	_, err = ecs.Create(storage, other, Tag("c"))
	require.NoError(t, err)

	out := []*ecs.Component[Tag]{nil}
	n := ecs.FindAll(storage, entity, &out)
	assert.Equal(t, 2, n)
	require.Len(t, out, 3)
	assert.Nil(t, out[0])
	assert.ElementsMatch(t, []*ecs.Component[Tag]{a, b}, out[1:])

	assert.Len(t, storage.Components(entity), 2)
}

func TestDeleteTwice(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	c, err := ecs.Create(storage, storage.NewEntity(), Counter{N: 1})
	require.NoError(t, err)
	require.NoError(t, c.Delete())
	assert.False(t, c.Alive())
	assert.ErrorIs(t, c.Delete(), ecs.ErrComponentDeleted)
	assert.ErrorIs(t, c.Attach(storage.NewEntity()), ecs.ErrComponentDeleted)
}

func TestDeleteRunsDestroyer(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	destroyed := 0

	var created []*ecs.Component[Resource]
	for range 5 {
		c, err := ecs.Create(storage, storage.NewEntity(), Resource{destroyed: &destroyed})
		require.NoError(t, err)
		created = append(created, c)
	}

	for i, c := range created {
		require.NoError(t, c.Delete())
		assert.Equal(t, i+1, destroyed)
	}
}

func TestDefaultHintsGrowAndShrink(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	entity := storage.NewEntity()

	var created []*ecs.Component[Counter]
	for i := range 65 {
		c, err := ecs.Create(storage, entity, Counter{N: i})
		require.NoError(t, err)
		created = append(created, c)
	}
	assert.Equal(t, 65, ecs.Count[Counter](storage))
	assert.Equal(t, 2, ecs.ChunkCount[Counter](storage))

	for _, c := range created {
		require.NoError(t, c.Delete())
	}
	assert.Equal(t, 0, ecs.Count[Counter](storage))
	assert.Equal(t, 0, ecs.ChunkCount[Counter](storage))
}

func TestFixedHintsCapCapacity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	pool := ecs.PoolOf[Boss](storage)
	assert.Equal(t, ecs.Hints{BlockSize: 10, AutoResize: false}, pool.Hints())

	var created []*ecs.Component[Boss]
	for i := range 10 {
		c, err := pool.Create(storage.NewEntity(), Boss{Level: i})
		require.NoError(t, err)
		created = append(created, c)
	}

	_, err := pool.Create(storage.NewEntity(), Boss{Level: 10})
	require.ErrorIs(t, err, ecs.ErrCapacityExhausted)
	assert.Equal(t, 10, pool.Count())
	assert.Equal(t, 1, pool.ChunkCount())

	require.NoError(t, created[3].Delete())
	_, err = pool.Create(storage.NewEntity(), Boss{Level: 11})
	assert.NoError(t, err)
	assert.Equal(t, 10, pool.Count())
}

func TestAttachMovesComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	e1, e2 := storage.NewEntity(), storage.NewEntity()

	a, err := ecs.Create(storage, e1, Position{X: 1})
	require.NoError(t, err)
	b, err := ecs.Create(storage, e2, Velocity{DX: 2})
	require.NoError(t, err)

	require.NoError(t, a.Attach(e2))

	assert.Nil(t, ecs.FindOne[Position](storage, e1))
	assert.Same(t, a, ecs.FindOne[Position](storage, e2))
	assert.Same(t, b, ecs.FindOne[Velocity](storage, e2))
	assert.Equal(t, e2, a.Entity())
	assert.Empty(t, storage.Components(e1))
	assert.Len(t, storage.Components(e2), 2)

	require.NoError(t, a.Attach(e2))
	assert.Len(t, storage.Components(e2), 2)
}

func TestDeleteEntityCascades(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	doomed, survivor := storage.NewEntity(), storage.NewEntity()

	for range 3 {
		_, err := ecs.Create(storage, doomed, Position{})
		require.NoError(t, err)
	}
	_, err := ecs.Create(storage, doomed, Health{Current: 1})
	require.NoError(t, err)
	_, err = ecs.Create(storage, survivor, Position{X: 9})
	require.NoError(t, err)
	keep, err := ecs.Create(storage, survivor, Health{Current: 2})
	require.NoError(t, err)

	n, err := storage.DeleteEntity(doomed)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, 1, ecs.Count[Position](storage))
	assert.Equal(t, 1, ecs.Count[Health](storage))
	assert.Empty(t, storage.Components(doomed))
	assert.Same(t, keep, ecs.FindOne[Health](storage, survivor))

	n, err = storage.DeleteEntity(doomed)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDeleteEntitySkipsComponentsMovedAway(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	doomed, survivor := storage.NewEntity(), storage.NewEntity()

	var moved *ecs.Component[Position]
	_, err := ecs.Create(storage, doomed, Handoff{onDestroy: func() {
		assert.NoError(t, moved.Attach(survivor))
	}})
	require.NoError(t, err)
	moved, err = ecs.Create(storage, doomed, Position{X: 3})
	require.NoError(t, err)

	n, err := storage.DeleteEntity(doomed)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.True(t, moved.Alive())
	assert.Equal(t, survivor, moved.Entity())
	assert.Same(t, moved, ecs.FindOne[Position](storage, survivor))
	assert.Equal(t, float32(3), moved.Data.X)
	assert.Empty(t, storage.Components(doomed))
}

// rejectingAllocator refuses every Deallocate.
type rejectingAllocator[T any] struct {
	*alloc.ArrayAllocator[T]
}

func (rejectingAllocator[T]) Deallocate(*T) error {
	return alloc.ErrNotOwned
}

func TestFailedDeallocateLeavesComponentLive(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponentAllocator[Score](registry, func(ecs.Hints) rejectingAllocator[ecs.Component[Score]] {
		return rejectingAllocator[ecs.Component[Score]]{alloc.NewArrayAllocator[ecs.Component[Score]](4)}
	})
	storage := ecs.NewStorage(registry)
	entity := storage.NewEntity()

	c, err := ecs.Create(storage, entity, Score(7))
	require.NoError(t, err)

	assert.ErrorIs(t, c.Delete(), alloc.ErrNotOwned)
	assert.True(t, c.Alive())
	assert.Equal(t, Score(7), c.Data)
	assert.Same(t, c, ecs.FindOne[Score](storage, entity))
	assert.Equal(t, 1, ecs.Count[Score](storage))

	n, err := storage.DeleteEntity(entity)
	assert.ErrorIs(t, err, alloc.ErrNotOwned)
	assert.Equal(t, 0, n)
	assert.Len(t, storage.Components(entity), 1)
}

func TestDeleteGlobalEntityIsIgnored(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	_, err := ecs.Create(storage, ecs.GlobalEntity, Name{Value: "world"})
	require.NoError(t, err)

	n, err := storage.DeleteEntity(ecs.GlobalEntity)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NotNil(t, ecs.FindOne[Name](storage, ecs.GlobalEntity))
}

func TestForEachAndCForEach(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	pool := ecs.PoolOf[Counter](storage)

	var created []*ecs.Component[Counter]
	for range 200 {
		c, err := pool.Create(storage.NewEntity(), Counter{N: 10})
		require.NoError(t, err)
		created = append(created, c)
	}
	for i := 0; i < len(created); i += 5 {
		require.NoError(t, created[i].Delete())
	}

	sum := 0
	pool.CForEach(func(c ecs.ConstRef[Counter]) {
		sum += c.Value().N
	})
	assert.Equal(t, 1600, sum)

	pool.ForEach(func(c *ecs.Component[Counter]) {
		c.Data.N++
	})

	sum = 0
	ecs.CForEach(storage, func(c ecs.ConstRef[Counter]) {
		sum += c.Value().N
	})
	assert.Equal(t, 1760, sum)

	odd := func(c ecs.ConstRef[Counter]) bool { return c.Entity()%2 == 1 }
	visited := 0
	pool.ForEachWhere(func(c *ecs.Component[Counter]) {
		visited++
		assert.Equal(t, ecs.EntityId(1), c.Entity()%2)
	}, odd)
	assert.Equal(t, pool.CountWhere(odd), visited)

	visited = 0
	pool.CForEachWhere(func(ecs.ConstRef[Counter]) { visited++ }, odd)
	assert.Equal(t, pool.CountWhere(odd), visited)
}

func TestCustomAllocator(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponentAllocator[Name](registry, func(h ecs.Hints) *alloc.ArrayAllocator[ecs.Component[Name]] {
		return alloc.NewArrayAllocator[ecs.Component[Name]](2)
	})
	ecs.RegisterComponentAllocator[Tag](registry, func(ecs.Hints) *alloc.LinkedAllocator[ecs.Component[Tag]] {
		return alloc.NewLinkedAllocator[ecs.Component[Tag]]()
	})
	storage := ecs.NewStorage(registry)

	for range 2 {
		_, err := ecs.Create(storage, storage.NewEntity(), Name{})
		require.NoError(t, err)
	}
	_, err := ecs.Create(storage, storage.NewEntity(), Name{})
	assert.ErrorIs(t, err, ecs.ErrCapacityExhausted)

	entity := storage.NewEntity()
	for range 100 {
		_, err := ecs.Create(storage, entity, Tag("x"))
		require.NoError(t, err)
	}
	assert.Equal(t, 100, ecs.Count[Tag](storage))
	assert.Equal(t, 100, ecs.ChunkCount[Tag](storage))

	n, err := storage.DeleteEntity(entity)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, 0, ecs.ChunkCount[Tag](storage))
}

func TestStoragesAreIndependent(t *testing.T) {
	registry := newTestRegistry()
	s1 := ecs.NewStorage(registry)
	s2 := ecs.NewStorage(registry)

	_, err := ecs.Create(s1, s1.NewEntity(), Position{})
	require.NoError(t, err)

	assert.Equal(t, 1, ecs.Count[Position](s1))
	assert.Equal(t, 0, ecs.Count[Position](s2))
	assert.Equal(t, ecs.EntityId(1), s2.NewEntity())
}

func TestUnregisteredTypeUsesDefaults(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())

	_, err := ecs.Create(storage, storage.NewEntity(), Particle{Life: 1})
	require.NoError(t, err)
	assert.Equal(t, ecs.Hints{BlockSize: 1024, AutoResize: true}, ecs.PoolOf[Particle](storage).Hints())

	_, err = ecs.Create(storage, storage.NewEntity(), 42)
	require.NoError(t, err)
	assert.Equal(t, ecs.DefaultHints, ecs.PoolOf[int](storage).Hints())
}

func TestConcurrentCreateDelete(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	const workers, perWorker = 8, 200

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for i := range perWorker {
				entity := storage.NewEntity()
				if _, err := ecs.Create(storage, entity, Position{X: float32(i)}); err != nil {
					return err
				}
				if _, err := ecs.Create(storage, entity, Velocity{DX: 1}); err != nil {
					return err
				}
				ecs.CForEach(storage, func(ecs.ConstRef[Velocity]) {})
				if i%2 == 0 {
					if _, err := storage.DeleteEntity(entity); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, workers*perWorker/2, ecs.Count[Position](storage))
	assert.Equal(t, workers*perWorker/2, ecs.Count[Velocity](storage))
}
