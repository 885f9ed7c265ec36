package ecs

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/plus3/ecspool/alloc"
	"github.com/rotisserie/eris"
)

// Pool owns every component of one type within a Storage. It pairs an
// allocator holding the records with a registry mapping entities to them.
//
// ForEach and every mutation take the pool's exclusive lock; CForEach,
// lookups and counts take it shared. Visitors must not call back into the
// same pool.
type Pool[T any] struct {
	mu        sync.RWMutex
	typ       reflect.Type
	typeId    uint64
	kind      string
	hints     Hints
	allocator alloc.Allocator[Component[T]]
	entries   *EntityRegistry[*Component[T]]
	storage   *Storage
}

// poolHandle is the type-erased view Storage keeps of each pool.
type poolHandle interface {
	Type() reflect.Type
	Count() int
	ChunkCount() int
	stats() PoolStats
}

var _ poolHandle = (*Pool[int])(nil)

func newPool[T any](s *Storage, hints Hints, a alloc.Allocator[Component[T]]) *Pool[T] {
	t := reflect.TypeFor[T]()
	return &Pool[T]{
		typ:       t,
		typeId:    typeId(t),
		kind:      allocatorKind(a),
		hints:     hints,
		allocator: a,
		entries:   NewEntityRegistry[*Component[T]](),
		storage:   s,
	}
}

// allocatorKind strips the type arguments from an allocator's type name.
func allocatorKind(a any) string {
	t := reflect.TypeOf(a)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name, _, _ := strings.Cut(t.Name(), "[")
	return name
}

// Create allocates a component holding value and attaches it to entity.
func (p *Pool[T]) Create(entity EntityId, value T) (*Component[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.allocateLocked()
	if err != nil {
		return nil, err
	}
	c.Data = value
	p.registerLocked(c, entity)
	return c, nil
}

// Construct allocates a zeroed component, lets init fill it in place and
// attaches it to entity. init runs under the pool lock and must not touch
// the pool.
func (p *Pool[T]) Construct(entity EntityId, init func(*T)) (*Component[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.allocateLocked()
	if err != nil {
		return nil, err
	}
	var zero T
	c.Data = zero
	if init != nil {
		init(&c.Data)
	}
	p.registerLocked(c, entity)
	return c, nil
}

func (p *Pool[T]) allocateLocked() (*Component[T], error) {
	before := p.chunkCountLocked()

	c, err := p.allocator.Allocate()
	if err != nil {
		if errors.Is(err, alloc.ErrCapacityExhausted) {
			p.storage.logger.Warn().
				Str("component", p.typ.String()).
				Int("count", p.allocator.Count()).
				Msg("component pool is full")
		}
		return nil, eris.Wrapf(err, "create %s", p.typ)
	}

	if after := p.chunkCountLocked(); after > before && p.kind == "ChunkAllocator" {
		p.storage.logger.Debug().
			Str("component", p.typ.String()).
			Int("chunks", after).
			Msg("component pool grew")
	}
	return c, nil
}

func (p *Pool[T]) registerLocked(c *Component[T], entity EntityId) {
	c.entity.Store(uint64(entity))
	c.pool.Store(p)
	p.entries.AddEntry(entity, c)
	p.storage.base.AddEntry(entity, c)
}

func (p *Pool[T]) delete(c *Component[T]) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c.pool.Load() != p {
		return ErrComponentDeleted
	}
	return p.deleteLocked(c)
}

// deleteFrom deletes c only if it is still attached to entity.
func (p *Pool[T]) deleteFrom(c *Component[T], entity EntityId) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c.pool.Load() != p || c.Entity() != entity {
		return false, nil
	}
	if err := p.deleteLocked(c); err != nil {
		return false, err
	}
	return true, nil
}

// deleteLocked releases the slot first so a rejected Deallocate leaves the
// component live and registered. Allocators only clear occupancy, and the
// exclusive lock keeps the slot from being handed out again until c is
// cleared.
func (p *Pool[T]) deleteLocked(c *Component[T]) error {
	before := p.chunkCountLocked()
	if err := p.allocator.Deallocate(c); err != nil {
		return eris.Wrapf(err, "delete %s", p.typ)
	}

	entity := c.Entity()
	p.entries.RemoveOne(entity, c)
	p.storage.base.RemoveOne(entity, c)

	if d, ok := any(&c.Data).(Destroyer); ok {
		d.Destroy()
	}

	var zero T
	c.Data = zero
	c.entity.Store(0)
	c.pool.Store(nil)

	if after := p.chunkCountLocked(); after < before && p.kind == "ChunkAllocator" {
		p.storage.logger.Debug().
			Str("component", p.typ.String()).
			Int("chunks", after).
			Msg("component pool shrank")
	}
	return nil
}

func (p *Pool[T]) attach(c *Component[T], entity EntityId) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c.pool.Load() != p {
		return ErrComponentDeleted
	}

	from := c.Entity()
	if from == entity {
		return nil
	}
	p.entries.Reassign(from, entity, c)
	p.storage.base.Reassign(from, entity, c)
	c.entity.Store(uint64(entity))
	return nil
}

// FindOne returns a component attached to entity, or nil.
func (p *Pool[T]) FindOne(entity EntityId) *Component[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()

	c, _ := p.entries.LookupOne(entity)
	return c
}

// FindAll appends every component attached to entity to out and returns how
// many were appended.
func (p *Pool[T]) FindAll(entity EntityId, out *[]*Component[T]) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.entries.LookupAll(entity, out)
}

// ForEach visits every live component with exclusive access.
func (p *Pool[T]) ForEach(visit func(*Component[T])) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.allocator.ForEach(visit)
}

// ForEachWhere visits every live component accepted by filter with
// exclusive access.
func (p *Pool[T]) ForEachWhere(visit func(*Component[T]), filter func(ConstRef[T]) bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.allocator.ForEachWhere(visit, func(c *Component[T]) bool {
		return filter(ConstRef[T]{c})
	})
}

// CForEach visits every live component through a read-only view. Several
// CForEach calls may run at once.
func (p *Pool[T]) CForEach(visit func(ConstRef[T])) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	p.allocator.ForEach(func(c *Component[T]) {
		visit(ConstRef[T]{c})
	})
}

// CForEachWhere is CForEach restricted to components accepted by filter.
func (p *Pool[T]) CForEachWhere(visit func(ConstRef[T]), filter func(ConstRef[T]) bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	p.allocator.ForEachWhere(func(c *Component[T]) {
		visit(ConstRef[T]{c})
	}, func(c *Component[T]) bool {
		return filter(ConstRef[T]{c})
	})
}

// Count returns the number of live components.
func (p *Pool[T]) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.allocator.Count()
}

// CountWhere returns the number of live components accepted by filter.
func (p *Pool[T]) CountWhere(filter func(ConstRef[T]) bool) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.allocator.CountWhere(func(c *Component[T]) bool {
		return filter(ConstRef[T]{c})
	})
}

// ChunkCount returns the number of storage blocks the allocator holds, or
// -1 if the allocator does not report it.
func (p *Pool[T]) ChunkCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.chunkCountLocked()
}

func (p *Pool[T]) chunkCountLocked() int {
	if cc, ok := p.allocator.(alloc.ChunkCounter); ok {
		return cc.ChunkCount()
	}
	return -1
}

// Hints returns the hints the pool was created with.
func (p *Pool[T]) Hints() Hints {
	return p.hints
}

// Type returns the reflect.Type of T.
func (p *Pool[T]) Type() reflect.Type {
	return p.typ
}

// TypeId returns the stable hash of T used in stats and logs.
func (p *Pool[T]) TypeId() uint64 {
	return p.typeId
}

func (p *Pool[T]) stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PoolStats{
		Type:       p.typ.String(),
		TypeId:     p.typeId,
		Allocator:  p.kind,
		Hints:      p.hints,
		Count:      p.allocator.Count(),
		ChunkCount: p.chunkCountLocked(),
	}
}

// Create is shorthand for PoolOf[T](s).Create.
func Create[T any](s *Storage, entity EntityId, value T) (*Component[T], error) {
	return PoolOf[T](s).Create(entity, value)
}

// FindOne is shorthand for PoolOf[T](s).FindOne.
func FindOne[T any](s *Storage, entity EntityId) *Component[T] {
	return PoolOf[T](s).FindOne(entity)
}

// FindAll is shorthand for PoolOf[T](s).FindAll.
func FindAll[T any](s *Storage, entity EntityId, out *[]*Component[T]) int {
	return PoolOf[T](s).FindAll(entity, out)
}

// ForEach is shorthand for PoolOf[T](s).ForEach.
func ForEach[T any](s *Storage, visit func(*Component[T])) {
	PoolOf[T](s).ForEach(visit)
}

// CForEach is shorthand for PoolOf[T](s).CForEach.
func CForEach[T any](s *Storage, visit func(ConstRef[T])) {
	PoolOf[T](s).CForEach(visit)
}

// Count is shorthand for PoolOf[T](s).Count.
func Count[T any](s *Storage) int {
	return PoolOf[T](s).Count()
}

// ChunkCount is shorthand for PoolOf[T](s).ChunkCount.
func ChunkCount[T any](s *Storage) int {
	return PoolOf[T](s).ChunkCount()
}

// findOrCreate returns a component attached to entity, creating one holding
// value if there is none.
func (p *Pool[T]) findOrCreate(entity EntityId, value T) (*Component[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.entries.LookupOne(entity); ok {
		return c, nil
	}
	c, err := p.allocateLocked()
	if err != nil {
		return nil, err
	}
	c.Data = value
	p.registerLocked(c, entity)
	return c, nil
}
