package ecs

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// ComponentBase is the type-erased view of a live component. Storage keeps
// one registry of ComponentBase values across all component types so that an
// entity's components can be found and deleted without knowing their types.
type ComponentBase interface {
	Entity() EntityId
	Type() reflect.Type
	Attach(entity EntityId) error
	Delete() error

	deleteFrom(entity EntityId) (bool, error)
}

// Destroyer is implemented by component data that must release resources
// when its component is deleted. Destroy is called on a pointer to the data
// before the slot is cleared.
type Destroyer interface {
	Destroy()
}

// Component is a pooled record holding one T and the bookkeeping that ties
// it to an entity. Components live in their pool's storage and are only
// created through Pool.Create or Pool.Construct. The address of a component
// is its identity and stays valid until it is deleted; after that the slot
// may be reused for another component.
//
// Component must not be copied.
type Component[T any] struct {
	Data T

	entity atomic.Uint64
	pool   atomic.Pointer[Pool[T]]
	mu     sync.Mutex
}

var _ ComponentBase = (*Component[int])(nil)

// Entity returns the entity this component is attached to.
func (c *Component[T]) Entity() EntityId {
	return EntityId(c.entity.Load())
}

// Type returns the reflect.Type of T.
func (c *Component[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

// Alive reports whether the component has not been deleted.
func (c *Component[T]) Alive() bool {
	return c.pool.Load() != nil
}

// Lock acquires the component's own mutex. Pools never take it; it exists
// for callers that share a component between goroutines.
func (c *Component[T]) Lock() {
	c.mu.Lock()
}

// Unlock releases the component's own mutex.
func (c *Component[T]) Unlock() {
	c.mu.Unlock()
}

// Attach moves the component to another entity. Registry observers see it
// attached to either the old entity or the new one, never both or neither.
func (c *Component[T]) Attach(entity EntityId) error {
	p := c.pool.Load()
	if p == nil {
		return ErrComponentDeleted
	}
	return p.attach(c, entity)
}

// Delete detaches the component from its entity, runs Destroy if T
// implements Destroyer and returns the slot to the pool.
//
// Delete takes the pool's exclusive lock. Calling it from inside ForEach or
// CForEach of the same component type deadlocks; queue the delete on
// Commands instead.
func (c *Component[T]) Delete() error {
	p := c.pool.Load()
	if p == nil {
		return ErrComponentDeleted
	}
	return p.delete(c)
}

// deleteFrom deletes the component if it is still attached to entity and
// reports whether it did.
func (c *Component[T]) deleteFrom(entity EntityId) (bool, error) {
	p := c.pool.Load()
	if p == nil {
		return false, nil
	}
	return p.deleteFrom(c, entity)
}

// ConstRef is a read-only handle passed to CForEach visitors and filters.
type ConstRef[T any] struct {
	c *Component[T]
}

// Entity returns the entity the component is attached to.
func (r ConstRef[T]) Entity() EntityId {
	return r.c.Entity()
}

// Value returns a copy of the component data.
func (r ConstRef[T]) Value() T {
	return r.c.Data
}

// Is reports whether r refers to c.
func (r ConstRef[T]) Is(c *Component[T]) bool {
	return r.c == c
}
