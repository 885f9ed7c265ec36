package ecs

import (
	"errors"
)

// Commands provides a buffer for deferred storage operations that are
// executed at the end of a frame. Systems iterating a pool with ForEach
// cannot delete or create components of that type directly; they queue the
// change here instead. Commands is not safe for concurrent use.
type Commands struct {
	entityDeletes []EntityId
	deletes       []ComponentBase
	attaches      []attachCommand
	creates       []createCommand
	defers        []func()
}

type attachCommand struct {
	component ComponentBase
	entity    EntityId
}

type createCommand struct {
	entity EntityId
	apply  func(*Storage) error
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// DeleteEntity queues deletion of every component attached to entity.
func (c *Commands) DeleteEntity(entity EntityId) {
	c.entityDeletes = append(c.entityDeletes, entity)
}

// Delete queues deletion of a single component.
func (c *Commands) Delete(component ComponentBase) {
	c.deletes = append(c.deletes, component)
}

// Attach queues moving component to entity.
func (c *Commands) Attach(component ComponentBase, entity EntityId) {
	c.attaches = append(c.attaches, attachCommand{component: component, entity: entity})
}

// AddComponent queues creation of a T holding value on entity.
func AddComponent[T any](c *Commands, entity EntityId, value T) {
	c.creates = append(c.creates, createCommand{
		entity: entity,
		apply: func(s *Storage) error {
			_, err := PoolOf[T](s).Create(entity, value)
			return err
		},
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.entityDeletes) + len(c.deletes) + len(c.attaches) + len(c.creates) + len(c.defers)
}

// Flush applies all queued commands to storage and resets the buffer.
// Entity deletes run first, then component deletes, attaches, creates and
// deferred functions. Creates targeting an entity deleted in the same flush
// are dropped. Components that were already deleted are skipped.
func (c *Commands) Flush(storage *Storage) error {
	var errs []error
	deletedEntities := make(map[EntityId]bool, len(c.entityDeletes))

	for _, entity := range c.entityDeletes {
		if _, err := storage.DeleteEntity(entity); err != nil {
			errs = append(errs, err)
		}
		deletedEntities[entity] = true
	}

	for _, component := range c.deletes {
		if err := component.Delete(); err != nil && !errors.Is(err, ErrComponentDeleted) {
			errs = append(errs, err)
		}
	}

	for _, cmd := range c.attaches {
		if err := cmd.component.Attach(cmd.entity); err != nil && !errors.Is(err, ErrComponentDeleted) {
			errs = append(errs, err)
		}
	}

	for _, cmd := range c.creates {
		if deletedEntities[cmd.entity] {
			continue
		}
		if err := cmd.apply(storage); err != nil {
			errs = append(errs, err)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	clear(c.deletes)
	clear(c.attaches)
	clear(c.creates)
	clear(c.defers)
	c.entityDeletes = c.entityDeletes[:0]
	c.deletes = c.deletes[:0]
	c.attaches = c.attaches[:0]
	c.creates = c.creates[:0]
	c.defers = c.defers[:0]

	return errors.Join(errs...)
}
