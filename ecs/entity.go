package ecs

import "sync"

// EntityId is an opaque entity identifier. Ids are issued by Storage.NewEntity
// starting at 1 and are never reused.
type EntityId uint64

// GlobalEntity is a persistent pseudo-entity. Components attached to it act as
// process-wide state and are never removed by Storage.DeleteEntity.
const GlobalEntity EntityId = 0

// entityCounter issues strictly increasing entity ids.
type entityCounter struct {
	mu   sync.Mutex
	last EntityId
}

func (c *entityCounter) next() EntityId {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last++
	return c.last
}

func (c *entityCounter) issued() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return uint64(c.last)
}
