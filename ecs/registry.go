package ecs

import (
	"slices"
	"sync"

	"github.com/kamstrup/intmap"
)

// EntityRegistry tracks which values of type C are attached to which entity.
// One entity may hold any number of entries. Lookups take a shared lock,
// mutations an exclusive one.
type EntityRegistry[C comparable] struct {
	mu      sync.RWMutex
	buckets *intmap.Map[EntityId, []C]
	size    int
}

// NewEntityRegistry creates an empty registry.
func NewEntityRegistry[C comparable]() *EntityRegistry[C] {
	return &EntityRegistry[C]{
		buckets: intmap.New[EntityId, []C](256),
	}
}

// AddEntry associates c with entity. Existing associations of c are left in
// place and duplicates are not collapsed: callers add each value once per
// registration.
func (r *EntityRegistry[C]) AddEntry(entity EntityId, c C) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addLocked(entity, c)
}

// RemoveOne removes the first association between entity and c. Returns
// false if there was none.
func (r *EntityRegistry[C]) RemoveOne(entity EntityId, c C) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(entity, c)
}

// RemoveAll removes every association of entity and returns how many were removed.
func (r *EntityRegistry[C]) RemoveAll(entity EntityId) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.buckets.Get(entity)
	if !ok {
		return 0
	}
	r.buckets.Del(entity)
	r.size -= len(bucket)
	return len(bucket)
}

// Reassign moves one association of c from one entity to another in a single
// critical section, so readers see c under exactly one of the two keys.
// Returns false, leaving the registry unchanged, if c was not under from.
func (r *EntityRegistry[C]) Reassign(from, to EntityId, c C) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.removeLocked(from, c) {
		return false
	}
	r.addLocked(to, c)
	return true
}

// LookupOne returns one value associated with entity.
func (r *EntityRegistry[C]) LookupOne(entity EntityId) (C, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, ok := r.buckets.Get(entity)
	if !ok || len(bucket) == 0 {
		var zero C
		return zero, false
	}
	return bucket[0], true
}

// LookupAll appends every value associated with entity to out and returns
// how many were appended. Existing contents of out are kept.
func (r *EntityRegistry[C]) LookupAll(entity EntityId, out *[]C) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, ok := r.buckets.Get(entity)
	if !ok {
		return 0
	}
	*out = append(*out, bucket...)
	return len(bucket)
}

// Len returns the total number of associations.
func (r *EntityRegistry[C]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *EntityRegistry[C]) addLocked(entity EntityId, c C) {
	bucket, _ := r.buckets.Get(entity)
	r.buckets.Put(entity, append(bucket, c))
	r.size++
}

func (r *EntityRegistry[C]) removeLocked(entity EntityId, c C) bool {
	bucket, ok := r.buckets.Get(entity)
	if !ok {
		return false
	}

	idx := slices.Index(bucket, c)
	if idx < 0 {
		return false
	}

	bucket = slices.Delete(bucket, idx, idx+1)
	if len(bucket) == 0 {
		r.buckets.Del(entity)
	} else {
		r.buckets.Put(entity, bucket)
	}
	r.size--
	return true
}
