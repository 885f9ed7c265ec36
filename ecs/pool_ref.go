package ecs

import "iter"

// PoolRef is a system field giving access to the pool of T. The Scheduler
// binds it during registration.
//
//	type DamageSystem struct {
//		Health ecs.PoolRef[Health]
//	}
type PoolRef[T any] struct {
	*Pool[T]
	snapshot []*Component[T]
}

// NewPoolRef creates a PoolRef bound to storage.
func NewPoolRef[T any](storage *Storage) *PoolRef[T] {
	ref := &PoolRef[T]{}
	ref.Init(storage)
	return ref
}

// Init binds the PoolRef to storage.
// Called by the Scheduler during system registration.
func (r *PoolRef[T]) Init(storage *Storage) {
	r.Pool = PoolOf[T](storage)
	r.snapshot = r.snapshot[:0]
}

// Iter yields the components that were live when iteration started,
// skipping any deleted since. No pool lock is held while the loop body runs,
// so the body may create and delete components of T. Concurrent writers on
// other goroutines must use ForEach instead.
func (r *PoolRef[T]) Iter() iter.Seq[*Component[T]] {
	return func(yield func(*Component[T]) bool) {
		r.snapshot = r.snapshot[:0]
		r.CForEach(func(c ConstRef[T]) {
			r.snapshot = append(r.snapshot, c.c)
		})
		snapshot := r.snapshot
		r.snapshot = nil
		defer func() {
			clear(snapshot)
			r.snapshot = snapshot[:0]
		}()

		for _, c := range snapshot {
			if !c.Alive() {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}
