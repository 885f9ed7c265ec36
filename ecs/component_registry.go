package ecs

import (
	"reflect"
	"sync"

	"github.com/plus3/ecspool/alloc"
)

// ComponentRegistry records how each component type is stored. Each Storage
// is created from a registry; several storages may share one. Types that
// were never registered get the default chunked allocator on first use.
type ComponentRegistry struct {
	mu        sync.RWMutex
	factories map[reflect.Type]*componentFactory
	table     HintTable
}

type componentFactory struct {
	hints   *Hints
	newPool func(s *Storage, hints Hints) poolHandle
}

// ComponentOption configures a component registration.
type ComponentOption func(*componentFactory)

// WithHints overrides every other hint source for the registered type.
func WithHints(h Hints) ComponentOption {
	return func(f *componentFactory) {
		f.hints = &h
	}
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]*componentFactory),
		table:     make(HintTable),
	}
}

// RegisterComponent registers T with the default chunked allocator, sized
// from its resolved hints.
func RegisterComponent[T any](r *ComponentRegistry, opts ...ComponentOption) {
	register[T](r, newChunkPool[T], opts)
}

// RegisterComponentAllocator registers T with a custom allocator. newAlloc
// is called once per Storage with the type's resolved hints.
func RegisterComponentAllocator[T any, A alloc.Allocator[Component[T]]](r *ComponentRegistry, newAlloc func(Hints) A, opts ...ComponentOption) {
	register[T](r, func(s *Storage, h Hints) poolHandle {
		return newPool[T](s, h, newAlloc(h))
	}, opts)
}

// RegisterSingleton registers T with an allocator that holds at most one
// instance. Use Singleton[T] to reach it.
func RegisterSingleton[T any](r *ComponentRegistry, opts ...ComponentOption) {
	RegisterComponentAllocator[T](r, func(Hints) *alloc.SingletonAllocator[Component[T]] {
		return alloc.NewSingletonAllocator[Component[T]]()
	}, opts...)
}

func register[T any](r *ComponentRegistry, newPool func(*Storage, Hints) poolHandle, opts []ComponentOption) {
	f := &componentFactory{newPool: newPool}
	for _, opt := range opts {
		opt(f)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[reflect.TypeFor[T]()] = f
}

// ApplyHintTable merges table into the registry. Entries apply to storages
// created afterwards and lose to WithHints.
func (r *ComponentRegistry) ApplyHintTable(table HintTable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, h := range table {
		r.table[name] = h
	}
}

// IsRegistered reports whether T was registered explicitly.
func IsRegistered[T any](r *ComponentRegistry) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[reflect.TypeFor[T]()]
	return ok
}

// HintsFor resolves the hints T would be stored with.
func HintsFor[T any](r *ComponentRegistry) Hints {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hintsLocked(reflect.TypeFor[T](), r.factories[reflect.TypeFor[T]()], new(T))
}

func (r *ComponentRegistry) hintsLocked(t reflect.Type, f *componentFactory, zero any) Hints {
	if f != nil && f.hints != nil {
		return f.hints.normalized()
	}
	if h, ok := r.table[t.String()]; ok {
		return h.normalized()
	}
	if hp, ok := zero.(HintProvider); ok {
		return hp.ComponentHints().normalized()
	}
	return DefaultHints
}

// createPool builds the pool for T as registered, or a default one.
func createPool[T any](r *ComponentRegistry, s *Storage) *Pool[T] {
	t := reflect.TypeFor[T]()

	r.mu.RLock()
	f := r.factories[t]
	hints := r.hintsLocked(t, f, new(T))
	r.mu.RUnlock()

	if f == nil {
		return newChunkPool[T](s, hints).(*Pool[T])
	}
	return f.newPool(s, hints).(*Pool[T])
}

func newChunkPool[T any](s *Storage, h Hints) poolHandle {
	a := alloc.NewChunkAllocator[Component[T]](h.BlockSize, alloc.WithMaxChunks(h.maxChunks()))
	return newPool[T](s, h, a)
}
