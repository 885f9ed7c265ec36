package ecs

import (
	"errors"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// Storage is the process context of the component pools: it issues entity
// ids, owns one Pool per component type and indexes every live component by
// entity so an entity can be torn down without knowing its types.
type Storage struct {
	registry *ComponentRegistry
	entities entityCounter
	base     *EntityRegistry[ComponentBase]
	logger   *zerolog.Logger

	mu    sync.RWMutex
	pools map[reflect.Type]poolHandle
}

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger used for pool lifecycle events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Storage) {
		s.logger = logger
	}
}

// NewStorage creates a new storage with the given component registry. A nil
// registry stores every type with default hints.
func NewStorage(registry *ComponentRegistry, opts ...Option) *Storage {
	if registry == nil {
		registry = NewComponentRegistry()
	}
	nop := zerolog.Nop()
	s := &Storage{
		registry: registry,
		base:     NewEntityRegistry[ComponentBase](),
		logger:   &nop,
		pools:    make(map[reflect.Type]poolHandle),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Logger returns the storage logger.
func (s *Storage) Logger() *zerolog.Logger {
	return s.logger
}

// NewEntity issues a fresh entity id. Ids start at 1, strictly increase and
// are never reused. Entities have no state of their own; they exist through
// the components attached to them.
func (s *Storage) NewEntity() EntityId {
	return s.entities.next()
}

// Components returns every live component attached to entity, across all
// types.
func (s *Storage) Components(entity EntityId) []ComponentBase {
	var out []ComponentBase
	s.base.LookupAll(entity, &out)
	return out
}

// DeleteEntity deletes every component attached to entity and returns how
// many were deleted. GlobalEntity is never deleted. Components that another
// goroutine deletes or attaches elsewhere while the cascade runs are skipped.
func (s *Storage) DeleteEntity(entity EntityId) (int, error) {
	if entity == GlobalEntity {
		s.logger.Debug().Msg("ignoring delete of the global entity")
		return 0, nil
	}

	var (
		deleted int
		errs    []error
	)
	for _, c := range s.Components(entity) {
		ok, err := c.deleteFrom(entity)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			deleted++
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		s.logger.Error().Err(err).
			Uint64("entity", uint64(entity)).
			Int("deleted", deleted).
			Msg("entity delete left components behind")
	}
	return deleted, err
}

// PoolOf returns the pool for T, creating it on first use.
func PoolOf[T any](s *Storage) *Pool[T] {
	t := reflect.TypeFor[T]()

	s.mu.RLock()
	h, ok := s.pools[t]
	s.mu.RUnlock()
	if ok {
		return h.(*Pool[T])
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.pools[t]; ok {
		return h.(*Pool[T])
	}

	p := createPool[T](s.registry, s)
	s.pools[t] = p
	s.logger.Debug().
		Str("component", t.String()).
		Uint64("type_id", p.typeId).
		Str("allocator", p.kind).
		Int("block_size", p.hints.BlockSize).
		Bool("auto_resize", p.hints.AutoResize).
		Msg("created component pool")
	return p
}

func (s *Storage) poolHandles() []poolHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	handles := make([]poolHandle, 0, len(s.pools))
	for _, h := range s.pools {
		handles = append(handles, h)
	}
	return handles
}
