package ecs

// Singleton provides access to a single component instance attached to
// GlobalEntity. Use this for global game state, configuration, or other
// process-wide data. Registering T with RegisterSingleton makes a second
// instance an error; otherwise the singleton is just the first T on
// GlobalEntity.
type Singleton[T any] struct {
	pool *Pool[T]
}

// NewSingleton creates a Singleton accessor for the given storage. If the
// singleton does not exist yet it is created from initializer, or from the
// zero value if none is given.
func NewSingleton[T any](storage *Storage, initializer ...T) (*Singleton[T], error) {
	var value T
	if len(initializer) > 0 {
		value = initializer[0]
	}

	pool := PoolOf[T](storage)
	if _, err := pool.findOrCreate(GlobalEntity, value); err != nil {
		return nil, err
	}
	return &Singleton[T]{pool: pool}, nil
}

// Init binds the Singleton to a storage without creating the instance.
// This is called automatically by the Scheduler during system registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.pool = PoolOf[T](storage)
}

// Component returns the singleton component, or nil if it does not exist.
func (s *Singleton[T]) Component() *Component[T] {
	if s.pool == nil {
		return nil
	}
	return s.pool.FindOne(GlobalEntity)
}

// Get returns a pointer to the singleton data.
// Returns nil if the singleton has not been created.
func (s *Singleton[T]) Get() *T {
	c := s.Component()
	if c == nil {
		return nil
	}
	return &c.Data
}

// Exists returns true if the singleton component has been created.
func (s *Singleton[T]) Exists() bool {
	return s.Component() != nil
}

// ReadSingleton returns the singleton T of storage if it exists.
func ReadSingleton[T any](storage *Storage) (*T, bool) {
	c := PoolOf[T](storage).FindOne(GlobalEntity)
	if c == nil {
		return nil, false
	}
	return &c.Data, true
}
