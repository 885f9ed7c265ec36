package ecs

// System represents a behavior that runs once per scheduler pass.
// User-defined systems implement this interface and can include PoolRef and
// Singleton fields, bound on registration, as well as custom state fields
// that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to a System.
type SystemFunc func(frame *UpdateFrame)

// Execute calls f(frame).
func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}
