package ecs_test

import "github.com/plus3/ecspool/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type Counter struct {
	N int
}

// Boss is capped at ten instances through its own hints.
type Boss struct {
	Level int
}

func (Boss) ComponentHints() ecs.Hints {
	return ecs.Hints{BlockSize: 10, AutoResize: false}
}

// Particle asks for large blocks.
type Particle struct {
	Life float32
}

func (Particle) ComponentHints() ecs.Hints {
	return ecs.Hints{BlockSize: 1024, AutoResize: true}
}

// Resource counts Destroy calls through a shared counter.
type Resource struct {
	destroyed *int
}

func (r *Resource) Destroy() {
	*r.destroyed++
}

// Handoff runs onDestroy when its component is deleted.
type Handoff struct {
	onDestroy func()
}

func (h *Handoff) Destroy() {
	if h.onDestroy != nil {
		h.onDestroy()
	}
}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type GameConfig struct {
	MaxPlayers int
	Difficulty string
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Counter](registry)
	ecs.RegisterComponent[Boss](registry)
	ecs.RegisterComponent[Particle](registry)
	ecs.RegisterComponent[Resource](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Tag](registry)
	ecs.RegisterSingleton[GameConfig](registry)
	return registry
}
