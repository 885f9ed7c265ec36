package ecs

import (
	"errors"

	"github.com/plus3/ecspool/alloc"
)

var (
	// ErrCapacityExhausted is returned by Create when a bounded pool is full.
	ErrCapacityExhausted = alloc.ErrCapacityExhausted
	// ErrComponentDeleted is returned when operating on a deleted component.
	ErrComponentDeleted = errors.New("component has been deleted")
)
