package ecs

import "github.com/pkg/errors"

var (
	// ErrEntityNotFound is returned when an operation references an entity
	// that was removed or never existed. Test with errors.Is.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrComponentNotFound is returned when an operation requires a component
	// type that the entity does not currently hold.
	ErrComponentNotFound = errors.New("component not found")

	// ErrHierarchyCycle is returned by SetParent when the requested link would
	// make an entity its own ancestor.
	ErrHierarchyCycle = errors.New("hierarchy cycle")
)
