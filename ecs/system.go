package ecs

// System represents a behavior that operates on entities with specific
// components. User-defined systems implement this interface and can include
// Query and ResourceRef fields for accessing storage, as well as custom state
// fields that persist between passes.
type System interface {
	Execute(frame *UpdateFrame)
}

// PreStepper is the optional read-only phase of the parallel path. PreStep
// runs on a single goroutine before any entity stepping and returns the
// materialized set of entities the system wants stepped. Systems that
// implement EntityStepper without PreStepper are stepped over every live
// entity.
type PreStepper interface {
	PreStep(storage *Storage) []Entity
}

// EntityStepper is the per-entity phase of the parallel path. StepEntity is
// invoked concurrently from worker goroutines, once per matched entity, with
// a handle confined to that entity's components. It must not touch any other
// entity's state; that partitioning is what makes in-place value mutation
// through the handle's component pointers safe without a storage-wide lock.
// Structural changes go through the handle's Commands buffer, which the
// scheduler flushes after the phase completes.
type EntityStepper interface {
	StepEntity(entity *SingleEntity) error
}
