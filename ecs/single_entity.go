package ecs

import "reflect"

// SingleEntity is a handle that confines storage access to one entity's
// components. The parallel step hands one to each StepEntity call; as long
// as every worker only uses its own handle, no two goroutines ever write the
// same component slot and the step needs no storage-wide lock.
//
// Reads and in-place value mutation (through GetFrom pointers) touch only
// the bound entity's slots and are direct. Structural operations — adding or
// removing components, spawning or deleting entities — resize bookkeeping
// shared across entities, so the handle routes them through a Commands
// buffer; it is safe for concurrent use and is flushed once the parallel
// phase is over.
type SingleEntity struct {
	storage  *Storage
	entity   Entity
	commands *Commands
}

// SingleEntity binds a confined handle for one entity. Callers running their
// own worker pool use this to step a partition; every entity must be bound
// by at most one goroutine at a time, and the caller flushes the shared
// commands buffer after all workers have finished.
func (s *Storage) SingleEntity(entity Entity, commands *Commands) *SingleEntity {
	return &SingleEntity{storage: s, entity: entity, commands: commands}
}

// Entity returns the entity this handle is bound to.
func (se *SingleEntity) Entity() Entity {
	return se.entity
}

// Commands returns the deferred buffer shared by the step's workers.
func (se *SingleEntity) Commands() *Commands {
	return se.commands
}

// SetDeferred queues attaching a component to the entity, overwriting any
// prior component of the same type. Takes effect at flush time, after the
// parallel phase.
func (se *SingleEntity) SetDeferred(component any) {
	se.commands.AddComponent(se.entity, component)
}

// RemoveDeferred queues detaching the entity's component of the given type.
// Takes effect at flush time, after the parallel phase.
func (se *SingleEntity) RemoveDeferred(typ reflect.Type) {
	se.commands.RemoveComponent(se.entity, typ)
}

// Has reports whether the entity holds a component of the given type.
func (se *SingleEntity) Has(typ reflect.Type) bool {
	return se.storage.HasComponent(se.entity, typ)
}

// GetFrom returns a typed pointer to the handle's component of type T.
// Mutating through the pointer is the partition-safe write path.
func GetFrom[T any](se *SingleEntity) (*T, error) {
	return GetComponent[T](se.storage, se.entity)
}

// GetFrom2 resolves two component types on the handle's entity at once,
// failing as a whole if either is missing.
func GetFrom2[A, B any](se *SingleEntity) (*A, *B, error) {
	return GetComponents2[A, B](se.storage, se.entity)
}

// HasFrom reports whether the handle's entity holds a component of type T.
func HasFrom[T any](se *SingleEntity) bool {
	return se.storage.HasComponent(se.entity, reflect.TypeFor[T]())
}

// ResourceFrom returns a pointer to the shared resource of type T. Resources
// are shared across workers during a parallel step, so treat the result as
// read-only there.
func ResourceFrom[T any](se *SingleEntity) (*T, bool) {
	return ResourceOf[T](se.storage)
}
