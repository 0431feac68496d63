package ecs

import "context"

// World is the aggregate owning one Storage (entity registry plus component
// tables) and one Scheduler. Storage is an exported field so callers can
// populate entities and components directly.
type World struct {
	Storage   *Storage
	Scheduler *Scheduler
}

// NewWorld creates an empty world.
func NewWorld() *World {
	storage := NewStorage()
	return &World{
		Storage:   storage,
		Scheduler: NewScheduler(storage),
	}
}

// AddSystem registers a system; registration order is execution order.
func (w *World) AddSystem(system System) SystemHandle {
	return w.Scheduler.Register(system)
}

// RemoveSystem unregisters the system identified by the handle.
func (w *World) RemoveSystem(handle SystemHandle) bool {
	return w.Scheduler.Remove(handle)
}

// Run performs one sequential pass over all registered systems.
func (w *World) Run(dt float64) {
	w.Scheduler.Once(dt)
}

// StepParallel performs one two-phase parallel pass; see Scheduler.StepParallel.
func (w *World) StepParallel(ctx context.Context, workers int) error {
	return w.Scheduler.StepParallel(ctx, workers)
}
