package ecs

import (
	"math"

	"github.com/pkg/errors"
)

// EntityRegistry allocates and recycles entity identifiers.
// Each slot carries a generation counter; removing an entity bumps the
// generation so handles to the old occupant stop validating.
type EntityRegistry struct {
	generations []uint32
	alive       []bool
	freeSlots   []uint32
	liveCount   int
}

// NewEntityRegistry creates an empty registry.
func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{}
}

// AddEntity allocates a new entity identifier. A freed slot is reused with
// its already-incremented generation if one exists, otherwise a new slot is
// appended.
func (r *EntityRegistry) AddEntity() Entity {
	if n := len(r.freeSlots); n > 0 {
		index := r.freeSlots[n-1]
		r.freeSlots = r.freeSlots[:n-1]
		r.alive[index] = true
		r.liveCount++
		return NewEntity(r.generations[index], index)
	}

	index := uint32(len(r.generations))
	r.generations = append(r.generations, 0)
	r.alive = append(r.alive, true)
	r.liveCount++
	return NewEntity(0, index)
}

// RemoveEntity marks the slot dead, increments its generation, and returns
// the slot to the free list. Returns ErrEntityNotFound for a handle that is
// stale or was never issued.
func (r *EntityRegistry) RemoveEntity(e Entity) error {
	if !r.IsAlive(e) {
		return errors.Wrapf(ErrEntityNotFound, "remove entity %d", e)
	}

	index := e.Index()
	r.alive[index] = false
	r.liveCount--

	// A slot whose generation counter is exhausted is retired instead of
	// wrapped: reissuing generation 0 would let ancient handles validate again.
	if r.generations[index] == math.MaxUint32 {
		return nil
	}

	r.generations[index]++
	r.freeSlots = append(r.freeSlots, index)
	return nil
}

// IsAlive reports whether the handle refers to the current occupant of its slot.
func (r *EntityRegistry) IsAlive(e Entity) bool {
	index := e.Index()
	if index >= uint32(len(r.generations)) {
		return false
	}
	return r.alive[index] && r.generations[index] == e.Generation()
}

// Count returns the number of live entities.
func (r *EntityRegistry) Count() int {
	return r.liveCount
}

// Entities returns an owned snapshot of all live entity handles.
func (r *EntityRegistry) Entities() []Entity {
	out := make([]Entity, 0, r.liveCount)
	for index, ok := range r.alive {
		if ok {
			out = append(out, NewEntity(r.generations[index], uint32(index)))
		}
	}
	return out
}

// entityAt rebuilds the live handle for a slot index. The caller must have
// checked liveness first.
func (r *EntityRegistry) entityAt(index uint32) Entity {
	return NewEntity(r.generations[index], index)
}

// aliveIndex reports whether the slot at index currently holds a live entity.
func (r *EntityRegistry) aliveIndex(index uint32) bool {
	return index < uint32(len(r.alive)) && r.alive[index]
}
