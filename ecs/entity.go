package ecs

// Entity encodes both the slot generation (upper 32 bits) and the slot index (lower 32 bits).
// The generation distinguishes the current occupant of a slot from earlier,
// since-removed occupants, so a stale handle never resolves to live data.
type Entity uint64

// NewEntity creates an Entity from a slot generation and slot index
func NewEntity(generation uint32, index uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Generation extracts the slot generation from the entity
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

// Index extracts the slot index from the entity
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}
