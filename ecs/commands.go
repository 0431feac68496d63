package ecs

import (
	"reflect"
	"sync"
)

// Commands provides a buffer for deferred structural operations that are
// executed after all systems in a pass have run. Deferring keeps entity and
// component membership stable while query snapshots are being iterated.
//
// Queuing is safe for concurrent use: workers in a parallel step share one
// buffer. Flush itself runs on a single goroutine once the workers are done.
type Commands struct {
	mu      sync.Mutex
	spawns  []spawnCommand
	deletes []Entity
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

// NewCommands creates an empty command buffer. The scheduler makes one per
// pass; standalone buffers are useful when driving storage without a
// scheduler.
func NewCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    Entity
	component any
}

type removeComponentCommand struct {
	entity Entity
	typ    reflect.Type
}

// Defer queues an arbitrary function to run at flush time.
func (c *Commands) Defer(fn func()) {
	c.mu.Lock()
	c.defers = append(c.defers, fn)
	c.mu.Unlock()
}

// Spawn queues creation of a new entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.mu.Lock()
	c.spawns = append(c.spawns, spawnCommand{components: components})
	c.mu.Unlock()
}

// Delete queues removal of an entity.
func (c *Commands) Delete(entity Entity) {
	c.mu.Lock()
	c.deletes = append(c.deletes, entity)
	c.mu.Unlock()
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity Entity, component any) {
	c.mu.Lock()
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
	c.mu.Unlock()
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity Entity, typ reflect.Type) {
	c.mu.Lock()
	c.removes = append(c.removes, removeComponentCommand{
		entity: entity,
		typ:    typ,
	})
	c.mu.Unlock()
}

// Flush applies all queued commands to the storage and resets the buffer.
// Deletes win: add/remove commands against an entity deleted in the same
// flush are dropped. Operations against entities that died during the pass
// are skipped rather than surfaced, since the issuing system acted on a
// snapshot that was valid at the time.
func (c *Commands) Flush(storage *Storage) {
	// Detach the queued work under the lock, then apply it unlocked so a
	// deferred function may queue onto the same buffer for the next flush.
	c.mu.Lock()
	spawns, deletes, adds, removes, defers := c.spawns, c.deletes, c.adds, c.removes, c.defers
	c.spawns = nil
	c.deletes = nil
	c.adds = nil
	c.removes = nil
	c.defers = nil
	c.mu.Unlock()

	deleted := make(map[Entity]bool, len(deletes))

	for _, entity := range deletes {
		if storage.RemoveEntity(entity) == nil {
			deleted[entity] = true
		}
	}

	for _, cmd := range removes {
		if !deleted[cmd.entity] {
			storage.RemoveComponentOfType(cmd.entity, cmd.typ) //nolint:errcheck
		}
	}

	for _, cmd := range adds {
		if !deleted[cmd.entity] {
			storage.AddComponent(cmd.entity, cmd.component) //nolint:errcheck
		}
	}

	for _, cmd := range spawns {
		storage.AddEntityWith(cmd.components...)
	}

	for _, fn := range defers {
		fn()
	}
}
