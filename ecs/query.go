package ecs

import (
	"iter"
	"reflect"
)

// EntitiesWith returns an owned snapshot of every live entity that currently
// holds all of the listed component types. With no types it returns all live
// entities.
//
// The result is a point-in-time materialization: adding or removing
// components afterwards never changes an already-returned slice, and callers
// that mutate membership must re-check before touching a snapshot entity.
// Ordering follows internal table order and is not guaranteed.
func (s *Storage) EntitiesWith(types ...reflect.Type) []Entity {
	if len(types) == 0 {
		return s.registry.Entities()
	}

	// Walk the smallest table and probe the rest against it.
	tables := make([]*componentTable, len(types))
	smallest := 0
	for i, typ := range types {
		table, ok := s.tables[typ]
		if !ok || table.Len() == 0 {
			return nil
		}
		tables[i] = table
		if table.Len() < tables[smallest].Len() {
			smallest = i
		}
	}

	matched := make([]Entity, 0, tables[smallest].Len())
outer:
	for index := range tables[smallest].Indices() {
		if !s.registry.aliveIndex(index) {
			continue
		}
		for i, table := range tables {
			if i == smallest {
				continue
			}
			if !table.Has(index) {
				continue outer
			}
		}
		matched = append(matched, s.registry.entityAt(index))
	}
	return matched
}

// EntitiesWith1 returns a snapshot of the live entities holding a component of type A.
func EntitiesWith1[A any](s *Storage) []Entity {
	return s.EntitiesWith(reflect.TypeFor[A]())
}

// EntitiesWith2 returns a snapshot of the live entities holding both an A and a B.
func EntitiesWith2[A, B any](s *Storage) []Entity {
	return s.EntitiesWith(reflect.TypeFor[A](), reflect.TypeFor[B]())
}

// EntitiesWith3 returns a snapshot of the live entities holding an A, a B and a C.
func EntitiesWith3[A, B, C any](s *Storage) []Entity {
	return s.EntitiesWith(reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C]())
}

// Query materializes the set of entities matching a View and their component
// pointers. Execute takes the snapshot; Iter/Values/Entities walk it. The
// snapshot is owned: structural mutations after Execute never invalidate
// iteration, they just aren't reflected until the next Execute.
//
// Systems registered with a Scheduler get their Query fields initialized and
// executed automatically before each pass.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	cachedEntities []Entity
	cachedViews    []T
	cacheValid     bool
}

// NewQuery creates a Query bound to the given storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cacheValid = false
}

// Execute materializes the matched entity set and fills a view per entity.
func (q *Query[T]) Execute() {
	q.cachedEntities = q.cachedEntities[:0]
	q.cachedViews = q.cachedViews[:0]

	var result T
	for _, entity := range q.storage.EntitiesWith(q.view.requiredTypes()...) {
		if !q.view.Fill(entity, &result) {
			continue
		}
		q.cachedEntities = append(q.cachedEntities, entity)
		q.cachedViews = append(q.cachedViews, result)
	}

	q.cacheValid = true
}

// Iter returns an iterator over matched entities and their filled views.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq2[Entity, T] {
	if !q.cacheValid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(Entity, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedViews[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over the filled views only.
// Panics if Execute() has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("Query.Values() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for i := range q.cachedViews {
			if !yield(q.cachedViews[i]) {
				return
			}
		}
	}
}

// Entities returns an owned copy of the matched entity snapshot.
// Panics if Execute() has not been called.
func (q *Query[T]) Entities() []Entity {
	if !q.cacheValid {
		panic("Query.Entities() called before Query.Execute()")
	}

	out := make([]Entity, len(q.cachedEntities))
	copy(out, q.cachedEntities)
	return out
}

// Count returns the number of entities in the current snapshot.
// Panics if Execute() has not been called.
func (q *Query[T]) Count() int {
	if !q.cacheValid {
		panic("Query.Count() called before Query.Execute()")
	}
	return len(q.cachedEntities)
}
