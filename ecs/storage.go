package ecs

import (
	"reflect"

	"github.com/pkg/errors"
)

// Storage is the main ECS storage aggregate: an entity registry plus one
// component table per component type. Tables are keyed by reflect.Type and
// created lazily, so any user-defined value type works as a component with
// no registration step.
type Storage struct {
	registry  *EntityRegistry
	tables    map[reflect.Type]*componentTable
	resources map[reflect.Type]any
}

// NewStorage creates an empty storage.
func NewStorage() *Storage {
	return &Storage{
		registry:  NewEntityRegistry(),
		tables:    make(map[reflect.Type]*componentTable),
		resources: make(map[reflect.Type]any),
	}
}

// Registry exposes the underlying entity registry.
func (s *Storage) Registry() *EntityRegistry {
	return s.registry
}

// AddEntity allocates a new entity with no components.
func (s *Storage) AddEntity() Entity {
	return s.registry.AddEntity()
}

// AddEntityWith allocates a new entity and attaches the given components,
// equivalent to AddEntity followed by one AddComponent call per element.
// Duplicate types in the bundle resolve last-write-wins.
func (s *Storage) AddEntityWith(components ...any) Entity {
	entity := s.registry.AddEntity()
	for _, component := range components {
		s.table(componentType(component), true).Set(entity.Index(), component)
	}
	return entity
}

// RemoveEntity destroys the entity and every component it holds. The slot is
// recycled under a new generation, so the removed handle stops validating.
func (s *Storage) RemoveEntity(entity Entity) error {
	if !s.registry.IsAlive(entity) {
		return errors.Wrapf(ErrEntityNotFound, "remove entity %d", entity)
	}

	s.detachHierarchy(entity)

	index := entity.Index()
	for _, table := range s.tables {
		table.Delete(index)
	}
	return s.registry.RemoveEntity(entity)
}

// IsAlive reports whether the handle refers to a live entity.
func (s *Storage) IsAlive(entity Entity) bool {
	return s.registry.IsAlive(entity)
}

// EntityCount returns the number of live entities.
func (s *Storage) EntityCount() int {
	return s.registry.Count()
}

// Entities returns an owned snapshot of all live entity handles.
func (s *Storage) Entities() []Entity {
	return s.registry.Entities()
}

// AddComponent attaches a component to the entity, overwriting any prior
// component of the same type. Accepts a value or a pointer to one.
func (s *Storage) AddComponent(entity Entity, component any) error {
	if !s.registry.IsAlive(entity) {
		return errors.Wrapf(ErrEntityNotFound, "add %T to entity %d", component, entity)
	}
	s.table(componentType(component), true).Set(entity.Index(), component)
	return nil
}

// RemoveComponentOfType detaches and returns the component of the given type,
// or ErrComponentNotFound if the entity does not hold one.
func (s *Storage) RemoveComponentOfType(entity Entity, typ reflect.Type) (any, error) {
	if !s.registry.IsAlive(entity) {
		return nil, errors.Wrapf(ErrEntityNotFound, "remove %s from entity %d", typ, entity)
	}
	table, ok := s.tables[typ]
	if !ok {
		return nil, errors.Wrapf(ErrComponentNotFound, "%s on entity %d", typ, entity)
	}
	removed, ok := table.Delete(entity.Index())
	if !ok {
		return nil, errors.Wrapf(ErrComponentNotFound, "%s on entity %d", typ, entity)
	}
	return removed, nil
}

// GetComponentOfType returns a pointer (as any) to the entity's component of
// the given type. The pointer stays valid until the next structural mutation
// of the storage.
func (s *Storage) GetComponentOfType(entity Entity, typ reflect.Type) (any, error) {
	if !s.registry.IsAlive(entity) {
		return nil, errors.Wrapf(ErrEntityNotFound, "get %s on entity %d", typ, entity)
	}
	table, ok := s.tables[typ]
	if !ok {
		return nil, errors.Wrapf(ErrComponentNotFound, "%s on entity %d", typ, entity)
	}
	component := table.Get(entity.Index())
	if component == nil {
		return nil, errors.Wrapf(ErrComponentNotFound, "%s on entity %d", typ, entity)
	}
	return component, nil
}

// HasComponent reports whether a live entity holds a component of the given type.
func (s *Storage) HasComponent(entity Entity, typ reflect.Type) bool {
	if !s.registry.IsAlive(entity) {
		return false
	}
	table, ok := s.tables[typ]
	return ok && table.Has(entity.Index())
}

func (s *Storage) table(typ reflect.Type, create bool) *componentTable {
	table, ok := s.tables[typ]
	if !ok && create {
		table = newComponentTable(typ)
		s.tables[typ] = table
	}
	return table
}

// componentType resolves the table key for a component value, dereferencing
// pointers so that T and *T address the same table.
func componentType(component any) reflect.Type {
	typ := reflect.TypeOf(component)
	if typ == nil {
		panic("component must not be nil")
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	// Components are value types: structs or primitives. Reference kinds
	// cannot be copied into table storage meaningfully.
	switch typ.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return typ
}

// GetComponent returns a typed pointer to the entity's component of type T.
// Mutations through the pointer are visible to later reads; the pointer stays
// valid until the next structural mutation of the storage.
func GetComponent[T any](s *Storage, entity Entity) (*T, error) {
	component, err := s.GetComponentOfType(entity, reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return component.(*T), nil
}

// RemoveComponent detaches the entity's component of type T and returns its
// last value.
func RemoveComponent[T any](s *Storage, entity Entity) (T, error) {
	removed, err := s.RemoveComponentOfType(entity, reflect.TypeFor[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	return removed.(T), nil
}

// HasComponentOf reports whether a live entity holds a component of type T.
func HasComponentOf[T any](s *Storage, entity Entity) bool {
	return s.HasComponent(entity, reflect.TypeFor[T]())
}

// GetComponents2 resolves two component types on the same entity at once.
// It fails as a whole if either type is missing.
func GetComponents2[A, B any](s *Storage, entity Entity) (*A, *B, error) {
	a, err := GetComponent[A](s, entity)
	if err != nil {
		return nil, nil, err
	}
	b, err := GetComponent[B](s, entity)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// GetComponents3 resolves three component types on the same entity at once.
// It fails as a whole if any type is missing.
func GetComponents3[A, B, C any](s *Storage, entity Entity) (*A, *B, *C, error) {
	a, b, err := GetComponents2[A, B](s, entity)
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := GetComponent[C](s, entity)
	if err != nil {
		return nil, nil, nil, err
	}
	return a, b, c, nil
}

// ComponentCount returns the number of entities currently holding a component
// of type T.
func ComponentCount[T any](s *Storage) int {
	table, ok := s.tables[reflect.TypeFor[T]()]
	if !ok {
		return 0
	}
	return table.Len()
}
