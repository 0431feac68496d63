package ecs

import "reflect"

// Resources are world-global values keyed by their type, not attached to any
// entity. Systems use them for shared state like time, input, or settings.

// Updatable is implemented by resources that want a tick at the start of
// every sequential scheduler pass, before any system runs.
type Updatable interface {
	Update()
}

// AddResource stores a resource, replacing any prior resource of the same
// type. A non-pointer value is copied into a fresh cell so that ResourceOf
// can hand out a stable pointer to it.
func (s *Storage) AddResource(resource any) {
	typ := reflect.TypeOf(resource)
	if typ.Kind() == reflect.Ptr {
		s.resources[typ.Elem()] = resource
		return
	}

	cell := reflect.New(typ)
	cell.Elem().Set(reflect.ValueOf(resource))
	s.resources[typ] = cell.Interface()
}

// RemoveResourceOfType deletes the resource of the given type, if present.
func (s *Storage) RemoveResourceOfType(typ reflect.Type) {
	delete(s.resources, typ)
}

// ResourceOf returns a pointer to the resource of type T, or false if none
// has been added.
func ResourceOf[T any](s *Storage) (*T, bool) {
	resource, ok := s.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return resource.(*T), true
}

// RemoveResource deletes the resource of type T, if present.
func RemoveResource[T any](s *Storage) {
	s.RemoveResourceOfType(reflect.TypeFor[T]())
}

// updateResources ticks every resource implementing Updatable.
func (s *Storage) updateResources() {
	for _, resource := range s.resources {
		if updatable, ok := resource.(Updatable); ok {
			updatable.Update()
		}
	}
}

// ResourceRef provides access to a resource from a system field. The
// Scheduler initializes ResourceRef fields during system registration, the
// same way it initializes Query fields.
type ResourceRef[T any] struct {
	storage *Storage
}

// Init initializes the ResourceRef with a storage reference.
// Called automatically by the Scheduler during system registration.
func (r *ResourceRef[T]) Init(storage *Storage) {
	r.storage = storage
}

// Get returns a pointer to the resource, or nil if it has not been added.
func (r *ResourceRef[T]) Get() *T {
	resource, ok := ResourceOf[T](r.storage)
	if !ok {
		return nil
	}
	return resource
}

// Exists reports whether the resource has been added to storage.
func (r *ResourceRef[T]) Exists() bool {
	_, ok := ResourceOf[T](r.storage)
	return ok
}
