package ecs

import (
	"reflect"
	"unsafe"
)

// View resolves a fixed combination of component types for single entities.
// The type T should be a struct with pointer fields, one per component type.
// Embedded fields are always required; named fields can be marked optional
// with the `ecs:"optional"` struct tag and come back nil when absent.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
}

// NewView creates a new view for the given struct type.
func NewView[T any](storage *Storage) *View[T] {
	var zero T
	structType := reflect.TypeOf(zero)

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	types := make([]reflect.Type, 0, structType.NumField())
	optional := make([]bool, 0, structType.NumField())
	fieldOffset := make([]uintptr, 0, structType.NumField())

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		types = append(types, field.Type.Elem())
		fieldOffset = append(fieldOffset, field.Offset)

		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}
		optional = append(optional, isOptional)
	}

	return &View[T]{
		storage:     storage,
		types:       types,
		optional:    optional,
		fieldOffset: fieldOffset,
	}
}

// requiredTypes returns the component types an entity must hold to match.
func (v *View[T]) requiredTypes() []reflect.Type {
	required := make([]reflect.Type, 0, len(v.types))
	for i, typ := range v.types {
		if !v.optional[i] {
			required = append(required, typ)
		}
	}
	return required
}

// Fill populates the provided struct pointer with component pointers for the
// given entity. Returns false if the entity is dead or missing any required
// component. Optional fields are set to nil when the component is absent.
func (v *View[T]) Fill(entity Entity, ptr *T) bool {
	if !v.storage.registry.IsAlive(entity) {
		return false
	}

	index := entity.Index()

	// Write each field directly through its pre-computed offset; this keeps
	// reflection out of the per-entity hot path.
	structPtr := unsafe.Pointer(ptr)

	for i, typ := range v.types {
		var component any
		if table := v.storage.tables[typ]; table != nil {
			component = table.Get(index)
		}

		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])

		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
		} else {
			// component is an interface holding a *T; its data word is the
			// component pointer itself.
			*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
		}
	}

	return true
}

// Get returns a populated view struct for the given entity, or nil if the
// entity doesn't hold all the required components.
func (v *View[T]) Get(entity Entity) *T {
	var result T
	if !v.Fill(entity, &result) {
		return nil
	}
	return &result
}
