package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

const tableInitialCapacity = 64

// componentTable is a sparse set holding every component of a single type.
// Values live contiguously in a dense slice; the intmap resolves an entity
// slot index to its dense position. Tables are created lazily on the first
// insert of a new component type, so no registration step is needed.
//
// Removal swaps the last value into the hole, so pointers handed out by Get
// stay valid only until the next structural mutation of the table.
type componentTable struct {
	typ     reflect.Type
	dense   reflect.Value // []T
	indices []uint32
	sparse  *intmap.Map[uint32, int]
}

func newComponentTable(typ reflect.Type) *componentTable {
	return &componentTable{
		typ:    typ,
		dense:  reflect.MakeSlice(reflect.SliceOf(typ), 0, tableInitialCapacity),
		sparse: intmap.New[uint32, int](tableInitialCapacity),
	}
}

// Set stores a component for the entity slot index, overwriting any prior
// value of the same type. Accepts either a value or a pointer to one; either
// way the table keeps its own copy.
func (ct *componentTable) Set(index uint32, component any) {
	value := reflect.ValueOf(component)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}

	if pos, ok := ct.sparse.Get(index); ok {
		ct.dense.Index(pos).Set(value)
		return
	}

	ct.sparse.Put(index, ct.dense.Len())
	ct.dense = reflect.Append(ct.dense, value)
	ct.indices = append(ct.indices, index)
}

// Get returns a *T (as any) for the entity slot index, or nil if absent.
func (ct *componentTable) Get(index uint32) any {
	pos, ok := ct.sparse.Get(index)
	if !ok {
		return nil
	}
	return ct.dense.Index(pos).Addr().Interface()
}

// Has reports whether the entity slot index holds a component in this table.
func (ct *componentTable) Has(index uint32) bool {
	_, ok := ct.sparse.Get(index)
	return ok
}

// Delete removes the component for the entity slot index and returns its last
// value (as a T, not a *T). The final dense element is swapped into the
// vacated position to keep storage contiguous.
func (ct *componentTable) Delete(index uint32) (any, bool) {
	pos, ok := ct.sparse.Get(index)
	if !ok {
		return nil, false
	}

	removed := ct.dense.Index(pos).Interface()
	last := ct.dense.Len() - 1
	if pos != last {
		ct.dense.Index(pos).Set(ct.dense.Index(last))
		ct.indices[pos] = ct.indices[last]
		ct.sparse.Put(ct.indices[pos], pos)
	}

	ct.dense.Index(last).SetZero()
	ct.dense = ct.dense.Slice(0, last)
	ct.indices = ct.indices[:last]
	ct.sparse.Del(index)
	return removed, true
}

// Len returns the number of components stored in this table.
func (ct *componentTable) Len() int {
	return len(ct.indices)
}

// Indices iterates the entity slot indices currently present in the table,
// in dense storage order.
func (ct *componentTable) Indices() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for _, index := range ct.indices {
			if !yield(index) {
				return
			}
		}
	}
}
