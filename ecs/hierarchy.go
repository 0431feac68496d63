package ecs

// Parent links an entity to the entity it is attached under. Stored as an
// ordinary component so queries and systems see hierarchy like any other data.
type Parent struct {
	Entity Entity
}

// Children lists the entities attached under an entity.
type Children struct {
	Entities []Entity
}

// SetParent attaches child under parent, replacing any existing parent link.
// Self-parenting and links that would make an entity its own ancestor are
// refused with ErrHierarchyCycle.
func (s *Storage) SetParent(child, parent Entity) error {
	if !s.IsAlive(child) || !s.IsAlive(parent) {
		return ErrEntityNotFound
	}
	if child == parent {
		return ErrHierarchyCycle
	}

	current := parent
	for {
		next, ok := s.ParentOf(current)
		if !ok {
			break
		}
		if next == child {
			return ErrHierarchyCycle
		}
		current = next
	}

	if err := s.RemoveParent(child); err != nil {
		return err
	}

	if children, err := GetComponent[Children](s, parent); err == nil {
		children.Entities = append(children.Entities, child)
	} else {
		s.AddComponent(parent, Children{Entities: []Entity{child}}) //nolint:errcheck
	}

	return s.AddComponent(child, Parent{Entity: parent})
}

// RemoveParent detaches child from its parent, making it a root entity
// again. Detaching an entity that has no parent is a no-op.
func (s *Storage) RemoveParent(child Entity) error {
	if !s.IsAlive(child) {
		return ErrEntityNotFound
	}

	parentComp, err := GetComponent[Parent](s, child)
	if err != nil {
		return nil
	}
	parent := parentComp.Entity

	if children, err := GetComponent[Children](s, parent); err == nil {
		kept := children.Entities[:0]
		for _, e := range children.Entities {
			if e != child {
				kept = append(kept, e)
			}
		}
		children.Entities = kept
		if len(children.Entities) == 0 {
			RemoveComponent[Children](s, parent) //nolint:errcheck
		}
	}

	_, err = RemoveComponent[Parent](s, child)
	return err
}

// ParentOf returns the parent of an entity, or false for a root entity.
func (s *Storage) ParentOf(entity Entity) (Entity, bool) {
	parent, err := GetComponent[Parent](s, entity)
	if err != nil {
		return 0, false
	}
	return parent.Entity, true
}

// ChildrenOf returns an owned copy of the entities attached under an entity.
func (s *Storage) ChildrenOf(entity Entity) []Entity {
	children, err := GetComponent[Children](s, entity)
	if err != nil {
		return nil
	}
	out := make([]Entity, len(children.Entities))
	copy(out, children.Entities)
	return out
}

// detachHierarchy unlinks an entity from its parent and orphans its children.
// Called by RemoveEntity before component rows are cleared.
func (s *Storage) detachHierarchy(entity Entity) {
	s.RemoveParent(entity) //nolint:errcheck
	for _, child := range s.ChildrenOf(entity) {
		s.RemoveParent(child) //nolint:errcheck
	}
}
