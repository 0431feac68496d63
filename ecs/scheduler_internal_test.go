package ecs

import "testing"

type nopSystem struct{}

func (nopSystem) Execute(frame *UpdateFrame) {}

type otherNopSystem struct{}

func (otherNopSystem) Execute(frame *UpdateFrame) {}

// Removal must clear the vacated backing-array slots so removed systems and
// their query caches become collectable.
func TestRemoveClearsVacatedSlots(t *testing.T) {
	s := NewScheduler(NewStorage())
	handle := s.Register(nopSystem{})
	s.Register(otherNopSystem{})

	if !s.Remove(handle) {
		t.Fatal("Remove returned false for a live handle")
	}
	if got := s.systems[:2][1]; got != nil {
		t.Errorf("vacated slot still holds %v", got)
	}
}

func TestRemoveSystemsOfTypeClearsVacatedSlots(t *testing.T) {
	s := NewScheduler(NewStorage())
	s.Register(nopSystem{})
	s.Register(otherNopSystem{})
	s.Register(nopSystem{})

	if removed := RemoveSystemsOfType[nopSystem](s); removed != 2 {
		t.Fatalf("removed %d systems, want 2", removed)
	}
	for i, entry := range s.systems[:3][1:] {
		if entry != nil {
			t.Errorf("vacated slot %d still holds %v", i+1, entry)
		}
	}
}

func TestRemoveAllClearsBackingArray(t *testing.T) {
	s := NewScheduler(NewStorage())
	s.Register(nopSystem{})
	s.Register(otherNopSystem{})

	s.RemoveAll()
	for i, entry := range s.systems[:2] {
		if entry != nil {
			t.Errorf("slot %d still holds %v", i, entry)
		}
	}
}
