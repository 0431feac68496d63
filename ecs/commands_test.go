package ecs_test

import (
	"reflect"
	"testing"

	"github.com/mossdale/ember/ecs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type commandIssuer struct {
	issue func(frame *ecs.UpdateFrame)
}

func (s *commandIssuer) Execute(frame *ecs.UpdateFrame) {
	if s.issue != nil {
		s.issue(frame)
	}
}

func TestCommandsSpawnDeferredUntilFlush(t *testing.T) {
	storage := ecs.NewStorage()
	scheduler := ecs.NewScheduler(storage)

	var duringPass int
	scheduler.Register(&commandIssuer{issue: func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Position{X: 5, Y: 5})
		duringPass = frame.Storage.EntityCount()
	}})

	scheduler.Once(1.0)

	assert.Equal(t, 0, duringPass)
	assert.Equal(t, 1, storage.EntityCount())
	assert.Equal(t, 1, ecs.ComponentCount[Position](storage))
}

func TestCommandsDeleteWinsOverAddAndRemove(t *testing.T) {
	storage := ecs.NewStorage()
	e := storage.AddEntityWith(Position{X: 1, Y: 1})

	commands := ecs.NewCommands()
	commands.AddComponent(e, Velocity{DX: 1, DY: 1})
	commands.RemoveComponent(e, reflect.TypeOf(Position{}))
	commands.Delete(e)
	commands.Flush(storage)

	assert.False(t, storage.IsAlive(e))
	assert.Equal(t, 0, ecs.ComponentCount[Velocity](storage))
}

func TestCommandsAgainstDeadEntityAreSkipped(t *testing.T) {
	storage := ecs.NewStorage()
	e := storage.AddEntityWith(Position{})
	assert.NoError(t, storage.RemoveEntity(e))

	commands := ecs.NewCommands()
	commands.AddComponent(e, Velocity{})
	commands.Delete(e)
	commands.Flush(storage)

	assert.Equal(t, 0, storage.EntityCount())
	assert.Equal(t, 0, ecs.ComponentCount[Velocity](storage))
}

func TestCommandsDeferRunsLast(t *testing.T) {
	storage := ecs.NewStorage()

	var observed int
	commands := ecs.NewCommands()
	commands.Spawn(Position{})
	commands.Defer(func() {
		observed = ecs.ComponentCount[Position](storage)
	})
	commands.Flush(storage)

	assert.Equal(t, 1, observed)
}

func TestCommandsBufferResetsAfterFlush(t *testing.T) {
	storage := ecs.NewStorage()

	commands := ecs.NewCommands()
	commands.Spawn(Position{})
	commands.Flush(storage)
	commands.Flush(storage)

	assert.Equal(t, 1, storage.EntityCount())
}

func TestCommandsAddThenRemoveSameFlush(t *testing.T) {
	storage := ecs.NewStorage()
	e := storage.AddEntityWith(Position{X: 1, Y: 1})

	// Removes apply before adds, so an add in the same flush survives
	commands := ecs.NewCommands()
	commands.RemoveComponent(e, reflect.TypeOf(Position{}))
	commands.AddComponent(e, Position{X: 9, Y: 9})
	commands.Flush(storage)

	pos, err := ecs.GetComponent[Position](storage, e)
	assert.NoError(t, err)
	assert.Equal(t, float32(9), pos.X)
}

func TestRemoveEntityThenQuery(t *testing.T) {
	storage := ecs.NewStorage()

	e1 := storage.AddEntityWith(Position{X: 1, Y: 1})
	e2 := storage.AddEntityWith(Position{X: 2, Y: 2})

	// Materialize, then mutate: the documented safe pattern
	snapshot := ecs.EntitiesWith1[Position](storage)
	assert.NoError(t, storage.RemoveEntity(e1))

	alive := 0
	for _, e := range snapshot {
		if !storage.IsAlive(e) {
			continue
		}
		_, err := ecs.GetComponent[Position](storage, e)
		assert.NoError(t, err)
		alive++
	}
	assert.Equal(t, 1, alive)
	assert.True(t, storage.IsAlive(e2))

	_, err := ecs.GetComponent[Position](storage, e1)
	assert.True(t, errors.Is(err, ecs.ErrEntityNotFound))
}
