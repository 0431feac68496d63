package ecs_test

import (
	"context"
	"testing"

	"github.com/mossdale/ember/ecs"
)

func BenchmarkAddEntityWith(b *testing.B) {
	storage := ecs.NewStorage()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.AddEntityWith(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkAddEntityWithMultipleComponents(b *testing.B) {
	storage := ecs.NewStorage()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.AddEntityWith(
			Position{X: 1.0, Y: 2.0},
			Velocity{DX: 0.5, DY: 0.5},
			Health{Current: 100, Max: 100},
			Name{Value: "Entity"},
		)
	}
}

func BenchmarkRemoveEntity(b *testing.B) {
	storage := ecs.NewStorage()

	entities := make([]ecs.Entity, b.N)
	for i := 0; i < b.N; i++ {
		entities[i] = storage.AddEntityWith(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.RemoveEntity(entities[i]) //nolint:errcheck
	}
}

func BenchmarkGetComponent(b *testing.B) {
	storage := ecs.NewStorage()

	e := storage.AddEntityWith(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ecs.GetComponent[Position](storage, e)
	}
}

func BenchmarkEntitiesWithIntersection(b *testing.B) {
	storage := ecs.NewStorage()

	for i := 0; i < 10000; i++ {
		switch i % 3 {
		case 0:
			storage.AddEntityWith(Position{X: float32(i)})
		case 1:
			storage.AddEntityWith(Position{X: float32(i)}, Velocity{DX: 1})
		default:
			storage.AddEntityWith(Velocity{DX: 1})
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.EntitiesWith2[Position, Velocity](storage)
	}
}

func BenchmarkQueryIter(b *testing.B) {
	storage := ecs.NewStorage()

	for i := 0; i < 10000; i++ {
		storage.AddEntityWith(Position{X: float32(i)}, Velocity{DX: 1, DY: 1})
	}

	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		query.Execute()
		for item := range query.Values() {
			item.Position.X += item.Velocity.DX
		}
	}
}

func BenchmarkStepParallel(b *testing.B) {
	storage := ecs.NewStorage()
	for i := 0; i < 10000; i++ {
		storage.AddEntityWith(Position{X: float32(i)}, Velocity{DX: 1, DY: 1})
	}

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&parallelMovement{})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := scheduler.StepParallel(ctx, 0); err != nil {
			b.Fatal(err)
		}
	}
}
