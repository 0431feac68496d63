package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"

	"github.com/mossdale/ember/ecs"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	workers := flag.Int("workers", 0, "Worker count for the parallel step phase (0 = GOMAXPROCS).")
	churn := flag.Float64("churn", 0.01, "Fraction of entities removed and respawned each frame.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a profile: cpu or mem.")
	flag.Parse()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "":
	default:
		log.Fatalf("unknown profile mode %q", *profileMode)
	}

	log.Println("Starting ECS stress test...")

	// 1. Setup Storage and Scheduler
	storage := ecs.NewStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&movementSystem{})
	scheduler.Register(&agingSystem{})
	scheduler.Register(&churnSystem{rate: *churn})
	scheduler.Register(&parallelDamping{})

	// 2. Populate storage with initial entities
	log.Printf("Populating storage with %d entities...\n", *entityCount)
	for i := 0; i < *entityCount; i++ {
		spawnRandomEntity(storage)
	}
	log.Println("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Workers:        *workers,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)

	ctx := context.Background()
	start := time.Now()
	last := start
	for time.Since(start) < *duration {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		frameStart := time.Now()
		scheduler.Once(dt)
		if err := scheduler.StepParallel(ctx, *workers); err != nil {
			log.Fatalf("parallel step failed: %v", err)
		}
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(frameStart))
		report.TotalUpdates++
	}
	report.TotalTime = time.Since(start)
	report.FinalEntities = storage.EntityCount()

	runtime.ReadMemStats(&report.MemStatsEnd)
	report.UpdateTime.Finalize()

	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("failed to generate report: %v", err)
	}

	for _, sys := range scheduler.Stats().Systems {
		fmt.Printf("%-20s avg=%-12s max=%s\n", sys.Name, sys.AvgDuration, sys.MaxDuration)
	}
}

func spawnRandomEntity(storage *ecs.Storage) ecs.Entity {
	components := []any{position{
		X: rand.Float64() * 1000,
		Y: rand.Float64() * 1000,
	}}
	if rand.Intn(2) == 0 {
		components = append(components, velocity{
			DX: rand.Float64()*10 - 5,
			DY: rand.Float64()*10 - 5,
		})
	}
	if rand.Intn(3) == 0 {
		components = append(components, lifetime{Remaining: rand.Float64() * 30})
	}
	return storage.AddEntityWith(components...)
}

type position struct {
	X, Y float64
}

type velocity struct {
	DX, DY float64
}

type lifetime struct {
	Remaining float64
}

type movementSystem struct {
	Moving ecs.Query[struct {
		*position
		*velocity
	}]
}

func (s *movementSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Moving.Values() {
		item.position.X += item.velocity.DX * frame.DeltaTime
		item.position.Y += item.velocity.DY * frame.DeltaTime
	}
}

type agingSystem struct {
	Aging ecs.Query[struct {
		*lifetime
	}]
}

func (s *agingSystem) Execute(frame *ecs.UpdateFrame) {
	for entity, item := range s.Aging.Iter() {
		item.lifetime.Remaining -= frame.DeltaTime
		if item.lifetime.Remaining <= 0 {
			frame.Commands.Delete(entity)
		}
	}
}

// churnSystem removes a slice of the population each frame and respawns the
// same number, exercising slot recycling and table compaction under load.
type churnSystem struct {
	rate float64
}

func (s *churnSystem) Execute(frame *ecs.UpdateFrame) {
	entities := frame.Storage.Entities()
	victims := int(float64(len(entities)) * s.rate)
	for i := 0; i < victims; i++ {
		frame.Commands.Delete(entities[rand.Intn(len(entities))])
		frame.Commands.Spawn(position{X: rand.Float64() * 1000, Y: rand.Float64() * 1000})
	}
}

// parallelDamping runs in the parallel step phase, decaying every moving
// entity's velocity toward zero.
type parallelDamping struct{}

func (s *parallelDamping) Execute(frame *ecs.UpdateFrame) {}

func (s *parallelDamping) PreStep(storage *ecs.Storage) []ecs.Entity {
	return ecs.EntitiesWith1[velocity](storage)
}

func (s *parallelDamping) StepEntity(entity *ecs.SingleEntity) error {
	vel, err := ecs.GetFrom[velocity](entity)
	if err != nil {
		return err
	}
	vel.DX *= 0.999
	vel.DY *= 0.999
	return nil
}
