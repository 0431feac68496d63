package ecs_test

import (
	"fmt"
	"sort"

	"github.com/mossdale/ember/ecs"
)

// ExampleWorld shows the full loop: populate a world, register a system, and
// run sequential passes.
func ExampleWorld() {
	world := ecs.NewWorld()

	world.Storage.AddEntityWith(Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 1})
	world.Storage.AddEntityWith(Position{X: 10, Y: 0}, Velocity{DX: -1, DY: 0})
	world.Storage.AddEntityWith(Name{Value: "scenery"})

	world.AddSystem(&MovementSystem{})

	for i := 0; i < 5; i++ {
		world.Run(1.0)
	}

	var results []string
	for _, e := range ecs.EntitiesWith2[Position, Velocity](world.Storage) {
		pos, _ := ecs.GetComponent[Position](world.Storage, e)
		results = append(results, fmt.Sprintf("(%.0f, %.0f)", pos.X, pos.Y))
	}
	sort.Strings(results)

	for _, r := range results {
		fmt.Println(r)
	}

	// Output:
	// (5, 0)
	// (5, 5)
}
