package ecs

import (
	"context"
	"reflect"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// SystemHandle identifies a registered system for later removal.
type SystemHandle uint64

// queryExecutor matches Query fields so the scheduler can refresh their
// snapshots before a system runs.
type queryExecutor interface {
	Execute()
}

type registeredSystem struct {
	handle  SystemHandle
	system  System
	queries []queryExecutor
	stats   *systemStatsInternal
}

// Scheduler manages and executes systems in registration order.
type Scheduler struct {
	storage    *Storage
	systems    []*registeredSystem
	nextHandle SystemHandle
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage: storage,
		systems: make([]*registeredSystem, 0),
	}
}

// Register adds a system to the scheduler, initializes its Query and
// ResourceRef fields, and returns a handle for later removal. Registration
// order is invocation order during a sequential pass.
func (s *Scheduler) Register(system System) SystemHandle {
	entry := &registeredSystem{
		handle: s.nextHandle,
		system: system,
	}
	s.nextHandle++

	entry.queries = s.initializeFields(system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	entry.stats = &systemStatsInternal{
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	}

	s.systems = append(s.systems, entry)
	return entry.handle
}

// Remove deletes the system identified by the handle, preserving the order
// of the remaining systems. Returns false if the handle is unknown.
func (s *Scheduler) Remove(handle SystemHandle) bool {
	for i, entry := range s.systems {
		if entry.handle == handle {
			copy(s.systems[i:], s.systems[i+1:])
			// Clear the vacated tail slot so the removed system can be
			// collected.
			s.systems[len(s.systems)-1] = nil
			s.systems = s.systems[:len(s.systems)-1]
			return true
		}
	}
	return false
}

// RemoveAll deletes every registered system.
func (s *Scheduler) RemoveAll() {
	clear(s.systems)
	s.systems = s.systems[:0]
}

// RemoveSystemsOfType deletes every registered system whose concrete type is
// T, returning how many were removed.
func RemoveSystemsOfType[T System](s *Scheduler) int {
	target := reflect.TypeFor[T]()
	removed := 0
	kept := s.systems[:0]
	for _, entry := range s.systems {
		if reflect.TypeOf(entry.system) == target {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	clear(s.systems[len(kept):])
	s.systems = kept
	return removed
}

// initializeFields wires a system's Query and ResourceRef fields to the
// scheduler's storage and collects the queries for per-pass refresh.
func (s *Scheduler) initializeFields(system System) []queryExecutor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	systemType := systemValue.Type()
	var queries []queryExecutor

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		if !strings.HasPrefix(typeName, "Query[") && !strings.HasPrefix(typeName, "ResourceRef[") {
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic("Init method not found on field: " + fieldType.Name)
		}
		initMethod.Call([]reflect.Value{reflect.ValueOf(s.storage)})

		if executor, ok := field.Addr().Interface().(queryExecutor); ok {
			queries = append(queries, executor)
		}
	}

	return queries
}

// Once executes all registered systems once, in registration order, with the
// given delta time. Resource Update hooks run first, each system's Query
// snapshots are refreshed just before it executes, and deferred Commands are
// flushed after the last system returns.
func (s *Scheduler) Once(dt float64) {
	s.storage.updateResources()

	frame := newUpdateFrame(dt, s.storage)

	for _, entry := range s.systems {
		for _, query := range entry.queries {
			query.Execute()
		}

		start := time.Now()
		entry.system.Execute(frame)
		duration := time.Since(start)

		stats := entry.stats
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	frame.Commands.Flush(s.storage)
}

// Run executes all systems repeatedly at the given interval until the
// context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// StepParallel runs the two-phase parallel path over every registered system
// that implements EntityStepper, in registration order.
//
// For each such system, PreStep (when implemented) materializes the matched
// entity set on the calling goroutine while storage is only being read. The
// set is then partitioned into disjoint contiguous chunks and stepped by up
// to workers goroutines, each entity visited exactly once. Systems run one
// after another; parallelism is across entities, never across systems, so a
// StepEntity that mutates in place through its own entity's component
// pointers needs no lock. Structural changes queued on the handle's Commands
// buffer are applied once, after the last system's workers finish, mirroring
// the sequential pass.
//
// The first StepEntity error cancels the remaining work for that system and
// is returned; later systems do not run and nothing queued is applied.
// workers <= 0 means GOMAXPROCS.
func (s *Scheduler) StepParallel(ctx context.Context, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	commands := NewCommands()

	for _, entry := range s.systems {
		stepper, ok := entry.system.(EntityStepper)
		if !ok {
			continue
		}

		var matched []Entity
		if pre, ok := entry.system.(PreStepper); ok {
			matched = pre.PreStep(s.storage)
		} else {
			matched = s.storage.Entities()
		}
		if len(matched) == 0 {
			continue
		}

		group, groupCtx := errgroup.WithContext(ctx)

		chunkSize := (len(matched) + workers - 1) / workers
		for start := 0; start < len(matched); start += chunkSize {
			end := min(start+chunkSize, len(matched))
			chunk := matched[start:end]

			group.Go(func() error {
				for _, entity := range chunk {
					select {
					case <-groupCtx.Done():
						return groupCtx.Err()
					default:
					}

					if err := stepper.StepEntity(s.storage.SingleEntity(entity, commands)); err != nil {
						return err
					}
				}
				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return err
		}
	}

	commands.Flush(s.storage)
	return nil
}

// Stats returns statistics about system execution.
func (s *Scheduler) Stats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}

	var totalExecs int64
	for i, entry := range s.systems {
		internal := entry.stats

		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
