package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	// CommandsFlushed counts queued commands handed to Flush, failed or not.
	CommandsFlushed int64
	FlushErrors     int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	// CommandsQueued counts the commands the system left on UpdateFrame.Commands.
	CommandsQueued int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemRecord struct {
	system System
	stats  SystemStats
}

func (r *systemRecord) observe(d time.Duration, queued int) {
	st := &r.stats
	st.ExecutionCount++
	st.CommandsQueued += int64(queued)
	st.LastDuration = d
	st.TotalDuration += d
	if st.ExecutionCount == 1 || d < st.MinDuration {
		st.MinDuration = d
	}
	st.MaxDuration = max(st.MaxDuration, d)
	st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
}

// Scheduler runs systems in registration order against one Storage. After
// every pass it flushes the commands the systems queued.
type Scheduler struct {
	storage *Storage
	systems []*systemRecord

	frames      int64
	flushed     int64
	flushErrors int64
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register adds a system to the scheduler and binds its PoolRef and
// Singleton fields to the storage.
func (s *Scheduler) Register(system System) {
	s.initializeFields(system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Pointer {
		systemType = systemType.Elem()
	}
	name := systemType.Name()
	if name == "" {
		name = systemType.String()
	}

	s.systems = append(s.systems, &systemRecord{system: system, stats: SystemStats{Name: name}})
	s.storage.logger.Debug().Str("system", name).Int("position", len(s.systems)-1).Msg("registered system")
}

// initializer is implemented by system fields that bind to a storage, such
// as PoolRef and Singleton.
type initializer interface {
	Init(storage *Storage)
}

func (s *Scheduler) initializeFields(system System) {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Pointer {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		if binder, ok := field.Addr().Interface().(initializer); ok {
			binder.Init(s.storage)
		}
	}
}

// Once executes all registered systems once with the given delta time, then
// applies their queued commands.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.storage)

	for _, rec := range s.systems {
		queued := frame.Commands.Len()
		start := time.Now()
		rec.system.Execute(frame)
		rec.observe(time.Since(start), frame.Commands.Len()-queued)
	}

	s.frames++
	s.flushed += int64(frame.Commands.Len())
	if err := frame.Commands.Flush(s.storage); err != nil {
		s.flushErrors++
		s.storage.logger.Error().Err(err).Int64("frame", s.frames).Msg("flushing frame commands")
	}
}

// Run executes all systems at the given interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.storage.logger.Debug().Dur("interval", interval).Int("systems", len(s.systems)).Msg("scheduler started")
	defer func() {
		s.storage.logger.Debug().Int64("frames", s.frames).Msg("scheduler stopped")
	}()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Once(now.Sub(last).Seconds())
			last = now
		}
	}
}

// GetStats returns statistics about system execution. It must not be called
// concurrently with Once or Run.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount:     len(s.systems),
		Frames:          s.frames,
		CommandsFlushed: s.flushed,
		FlushErrors:     s.flushErrors,
		Systems:         make([]SystemStats, len(s.systems)),
	}
	for i, rec := range s.systems {
		stats.Systems[i] = rec.stats
		stats.TotalExecutions += rec.stats.ExecutionCount
	}
	return stats
}
