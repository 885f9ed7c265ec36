package main

import (
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"text/template"
	"time"

	"github.com/plus3/ecspool/ecs"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	Entities   int
	Workers    int
	Components int
	Systems    int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Churn          ChurnStats
	SchedulerStats *ecs.SchedulerStats
	PeakStats      *ecs.StorageStats
	FinalStats     *ecs.StorageStats
	Leaks          []ecs.PoolStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// ChurnStats is shared by every churn worker.
type ChurnStats struct {
	Spawned           atomic.Int64
	Deleted           atomic.Int64
	ComponentsDeleted atomic.Int64
	Attached          atomic.Int64
	Reads             atomic.Int64
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Churn Workers:** {{.Workers}}
- **Generated Components:** {{.Components}}
- **Generated Systems:** {{.Systems}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Churn
- Entities spawned: {{.Churn.Spawned.Load}}
- Entities deleted: {{.Churn.Deleted.Load}} ({{.Churn.ComponentsDeleted.Load}} components)
- Attaches: {{.Churn.Attached.Load}}
- Count reads: {{.Churn.Reads.Load}}

## Pools at End of Run
- Entities issued: {{.PeakStats.EntitiesIssued}}
- Live components: {{.PeakStats.TotalComponents}} in {{.PeakStats.TotalChunks}} chunks

| Type | Type ID | Allocator | Block | Count | Chunks |
|---|---|---|---|---|---|
{{- range .PeakStats.PoolBreakdown}}
| {{.Type}} | {{printf "%016x" .TypeId}} | {{.Allocator}} | {{.Hints.BlockSize}} | {{.Count}} | {{.ChunkCount}} |
{{- end}}

## Systems
- Frames: {{.SchedulerStats.Frames}}, commands flushed: {{.SchedulerStats.CommandsFlushed}}, flush errors: {{.SchedulerStats.FlushErrors}}
{{- range .SchedulerStats.Systems}}
- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}, {{.CommandsQueued}} commands queued
{{- end}}

## Teardown
{{- if .Leaks}}
- **FAILED:** {{len .Leaks}} pools not empty
{{- range .Leaks}}
  - {{.Type}}: {{.Count}} components, {{.ChunkCount}} chunks
{{- end}}
{{- else}}
- All {{.FinalStats.PoolCount}} pools empty, 0 chunks held
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parsing report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
