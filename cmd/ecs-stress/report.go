package main

import (
	"io"
	"runtime"
	"text/template"
	"time"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Entities int
	Workers  int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	FinalEntities  int
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
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
- **Parallel Workers:** {{if .Workers}}{{.Workers}}{{else}}GOMAXPROCS{{end}}

## Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Time:** {{.TotalTime}}
- **Final Entity Count:** {{.FinalEntities}}

## Frame Time
- **Min:** {{.UpdateTime.Min}}
- **Max:** {{.UpdateTime.Max}}
- **Avg:** {{.UpdateTime.Avg}}

## Memory
- **Heap Before:** {{.MemStatsStart.HeapAlloc}} bytes
- **Heap After:** {{.MemStatsEnd.HeapAlloc}} bytes
- **Total GC Runs:** {{.MemStatsEnd.NumGC}}
{{- if .GCPauseMetrics}}
- **Cumulative GC Pause:** {{.MemStatsEnd.PauseTotalNs}} ns
{{- end}}
`

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
