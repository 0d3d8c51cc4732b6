// Package observ measures where a single file's run spends its time.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer collects named phases of one file run. A nil *Timer records nothing.
type Timer struct {
	mu   sync.Mutex
	done []Timing
}

// Timing is one finished phase.
type Timing struct {
	Phase   string  `json:"name"`
	Millis  float64 `json:"duration_ms"`
	Comment string  `json:"note,omitempty"`
}

// Report lists finished phases in completion order.
type Report struct {
	TotalMS float64  `json:"total_ms"`
	Phases  []Timing `json:"phases"`
}

func NewTimer() *Timer { return &Timer{} }

// Start opens phase and returns the function that closes it with a note.
// Calling the stop function more than once records only the first call.
func (t *Timer) Start(phase string) func(note string) {
	began := time.Now()
	var once sync.Once
	return func(note string) {
		once.Do(func() { t.record(phase, time.Since(began), note) })
	}
}

func (t *Timer) record(phase string, d time.Duration, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.done = append(t.done, Timing{Phase: phase, Millis: millis(d), Comment: note})
	t.mu.Unlock()
}

// Report snapshots the finished phases.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	r := Report{Phases: append([]Timing(nil), t.done...)}
	for _, p := range r.Phases {
		r.TotalMS += p.Millis
	}
	return r
}

// Summary renders r as an indented table headed by label.
func (r Report) Summary(label string) string {
	rows := make([]string, 0, len(r.Phases)+2)
	rows = append(rows, "timings: "+label)
	for _, p := range r.Phases {
		row := fmt.Sprintf("  %-10s %8.2f ms", p.Phase, p.Millis)
		if p.Comment != "" {
			row += "  // " + p.Comment
		}
		rows = append(rows, row)
	}
	rows = append(rows, fmt.Sprintf("  %-10s %8.2f ms", "total", r.TotalMS))
	return strings.Join(rows, "\n") + "\n"
}

func millis(d time.Duration) float64 {
	return d.Seconds() * 1e3
}
