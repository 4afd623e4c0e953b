// Package observ records how long the stages of a command take, for
// --timings output.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Stage is one timed step: reading a bundle, deserializing an ATN, filling
// a token buffer.
type Stage struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	done  bool
}

// Timer collects stages. It is safe for concurrent use, so grammars loaded
// in parallel can time themselves into one Timer.
type Timer struct {
	mu     sync.Mutex
	stages []Stage
	now    func() time.Time
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Begin opens a stage and returns its handle for End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages = append(t.stages, Stage{Name: name, Start: t.now()})
	return len(t.stages) - 1
}

// End closes the stage. Unknown or already closed handles are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.stages) || t.stages[idx].done {
		return
	}
	s := &t.stages[idx]
	s.Dur = t.now().Sub(s.Start)
	s.Note = note
	s.done = true
}

// Measure times fn as one stage; the stage note is "error" when fn fails.
func (t *Timer) Measure(name string, fn func() error) error {
	idx := t.Begin(name)
	err := fn()
	note := ""
	if err != nil {
		note = "error"
	}
	t.End(idx, note)
	return err
}

// StageReport is one stage in serializable form.
type StageReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report summarizes the closed stages. TotalMS is the wall time from the
// first start to the last end, which is less than the sum when stages
// overlap.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var r Report
	var first, last time.Time
	for _, s := range t.stages {
		if !s.done {
			continue
		}
		r.Stages = append(r.Stages, StageReport{Name: s.Name, DurationMS: millis(s.Dur), Note: s.Note})
		if first.IsZero() || s.Start.Before(first) {
			first = s.Start
		}
		if end := s.Start.Add(s.Dur); end.After(last) {
			last = end
		}
	}
	if len(r.Stages) > 0 {
		r.TotalMS = millis(last.Sub(first))
	}
	return r
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	report := t.Report()
	width := len("total")
	for _, s := range report.Stages {
		width = max(width, len(s.Name))
	}
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, s := range report.Stages {
		fmt.Fprintf(&sb, "  %-*s %8.2f ms", width, s.Name, s.DurationMS)
		if s.Note != "" {
			sb.WriteString("  // " + s.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-*s %8.2f ms\n", width, "total", report.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
