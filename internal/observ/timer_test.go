package observ

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func fakeClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(10 * time.Millisecond)
		return t
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock()
	read := tm.Begin("read")
	tm.End(read, "")
	tm.End(read, "again")
	err := tm.Measure("deserialize", func() error { return errors.New("boom") })
	if err == nil {
		t.Fatalf("Measure must return fn's error")
	}
	tm.Begin("open")

	r := tm.Report()
	if len(r.Stages) != 2 {
		t.Fatalf("stages = %+v", r.Stages)
	}
	if r.Stages[0].DurationMS != 10 || r.Stages[0].Note != "" || r.Stages[1].Note != "error" {
		t.Fatalf("stages = %+v", r.Stages)
	}
	if r.TotalMS != 30 {
		t.Fatalf("TotalMS = %v, want 30", r.TotalMS)
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "deserialize    10.00 ms  // error") || !strings.Contains(sum, "total          30.00 ms") {
		t.Fatalf("summary:\n%s", sum)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if err := tm.Measure("y", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	if len(tm.Report().Stages) != 0 {
		t.Fatalf("nil timer must record nothing")
	}
}
