package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	if err := tm.Measure("parse", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("annotate", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure returned %v", err)
	}

	r := tm.Report()
	if len(r.Phases) != 2 || r.TotalMS != 4 {
		t.Fatalf("report = %+v", r)
	}
	if r.Phases[0].Name != "parse" || r.Phases[0].DurationMS != 2 || r.Phases[0].Note != "" {
		t.Errorf("phase 0 = %+v", r.Phases[0])
	}
	if r.Phases[1].Note != "failed" {
		t.Errorf("phase 1 = %+v", r.Phases[1])
	}
	if s := tm.Summary(); !strings.Contains(s, "annotate") || !strings.Contains(s, "// failed") {
		t.Errorf("summary:\n%s", s)
	}
}

func TestEndIgnoresUnknownIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "x")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("report = %+v", r)
	}
}
