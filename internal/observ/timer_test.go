package observ

import (
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	done := tm.Track("load")
	done("2412")
	idx := tm.Begin("mesh")
	tm.End(idx, "")
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %d", len(rep.Phases))
	}
	if rep.Phases[0].DurationMS != 2 || rep.Phases[0].Note != "2412" {
		t.Fatalf("load phase = %+v", rep.Phases[0])
	}
	if rep.TotalMS != 4 {
		t.Fatalf("total = %g", rep.TotalMS)
	}
	if d, ok := tm.Duration("mesh"); !ok || d != 2*time.Millisecond {
		t.Fatalf("mesh duration = %v %v", d, ok)
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:", "load", "// 2412", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary missing %q:\n%s", want, sum)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if rep := NewTimer().Report(); rep.TotalMS != 0 || rep.Phases != nil {
		t.Fatalf("report = %+v", rep)
	}
}
