package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	stopRead := tm.Start("read")
	stopRead("12 bytes")
	stopRead("ignored")
	tm.Start("lint")("")
	tm.Start("never closed")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("got %d phases, want 2: %+v", len(r.Phases), r.Phases)
	}
	if r.Phases[0].Phase != "read" || r.Phases[0].Comment != "12 bytes" {
		t.Fatalf("unexpected first phase: %+v", r.Phases[0])
	}
	if r.TotalMS < r.Phases[0].Millis {
		t.Fatalf("total %.3f smaller than a phase %.3f", r.TotalMS, r.Phases[0].Millis)
	}

	s := r.Summary("app.js")
	for _, want := range []string{"timings: app.js", "read", "// 12 bytes", "total"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Start("x")("")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer produced phases: %+v", r)
	}
}
