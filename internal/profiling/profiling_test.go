package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAndTopN(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["a"] = 3 * time.Millisecond
	frameTotals["b"] = 1500 * time.Microsecond
	frameTotals["c"] = 200 * time.Microsecond
	mu.Unlock()

	if got := TopN(2); got != "a:3ms, b:1.5ms" {
		t.Errorf("TopN(2) = %q", got)
	}
	if got := TopN(10); strings.Count(got, ",") != 2 {
		t.Errorf("TopN(10) = %q, want all three entries", got)
	}

	stop := Track("d")
	stop()
	if _, ok := Snapshot()["d"]; !ok {
		t.Error("Track did not record an entry")
	}

	ResetFrame()
	if len(Snapshot()) != 0 {
		t.Error("ResetFrame left entries behind")
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestBudget(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	b := NewBudget(4*time.Millisecond, clk.now)
	b.Start()
	if b.Exceeded() {
		t.Fatal("fresh budget already exceeded")
	}
	clk.t = clk.t.Add(3 * time.Millisecond)
	if b.Exceeded() {
		t.Fatal("budget exceeded early")
	}
	clk.t = clk.t.Add(time.Millisecond)
	if !b.Exceeded() {
		t.Fatal("budget not exceeded at its limit")
	}
	b.Start()
	if b.Exceeded() || b.Elapsed() != 0 {
		t.Fatal("Start did not begin a new tick")
	}
}

func TestUnlimitedBudget(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	b := NewBudget(0, clk.now)
	b.Start()
	clk.t = clk.t.Add(time.Hour)
	if b.Exceeded() {
		t.Fatal("zero limit must never run out")
	}
}
