package profiling

import "time"

// Budget is a per-tick wall-clock allowance. A zero or negative limit never
// runs out.
type Budget struct {
	limit time.Duration
	now   func() time.Time
	start time.Time
}

// NewBudget creates a budget using the given clock; nil means time.Now.
func NewBudget(limit time.Duration, now func() time.Time) *Budget {
	if now == nil {
		now = time.Now
	}
	return &Budget{limit: limit, now: now}
}

// Start begins a new tick.
func (b *Budget) Start() {
	b.start = b.now()
}

// Elapsed returns the time spent since Start.
func (b *Budget) Elapsed() time.Duration {
	return b.now().Sub(b.start)
}

// Exceeded reports whether the tick has used up its allowance.
func (b *Budget) Exceeded() bool {
	return b.limit > 0 && b.Elapsed() >= b.limit
}

// Limit returns the configured allowance.
func (b *Budget) Limit() time.Duration {
	return b.limit
}
