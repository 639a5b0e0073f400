package game

import (
	"math"
	"time"
)

// DefaultMaxStoppageSeconds caps the bonus pool across a whole session.
const DefaultMaxStoppageSeconds = 30

// StoppageTracker accrues the unused seconds of answered questions into a
// capped pool. Timeouts never accrue; only the question-answered path
// records here.
type StoppageTracker struct {
	accrued int
	max     int
}

// NewStoppageTracker builds a tracker with the given cap.
func NewStoppageTracker(maxSeconds int) *StoppageTracker {
	if maxSeconds <= 0 {
		maxSeconds = DefaultMaxStoppageSeconds
	}
	return &StoppageTracker{max: maxSeconds}
}

// Record adds the floor of the time saved against the question budget and
// returns how many seconds were actually added after clamping.
func (t *StoppageTracker) Record(timeTaken time.Duration, budgetSeconds int) int {
	saved := float64(budgetSeconds) - timeTaken.Seconds()
	if saved <= 0 {
		return 0
	}
	before := t.accrued
	t.accrued += int(math.Floor(saved))
	if t.accrued > t.max {
		t.accrued = t.max
	}
	return t.accrued - before
}

// Accrued reports the current pool in seconds.
func (t *StoppageTracker) Accrued() int {
	return t.accrued
}

// Payout drains the pool, returning the accrued seconds exactly once.
func (t *StoppageTracker) Payout() int {
	out := t.accrued
	t.accrued = 0
	return out
}
