package game

import "quiz-battle-service/internal/domain"

// Lifeline identifies one of the four power-ups.
type Lifeline string

const (
	LifelineFiftyFifty Lifeline = "5050"
	LifelineFreeze     Lifeline = "freeze"
	LifelineDouble     Lifeline = "double"
	LifelineSkip       Lifeline = "skip"
)

// FreezeExtensionSeconds is the time added by the freeze lifeline.
const FreezeExtensionSeconds = 5

// Known reports whether the kind is one of the four lifelines.
func (l Lifeline) Known() bool {
	switch l {
	case LifelineFiftyFifty, LifelineFreeze, LifelineDouble, LifelineSkip:
		return true
	}
	return false
}

// LifelineSet tracks lifeline availability for a session. 50/50, freeze and
// skip are consumable once; double-points stays armed across questions until
// a correct answer consumes it, and is offered again on the next question
// once disarmed.
type LifelineSet struct {
	available   map[Lifeline]bool
	doubleArmed bool
}

// NewLifelineSet returns a set with every lifeline available.
func NewLifelineSet() *LifelineSet {
	return &LifelineSet{
		available: map[Lifeline]bool{
			LifelineFiftyFifty: true,
			LifelineFreeze:     true,
			LifelineDouble:     true,
			LifelineSkip:       true,
		},
	}
}

// Use consumes the lifeline if it is still available. Unavailable or
// unknown kinds report false and change nothing.
func (s *LifelineSet) Use(kind Lifeline) bool {
	if !s.available[kind] {
		return false
	}
	s.available[kind] = false
	if kind == LifelineDouble {
		s.doubleArmed = true
	}
	return true
}

// Available reports whether the lifeline can still be used.
func (s *LifelineSet) Available(kind Lifeline) bool {
	return s.available[kind]
}

// DoubleArmed reports whether the next correct answer scores double.
func (s *LifelineSet) DoubleArmed() bool {
	return s.doubleArmed
}

// ConsumeDouble disarms double-points after a doubled award.
func (s *LifelineSet) ConsumeDouble() {
	s.doubleArmed = false
}

// ResetDouble re-grants double-points unless it is still armed; called on
// every question load.
func (s *LifelineSet) ResetDouble() {
	if !s.doubleArmed {
		s.available[LifelineDouble] = true
	}
}

// EliminateTwo picks the two option slots hidden by the 50/50 lifeline:
// the first two positions that are not the correct index. The correct
// option is never hidden.
func EliminateTwo(correctIndex int) [2]int {
	var hidden [2]int
	n := 0
	for i := 0; i < domain.OptionCount && n < 2; i++ {
		if i != correctIndex {
			hidden[n] = i
			n++
		}
	}
	return hidden
}
