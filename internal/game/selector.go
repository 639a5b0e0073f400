package game

import (
	"math/rand"

	"quiz-battle-service/internal/domain"
)

// Selector draws non-repeating question indices from a pool. Once every
// index has been handed out the used set is cleared and a fresh cycle
// begins, so a question can reappear immediately after a reset but never
// twice within one cycle.
type Selector struct {
	rnd  *rand.Rand
	used map[int]struct{}
}

// NewSelector builds a selector around the given randomness source.
func NewSelector(rnd *rand.Rand) *Selector {
	return &Selector{rnd: rnd, used: make(map[int]struct{})}
}

// Next picks a random unused index in [0, poolSize). The caller must
// guarantee a non-empty pool; an empty one is the only failure.
func (s *Selector) Next(poolSize int) (int, error) {
	if poolSize <= 0 {
		return 0, domain.ErrEmptyQuestionPool
	}
	if len(s.used) >= poolSize {
		s.used = make(map[int]struct{})
	}

	idx := s.rnd.Intn(poolSize)
	for {
		if _, taken := s.used[idx]; !taken {
			break
		}
		idx = s.rnd.Intn(poolSize)
	}
	s.used[idx] = struct{}{}
	return idx, nil
}

// UsedCount reports how far into the current cycle the selector is.
func (s *Selector) UsedCount() int {
	return len(s.used)
}

// Reset clears the used set, starting a new cycle.
func (s *Selector) Reset() {
	s.used = make(map[int]struct{})
}
