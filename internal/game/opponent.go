package game

import (
	"math/rand"
	"time"

	"quiz-battle-service/internal/domain"
)

// OpponentProfile parameterizes the simulated opponent by difficulty.
type OpponentProfile struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Accuracy float64
}

// OpponentProfileFor returns the latency window and accuracy for a
// difficulty level.
func OpponentProfileFor(d domain.Difficulty) OpponentProfile {
	switch d {
	case domain.DifficultyHard:
		return OpponentProfile{MinDelay: 1 * time.Second, MaxDelay: 3 * time.Second, Accuracy: 0.9}
	case domain.DifficultyMedium:
		return OpponentProfile{MinDelay: 2 * time.Second, MaxDelay: 4 * time.Second, Accuracy: 0.75}
	default:
		return OpponentProfile{MinDelay: 3 * time.Second, MaxDelay: 6 * time.Second, Accuracy: 0.6}
	}
}

// Opponent simulates the AI player: per question it plans a delayed answer
// that is correct with the profile's probability and a uniformly random
// wrong option otherwise.
type Opponent struct {
	profile OpponentProfile
	rnd     *rand.Rand
}

// NewOpponent builds a simulator for the given difficulty.
func NewOpponent(d domain.Difficulty, rnd *rand.Rand) *Opponent {
	return &Opponent{profile: OpponentProfileFor(d), rnd: rnd}
}

// PlanAnswer samples the submission delay and the option the opponent will
// pick for a question with the given correct index.
func (o *Opponent) PlanAnswer(correctIndex int) (delay time.Duration, option int) {
	window := o.profile.MaxDelay - o.profile.MinDelay
	delay = o.profile.MinDelay + time.Duration(o.rnd.Int63n(int64(window)+1))

	if o.rnd.Float64() < o.profile.Accuracy {
		return delay, correctIndex
	}
	// Uniform draw over the three wrong options.
	option = o.rnd.Intn(domain.OptionCount - 1)
	if option >= correctIndex {
		option++
	}
	return delay, option
}
