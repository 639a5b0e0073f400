package game

// ScoringConfig holds the scoring constants (defaults match the game rules).
type ScoringConfig struct {
	BasePoints           int // default: 100
	TimeBonusPerSecond   int // default: 3
	StreakBonusStep      int // default: 50 per completed run of StreakInterval
	StreakInterval       int // default: 3
	StoppagePointsPerSec int // default: 10
	DailyBonusPoints     int // default: 500
	DailyBonusTarget     int // default: 10 correct answers
}

// DefaultScoringConfig returns production defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		BasePoints:           100,
		TimeBonusPerSecond:   3,
		StreakBonusStep:      50,
		StreakInterval:       3,
		StoppagePointsPerSec: 10,
		DailyBonusPoints:     500,
		DailyBonusTarget:     10,
	}
}

// ScoringEngine computes points for answers and session-end bonuses.
type ScoringEngine struct {
	cfg ScoringConfig
}

// NewScoringEngine creates an engine with the provided config.
func NewScoringEngine(cfg ScoringConfig) *ScoringEngine {
	if cfg.StreakInterval <= 0 {
		cfg.StreakInterval = 3
	}
	return &ScoringEngine{cfg: cfg}
}

// ScoreCorrect computes the points for a correct answer and the new streak.
// The full streak bonus is recomputed from the streak length on every call,
// and doubling applies after all bonuses. The caller disarms double-points
// after a doubled award.
func (e *ScoringEngine) ScoreCorrect(remainingSeconds, streakBefore int, doublePoints bool) (points, newStreak int) {
	points = e.cfg.BasePoints + remainingSeconds*e.cfg.TimeBonusPerSecond
	newStreak = streakBefore + 1
	if newStreak >= e.cfg.StreakInterval {
		points += e.cfg.StreakBonusStep * (newStreak / e.cfg.StreakInterval)
	}
	if doublePoints {
		points *= 2
	}
	return points, newStreak
}

// StoppagePayout converts accrued stoppage seconds into bonus points.
func (e *ScoringEngine) StoppagePayout(accruedSeconds int) int {
	if accruedSeconds <= 0 {
		return 0
	}
	return accruedSeconds * e.cfg.StoppagePointsPerSec
}

// DailyBonus returns the flat completion bonus when enough answers were
// correct, zero otherwise.
func (e *ScoringEngine) DailyBonus(correctAnswers int) int {
	if correctAnswers >= e.cfg.DailyBonusTarget {
		return e.cfg.DailyBonusPoints
	}
	return 0
}
