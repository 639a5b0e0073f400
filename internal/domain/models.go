package domain

import "time"

// Difficulty controls the per-question timer budget and, in versus mode,
// the opponent profile.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TimerBudget returns the per-question countdown in seconds.
func (d Difficulty) TimerBudget() int {
	switch d {
	case DifficultyHard:
		return 10
	case DifficultyMedium:
		return 15
	default:
		return 20
	}
}

// Mode is the kind of session being played.
type Mode string

const (
	ModeSolo  Mode = "solo"
	ModeVsAI  Mode = "ai"
	ModeDaily Mode = "daily"
)

// OptionCount is fixed for every question in the bank.
const OptionCount = 4

// Question is an immutable multiple-choice question. Exactly one of the
// four options, the one at CorrectIndex, is correct.
type Question struct {
	Prompt       string              `json:"prompt"`
	Options      [OptionCount]string `json:"options"`
	CorrectIndex int                 `json:"correctIndex"`
	Category     string              `json:"category"`
	Difficulty   Difficulty          `json:"difficulty"`
}

// Valid reports whether CorrectIndex points at one of the four options.
func (q Question) Valid() bool {
	return q.CorrectIndex >= 0 && q.CorrectIndex < OptionCount
}

// HighScore is one leaderboard row as persisted by the score store.
type HighScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Date  string `json:"date"`
	Mode  Mode   `json:"mode"`
}

// DailyChallengeState tracks completion and the day's question set so a
// same-day restart replays identical questions.
type DailyChallengeState struct {
	Date      string     `json:"date"`
	Completed bool       `json:"completed"`
	Questions []Question `json:"questions,omitempty"`
}

// SessionSummary is the terminal report emitted when a session ends.
type SessionSummary struct {
	Mode           Mode      `json:"mode"`
	Score          int       `json:"score"`
	OpponentScore  int       `json:"opponentScore,omitempty"`
	CorrectAnswers int       `json:"correctAnswers"`
	QuestionsSeen  int       `json:"questionsSeen"`
	PoolSize       int       `json:"poolSize"`
	Accuracy       float64   `json:"accuracy"`
	BestStreak     int       `json:"bestStreak"`
	StoppageBonus  int       `json:"stoppageBonus"`
	DailyBonus     int       `json:"dailyBonus"`
	EndedAt        time.Time `json:"endedAt"`
}
