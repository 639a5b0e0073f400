package game

import "quiz-battle-service/internal/domain"

// EventType tags the render notifications a session emits. Subscribers
// receive them in the order the state machine produced them.
type EventType string

const (
	EventQuestion     EventType = "question"
	EventTick         EventType = "tick"
	EventAnswerResult EventType = "answerResult"
	EventStreak       EventType = "streak"
	EventStoppage     EventType = "stoppage"
	EventLifeline     EventType = "lifeline"
	EventPause        EventType = "pause"
	EventSessionEnd   EventType = "sessionEnd"
)

// Event is one notification with a typed payload.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// QuestionView is what clients see of the current question; the correct
// index is deliberately absent.
type QuestionView struct {
	Number     int                        `json:"number"`
	Prompt     string                     `json:"prompt"`
	Options    [domain.OptionCount]string `json:"options"`
	Category   string                     `json:"category"`
	Difficulty domain.Difficulty          `json:"difficulty"`
	TotalTime  int                        `json:"totalTime"`
}

// TickView reports the timer display state. Warning flips when less than
// 30% of the budget remains.
type TickView struct {
	Remaining int     `json:"remaining"`
	Percent   float64 `json:"percent"`
	Warning   bool    `json:"warning"`
}

// AnswerResultView reveals the outcome of a submission or a timeout.
type AnswerResultView struct {
	Option       int  `json:"option"`
	Correct      bool `json:"correct"`
	CorrectIndex int  `json:"correctIndex"`
	Points       int  `json:"points"`
	Score        int  `json:"score"`
	TimedOut     bool `json:"timedOut"`
	ByOpponent   bool `json:"byOpponent"`
}

// StreakView drives the streak indicator; Visible is false once the streak
// breaks.
type StreakView struct {
	Count   int  `json:"count"`
	Visible bool `json:"visible"`
}

// StoppageView reports bonus-pool accrual.
type StoppageView struct {
	Added   int `json:"added"`
	Accrued int `json:"accrued"`
}

// LifelineView reports a consumed lifeline and its visible effect.
type LifelineView struct {
	Kind          Lifeline `json:"kind"`
	HiddenOptions []int    `json:"hiddenOptions,omitempty"`
	Remaining     int      `json:"remaining,omitempty"`
}

// PauseView reports pause toggles.
type PauseView struct {
	Paused bool `json:"paused"`
}
