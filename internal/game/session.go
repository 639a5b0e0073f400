package game

import (
	"math/rand"
	"sync"
	"time"

	"quiz-battle-service/internal/domain"
)

// graceDelay separates the answer (or timeout) reveal from the next question.
const graceDelay = 2 * time.Second

// warningThresholdPercent is where the timer display switches color.
const warningThresholdPercent = 30

// Config describes one session. A zero TimerSeconds derives the budget from
// the difficulty (or the fixed daily budget).
type Config struct {
	Mode               domain.Mode       `json:"mode" validate:"required,oneof=solo ai daily"`
	PlayerName         string            `json:"playerName"`
	Category           string            `json:"category"`
	Difficulty         domain.Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	OpponentDifficulty domain.Difficulty `json:"opponentDifficulty" validate:"omitempty,oneof=easy medium hard"`
	TimerSeconds       int               `json:"timerSeconds" validate:"gte=0"`
}

// Budget resolves the per-question countdown in seconds.
func (c Config) Budget() int {
	if c.TimerSeconds != 0 {
		return c.TimerSeconds
	}
	if c.Mode == domain.ModeDaily {
		return domain.DifficultyMedium.TimerBudget()
	}
	return c.Difficulty.TimerBudget()
}

type sessionPhase int

const (
	phaseSetup sessionPhase = iota
	phaseActive
	phaseEnded
)

// Session is the per-game state machine. All mutation happens under its
// lock; scheduler callbacks re-enter through handle* methods that check the
// generation token first, so a tick, opponent answer, or grace callback
// left over from a previous question is discarded silently.
type Session struct {
	id    string
	cfg   Config
	sched Scheduler

	mu        sync.Mutex
	phase     sessionPhase
	gen       int
	answered  bool
	questions []domain.Question
	current   int

	selector  *Selector
	timer     *Countdown
	scoring   *ScoringEngine
	stoppage  *StoppageTracker
	lifelines *LifelineSet
	opponent  *Opponent

	cancelOpponent CancelFunc
	cancelGrace    CancelFunc

	questionStart time.Time
	budget        int

	score         int
	opponentScore int
	streak        int
	bestStreak    int
	correct       int
	seen          int

	summary     *domain.SessionSummary
	subscribers map[chan Event]struct{}
}

func newSession(id string, cfg Config, questions []domain.Question, sched Scheduler, rnd *rand.Rand, scoring *ScoringEngine, maxStoppage int) (*Session, error) {
	if len(questions) == 0 {
		return nil, domain.ErrEmptyQuestionPool
	}
	budget := cfg.Budget()
	if budget <= 0 {
		return nil, domain.ErrInvalidConfig
	}

	s := &Session{
		id:          id,
		cfg:         cfg,
		sched:       sched,
		questions:   questions,
		selector:    NewSelector(rnd),
		timer:       NewCountdown(sched),
		scoring:     scoring,
		stoppage:    NewStoppageTracker(maxStoppage),
		lifelines:   NewLifelineSet(),
		budget:      budget,
		subscribers: make(map[chan Event]struct{}),
	}
	if cfg.Mode == domain.ModeVsAI {
		diff := cfg.OpponentDifficulty
		if diff == "" {
			diff = domain.DifficultyMedium
		}
		s.opponent = NewOpponent(diff, rnd)
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Config returns the configuration the session was started with.
func (s *Session) Config() Config {
	return s.cfg
}

// Subscribe registers a render-event channel. Events arrive in emission
// order; when a subscriber lags, the oldest buffered event is dropped. The
// returned cancel must be called to release the channel.
func (s *Session) Subscribe() (<-chan Event, CancelFunc) {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// Start loads the first question. It is a no-op unless the session is still
// in setup.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseSetup {
		return
	}
	s.phase = phaseActive
	s.loadQuestionLocked()
}

// SubmitAnswer handles a human selection. After the question is resolved
// (by either contestant or by expiry) further submissions are no-ops.
func (s *Session) SubmitAnswer(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == phaseEnded {
		return domain.ErrSessionEnded
	}
	if s.phase != phaseActive || s.answered {
		return nil
	}
	if option < 0 || option >= domain.OptionCount {
		return nil
	}
	s.resolveLocked(option, false)
	return nil
}

// UseLifeline applies a lifeline effect. Unknown or already-consumed
// lifelines fail silently.
func (s *Session) UseLifeline(kind Lifeline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == phaseEnded {
		return domain.ErrSessionEnded
	}
	if s.phase != phaseActive || s.answered || !kind.Known() {
		return nil
	}
	if !s.lifelines.Use(kind) {
		return nil
	}

	switch kind {
	case LifelineFiftyFifty:
		hidden := EliminateTwo(s.questions[s.current].CorrectIndex)
		s.publishLocked(Event{Type: EventLifeline, Payload: LifelineView{Kind: kind, HiddenOptions: hidden[:]}})
	case LifelineFreeze:
		s.timer.Extend(FreezeExtensionSeconds)
		s.publishLocked(Event{Type: EventLifeline, Payload: LifelineView{Kind: kind, Remaining: s.timer.Remaining()}})
		s.publishTickLocked()
	case LifelineDouble:
		s.publishLocked(Event{Type: EventLifeline, Payload: LifelineView{Kind: kind}})
	case LifelineSkip:
		s.timer.Stop()
		s.cancelPendingLocked()
		s.publishLocked(Event{Type: EventLifeline, Payload: LifelineView{Kind: kind}})
		s.loadQuestionLocked()
	}
	return nil
}

// Pause suspends the countdown. Repeated calls change nothing.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == phaseEnded {
		return domain.ErrSessionEnded
	}
	if s.phase != phaseActive || s.timer.Paused() {
		return nil
	}
	s.timer.Pause()
	s.publishLocked(Event{Type: EventPause, Payload: PauseView{Paused: true}})
	return nil
}

// Resume re-enables the countdown.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == phaseEnded {
		return domain.ErrSessionEnded
	}
	if s.phase != phaseActive || !s.timer.Paused() {
		return nil
	}
	s.timer.Resume()
	s.publishLocked(Event{Type: EventPause, Payload: PauseView{Paused: false}})
	return nil
}

// End cancels all pending callbacks, applies the session-end bonuses and
// returns the final summary. It is idempotent: repeated calls return the
// summary computed the first time.
func (s *Session) End() domain.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary != nil {
		return *s.summary
	}

	s.phase = phaseEnded
	s.gen++
	s.timer.Stop()
	s.cancelPendingLocked()

	stoppageBonus := 0
	if s.cfg.Mode == domain.ModeSolo {
		if secs := s.stoppage.Payout(); secs > 0 {
			stoppageBonus = s.scoring.StoppagePayout(secs)
			s.score += stoppageBonus
		}
	}
	dailyBonus := 0
	if s.cfg.Mode == domain.ModeDaily {
		dailyBonus = s.scoring.DailyBonus(s.correct)
		s.score += dailyBonus
	}

	accuracy := 0.0
	if s.seen > 0 {
		accuracy = float64(s.correct) / float64(s.seen)
	}
	summary := domain.SessionSummary{
		Mode:           s.cfg.Mode,
		Score:          s.score,
		OpponentScore:  s.opponentScore,
		CorrectAnswers: s.correct,
		QuestionsSeen:  s.seen,
		PoolSize:       len(s.questions),
		Accuracy:       accuracy,
		BestStreak:     s.bestStreak,
		StoppageBonus:  stoppageBonus,
		DailyBonus:     dailyBonus,
		EndedAt:        s.sched.Now(),
	}
	s.summary = &summary
	s.publishLocked(Event{Type: EventSessionEnd, Payload: summary})
	return summary
}

// Score returns the player's running score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Streak returns the current consecutive-correct count.
func (s *Session) Streak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak
}

// StoppageAccrued returns the current bonus pool in seconds.
func (s *Session) StoppageAccrued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stoppage.Accrued()
}

func (s *Session) loadQuestionLocked() {
	s.gen++
	s.cancelPendingLocked()
	s.answered = false
	s.lifelines.ResetDouble()

	idx, err := s.selector.Next(len(s.questions))
	if err != nil {
		// Pool validated non-empty at construction.
		return
	}
	s.current = idx
	s.seen++
	q := s.questions[idx]

	s.publishLocked(Event{Type: EventQuestion, Payload: QuestionView{
		Number:     s.seen,
		Prompt:     q.Prompt,
		Options:    q.Options,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		TotalTime:  s.budget,
	}})

	s.questionStart = s.sched.Now()
	gen := s.gen
	s.timer.Start(s.budget, func() { s.handleTick(gen) })

	if s.opponent != nil {
		delay, option := s.opponent.PlanAnswer(q.CorrectIndex)
		s.cancelOpponent = s.sched.ScheduleOnce(delay, func() { s.handleOpponentAnswer(gen, option) })
	}
}

func (s *Session) handleTick(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.phase != phaseActive || s.answered {
		return
	}
	if s.timer.Paused() {
		return
	}
	_, expired := s.timer.Tick()
	s.publishTickLocked()
	if expired {
		s.expireLocked()
	}
}

func (s *Session) handleOpponentAnswer(gen, option int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.phase != phaseActive || s.answered {
		return
	}
	s.resolveLocked(option, true)
}

func (s *Session) handleGrace(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.phase != phaseActive {
		return
	}
	s.loadQuestionLocked()
}

// resolveLocked is the single answer path shared by the player and the
// simulated opponent, so an opponent submission stops the timer and moves
// the shared streak, score and stoppage pool exactly like a human one.
func (s *Session) resolveLocked(option int, byOpponent bool) {
	s.answered = true
	s.timer.Stop()
	s.cancelPendingLocked()

	timeTaken := s.sched.Now().Sub(s.questionStart)
	if added := s.stoppage.Record(timeTaken, s.budget); added > 0 {
		s.publishLocked(Event{Type: EventStoppage, Payload: StoppageView{Added: added, Accrued: s.stoppage.Accrued()}})
	}

	q := s.questions[s.current]
	correct := option == q.CorrectIndex
	points := 0
	if correct {
		armed := s.lifelines.DoubleArmed()
		points, s.streak = s.scoring.ScoreCorrect(s.timer.Remaining(), s.streak, armed)
		if armed {
			s.lifelines.ConsumeDouble()
		}
		s.score += points
		s.correct++
		if s.streak > s.bestStreak {
			s.bestStreak = s.streak
		}
		if byOpponent {
			s.opponentScore += points
		}
	} else {
		s.streak = 0
	}

	s.publishLocked(Event{Type: EventAnswerResult, Payload: AnswerResultView{
		Option:       option,
		Correct:      correct,
		CorrectIndex: q.CorrectIndex,
		Points:       points,
		Score:        s.score,
		ByOpponent:   byOpponent,
	}})
	s.publishLocked(Event{Type: EventStreak, Payload: StreakView{Count: s.streak, Visible: s.streak > 0}})
	s.scheduleGraceLocked()
}

func (s *Session) expireLocked() {
	s.answered = true
	s.cancelPendingLocked()
	s.streak = 0

	q := s.questions[s.current]
	s.publishLocked(Event{Type: EventAnswerResult, Payload: AnswerResultView{
		Option:       -1,
		CorrectIndex: q.CorrectIndex,
		Score:        s.score,
		TimedOut:     true,
	}})
	s.publishLocked(Event{Type: EventStreak, Payload: StreakView{}})
	s.scheduleGraceLocked()
}

func (s *Session) scheduleGraceLocked() {
	gen := s.gen
	s.cancelGrace = s.sched.ScheduleOnce(graceDelay, func() { s.handleGrace(gen) })
}

func (s *Session) cancelPendingLocked() {
	if s.cancelOpponent != nil {
		s.cancelOpponent()
		s.cancelOpponent = nil
	}
	if s.cancelGrace != nil {
		s.cancelGrace()
		s.cancelGrace = nil
	}
}

func (s *Session) publishTickLocked() {
	pct := s.timer.Percent()
	s.publishLocked(Event{Type: EventTick, Payload: TickView{
		Remaining: s.timer.Remaining(),
		Percent:   pct,
		Warning:   pct < warningThresholdPercent,
	}})
}

func (s *Session) publishLocked(ev Event) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
