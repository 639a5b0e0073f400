package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-battle-service/internal/domain"
)

func testQuestions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			Prompt:       "Select the right option",
			Options:      [domain.OptionCount]string{"a", "b", "c", "d"},
			CorrectIndex: 1,
			Category:     "General Knowledge",
			Difficulty:   domain.DifficultyMedium,
		}
	}
	return qs
}

func newTestSession(t *testing.T, cfg Config, pool int, sched Scheduler) *Session {
	t.Helper()
	s, err := newSession("s1", cfg, testQuestions(pool), sched, rand.New(rand.NewSource(42)), NewScoringEngine(DefaultScoringConfig()), DefaultMaxStoppageSeconds)
	require.NoError(t, err)
	return s
}

// drain empties the event channel without blocking.
func drain(ch <-chan Event, into *[]Event) {
	for {
		select {
		case ev := <-ch:
			*into = append(*into, ev)
		default:
			return
		}
	}
}

func eventsOfType(events []Event, typ EventType) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestSessionRejectsEmptyPool(t *testing.T) {
	_, err := newSession("s1", Config{Mode: domain.ModeSolo}, nil, newManualScheduler(), rand.New(rand.NewSource(1)), NewScoringEngine(DefaultScoringConfig()), 30)
	assert.ErrorIs(t, err, domain.ErrEmptyQuestionPool)
}

func TestSessionRejectsNegativeTimerBudget(t *testing.T) {
	_, err := newSession("s1", Config{Mode: domain.ModeSolo, TimerSeconds: -5}, testQuestions(1), newManualScheduler(), rand.New(rand.NewSource(1)), NewScoringEngine(DefaultScoringConfig()), 30)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestCorrectAnswerScoresAndAccruesStoppage(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeSolo, Difficulty: domain.DifficultyMedium}, 1, sched)
	events, cancel := s.Subscribe()
	defer cancel()

	var all []Event
	s.Start()
	drain(events, &all)
	require.Len(t, eventsOfType(all, EventQuestion), 1)

	sched.Advance(2 * time.Second)
	drain(events, &all)
	require.Len(t, eventsOfType(all, EventTick), 2)

	require.NoError(t, s.SubmitAnswer(1))
	drain(events, &all)

	// 100 base + 13 remaining * 3, streak 1.
	assert.Equal(t, 139, s.Score())
	assert.Equal(t, 1, s.Streak())
	// 15s budget, answered after 2s.
	assert.Equal(t, 13, s.StoppageAccrued())

	results := eventsOfType(all, EventAnswerResult)
	require.Len(t, results, 1)
	res := results[0].Payload.(AnswerResultView)
	assert.True(t, res.Correct)
	assert.Equal(t, 1, res.Option)
	assert.Equal(t, 139, res.Points)
	assert.False(t, res.ByOpponent)

	// Grace delay, then the next question loads.
	sched.Advance(2 * time.Second)
	drain(events, &all)
	assert.Len(t, eventsOfType(all, EventQuestion), 2)
}

func TestLateAnswerIsNoopAfterResolve(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeSolo, Difficulty: domain.DifficultyMedium}, 1, sched)
	s.Start()

	require.NoError(t, s.SubmitAnswer(1))
	score := s.Score()
	require.NoError(t, s.SubmitAnswer(1))
	assert.Equal(t, score, s.Score(), "second submission must not double-score")
}

func TestTimeoutResetsStreakWithoutStoppage(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeSolo, Difficulty: domain.DifficultyMedium}, 1, sched)
	events, cancel := s.Subscribe()
	defer cancel()

	var all []Event
	s.Start()
	sched.Advance(2 * time.Second)
	require.NoError(t, s.SubmitAnswer(1))
	require.Equal(t, 1, s.Streak())
	sched.Advance(2 * time.Second) // next question
	drain(events, &all)

	// Let the clock run out.
	sched.Advance(15 * time.Second)
	drain(events, &all)

	results := eventsOfType(all, EventAnswerResult)
	require.NotEmpty(t, results)
	last := results[len(results)-1].Payload.(AnswerResultView)
	assert.True(t, last.TimedOut)
	assert.Equal(t, 1, last.CorrectIndex, "timeout reveals the correct option")
	assert.Equal(t, 0, s.Streak())
	assert.Equal(t, 13, s.StoppageAccrued(), "timeout accrues nothing")

	// Grace delay still advances to a fresh question.
	before := len(eventsOfType(all, EventQuestion))
	sched.Advance(2 * time.Second)
	drain(events, &all)
	assert.Equal(t, before+1, len(eventsOfType(all, EventQuestion)))
}

func TestTickWarningBelowThreshold(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeSolo, TimerSeconds: 10}, 1, sched)
	events, cancel := s.Subscribe()
	defer cancel()

	var all []Event
	s.Start()
	sched.Advance(7 * time.Second)
	drain(events, &all)

	ticks := eventsOfType(all, EventTick)
	require.Len(t, ticks, 7)
	assert.False(t, ticks[6].Payload.(TickView).Warning, "30% exactly is not yet warning")

	sched.Advance(1 * time.Second)
	drain(events, &all)
	ticks = eventsOfType(all, EventTick)
	assert.True(t, ticks[7].Payload.(TickView).Warning)
}

func TestPauseSuspendsDecrementOnly(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeSolo, Difficulty: domain.DifficultyMedium}, 1, sched)
	events, cancel := s.Subscribe()
	defer cancel()

	var all []Event
	s.Start()
	sched.Advance(3 * time.Second)

	require.NoError(t, s.Pause())
	require.NoError(t, s.Pause()) // idempotent
	sched.Advance(5 * time.Second)
	assert.Equal(t, 12, s.timer.Remaining(), "paused clock must not move")

	require.NoError(t, s.Resume())
	sched.Advance(1 * time.Second)
	assert.Equal(t, 11, s.timer.Remaining())

	drain(events, &all)
	pauses := eventsOfType(all, EventPause)
	require.Len(t, pauses, 2, "repeat pause emits nothing")
	assert.True(t, pauses[0].Payload.(PauseView).Paused)
	assert.False(t, pauses[1].Payload.(PauseView).Paused)
}

func TestFiftyFiftyHidesTwoWrongOptions(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeSolo, Difficulty: domain.DifficultyMedium}, 1, sched)
	events, cancel := s.Subscribe()
	defer cancel()

	var all []Event
	s.Start()
	require.NoError(t, s.UseLifeline(LifelineFiftyFifty))
	drain(events, &all)

	lifelines := eventsOfType(all, EventLifeline)
	require.Len(t, lifelines, 1)
	view := lifelines[0].Payload.(LifelineView)
	require.Len(t, view.HiddenOptions, 2)
	for _, idx := range view.HiddenOptions {
		assert.NotEqual(t, 1, idx, "correct option must stay visible")
	}

	// Consumed for the rest of the session.
	require.NoError(t, s.UseLifeline(LifelineFiftyFifty))
	drain(events, &all)
	assert.Len(t, eventsOfType(all, EventLifeline), 1)
}

func TestFreezeExtendsActiveTimer(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeSolo, Difficulty: domain.DifficultyMedium}, 1, sched)
	s.Start()

	sched.Advance(5 * time.Second)
	require.Equal(t, 10, s.timer.Remaining())

	require.NoError(t, s.UseLifeline(LifelineFreeze))
	assert.Equal(t, 15, s.timer.Remaining())
}

func TestDoublePointsPersistsAcrossQuestionsUntilConsumed(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeSolo, Difficulty: domain.DifficultyMedium}, 1, sched)
	s.Start()

	require.NoError(t, s.UseLifeline(LifelineDouble))
	require.NoError(t, s.SubmitAnswer(0)) // wrong; double stays armed
	assert.True(t, s.lifelines.DoubleArmed())
	sched.Advance(2 * time.Second)

	require.NoError(t, s.SubmitAnswer(1))
	// 100 base + 15*3 time bonus, doubled.
	assert.Equal(t, 290, s.Score())
	assert.False(t, s.lifelines.DoubleArmed())
	assert.False(t, s.lifelines.Available(LifelineDouble), "not offered again until the next question")
}

func TestDoublePointsOfferedAgainOnNextQuestion(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeSolo, Difficulty: domain.DifficultyMedium}, 1, sched)
	s.Start()

	require.NoError(t, s.UseLifeline(LifelineDouble))
	require.NoError(t, s.SubmitAnswer(1)) // consumes the doubling
	assert.Equal(t, 290, s.Score())
	sched.Advance(2 * time.Second)

	// The question load after consumption re-grants double.
	assert.True(t, s.lifelines.Available(LifelineDouble))
	require.NoError(t, s.UseLifeline(LifelineDouble))
	assert.True(t, s.lifelines.DoubleArmed())

	require.NoError(t, s.SubmitAnswer(1))
	assert.Equal(t, 290+290, s.Score(), "second arming doubles again")
}

func TestSkipAdvancesWithoutTouchingStreak(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeSolo, Difficulty: domain.DifficultyMedium}, 1, sched)
	events, cancel := s.Subscribe()
	defer cancel()

	var all []Event
	s.Start()
	require.NoError(t, s.SubmitAnswer(1))
	require.Equal(t, 1, s.Streak())
	sched.Advance(2 * time.Second)
	drain(events, &all)
	require.Len(t, eventsOfType(all, EventQuestion), 2)

	score := s.Score()
	require.NoError(t, s.UseLifeline(LifelineSkip))
	drain(events, &all)

	assert.Len(t, eventsOfType(all, EventQuestion), 3, "skip loads the next question immediately")
	assert.Equal(t, score, s.Score())
	assert.Equal(t, 1, s.Streak(), "skip is neither correct nor wrong")
	assert.Len(t, eventsOfType(all, EventAnswerResult), 1, "no result revealed on skip")
}

func TestSoloSessionEndPaysStoppageBonusOnce(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeSolo, Difficulty: domain.DifficultyMedium}, 1, sched)
	s.Start()

	sched.Advance(3 * time.Second)
	require.NoError(t, s.SubmitAnswer(1)) // saves 12s
	require.Equal(t, 12, s.StoppageAccrued())

	summary := s.End()
	assert.Equal(t, 120, summary.StoppageBonus)
	assert.Equal(t, 136+120, summary.Score) // 100 + 12*3 + bonus
	assert.Equal(t, 0, s.StoppageAccrued())

	again := s.End()
	assert.Equal(t, summary, again, "End is idempotent")
}

func TestVersusSessionEndSkipsStoppagePayout(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeVsAI, Difficulty: domain.DifficultyMedium, OpponentDifficulty: domain.DifficultyMedium}, 1, sched)
	s.Start()

	sched.Advance(1 * time.Second)
	require.NoError(t, s.SubmitAnswer(1))
	require.Greater(t, s.StoppageAccrued(), 0)

	summary := s.End()
	assert.Equal(t, 0, summary.StoppageBonus, "payout is solo-only")
}

func TestSessionEndCancelsEverything(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeVsAI, Difficulty: domain.DifficultyMedium}, 1, sched)
	s.Start()
	require.Greater(t, sched.pendingCount(), 0)

	s.End()
	assert.Equal(t, 0, sched.pendingCount(), "no timers may outlive the session")

	assert.ErrorIs(t, s.SubmitAnswer(1), domain.ErrSessionEnded)
	assert.ErrorIs(t, s.UseLifeline(LifelineFreeze), domain.ErrSessionEnded)
	assert.ErrorIs(t, s.Pause(), domain.ErrSessionEnded)
}

func TestOpponentSubmissionRidesSharedPath(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeVsAI, Difficulty: domain.DifficultyMedium, OpponentDifficulty: domain.DifficultyHard}, 1, sched)
	events, cancel := s.Subscribe()
	defer cancel()

	var all []Event
	s.Start()
	drain(events, &all)

	// Step in small increments so we stop right after the opponent fires,
	// before the grace delay loads the next question.
	answered := false
	for i := 0; i < 40 && !answered; i++ {
		sched.Advance(100 * time.Millisecond)
		drain(events, &all)
		for _, ev := range eventsOfType(all, EventAnswerResult) {
			if ev.Payload.(AnswerResultView).ByOpponent {
				answered = true
			}
		}
	}
	require.True(t, answered, "opponent must answer within its latency window")

	results := eventsOfType(all, EventAnswerResult)
	require.Len(t, results, 1)
	res := results[0].Payload.(AnswerResultView)
	if res.Correct {
		assert.Equal(t, s.Score(), res.Points, "opponent's correct answer moves the shared score")
		assert.Equal(t, 1, s.Streak())
	} else {
		assert.Equal(t, 0, s.Score())
		assert.Equal(t, 0, s.Streak())
	}

	// A human answer after the opponent resolved is a no-op.
	score := s.Score()
	require.NoError(t, s.SubmitAnswer(1))
	assert.Equal(t, score, s.Score())
}

func TestStaleOpponentCallbackIsDiscarded(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeVsAI, Difficulty: domain.DifficultyMedium, OpponentDifficulty: domain.DifficultyMedium}, 1, sched)
	events, cancel := s.Subscribe()
	defer cancel()

	var all []Event
	s.Start()

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	require.NoError(t, s.SubmitAnswer(1))
	score := s.Score()

	// Force the cancelled opponent callback to fire anyway, same question.
	s.handleOpponentAnswer(gen, 1)
	assert.Equal(t, score, s.Score(), "pending opponent callback must not double-score")

	// And again after the next question started, with the stale token.
	sched.Advance(2 * time.Second)
	s.handleOpponentAnswer(gen, 1)
	assert.Equal(t, score, s.Score())

	drain(events, &all)
	assert.Len(t, eventsOfType(all, EventAnswerResult), 1)
}

func TestDailyChallengeBonusAtSessionEnd(t *testing.T) {
	sched := newManualScheduler()
	s := newTestSession(t, Config{Mode: domain.ModeDaily}, 1, sched)
	s.Start()

	for i := 0; i < 10; i++ {
		if i > 0 {
			sched.Advance(2 * time.Second)
		}
		require.NoError(t, s.SubmitAnswer(1))
	}

	summary := s.End()
	assert.Equal(t, 500, summary.DailyBonus)
	assert.Equal(t, 10, summary.CorrectAnswers)
	assert.Equal(t, 0, summary.StoppageBonus, "daily mode gets no stoppage payout")
	assert.InDelta(t, 1.0, summary.Accuracy, 0.001)
	assert.Equal(t, 10, summary.BestStreak)
}
