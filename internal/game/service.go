package game

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quiz-battle-service/internal/domain"
)

// maxHighScores is how many leaderboard rows survive persistence.
const maxHighScores = 10

// dateLayout stamps high scores and daily-challenge state.
const dateLayout = "2006-01-02"

// QuestionSource supplies normalized questions. Implementations absorb
// upstream failures where they can (the trivia API client falls back to a
// static bank), but the port keeps the error for loaders that cannot.
type QuestionSource interface {
	Fetch(ctx context.Context, category string, difficulty domain.Difficulty) ([]domain.Question, error)
	FetchDaily(ctx context.Context) ([]domain.Question, error)
}

// ScoreStore is the key/value persistence collaborator.
type ScoreStore interface {
	HighScores(ctx context.Context) ([]domain.HighScore, error)
	SetHighScores(ctx context.Context, scores []domain.HighScore) error
	PlayerName(ctx context.Context) (string, error)
	SetPlayerName(ctx context.Context, name string) error
	DailyChallenge(ctx context.Context) (domain.DailyChallengeState, error)
	SetDailyChallenge(ctx context.Context, state domain.DailyChallengeState) error
	TutorialCompleted(ctx context.Context) (bool, error)
	SetTutorialCompleted(ctx context.Context, done bool) error
}

// SessionRepository abstracts how live sessions are registered.
type SessionRepository interface {
	Put(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// Service wires the session state machine to the question source and the
// score store; it is the only entry point front ends talk to.
type Service struct {
	sessions SessionRepository
	source   QuestionSource
	scores   ScoreStore
	sched    Scheduler
	scoring  *ScoringEngine
	validate *validator.Validate
	log      *zap.Logger

	maxStoppage int
	newRand     func() *rand.Rand
}

// NewService builds a service with production scoring defaults.
func NewService(sessions SessionRepository, source QuestionSource, scores ScoreStore, sched Scheduler, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		sessions:    sessions,
		source:      source,
		scores:      scores,
		sched:       sched,
		scoring:     NewScoringEngine(DefaultScoringConfig()),
		validate:    validator.New(),
		log:         log,
		maxStoppage: DefaultMaxStoppageSeconds,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(sched.Now().UnixNano()))
		},
	}
}

// SetRandSource overrides per-session randomness; test-only seam.
func (s *Service) SetRandSource(newRand func() *rand.Rand) {
	s.newRand = newRand
}

// StartSession validates the config, gathers the question pool and
// registers a new session. The caller subscribes before invoking
// Session.Start so the first question event is not missed.
func (s *Service) StartSession(ctx context.Context, cfg Config) (*Session, error) {
	if err := s.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	cfg.PlayerName = s.resolvePlayerName(ctx, cfg.PlayerName)

	questions, err := s.questionsFor(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sess, err := newSession(uuid.NewString(), cfg, questions, s.sched, s.newRand(), s.scoring, s.maxStoppage)
	if err != nil {
		return nil, err
	}
	s.sessions.Put(sess)
	s.log.Info("session started",
		zap.String("session", sess.ID()),
		zap.String("mode", string(cfg.Mode)),
		zap.Int("pool", len(questions)),
		zap.Int("budget", cfg.Budget()))
	return sess, nil
}

// Session looks up a live session.
func (s *Service) Session(id string) (*Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// SubmitAnswer routes a human answer to the session.
func (s *Service) SubmitAnswer(id string, option int) error {
	sess, err := s.Session(id)
	if err != nil {
		return err
	}
	return sess.SubmitAnswer(option)
}

// UseLifeline routes a lifeline command to the session.
func (s *Service) UseLifeline(id string, kind Lifeline) error {
	sess, err := s.Session(id)
	if err != nil {
		return err
	}
	return sess.UseLifeline(kind)
}

// Pause suspends the session countdown.
func (s *Service) Pause(id string) error {
	sess, err := s.Session(id)
	if err != nil {
		return err
	}
	return sess.Pause()
}

// Resume re-enables the session countdown.
func (s *Service) Resume(id string) error {
	sess, err := s.Session(id)
	if err != nil {
		return err
	}
	return sess.Resume()
}

// Stop ends the session, records the high score and daily-challenge
// completion, and drops the session from the registry.
func (s *Service) Stop(ctx context.Context, id string) (domain.SessionSummary, error) {
	sess, err := s.Session(id)
	if err != nil {
		return domain.SessionSummary{}, err
	}
	summary := sess.End()
	s.recordHighScore(ctx, sess.Config().PlayerName, summary)
	if summary.Mode == domain.ModeDaily && summary.DailyBonus > 0 {
		s.markDailyCompleted(ctx)
	}
	s.sessions.Delete(id)
	s.log.Info("session ended",
		zap.String("session", id),
		zap.Int("score", summary.Score),
		zap.Float64("accuracy", summary.Accuracy))
	return summary, nil
}

// Restart discards the session without recording anything and starts a
// fresh one with the identical configuration. In daily mode the stored
// same-day question set is reused.
func (s *Service) Restart(ctx context.Context, id string) (*Session, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	cfg := sess.Config()
	sess.End()
	s.sessions.Delete(id)
	return s.StartSession(ctx, cfg)
}

// HighScores returns the persisted leaderboard.
func (s *Service) HighScores(ctx context.Context) ([]domain.HighScore, error) {
	return s.scores.HighScores(ctx)
}

// TutorialCompleted reports whether the player has finished the tutorial.
func (s *Service) TutorialCompleted(ctx context.Context) (bool, error) {
	return s.scores.TutorialCompleted(ctx)
}

// SetTutorialCompleted persists the tutorial flag.
func (s *Service) SetTutorialCompleted(ctx context.Context, done bool) error {
	return s.scores.SetTutorialCompleted(ctx, done)
}

func (s *Service) resolvePlayerName(ctx context.Context, name string) string {
	if name != "" {
		if err := s.scores.SetPlayerName(ctx, name); err != nil {
			s.log.Warn("persist player name", zap.Error(err))
		}
		return name
	}
	stored, err := s.scores.PlayerName(ctx)
	if err == nil && stored != "" {
		return stored
	}
	return "Player"
}

func (s *Service) questionsFor(ctx context.Context, cfg Config) ([]domain.Question, error) {
	if cfg.Mode != domain.ModeDaily {
		questions, err := s.source.Fetch(ctx, cfg.Category, cfg.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("fetch questions: %w", err)
		}
		if len(questions) == 0 {
			return nil, domain.ErrEmptyQuestionPool
		}
		return questions, nil
	}

	today := s.sched.Now().Format(dateLayout)
	state, err := s.scores.DailyChallenge(ctx)
	if err == nil && state.Date == today && len(state.Questions) > 0 {
		return state.Questions, nil
	}

	questions, err := s.source.FetchDaily(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch daily questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, domain.ErrEmptyQuestionPool
	}
	if err := s.scores.SetDailyChallenge(ctx, domain.DailyChallengeState{Date: today, Questions: questions}); err != nil {
		s.log.Warn("persist daily challenge", zap.Error(err))
	}
	return questions, nil
}

func (s *Service) recordHighScore(ctx context.Context, name string, summary domain.SessionSummary) {
	scores, err := s.scores.HighScores(ctx)
	if err != nil {
		s.log.Warn("load high scores", zap.Error(err))
		scores = nil
	}
	scores = append(scores, domain.HighScore{
		Name:  name,
		Score: summary.Score,
		Date:  summary.EndedAt.Format(dateLayout),
		Mode:  summary.Mode,
	})
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > maxHighScores {
		scores = scores[:maxHighScores]
	}
	if err := s.scores.SetHighScores(ctx, scores); err != nil {
		s.log.Warn("persist high scores", zap.Error(err))
	}
}

func (s *Service) markDailyCompleted(ctx context.Context) {
	state, err := s.scores.DailyChallenge(ctx)
	if err != nil {
		s.log.Warn("load daily challenge", zap.Error(err))
		return
	}
	state.Completed = true
	if err := s.scores.SetDailyChallenge(ctx, state); err != nil {
		s.log.Warn("persist daily challenge", zap.Error(err))
	}
}
