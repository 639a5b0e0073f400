package memory

import (
	"context"
	"sync"

	"quiz-battle-service/internal/domain"
)

// ScoreStore keeps the persistence collaborator's blobs in memory; the
// default when no Redis is configured.
type ScoreStore struct {
	mu         sync.RWMutex
	highScores []domain.HighScore
	playerName string
	daily      domain.DailyChallengeState
	tutorial   bool
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{}
}

func (s *ScoreStore) HighScores(_ context.Context) ([]domain.HighScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HighScore, len(s.highScores))
	copy(out, s.highScores)
	return out, nil
}

func (s *ScoreStore) SetHighScores(_ context.Context, scores []domain.HighScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highScores = make([]domain.HighScore, len(scores))
	copy(s.highScores, scores)
	return nil
}

func (s *ScoreStore) PlayerName(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerName, nil
}

func (s *ScoreStore) SetPlayerName(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerName = name
	return nil
}

func (s *ScoreStore) DailyChallenge(_ context.Context) (domain.DailyChallengeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.daily, nil
}

func (s *ScoreStore) SetDailyChallenge(_ context.Context, state domain.DailyChallengeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.daily = state
	return nil
}

func (s *ScoreStore) TutorialCompleted(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tutorial, nil
}

func (s *ScoreStore) SetTutorialCompleted(_ context.Context, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tutorial = done
	return nil
}
