package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"quiz-battle-service/internal/domain"
)

const (
	keyHighScores = "quizbattle:highscores"
	keyPlayerName = "quizbattle:player:name"
	keyDaily      = "quizbattle:daily"
	keyTutorial   = "quizbattle:tutorial"
)

// ScoreStore persists the key/value blobs of the persistence collaborator
// in Redis. Values are JSON; missing keys read as zero values, matching the
// first-run behavior of a fresh browser profile.
type ScoreStore struct {
	client *redis.Client
}

func NewScoreStore(client *redis.Client) *ScoreStore {
	return &ScoreStore{client: client}
}

func (s *ScoreStore) HighScores(ctx context.Context) ([]domain.HighScore, error) {
	raw, err := s.client.Get(ctx, keyHighScores).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get high scores: %w", err)
	}
	var scores []domain.HighScore
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, fmt.Errorf("decode high scores: %w", err)
	}
	return scores, nil
}

func (s *ScoreStore) SetHighScores(ctx context.Context, scores []domain.HighScore) error {
	raw, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("encode high scores: %w", err)
	}
	if err := s.client.Set(ctx, keyHighScores, raw, 0).Err(); err != nil {
		return fmt.Errorf("set high scores: %w", err)
	}
	return nil
}

func (s *ScoreStore) PlayerName(ctx context.Context) (string, error) {
	name, err := s.client.Get(ctx, keyPlayerName).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get player name: %w", err)
	}
	return name, nil
}

func (s *ScoreStore) SetPlayerName(ctx context.Context, name string) error {
	if err := s.client.Set(ctx, keyPlayerName, name, 0).Err(); err != nil {
		return fmt.Errorf("set player name: %w", err)
	}
	return nil
}

func (s *ScoreStore) DailyChallenge(ctx context.Context) (domain.DailyChallengeState, error) {
	raw, err := s.client.Get(ctx, keyDaily).Bytes()
	if err == redis.Nil {
		return domain.DailyChallengeState{}, nil
	}
	if err != nil {
		return domain.DailyChallengeState{}, fmt.Errorf("get daily challenge: %w", err)
	}
	var state domain.DailyChallengeState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.DailyChallengeState{}, fmt.Errorf("decode daily challenge: %w", err)
	}
	return state, nil
}

func (s *ScoreStore) SetDailyChallenge(ctx context.Context, state domain.DailyChallengeState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode daily challenge: %w", err)
	}
	if err := s.client.Set(ctx, keyDaily, raw, 0).Err(); err != nil {
		return fmt.Errorf("set daily challenge: %w", err)
	}
	return nil
}

func (s *ScoreStore) TutorialCompleted(ctx context.Context) (bool, error) {
	raw, err := s.client.Get(ctx, keyTutorial).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get tutorial flag: %w", err)
	}
	return raw == "1", nil
}

func (s *ScoreStore) SetTutorialCompleted(ctx context.Context, done bool) error {
	val := "0"
	if done {
		val = "1"
	}
	if err := s.client.Set(ctx, keyTutorial, val, 0).Err(); err != nil {
		return fmt.Errorf("set tutorial flag: %w", err)
	}
	return nil
}
