package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-battle-service/internal/domain"
	"quiz-battle-service/internal/infra/opentdb"
)

// DefaultBankID names the seeded question bank.
const DefaultBankID = "default"

// BankSource serves questions from a jsonb bank row in Postgres. It backs
// deployments that curate their own question set instead of relying on the
// public trivia API.
type BankSource struct {
	pool   *pgxpool.Pool
	bankID string
}

func NewBankSource(pool *pgxpool.Pool, bankID string) *BankSource {
	if bankID == "" {
		bankID = DefaultBankID
	}
	return &BankSource{pool: pool, bankID: bankID}
}

// Fetch loads the bank and filters by category/difficulty; an empty filter
// result falls back to the whole bank so the pool is never empty for a
// non-empty bank.
func (s *BankSource) Fetch(ctx context.Context, category string, difficulty domain.Difficulty) ([]domain.Question, error) {
	questions, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	name := opentdb.Categories[category]
	filtered := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if name != "" && q.Category != name {
			continue
		}
		if difficulty != "" && q.Difficulty != difficulty {
			continue
		}
		filtered = append(filtered, q)
	}
	if len(filtered) == 0 {
		return questions, nil
	}
	return filtered, nil
}

// FetchDaily returns the whole bank.
func (s *BankSource) FetchDaily(ctx context.Context) ([]domain.Question, error) {
	return s.load(ctx)
}

func (s *BankSource) load(ctx context.Context) ([]domain.Question, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, s.bankID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal question bank: %w", err)
	}
	return questions, nil
}
