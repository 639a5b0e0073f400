package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"quiz-battle-service/internal/domain"
)

// SeedBank upserts a question bank row; used by the migrate CLI to install
// the default bank and by the integration tests.
func SeedBank(ctx context.Context, db *bun.DB, bankID string, questions []domain.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal question bank: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO question_banks (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
		bankID, string(data))
	if err != nil {
		return fmt.Errorf("seed question bank: %w", err)
	}
	return nil
}
