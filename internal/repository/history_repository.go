package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"tariffagent/internal/model"
)

// HistoryRepository appends classification results to classification_history.
type HistoryRepository struct {
	DB *sql.DB
}

func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS classification_history (
			id          UUID PRIMARY KEY,
			description TEXT NOT NULL,
			hs_code     TEXT NOT NULL,
			duty        TEXT NOT NULL,
			restriction TEXT NOT NULL,
			status      TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (r *HistoryRepository) Save(ctx context.Context, result model.ClassificationResult) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO classification_history
		(id, description, hs_code, duty, restriction, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), result.Description, result.HSCode, result.Regulations.Duty, result.Regulations.Restriction, result.Status)
	return err
}
