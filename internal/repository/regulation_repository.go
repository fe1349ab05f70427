package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"tariffagent/internal/model"
)

// Querier is the subset of *pgxpool.Pool used here.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type RegulationRepository struct {
	DB Querier
}

// LoadAll reads every row of hs_regulations keyed by its code with periods
// removed, matching how lookup keys are derived.
func (r *RegulationRepository) LoadAll(ctx context.Context) (map[string]model.Regulation, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT code, duty, restriction
		FROM hs_regulations
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query regulations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.Regulation)
	for rows.Next() {
		var code string
		var reg model.Regulation
		if err := rows.Scan(&code, &reg.Duty, &reg.Restriction); err != nil {
			return nil, fmt.Errorf("failed to scan regulation: %w", err)
		}
		out[NormalizeCode(code)] = reg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read regulations: %w", err)
	}

	return out, nil
}

// NormalizeCode turns "6109.10" into "610910".
func NormalizeCode(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), ".", "")
}
