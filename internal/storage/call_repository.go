package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rebeen/zanist/internal/model"
)

// CallStats is one aggregate row for the admin stats endpoint: how many
// calls a provider received for a pipeline kind and how many succeeded.
type CallStats struct {
	Provider  string `db:"provider" json:"provider"`
	Kind      string `db:"kind" json:"kind"`
	Total     int64  `db:"total" json:"total"`
	Succeeded int64  `db:"succeeded" json:"succeeded"`
}

// ProviderCallRepository defines the interface for call audit persistence.
// Go interfaces are implicit: any struct with these methods satisfies it,
// which makes the fake used in service tests a three-line type.
type ProviderCallRepository interface {
	Create(ctx context.Context, call *model.ProviderCall) error
	Count(ctx context.Context) (int64, error)
	Stats(ctx context.Context) ([]CallStats, error)
}

// sqliteCallRepository is the SQLite implementation. The struct is
// unexported; only the interface is public.
type sqliteCallRepository struct {
	db *sqlx.DB
}

// NewProviderCallRepository creates a SQLite-backed ProviderCallRepository.
func NewProviderCallRepository(db *sqlx.DB) ProviderCallRepository {
	return &sqliteCallRepository{db: db}
}

func (r *sqliteCallRepository) Create(ctx context.Context, call *model.ProviderCall) error {
	// NamedExecContext uses the struct's `db:` tags to map fields to
	// :named placeholders.
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO provider_calls (provider, model, kind, success, duration_ms)
		VALUES (:provider, :model, :kind, :success, :duration_ms)
	`, call)
	if err != nil {
		return fmt.Errorf("recording provider call: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM provider_calls")
	return count, err
}

func (r *sqliteCallRepository) Stats(ctx context.Context) ([]CallStats, error) {
	var stats []CallStats
	err := r.db.SelectContext(ctx, &stats, `
		SELECT provider, kind, COUNT(*) AS total,
		       SUM(CASE WHEN success THEN 1 ELSE 0 END) AS succeeded
		FROM provider_calls
		GROUP BY provider, kind
		ORDER BY provider, kind
	`)
	if err != nil {
		return nil, fmt.Errorf("querying call stats: %w", err)
	}
	return stats, nil
}
