package repository

import (
	"context"
	"database/sql"
	"errors"

	"gymgate/backend/internal/branch/domain"
	"gymgate/backend/internal/db"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a branch repository that uses the given db for persistence.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

const getBranchQuery = `
SELECT id, name, timezone, opens_at, closes_at, active, created_at, updated_at
FROM branches
WHERE id = $1`

// GetByID returns the branch for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	var b domain.Branch
	err := r.db.QueryRowContext(ctx, getBranchQuery, id).Scan(
		&b.ID, &b.Name, &b.Timezone, &b.OpensAt, &b.ClosesAt, &b.Active, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
