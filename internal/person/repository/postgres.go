package repository

import (
	"context"
	"database/sql"
	"errors"

	"gymgate/backend/internal/db"
	"gymgate/backend/internal/person/domain"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a person repository that uses the given db for persistence.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

const getPersonQuery = `
SELECT id, branch_id, variant, display_name, status, created_at, updated_at
FROM persons
WHERE id = $1 AND variant = $2`

// GetByIDAndVariant returns the person for (id, variant), or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByIDAndVariant(ctx context.Context, id string, variant domain.Variant) (*domain.Person, error) {
	var p domain.Person
	err := r.db.QueryRowContext(ctx, getPersonQuery, id, string(variant)).Scan(
		&p.ID, &p.BranchID, &p.Variant, &p.DisplayName, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
