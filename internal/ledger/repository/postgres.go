package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"gymgate/backend/internal/db"
	"gymgate/backend/internal/ledger/domain"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns a ledger repository that uses the given db for persistence.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

const nonceExistsQuery = `
SELECT EXISTS (SELECT 1 FROM qr_check_ledger WHERE nonce = $1)`

// Exists reports whether the nonce is already in the ledger. This is a fast
// pre-check only; the insert's unique constraint is the authoritative guard.
func (r *PostgresRepository) Exists(ctx context.Context, nonce string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, nonceExistsQuery, nonce).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

const insertEntryQuery = `
INSERT INTO qr_check_ledger (nonce, subject_id, subject_type, branch_id, issued_at, expires_at, scanned_at, action, scanned_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Insert appends a consumed nonce on the given transaction handle. A unique
// violation on the nonce column is mapped to ErrNonceAlreadyUsed.
func (r *PostgresRepository) Insert(ctx context.Context, q db.DBTX, e *domain.Entry) error {
	_, err := q.ExecContext(ctx, insertEntryQuery,
		e.Nonce, e.SubjectID, string(e.SubjectType), e.BranchID,
		e.IssuedAt, e.ExpiresAt, e.ScannedAt, string(e.Action), e.ScannedBy, e.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrNonceAlreadyUsed
		}
		return err
	}
	return nil
}

const listByBranchAndWindowQuery = `
SELECT l.nonce, l.action, l.scanned_at, l.subject_id, l.subject_type,
       COALESCE(p.display_name, ''), COALESCE(s.display_name, '')
FROM qr_check_ledger l
LEFT JOIN persons p ON p.id = l.subject_id AND p.variant = l.subject_type
LEFT JOIN persons s ON s.id = l.scanned_by
WHERE l.branch_id = $1 AND l.scanned_at >= $2 AND l.scanned_at < $3
ORDER BY l.scanned_at DESC`

// ListByBranchAndWindow returns ledger entries for a branch scanned inside
// [from, to), newest first, joined with subject and scanner display names.
func (r *PostgresRepository) ListByBranchAndWindow(ctx context.Context, branchID string, from, to time.Time) ([]domain.HistoryItem, error) {
	rows, err := r.db.QueryContext(ctx, listByBranchAndWindowQuery, branchID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.HistoryItem, 0)
	for rows.Next() {
		var it domain.HistoryItem
		if err := rows.Scan(&it.Nonce, &it.Action, &it.ScannedAt, &it.SubjectID, &it.SubjectType, &it.SubjectName, &it.ScannerName); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
