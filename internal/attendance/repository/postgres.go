package repository

import (
	"context"
	"database/sql"
	"errors"

	"gymgate/backend/internal/attendance/domain"
	"gymgate/backend/internal/db"
	persondomain "gymgate/backend/internal/person/domain"
)

type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository returns an attendance repository that uses the given db for persistence.
func NewPostgresRepository(dbtx db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: dbtx}
}

const getForDayForUpdateQuery = `
SELECT id, subject_id, subject_type, branch_id, day::text, check_in_at, check_out_at, status, total_seconds, created_at, updated_at
FROM attendance_records
WHERE subject_id = $1 AND subject_type = $2 AND day = $3::date
FOR UPDATE`

// GetForDayForUpdate returns the subject's record for the given day, locking
// the row for the duration of the transaction, or nil if no record exists.
func (r *PostgresRepository) GetForDayForUpdate(ctx context.Context, q db.DBTX, subjectID string, subjectType persondomain.Variant, day string) (*domain.Record, error) {
	return scanRecord(q.QueryRowContext(ctx, getForDayForUpdateQuery, subjectID, string(subjectType), day))
}

const getOpenForUpdateQuery = `
SELECT id, subject_id, subject_type, branch_id, day::text, check_in_at, check_out_at, status, total_seconds, created_at, updated_at
FROM attendance_records
WHERE subject_id = $1 AND subject_type = $2 AND status = 'active'
ORDER BY day DESC
LIMIT 1
FOR UPDATE`

// GetOpenForUpdate returns the subject's most recent still-active record
// regardless of day, locking it for the duration of the transaction, or nil
// if the subject has no open session. A session that started before midnight
// is found and closed through this lookup.
func (r *PostgresRepository) GetOpenForUpdate(ctx context.Context, q db.DBTX, subjectID string, subjectType persondomain.Variant) (*domain.Record, error) {
	return scanRecord(q.QueryRowContext(ctx, getOpenForUpdateQuery, subjectID, string(subjectType)))
}

const insertRecordQuery = `
INSERT INTO attendance_records (id, subject_id, subject_type, branch_id, day, check_in_at, check_out_at, status, total_seconds, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10, $11)`

// Insert persists a newly opened record on the given transaction handle.
func (r *PostgresRepository) Insert(ctx context.Context, q db.DBTX, rec *domain.Record) error {
	_, err := q.ExecContext(ctx, insertRecordQuery,
		rec.ID, rec.SubjectID, string(rec.SubjectType), rec.BranchID, rec.Day,
		rec.CheckInAt, rec.CheckOutAt, string(rec.Status), rec.TotalSeconds,
		rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

const updateCheckoutQuery = `
UPDATE attendance_records
SET check_out_at = $2, status = $3, total_seconds = $4, updated_at = $5
WHERE id = $1`

// UpdateCheckout closes the record on the given transaction handle.
func (r *PostgresRepository) UpdateCheckout(ctx context.Context, q db.DBTX, rec *domain.Record) error {
	res, err := q.ExecContext(ctx, updateCheckoutQuery,
		rec.ID, rec.CheckOutAt, string(rec.Status), rec.TotalSeconds, rec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("attendance record vanished during checkout")
	}
	return nil
}

const listBySubjectQuery = `
SELECT id, subject_id, subject_type, branch_id, day::text, check_in_at, check_out_at, status, total_seconds, created_at, updated_at
FROM attendance_records
WHERE subject_id = $1 AND subject_type = $2
ORDER BY day DESC
LIMIT $3`

// ListBySubject returns the subject's attendance history, newest day first.
func (r *PostgresRepository) ListBySubject(ctx context.Context, subjectID string, subjectType persondomain.Variant, limit int) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, listBySubjectQuery, subjectID, string(subjectType), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		var rec domain.Record
		var checkOutAt sql.NullTime
		var totalSeconds sql.NullInt64
		if err := rows.Scan(
			&rec.ID, &rec.SubjectID, &rec.SubjectType, &rec.BranchID, &rec.Day,
			&rec.CheckInAt, &checkOutAt, &rec.Status, &totalSeconds,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if checkOutAt.Valid {
			t := checkOutAt.Time
			rec.CheckOutAt = &t
		}
		if totalSeconds.Valid {
			n := totalSeconds.Int64
			rec.TotalSeconds = &n
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var rec domain.Record
	var checkOutAt sql.NullTime
	var totalSeconds sql.NullInt64
	err := row.Scan(
		&rec.ID, &rec.SubjectID, &rec.SubjectType, &rec.BranchID, &rec.Day,
		&rec.CheckInAt, &checkOutAt, &rec.Status, &totalSeconds,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if checkOutAt.Valid {
		t := checkOutAt.Time
		rec.CheckOutAt = &t
	}
	if totalSeconds.Valid {
		n := totalSeconds.Int64
		rec.TotalSeconds = &n
	}
	return &rec, nil
}
