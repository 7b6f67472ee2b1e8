package repository

import (
	"context"

	"gymgate/backend/internal/attendance/domain"
	"gymgate/backend/internal/db"
	persondomain "gymgate/backend/internal/person/domain"
)

// Repository defines persistence for attendance records. The read-modify-write
// methods take an explicit transaction handle; the orchestrator serializes
// concurrent scans for the same subject and day with a row lock.
type Repository interface {
	GetForDayForUpdate(ctx context.Context, q db.DBTX, subjectID string, subjectType persondomain.Variant, day string) (*domain.Record, error)
	GetOpenForUpdate(ctx context.Context, q db.DBTX, subjectID string, subjectType persondomain.Variant) (*domain.Record, error)
	Insert(ctx context.Context, q db.DBTX, r *domain.Record) error
	UpdateCheckout(ctx context.Context, q db.DBTX, r *domain.Record) error
	ListBySubject(ctx context.Context, subjectID string, subjectType persondomain.Variant, limit int) ([]domain.Record, error)
}
