package repository

import (
	"context"
	"time"

	"gymgate/backend/internal/db"
	"gymgate/backend/internal/ledger/domain"
)

// Repository defines persistence for the consumed-nonce ledger. Insert is
// transaction-scoped so the nonce write commits atomically with the attendance
// transition it records.
type Repository interface {
	Exists(ctx context.Context, nonce string) (bool, error)
	Insert(ctx context.Context, q db.DBTX, e *domain.Entry) error
	ListByBranchAndWindow(ctx context.Context, branchID string, from, to time.Time) ([]domain.HistoryItem, error)
}
