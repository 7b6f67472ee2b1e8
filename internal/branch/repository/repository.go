package repository

import (
	"context"

	"gymgate/backend/internal/branch/domain"
)

// Repository defines persistence for branches. This subsystem only reads
// branches; creation and updates belong to the management service.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Branch, error)
}
