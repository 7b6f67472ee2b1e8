package repository

import (
	"context"

	"gymgate/backend/internal/person/domain"
)

// Repository defines the person directory lookup. The directory is read-only
// from this subsystem's perspective.
type Repository interface {
	GetByIDAndVariant(ctx context.Context, id string, variant domain.Variant) (*domain.Person, error)
}
