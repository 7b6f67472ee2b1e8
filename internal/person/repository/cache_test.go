package repository

import (
	"context"
	"testing"
	"time"

	"gymgate/backend/internal/person/domain"
)

type stubRepo struct {
	calls int
}

func (s *stubRepo) GetByIDAndVariant(ctx context.Context, id string, variant domain.Variant) (*domain.Person, error) {
	s.calls++
	return &domain.Person{ID: id, Variant: variant}, nil
}

func TestNewCachedRepository_NilClientPassesThrough(t *testing.T) {
	next := &stubRepo{}
	repo := NewCachedRepository(next, nil, time.Second)
	if repo != Repository(next) {
		t.Fatal("nil client should return the underlying repository unchanged")
	}
	p, err := repo.GetByIDAndVariant(context.Background(), "member-1", domain.VariantMember)
	if err != nil || p == nil {
		t.Fatalf("GetByIDAndVariant: %v, %v", p, err)
	}
	if next.calls != 1 {
		t.Errorf("calls = %d, want 1", next.calls)
	}
}
