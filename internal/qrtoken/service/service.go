package service

import (
	"context"
	"time"

	"gymgate/backend/internal/access"
	persondomain "gymgate/backend/internal/person/domain"
	"gymgate/backend/internal/qrtoken/domain"
)

// PersonRepo is the minimal person directory lookup needed by the issuer.
type PersonRepo interface {
	GetByIDAndVariant(ctx context.Context, id string, variant persondomain.Variant) (*persondomain.Person, error)
}

// Service issues short-lived QR tokens. Tokens carry no signature; their
// validity rests on the expiry window and the single-use nonce enforced at
// scan time.
type Service struct {
	persons PersonRepo
	ttl     time.Duration
	now     func() time.Time
}

// NewService returns a token issuer with the given validity window.
func NewService(persons PersonRepo, ttl time.Duration) *Service {
	return &Service{persons: persons, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

// Issue creates a token for the given subject. Members may only issue for
// themselves; staff roles may issue for persons in their own branch; an
// unrestricted scope may issue for anyone. Cross-branch subjects are reported
// as not found to branch-scoped callers.
func (s *Service) Issue(ctx context.Context, scope access.Scope, subjectID string, subjectType persondomain.Variant) (*domain.Payload, error) {
	if err := access.Require(scope, access.OpIssueToken); err != nil {
		return nil, err
	}
	if scope.Role == access.RoleMember {
		if subjectType != persondomain.VariantMember || subjectID != scope.UserID {
			return nil, access.ErrForbidden
		}
	}

	p, err := s.persons.GetByIDAndVariant(ctx, subjectID, subjectType)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, persondomain.ErrNotFound
	}
	if !access.CanAccessBranch(scope, p.BranchID) {
		return nil, access.ErrNotFound
	}
	if !p.IsActive() {
		return nil, persondomain.ErrInactive
	}

	nonce, err := domain.NewNonce()
	if err != nil {
		return nil, err
	}
	issuedAt := s.now()
	return &domain.Payload{
		SubjectID:   p.ID,
		SubjectType: p.Variant,
		IssuedAt:    issuedAt,
		ExpiresAt:   issuedAt.Add(s.ttl),
		Nonce:       nonce,
	}, nil
}
