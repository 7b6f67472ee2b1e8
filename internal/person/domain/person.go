package domain

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the referenced person does not exist.
	ErrNotFound = errors.New("person not found")

	// ErrInactive indicates the person exists but is deactivated.
	ErrInactive = errors.New("person is inactive")
)

// Person is a member or staff record in the directory. This subsystem reads
// persons to resolve scan subjects; creation and deactivation belong to the
// management service.
type Person struct {
	ID          string
	BranchID    string
	Variant     Variant
	DisplayName string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variant distinguishes the two person kinds a QR token can reference.
type Variant string

const (
	VariantMember Variant = "member"
	VariantStaff  Variant = "staff"
)

// ParseVariant returns the Variant for s, or "" and false when s is neither
// "member" nor "staff".
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantMember, VariantStaff:
		return Variant(s), true
	default:
		return "", false
	}
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsActive reports whether the person may be checked in or out.
func (p *Person) IsActive() bool {
	return p.Status == StatusActive
}
