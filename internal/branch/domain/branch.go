package domain

import (
	"errors"
	"time"
)

// Branch represents a gym location. It is the tenant boundary: every person,
// attendance record, and ledger entry belongs to exactly one branch.
type Branch struct {
	ID        string
	Name      string
	Timezone  string // IANA name, e.g. "Europe/Paris"; defines the branch calendar day
	OpensAt   string // "HH:MM" local time
	ClosesAt  string // "HH:MM" local time
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the branch for persistence. Returns an error describing the first validation failure.
func (b *Branch) Validate() error {
	if b.Name == "" {
		return errors.New("name is required")
	}
	if b.Timezone == "" {
		b.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return errors.New("timezone must be a valid IANA name")
	}
	return nil
}

// Location returns the branch's time.Location, falling back to UTC when the
// stored name does not resolve. Attendance day boundaries are computed in it.
func (b *Branch) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Day returns the branch-local calendar day for t, formatted YYYY-MM-DD.
// A record's day is fixed at check-in and does not roll over at midnight.
func (b *Branch) Day(t time.Time) string {
	return t.In(b.Location()).Format("2006-01-02")
}
