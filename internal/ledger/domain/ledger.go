package domain

import (
	"errors"
	"time"

	persondomain "gymgate/backend/internal/person/domain"
)

// ErrNonceAlreadyUsed indicates the presented nonce already exists in the
// ledger. The unique constraint on the nonce column is what actually enforces
// this; the error is the application-level view of that violation.
var ErrNonceAlreadyUsed = errors.New("nonce already used")

// Action is the check direction a consumed token produced.
type Action string

const (
	ActionCheckin  Action = "checkin"
	ActionCheckout Action = "checkout"
)

// Entry is one consumed nonce. Entries are append-only and never mutated.
type Entry struct {
	Nonce       string
	SubjectID   string
	SubjectType persondomain.Variant
	BranchID    string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	ScannedAt   time.Time
	Action      Action
	ScannedBy   string
	CreatedAt   time.Time
}

// HistoryItem is a ledger entry joined with display names for the day view.
type HistoryItem struct {
	Nonce       string               `json:"id"`
	Action      Action               `json:"action"`
	ScannedAt   time.Time            `json:"scanned_at"`
	SubjectID   string               `json:"subject_id"`
	SubjectType persondomain.Variant `json:"subject_type"`
	SubjectName string               `json:"subject_name"`
	ScannerName string               `json:"scanner_name,omitempty"`
}
