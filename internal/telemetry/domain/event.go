package domain

import "time"

// Kind classifies a telemetry event.
type Kind string

const (
	KindScanAccepted Kind = "scan_accepted"
	KindScanRejected Kind = "scan_rejected"
)

// Event is a scan outcome emitted for observability. Events are best effort
// and carry no authority; the ledger is the durable record.
type Event struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	OccurredAt  time.Time `json:"occurred_at"`
	BranchID    string    `json:"branch_id,omitempty"`
	SubjectID   string    `json:"subject_id,omitempty"`
	SubjectType string    `json:"subject_type,omitempty"`
	Action      string    `json:"action,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	ScannedBy   string    `json:"scanned_by,omitempty"`
}
