package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	persondomain "gymgate/backend/internal/person/domain"
)

// ErrAlreadyCompleted indicates the subject already checked in and out today;
// the day's record is terminal and no further scan can change it.
var ErrAlreadyCompleted = errors.New("attendance already completed for the day")

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// TransitionKind is the action a scan produces for the subject's current state.
type TransitionKind string

const (
	TransitionCheckin  TransitionKind = "checkin"
	TransitionCheckout TransitionKind = "checkout"
)

// Record is one subject's attendance for one branch-local calendar day. Day is
// fixed at check-in time; a checkout after midnight still closes the day the
// check-in opened.
type Record struct {
	ID           string
	SubjectID    string
	SubjectType  persondomain.Variant
	BranchID     string
	Day          string
	CheckInAt    time.Time
	CheckOutAt   *time.Time
	Status       Status
	TotalSeconds *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Decide derives the transition for a scan given the subject's open session,
// or failing that the record for the current day. A nil current record means
// no attendance yet, so the scan is a check-in; an active record makes it a
// check-out even when it was opened on an earlier day; a completed record
// admits no further transition.
func Decide(current *Record) (TransitionKind, error) {
	if current == nil {
		return TransitionCheckin, nil
	}
	switch current.Status {
	case StatusActive:
		return TransitionCheckout, nil
	case StatusCompleted:
		return "", ErrAlreadyCompleted
	default:
		return "", errors.New("attendance record in unknown status " + string(current.Status))
	}
}

// NewRecord opens a day's attendance at the check-in instant. Day is the
// branch-local calendar date of now.
func NewRecord(subjectID string, subjectType persondomain.Variant, branchID, day string, now time.Time) *Record {
	return &Record{
		ID:          uuid.New().String(),
		SubjectID:   subjectID,
		SubjectType: subjectType,
		BranchID:    branchID,
		Day:         day,
		CheckInAt:   now,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Close records the check-out instant and the wall-clock session duration.
func (r *Record) Close(now time.Time) {
	total := int64(now.Sub(r.CheckInAt) / time.Second)
	if total < 0 {
		total = 0
	}
	r.CheckOutAt = &now
	r.TotalSeconds = &total
	r.Status = StatusCompleted
	r.UpdatedAt = now
}
