package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"gymgate/backend/internal/access"
	attendancedomain "gymgate/backend/internal/attendance/domain"
	branchdomain "gymgate/backend/internal/branch/domain"
	"gymgate/backend/internal/db"
	ledgerdomain "gymgate/backend/internal/ledger/domain"
	persondomain "gymgate/backend/internal/person/domain"
	qrdomain "gymgate/backend/internal/qrtoken/domain"
	telemetrydomain "gymgate/backend/internal/telemetry/domain"
)

// Sentinel errors for the scan path; handler maps them to HTTP statuses.
var (
	// ErrBranchMismatch indicates the token's subject belongs to a different
	// branch than the scanner. Reported without naming the subject's branch.
	ErrBranchMismatch = errors.New("subject belongs to a different branch")

	// ErrBranchRequired indicates an unrestricted caller asked for a branch
	// view without naming a branch.
	ErrBranchRequired = errors.New("branch id required")
)

// BranchRepo resolves branches, mainly for their timezone.
type BranchRepo interface {
	GetByID(ctx context.Context, id string) (*branchdomain.Branch, error)
}

// PersonRepo is the person directory lookup used to resolve scan subjects.
type PersonRepo interface {
	GetByIDAndVariant(ctx context.Context, id string, variant persondomain.Variant) (*persondomain.Person, error)
}

// LedgerRepo is the consumed-nonce ledger.
type LedgerRepo interface {
	Exists(ctx context.Context, nonce string) (bool, error)
	Insert(ctx context.Context, q db.DBTX, e *ledgerdomain.Entry) error
	ListByBranchAndWindow(ctx context.Context, branchID string, from, to time.Time) ([]ledgerdomain.HistoryItem, error)
}

// AttendanceRepo is the attendance store.
type AttendanceRepo interface {
	GetForDayForUpdate(ctx context.Context, q db.DBTX, subjectID string, subjectType persondomain.Variant, day string) (*attendancedomain.Record, error)
	GetOpenForUpdate(ctx context.Context, q db.DBTX, subjectID string, subjectType persondomain.Variant) (*attendancedomain.Record, error)
	Insert(ctx context.Context, q db.DBTX, r *attendancedomain.Record) error
	UpdateCheckout(ctx context.Context, q db.DBTX, r *attendancedomain.Record) error
	ListBySubject(ctx context.Context, subjectID string, subjectType persondomain.Variant, limit int) ([]attendancedomain.Record, error)
}

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Emitter receives scan telemetry. Emission is best effort; a lost event never
// fails or delays a scan.
type Emitter interface {
	Emit(ctx context.Context, e telemetrydomain.Event)
}

// ScanResult is the outcome of a successfully processed scan.
type ScanResult struct {
	Action    ledgerdomain.Action
	Person    *persondomain.Person
	Record    *attendancedomain.Record
	ScannedAt time.Time
}

// Service orchestrates scan processing: authorization, token validation,
// the attendance transition, and the ledger write, with the last two inside
// a single transaction.
type Service struct {
	branches   BranchRepo
	persons    PersonRepo
	ledger     LedgerRepo
	attendance AttendanceRepo
	tx         TxRunner
	emitter    Emitter
	now        func() time.Time
}

// NewService returns a check-in orchestrator. emitter may be nil.
func NewService(branches BranchRepo, persons PersonRepo, ledger LedgerRepo, attendance AttendanceRepo, tx TxRunner, emitter Emitter) *Service {
	return &Service{
		branches:   branches,
		persons:    persons,
		ledger:     ledger,
		attendance: attendance,
		tx:         tx,
		emitter:    emitter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ProcessScan validates a presented token and applies the attendance
// transition it implies. All rejections happen before any write; a token that
// reaches the transaction produces exactly one ledger entry and one attendance
// write, or nothing at all on rollback.
func (s *Service) ProcessScan(ctx context.Context, scope access.Scope, rawToken []byte) (*ScanResult, error) {
	res, err := s.processScan(ctx, scope, rawToken)
	s.emitScan(ctx, scope, res, err)
	return res, err
}

func (s *Service) processScan(ctx context.Context, scope access.Scope, rawToken []byte) (*ScanResult, error) {
	if err := access.Require(scope, access.OpRecordAttendance); err != nil {
		return nil, err
	}

	payload, err := qrdomain.Decode(rawToken)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := payload.Validate(now); err != nil {
		return nil, err
	}

	// Fast pre-check for a friendlier rejection; the ledger's unique
	// constraint inside the transaction is the authoritative guard.
	used, err := s.ledger.Exists(ctx, payload.Nonce)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, ledgerdomain.ErrNonceAlreadyUsed
	}

	person, err := s.persons.GetByIDAndVariant(ctx, payload.SubjectID, payload.SubjectType)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, persondomain.ErrNotFound
	}
	if !person.IsActive() {
		return nil, persondomain.ErrInactive
	}
	if !access.CanAccessBranch(scope, person.BranchID) {
		return nil, ErrBranchMismatch
	}

	branch, err := s.branches.GetByID(ctx, person.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, errors.New("person references unknown branch " + person.BranchID)
	}
	day := branch.Day(now)

	var record *attendancedomain.Record
	var action ledgerdomain.Action
	err = s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		// An open session takes precedence over today's record so a scan
		// after midnight closes the session against its check-in day.
		current, err := s.attendance.GetOpenForUpdate(ctx, tx, person.ID, person.Variant)
		if err != nil {
			return err
		}
		if current == nil {
			current, err = s.attendance.GetForDayForUpdate(ctx, tx, person.ID, person.Variant, day)
			if err != nil {
				return err
			}
		}
		kind, err := attendancedomain.Decide(current)
		if err != nil {
			return err
		}
		switch kind {
		case attendancedomain.TransitionCheckin:
			record = attendancedomain.NewRecord(person.ID, person.Variant, person.BranchID, day, now)
			if err := s.attendance.Insert(ctx, tx, record); err != nil {
				return err
			}
			action = ledgerdomain.ActionCheckin
		case attendancedomain.TransitionCheckout:
			record = current
			record.Close(now)
			if err := s.attendance.UpdateCheckout(ctx, tx, record); err != nil {
				return err
			}
			action = ledgerdomain.ActionCheckout
		}
		entry := &ledgerdomain.Entry{
			Nonce:       payload.Nonce,
			SubjectID:   person.ID,
			SubjectType: person.Variant,
			BranchID:    person.BranchID,
			IssuedAt:    payload.IssuedAt,
			ExpiresAt:   payload.ExpiresAt,
			ScannedAt:   now,
			Action:      action,
			ScannedBy:   scope.UserID,
			CreatedAt:   now,
		}
		return s.ledger.Insert(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	return &ScanResult{Action: action, Person: person, Record: record, ScannedAt: now}, nil
}

// TodayHistory returns the branch's ledger entries for the branch-local
// current day. Branch-scoped callers may omit branchID to mean their own
// branch; an unrestricted caller must name one.
func (s *Service) TodayHistory(ctx context.Context, scope access.Scope, branchID string) ([]ledgerdomain.HistoryItem, error) {
	if branchID == "" {
		if scope.Unrestricted {
			return nil, ErrBranchRequired
		}
		branchID = scope.BranchID
	}
	if err := access.RequireBranch(scope, access.OpReadTodayHistory, branchID); err != nil {
		return nil, err
	}

	branch, err := s.branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, access.ErrNotFound
	}

	loc := branch.Location()
	local := s.now().In(loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 1)
	return s.ledger.ListByBranchAndWindow(ctx, branchID, from, to)
}

// AttendanceHistory returns a subject's attendance records, newest first.
// Out-of-branch subjects are reported as not found to branch-scoped callers.
func (s *Service) AttendanceHistory(ctx context.Context, scope access.Scope, subjectID string, subjectType persondomain.Variant, limit int) ([]attendancedomain.Record, error) {
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	person, err := s.persons.GetByIDAndVariant(ctx, subjectID, subjectType)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, access.ErrNotFound
	}
	if err := access.RequireBranch(scope, access.OpReadAttendanceHistory, person.BranchID); err != nil {
		return nil, err
	}
	return s.attendance.ListBySubject(ctx, subjectID, subjectType, limit)
}

func (s *Service) emitScan(ctx context.Context, scope access.Scope, res *ScanResult, scanErr error) {
	if s.emitter == nil {
		return
	}
	e := telemetrydomain.Event{
		ID:         uuid.New().String(),
		OccurredAt: s.now(),
		ScannedBy:  scope.UserID,
	}
	if scanErr != nil {
		e.Kind = telemetrydomain.KindScanRejected
		e.Reason = scanErr.Error()
		e.BranchID = scope.BranchID
	} else {
		e.Kind = telemetrydomain.KindScanAccepted
		e.BranchID = res.Person.BranchID
		e.SubjectID = res.Person.ID
		e.SubjectType = string(res.Person.Variant)
		e.Action = string(res.Action)
	}
	s.emitter.Emit(ctx, e)
}
