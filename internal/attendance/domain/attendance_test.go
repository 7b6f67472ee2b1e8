package domain

import (
	"errors"
	"testing"
	"time"

	persondomain "gymgate/backend/internal/person/domain"
)

func TestDecide_NoRecordIsCheckin(t *testing.T) {
	kind, err := Decide(nil)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if kind != TransitionCheckin {
		t.Errorf("kind = %q, want checkin", kind)
	}
}

func TestDecide_ActiveIsCheckout(t *testing.T) {
	kind, err := Decide(&Record{Status: StatusActive})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if kind != TransitionCheckout {
		t.Errorf("kind = %q, want checkout", kind)
	}
}

func TestDecide_CompletedIsTerminal(t *testing.T) {
	_, err := Decide(&Record{Status: StatusCompleted})
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("err = %v, want ErrAlreadyCompleted", err)
	}
}

func TestDecide_UnknownStatus(t *testing.T) {
	_, err := Decide(&Record{Status: Status("limbo")})
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
	if errors.Is(err, ErrAlreadyCompleted) {
		t.Error("unknown status must not look like a completed day")
	}
}

func TestNewRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	r := NewRecord("member-1", persondomain.VariantMember, "branch-1", "2026-03-01", now)
	if r.ID == "" {
		t.Error("id is empty")
	}
	if r.Status != StatusActive {
		t.Errorf("status = %q, want active", r.Status)
	}
	if !r.CheckInAt.Equal(now) {
		t.Errorf("check_in_at = %v, want %v", r.CheckInAt, now)
	}
	if r.CheckOutAt != nil || r.TotalSeconds != nil {
		t.Error("new record must have no checkout data")
	}
	if r.Day != "2026-03-01" {
		t.Errorf("day = %q, want 2026-03-01", r.Day)
	}
}

func TestClose_SetsDuration(t *testing.T) {
	checkIn := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	r := NewRecord("member-1", persondomain.VariantMember, "branch-1", "2026-03-01", checkIn)

	checkOut := checkIn.Add(90 * time.Minute)
	r.Close(checkOut)

	if r.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", r.Status)
	}
	if r.CheckOutAt == nil || !r.CheckOutAt.Equal(checkOut) {
		t.Errorf("check_out_at = %v, want %v", r.CheckOutAt, checkOut)
	}
	if r.TotalSeconds == nil || *r.TotalSeconds != 5400 {
		t.Errorf("total_seconds = %v, want 5400", r.TotalSeconds)
	}
}

func TestClose_CrossesMidnightKeepsDay(t *testing.T) {
	checkIn := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	r := NewRecord("member-1", persondomain.VariantMember, "branch-1", "2026-03-01", checkIn)

	checkOut := time.Date(2026, 3, 2, 0, 45, 0, 0, time.UTC)
	r.Close(checkOut)

	if r.Day != "2026-03-01" {
		t.Errorf("day = %q, want the check-in day 2026-03-01", r.Day)
	}
	if r.TotalSeconds == nil || *r.TotalSeconds != 4500 {
		t.Errorf("total_seconds = %v, want 4500", r.TotalSeconds)
	}
}
