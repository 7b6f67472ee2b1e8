package domain

import (
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		branch  Branch
		wantErr bool
	}{
		{"valid", Branch{Name: "Downtown", Timezone: "Europe/Paris"}, false},
		{"empty timezone defaults", Branch{Name: "Downtown"}, false},
		{"missing name", Branch{Timezone: "UTC"}, true},
		{"bogus timezone", Branch{Name: "Downtown", Timezone: "Mars/Olympus"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.branch.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	b := Branch{Timezone: "Mars/Olympus"}
	if loc := b.Location(); loc != time.UTC {
		t.Errorf("location = %v, want UTC", loc)
	}
}

func TestDay_BranchLocal(t *testing.T) {
	b := Branch{Timezone: "America/New_York"}
	// 03:00 UTC on March 1st is the previous evening in New York.
	at := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	if got := b.Day(at); got != "2026-02-28" {
		t.Errorf("day = %q, want 2026-02-28", got)
	}
	if got := b.Day(time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)); got != "2026-03-01" {
		t.Errorf("day = %q, want 2026-03-01", got)
	}
}
