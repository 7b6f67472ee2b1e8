package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"gymgate/backend/internal/access"
	persondomain "gymgate/backend/internal/person/domain"
	"gymgate/backend/internal/qrtoken/domain"
	"gymgate/backend/internal/server/middleware"
)

// mockIssuer implements TokenIssuer for tests.
type mockIssuer struct {
	payload *domain.Payload
	err     error
}

func (m *mockIssuer) Issue(ctx context.Context, scope access.Scope, subjectID string, subjectType persondomain.Variant) (*domain.Payload, error) {
	return m.payload, m.err
}

func doIssue(t *testing.T, issuer TokenIssuer, body string, withScope bool) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(issuer).Register(r)

	req := httptest.NewRequest(http.MethodPost, "/qr-tokens", strings.NewReader(body))
	if withScope {
		scope := access.Scope{UserID: "staff-1", Role: access.RoleFrontDesk, BranchID: "branch-1"}
		req = req.WithContext(middleware.WithScope(req.Context(), scope))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleIssue_Success(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	issuer := &mockIssuer{payload: &domain.Payload{
		SubjectID:   "member-1",
		SubjectType: persondomain.VariantMember,
		IssuedAt:    issued,
		ExpiresAt:   issued.Add(time.Minute),
		Nonce:       "n1",
	}}
	rec := doIssue(t, issuer, `{"subject_id":"member-1","subject_type":"member"}`, true)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token     json.RawMessage `json:"token"`
		ExpiresAt time.Time       `json:"expires_at"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	decoded, err := domain.Decode(resp.Token)
	if err != nil {
		t.Fatalf("returned token does not decode: %v", err)
	}
	if decoded.SubjectID != "member-1" || decoded.Nonce != "n1" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestHandleIssue_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{{`},
		{"missing subject", `{"subject_type":"member"}`},
		{"bad variant", `{"subject_id":"x","subject_type":"robot"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doIssue(t, &mockIssuer{}, tt.body, true)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleIssue_NoScope(t *testing.T) {
	rec := doIssue(t, &mockIssuer{}, `{"subject_id":"m","subject_type":"member"}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleIssue_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"forbidden", access.ErrForbidden, http.StatusForbidden},
		{"masked", access.ErrNotFound, http.StatusNotFound},
		{"missing person", persondomain.ErrNotFound, http.StatusNotFound},
		{"inactive", persondomain.ErrInactive, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doIssue(t, &mockIssuer{err: tt.err}, `{"subject_id":"m","subject_type":"member"}`, true)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
