package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gymgate/backend/internal/access"
	attendancedomain "gymgate/backend/internal/attendance/domain"
	"gymgate/backend/internal/checkin/service"
	ledgerdomain "gymgate/backend/internal/ledger/domain"
	persondomain "gymgate/backend/internal/person/domain"
	qrdomain "gymgate/backend/internal/qrtoken/domain"
	"gymgate/backend/internal/server/httpx"
	"gymgate/backend/internal/server/middleware"
)

// CheckinService is the orchestrator surface the handler needs.
type CheckinService interface {
	ProcessScan(ctx context.Context, scope access.Scope, rawToken []byte) (*service.ScanResult, error)
	TodayHistory(ctx context.Context, scope access.Scope, branchID string) ([]ledgerdomain.HistoryItem, error)
	AttendanceHistory(ctx context.Context, scope access.Scope, subjectID string, subjectType persondomain.Variant, limit int) ([]attendancedomain.Record, error)
}

// Handler exposes scan processing and the scoped history readers over HTTP.
type Handler struct {
	svc CheckinService
}

func NewHandler(svc CheckinService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the check-in routes on r. The identity middleware must run
// before these handlers.
func (h *Handler) Register(r chi.Router) {
	r.Post("/scans", h.handleProcessScan)
	r.Get("/scans/today", h.handleTodayHistory)
	r.Get("/attendance/{subjectType}/{subjectID}", h.handleAttendanceHistory)
}

type scanRequest struct {
	Token json.RawMessage `json:"token"`
}

type scanResponse struct {
	Action       string     `json:"action"`
	SubjectID    string     `json:"subject_id"`
	SubjectType  string     `json:"subject_type"`
	SubjectName  string     `json:"subject_name"`
	Day          string     `json:"day"`
	CheckInAt    time.Time  `json:"check_in_at"`
	CheckOutAt   *time.Time `json:"check_out_at,omitempty"`
	TotalSeconds *int64     `json:"total_seconds,omitempty"`
	ScannedAt    time.Time  `json:"scanned_at"`
}

func (h *Handler) handleProcessScan(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.ScopeFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	var req scanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || len(req.Token) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "malformed_token")
		return
	}

	res, err := h.svc.ProcessScan(r.Context(), scope, req.Token)
	if err != nil {
		writeScanError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, scanResponse{
		Action:       string(res.Action),
		SubjectID:    res.Person.ID,
		SubjectType:  string(res.Person.Variant),
		SubjectName:  res.Person.DisplayName,
		Day:          res.Record.Day,
		CheckInAt:    res.Record.CheckInAt,
		CheckOutAt:   res.Record.CheckOutAt,
		TotalSeconds: res.Record.TotalSeconds,
		ScannedAt:    res.ScannedAt,
	})
}

func (h *Handler) handleTodayHistory(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.ScopeFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	items, err := h.svc.TodayHistory(r.Context(), scope, r.URL.Query().Get("branch_id"))
	if err != nil {
		writeScanError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type attendanceRecordResponse struct {
	ID           string     `json:"id"`
	Day          string     `json:"day"`
	BranchID     string     `json:"branch_id"`
	CheckInAt    time.Time  `json:"check_in_at"`
	CheckOutAt   *time.Time `json:"check_out_at,omitempty"`
	Status       string     `json:"status"`
	TotalSeconds *int64     `json:"total_seconds,omitempty"`
}

func (h *Handler) handleAttendanceHistory(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.ScopeFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	variant, ok := persondomain.ParseVariant(chi.URLParam(r, "subjectType"))
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_subject_type")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.svc.AttendanceHistory(r.Context(), scope, chi.URLParam(r, "subjectID"), variant, limit)
	if err != nil {
		writeScanError(w, err)
		return
	}
	out := make([]attendanceRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, attendanceRecordResponse{
			ID:           rec.ID,
			Day:          rec.Day,
			BranchID:     rec.BranchID,
			CheckInAt:    rec.CheckInAt,
			CheckOutAt:   rec.CheckOutAt,
			Status:       string(rec.Status),
			TotalSeconds: rec.TotalSeconds,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"records": out})
}

// writeScanError maps scan-path sentinels to stable error codes. Unmatched
// errors are infrastructure failures the client may retry with the same token.
func writeScanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, qrdomain.ErrMalformed):
		httpx.WriteError(w, http.StatusBadRequest, "malformed_token")
	case errors.Is(err, qrdomain.ErrExpired):
		httpx.WriteError(w, http.StatusBadRequest, "token_expired")
	case errors.Is(err, ledgerdomain.ErrNonceAlreadyUsed):
		httpx.WriteError(w, http.StatusConflict, "token_already_used")
	case errors.Is(err, persondomain.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "subject_not_found")
	case errors.Is(err, persondomain.ErrInactive):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "subject_inactive")
	case errors.Is(err, service.ErrBranchMismatch):
		httpx.WriteError(w, http.StatusForbidden, "branch_mismatch")
	case errors.Is(err, attendancedomain.ErrAlreadyCompleted):
		httpx.WriteError(w, http.StatusConflict, "already_completed")
	case errors.Is(err, service.ErrBranchRequired):
		httpx.WriteError(w, http.StatusBadRequest, "branch_required")
	case errors.Is(err, access.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, access.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found")
	default:
		log.Printf("checkin handler: internal error: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
	}
}
