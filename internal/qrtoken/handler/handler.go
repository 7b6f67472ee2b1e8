package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gymgate/backend/internal/access"
	persondomain "gymgate/backend/internal/person/domain"
	"gymgate/backend/internal/qrtoken/domain"
	"gymgate/backend/internal/server/httpx"
	"gymgate/backend/internal/server/middleware"
)

// TokenIssuer is the issuing surface the handler needs.
type TokenIssuer interface {
	Issue(ctx context.Context, scope access.Scope, subjectID string, subjectType persondomain.Variant) (*domain.Payload, error)
}

// Handler exposes QR token issuance over HTTP.
type Handler struct {
	issuer TokenIssuer
}

func NewHandler(issuer TokenIssuer) *Handler {
	return &Handler{issuer: issuer}
}

// Register mounts the token routes on r. The identity middleware must run
// before these handlers.
func (h *Handler) Register(r chi.Router) {
	r.Post("/qr-tokens", h.handleIssue)
}

type issueRequest struct {
	SubjectID   string `json:"subject_id"`
	SubjectType string `json:"subject_type"`
}

type issueResponse struct {
	Token     json.RawMessage `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.ScopeFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	var req issueRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	variant, ok := persondomain.ParseVariant(req.SubjectType)
	if !ok || req.SubjectID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	payload, err := h.issuer.Issue(r.Context(), scope, req.SubjectID, variant)
	if err != nil {
		writeIssueError(w, err)
		return
	}
	raw, err := payload.Encode()
	if err != nil {
		log.Printf("qrtoken handler: encode: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, issueResponse{Token: raw, ExpiresAt: payload.ExpiresAt})
}

func writeIssueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, access.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, access.ErrNotFound), errors.Is(err, persondomain.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "subject_not_found")
	case errors.Is(err, persondomain.ErrInactive):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "subject_inactive")
	default:
		log.Printf("qrtoken handler: internal error: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
	}
}
