package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	checkinhandler "gymgate/backend/internal/checkin/handler"
	"gymgate/backend/internal/config"
	healthhandler "gymgate/backend/internal/health/handler"
	qrtokenhandler "gymgate/backend/internal/qrtoken/handler"
	"gymgate/backend/internal/server/middleware"
)

// Deps holds the handler dependencies for the HTTP router.
type Deps struct {
	// Checkin processes scans and serves the history readers.
	Checkin checkinhandler.CheckinService
	// Issuer issues QR tokens.
	Issuer qrtokenhandler.TokenIssuer
	// HealthPinger is used by /healthz for readiness (e.g. *sql.DB). If nil,
	// the store check is skipped.
	HealthPinger healthhandler.Pinger
}

// NewRouter assembles the HTTP surface. All /api/v1 routes require a verified
// identity; /healthz does not.
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", healthhandler.NewHandler(deps.HealthPinger).Healthz)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Identity(cfg.JWTSecret, cfg.JWTIssuer))
		checkinhandler.NewHandler(deps.Checkin).Register(api)
		qrtokenhandler.NewHandler(deps.Issuer).Register(api)
	})

	return r
}
