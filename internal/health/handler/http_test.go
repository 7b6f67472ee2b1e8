package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockPinger implements Pinger for tests.
type mockPinger struct {
	pingErr error
}

func (m *mockPinger) PingContext(context.Context) error {
	return m.pingErr
}

func probe(t *testing.T, h *Handler) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Healthz(rec, req)
	return rec
}

func TestHealthz_NilPinger(t *testing.T) {
	rec := probe(t, NewHandler(nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHealthz_StoreReachable(t *testing.T) {
	rec := probe(t, NewHandler(&mockPinger{}))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHealthz_StoreUnreachable(t *testing.T) {
	rec := probe(t, NewHandler(&mockPinger{pingErr: errors.New("connection refused")}))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
