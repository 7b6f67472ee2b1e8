package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gymgate/backend/internal/access"
)

const (
	testSecret = "test-secret"
	testIssuer = "gymgate"
)

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return signed
}

func baseClaims(role, branchID string) Claims {
	return Claims{
		Role:     role,
		BranchID: branchID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func runIdentity(t *testing.T, authorization string) (*httptest.ResponseRecorder, access.Scope, bool) {
	t.Helper()
	var gotScope access.Scope
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotScope, gotOK = ScopeFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Identity(testSecret, testIssuer)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, gotScope, gotOK
}

func TestIdentity_ValidToken(t *testing.T) {
	token := signToken(t, baseClaims("front_desk", "branch-1"), testSecret)
	rec, scope, ok := runIdentity(t, "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ok {
		t.Fatal("scope missing from context")
	}
	if scope.UserID != "user-1" || scope.Role != access.RoleFrontDesk || scope.BranchID != "branch-1" {
		t.Errorf("scope = %+v", scope)
	}
}

func TestIdentity_SuperScope(t *testing.T) {
	token := signToken(t, baseClaims("super", ""), testSecret)
	rec, scope, ok := runIdentity(t, "Bearer "+token)

	if rec.Code != http.StatusOK || !ok {
		t.Fatalf("status = %d, ok = %v", rec.Code, ok)
	}
	if !scope.Unrestricted {
		t.Error("super scope should be unrestricted")
	}
}

func TestIdentity_MissingToken(t *testing.T) {
	rec, _, _ := runIdentity(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestIdentity_WrongSecret(t *testing.T) {
	token := signToken(t, baseClaims("front_desk", "branch-1"), "other-secret")
	rec, _, _ := runIdentity(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestIdentity_WrongIssuer(t *testing.T) {
	claims := baseClaims("front_desk", "branch-1")
	claims.Issuer = "someone-else"
	token := signToken(t, claims, testSecret)
	rec, _, _ := runIdentity(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestIdentity_ExpiredToken(t *testing.T) {
	claims := baseClaims("front_desk", "branch-1")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token := signToken(t, claims, testSecret)
	rec, _, _ := runIdentity(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestIdentity_BranchRoleWithoutBranch(t *testing.T) {
	token := signToken(t, baseClaims("front_desk", ""), testSecret)
	rec, _, _ := runIdentity(t, "Bearer "+token)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for missing branch", rec.Code)
	}
}

func TestIdentity_UnknownRole(t *testing.T) {
	token := signToken(t, baseClaims("janitor", "branch-1"), testSecret)
	rec, _, _ := runIdentity(t, "Bearer "+token)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for unknown role", rec.Code)
	}
}
