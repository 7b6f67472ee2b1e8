package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"gymgate/backend/internal/access"
	"gymgate/backend/internal/server/httpx"
)

// Claims is the verified identity tuple the session layer encodes. The
// subject claim carries the user id.
type Claims struct {
	Role     string `json:"role"`
	BranchID string `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

type scopeKey struct{}

// ScopeFromContext returns the access scope resolved by Identity, or false
// when the request was not authenticated.
func ScopeFromContext(ctx context.Context) (access.Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(access.Scope)
	return scope, ok
}

// WithScope returns a context carrying the scope. Exposed for handler tests.
func WithScope(ctx context.Context, scope access.Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// Identity verifies the bearer token and resolves the caller's access scope.
// A branch-scoped role without a branch claim is rejected here, before any
// handler runs.
func Identity(secret, issuer string) func(http.Handler) http.Handler {
	keyFunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := httpx.BearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				httpx.WriteError(w, http.StatusUnauthorized, "missing_token")
				return
			}
			var claims Claims
			_, err := jwt.ParseWithClaims(raw, &claims, keyFunc,
				jwt.WithIssuer(issuer),
				jwt.WithValidMethods([]string{"HS256"}),
				jwt.WithExpirationRequired(),
			)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			scope, err := access.ResolveScope(claims.Subject, claims.Role, claims.BranchID)
			if err != nil {
				// A valid signature with an unusable scope is a
				// configuration problem, not a missing login.
				if errors.Is(err, access.ErrMissingBranch) || errors.Is(err, access.ErrUnknownRole) {
					httpx.WriteError(w, http.StatusForbidden, "invalid_scope")
					return
				}
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}
