package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// RoleAdmin marks users allowed on admin routes.
const RoleAdmin = "admin"

// Identity is the authenticated caller resolved from the bearer token.
// Handlers trust it as-is.
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom extracts the authenticated identity from the request
// context. ok is false on unauthenticated requests.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// claims are the token claims the API cares about.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Authorization bearer token and injects the
// caller's identity into the request context. Public routes are exempt.
func JWTAuth(secret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				logger.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
				unauthorised(w, "missing bearer token")
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			var c claims
			token, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn().Str("path", r.URL.Path).Err(err).Msg("invalid bearer token")
				unauthorised(w, "invalid bearer token")
				return
			}

			if c.Subject == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("token missing subject")
				unauthorised(w, "invalid bearer token")
				return
			}

			identity := Identity{UserID: c.Subject, Role: c.Role}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// isPublic reports whether the request needs no authentication. The
// catalogue is browsable without an account.
func isPublic(r *http.Request) bool {
	if r.URL.Path == "/health" {
		return true
	}
	return r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/products")
}

func unauthorised(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success": false, "message": "unauthorised: ` + message + `"}`))
}
