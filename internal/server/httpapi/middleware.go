package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/logging"
	"github.com/foodshare/foodshare/internal/server/auth"
	"github.com/foodshare/foodshare/internal/server/users"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// IdentityContextKey stores the authenticated identity in request context.
const IdentityContextKey contextKey = "identity"

// Identity is the authenticated caller extracted from the access token.
type Identity struct {
	UserID string
	Role   string
}

// Authenticate requires a valid bearer access token and puts the caller's
// identity into the request context.
func Authenticate(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respondError(w, common.ErrorUnauthorized)
				return
			}

			claims, err := auth.ParseToken(token, secretKey)
			if err != nil {
				respondError(w, err)
				return
			}

			identity := &Identity{UserID: claims.UserID, Role: claims.Role}
			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns 403 unless the authenticated caller is an admin.
// MUST be used after Authenticate so the identity is already in context.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || identity.Role != users.RoleAdmin {
			respondError(w, common.ErrorForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext extracts the authenticated identity from request
// context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(*Identity)
	return identity, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs one structured line per request.
func RequestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.Info(r.Context(), "request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}
