package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/civicworks/udcpr-compliance/internal/domain/rbac"
)

type contextKey string

const (
	TenantKey    contextKey = "tenant"
	APIKeyKey    contextKey = "api_key"
	PrincipalKey contextKey = "principal"
)

// Principal identifies the caller for ownership checks and role gates.
// Identity headers are trusted; the upstream gateway owns authentication.
type Principal struct {
	UserID string
	Role   rbac.Role
}

// APIKeyAuth validates API key from Authorization header
func APIKeyAuth(validKeys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for health check
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			// Extract API key from Authorization header
			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <key>" and "<key>" formats
			apiKey := strings.TrimPrefix(auth, "Bearer ")
			apiKey = strings.TrimSpace(apiKey)

			if apiKey == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			// Validate API key (constant-time comparison to prevent timing attacks)
			valid := false
			var tenant string
			for t, key := range validKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					valid = true
					tenant = t
					break
				}
			}

			if !valid {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			// Store tenant in context
			ctx := context.WithValue(r.Context(), TenantKey, tenant)
			ctx = context.WithValue(ctx, APIKeyKey, apiKey)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identity reads the caller identity headers into a Principal.
// Role kosong di-default ke developer (applicant paling terbatas).
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := rbac.Role(strings.TrimSpace(r.Header.Get("X-User-Role")))
		if role == "" {
			role = rbac.RoleDeveloper
		}
		if !rbac.ValidRole(role) {
			http.Error(w, "unknown role", http.StatusForbidden)
			return
		}
		p := Principal{
			UserID: strings.TrimSpace(r.Header.Get("X-User-ID")),
			Role:   role,
		}
		ctx := context.WithValue(r.Context(), PrincipalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTenantFromContext extracts tenant from context
func GetTenantFromContext(ctx context.Context) string {
	if tenant, ok := ctx.Value(TenantKey).(string); ok {
		return tenant
	}
	return ""
}

// GetPrincipal extracts the caller principal from context
func GetPrincipal(ctx context.Context) Principal {
	if p, ok := ctx.Value(PrincipalKey).(Principal); ok {
		return p
	}
	return Principal{Role: rbac.RoleDeveloper}
}

// RequirePermission gates a route on an RBAC permission
func RequirePermission(perm rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if !rbac.HasPermission(p.Role, perm) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
