package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicworks/udcpr-compliance/internal/domain/rbac"
)

func TestIdentityReadsHeaders(t *testing.T) {
	var got Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetPrincipal(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/pune/projects", nil)
	req.Header.Set("X-User-ID", "officer-1")
	req.Header.Set("X-User-Role", "municipal_officer")
	rec := httptest.NewRecorder()
	Identity(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "officer-1", got.UserID)
	assert.Equal(t, rbac.RoleMunicipalOfficer, got.Role)
}

func TestIdentityDefaultsRole(t *testing.T) {
	var got Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetPrincipal(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	Identity(next).ServeHTTP(rec, req)

	assert.Equal(t, rbac.RoleDeveloper, got.Role)
}

func TestIdentityRejectsUnknownRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Role", "emperor")
	rec := httptest.NewRecorder()
	Identity(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	handler := Identity(RequirePermission(rbac.PermProjectsApprove)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	))

	req := httptest.NewRequest(http.MethodPost, "/approve", nil)
	req.Header.Set("X-User-Role", "municipal_officer")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/approve", nil)
	req.Header.Set("X-User-Role", "developer")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPIKeyAuth(t *testing.T) {
	keys := map[string]string{"pune": "secret-key-1"}
	var tenant string
	handler := APIKeyAuth(keys)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant = GetTenantFromContext(r.Context())
	}))

	// bearer format
	req := httptest.NewRequest(http.MethodGet, "/v1/pune/rules", nil)
	req.Header.Set("Authorization", "Bearer secret-key-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pune", tenant)

	// bare key format
	req = httptest.NewRequest(http.MethodGet, "/v1/pune/rules", nil)
	req.Header.Set("Authorization", "secret-key-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// missing header
	req = httptest.NewRequest(http.MethodGet, "/v1/pune/rules", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// wrong key
	req = httptest.NewRequest(http.MethodGet, "/v1/pune/rules", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// health check bypasses auth
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
