package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/bookstore-server/internal/errors"
)

func TestAuthFlow(t *testing.T) {
	ts := setupTestServer(t)

	status := decode[AuthStatusResponse](t, ts.api.Get("/auth/status"))
	assert.True(t, status.SetupRequired)
	assert.True(t, status.OpenRegistration)

	creds := map[string]any{"username": "admin", "password": "password123"}

	resp := ts.api.Post("/auth/setup", creds)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	setup := decode[AuthResponse](t, resp)
	assert.NotEmpty(t, setup.AccessToken)
	assert.Equal(t, "Bearer", setup.TokenType)
	assert.Equal(t, 15*60, setup.ExpiresIn)
	assert.True(t, setup.User.IsStaff)
	assert.Nil(t, setup.User.LastLoginAt)

	resp = ts.api.Post("/auth/setup", map[string]any{"username": "second", "password": "password123"})
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, string(domainerrors.CodeAlreadyConfigured), decode[errorBody](t, resp).Code)

	status = decode[AuthStatusResponse](t, ts.api.Get("/auth/status"))
	assert.False(t, status.SetupRequired)

	resp = ts.api.Post("/auth/login", creds)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	login := decode[AuthResponse](t, resp)
	assert.NotNil(t, login.User.LastLoginAt)

	resp = ts.api.Get("/auth/me", "Authorization: Bearer "+login.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)
	me := decode[UserResponse](t, resp)
	assert.Equal(t, "admin", me.Username)
	assert.Equal(t, setup.User.ID, me.ID)
}

func TestRegister(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/auth/register", map[string]any{"username": "reader", "password": "password123"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.False(t, decode[AuthResponse](t, resp).User.IsStaff)

	resp = ts.api.Post("/auth/register", map[string]any{"username": "reader", "password": "password123"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, decode[errorBody](t, resp).Details, "username")

	resp = ts.api.Post("/auth/register", map[string]any{"username": "bad name!", "password": "short"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	body := decode[errorBody](t, resp)
	assert.Contains(t, body.Details, "username")
	assert.Contains(t, body.Details, "password")
}

func TestRegister_Closed(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.OpenRegistration = false
	ts := setupTestServerWithConfig(t, cfg)

	resp := ts.api.Post("/auth/register", map[string]any{"username": "reader", "password": "password123"})

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.userToken(t, "reader", false)

	resp := ts.api.Post("/auth/login", map[string]any{"username": "reader", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, string(domainerrors.CodeInvalidCredentials), decode[errorBody](t, resp).Code)

	resp = ts.api.Post("/auth/login", map[string]any{"username": "nobody", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t)
	creds := map[string]any{"username": "nobody", "password": "password123"}

	for range 3 {
		resp := ts.api.Post("/auth/login", creds)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/auth/login", creds)
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "60", resp.Header().Get("Retry-After"))
	assert.Equal(t, string(domainerrors.CodeRateLimited), decode[errorBody](t, resp).Code)

	// Other endpoints are unaffected.
	assert.Equal(t, http.StatusOK, ts.api.Get("/books").Code)
}

func TestLogin_RateLimitIgnoresForwardedHeaders(t *testing.T) {
	ts := setupTestServer(t)
	creds := map[string]any{"username": "nobody", "password": "password123"}

	for i := range 3 {
		resp := ts.api.Post("/auth/login", "X-Forwarded-For: 203.0.113."+strconv.Itoa(i), creds)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/auth/login", "X-Real-IP: 198.51.100.7", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestLogin_RateLimitBehindTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.Server.TrustProxy = true
	ts := setupTestServerWithConfig(t, cfg)
	creds := map[string]any{"username": "nobody", "password": "password123"}

	for range 3 {
		resp := ts.api.Post("/auth/login", "X-Forwarded-For: 203.0.113.1", creds)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/auth/login", "X-Forwarded-For: 203.0.113.1", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)

	resp = ts.api.Post("/auth/login", "X-Forwarded-For: 203.0.113.2", creds)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMe_Anonymous(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/auth/me")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
