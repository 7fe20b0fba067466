package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/bookstore-server/internal/errors"
)

func TestGlobalRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimitRequests = 2
	cfg.Server.RateLimitWindow = time.Minute
	ts := setupTestServerWithConfig(t, cfg)

	for range 2 {
		require.Equal(t, http.StatusOK, ts.api.Get("/books").Code)
	}

	resp := ts.api.Get("/books")
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	body := decode[errorBody](t, resp)
	assert.Equal(t, string(domainerrors.CodeRateLimited), body.Code)
	assert.Equal(t, "Request was throttled.", body.Message)
	assert.Equal(t, "60", resp.Header().Get("Retry-After"))
}

func TestGlobalRateLimit_IgnoresForwardedHeaders(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimitRequests = 2
	cfg.Server.RateLimitWindow = time.Minute
	ts := setupTestServerWithConfig(t, cfg)

	require.Equal(t, http.StatusOK, ts.api.Get("/books", "X-Forwarded-For: 203.0.113.1").Code)
	require.Equal(t, http.StatusOK, ts.api.Get("/books", "X-Forwarded-For: 203.0.113.2").Code)

	resp := ts.api.Get("/books", "X-Real-IP: 203.0.113.3")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestCORS(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CORSOrigins = []string{"https://books.example.com"}
	ts := setupTestServerWithConfig(t, cfg)

	resp := ts.api.Get("/books", "Origin: https://books.example.com")
	assert.Equal(t, "https://books.example.com", resp.Header().Get("Access-Control-Allow-Origin"))

	resp = ts.api.Get("/books", "Origin: https://evil.example.com")
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/books", middleware.RequestIDHeader+": req-123")

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	ts.api.Get("/books")

	resp := ts.api.Get("/metrics")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), "bookstore_http_requests_total"))
	assert.Contains(t, resp.Body.String(), `route="/books"`)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Do(http.MethodPost, "/health")

	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Token abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "price", fieldName("body.price"))
	assert.Equal(t, "price", fieldName("query.price"))
	assert.Equal(t, "body", fieldName(""))
	assert.Equal(t, "body", fieldName("body"))
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "10.0.0.1", clientIP("10.0.0.1:5555"))
	assert.Equal(t, "10.0.0.1", clientIP("10.0.0.1"))
	assert.Equal(t, "::1", clientIP("[::1]:80"))
}
