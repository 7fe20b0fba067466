package api

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookstore-server/internal/auth"
	"github.com/listenupapp/bookstore-server/internal/config"
	"github.com/listenupapp/bookstore-server/internal/domain"
	"github.com/listenupapp/bookstore-server/internal/logger"
	"github.com/listenupapp/bookstore-server/internal/service"
	"github.com/listenupapp/bookstore-server/internal/store/sqlite"
	"github.com/listenupapp/bookstore-server/internal/validation"
)

// testServer bundles a server with a humatest client bound to its router.
type testServer struct {
	server   *Server
	api      humatest.TestAPI
	services *Services
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Environment: "test"},
		Server: config.ServerConfig{
			Port: "8080",
		},
		Auth: config.AuthConfig{
			AccessTokenDuration: 15 * time.Minute,
			OpenRegistration:    true,
			LoginRate:           3,
			LoginWindow:         time.Minute,
		},
	}
}

// setupTestServer creates a server backed by a fresh database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithConfig(t, testConfig())
}

func setupTestServerWithConfig(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	log := logger.Discard()

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, cfg.Auth.AccessTokenDuration)
	require.NoError(t, err)

	v := validation.New()
	authSvc := service.NewAuthService(st, tokens, v, log, cfg.Auth.OpenRegistration)
	authSvc.SetHashParams(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	services := &Services{
		Auth:     authSvc,
		Book:     service.NewBookService(st, v, log),
		Relation: service.NewRelationService(st, log),
	}

	s := NewServer(st, services, cfg, log)
	t.Cleanup(func() { _ = s.Shutdown() })

	return &testServer{
		server:   s,
		api:      humatest.Wrap(t, s.API()),
		services: services,
	}
}

// userToken creates an account and returns it with a bearer header for it.
func (ts *testServer) userToken(t *testing.T, username string, staff bool) (*domain.User, string) {
	t.Helper()
	ctx := context.Background()

	user, err := ts.services.Auth.CreateUser(ctx, service.CredentialsRequest{
		Username: username,
		Password: "password123",
	}, staff)
	require.NoError(t, err)

	resp, err := ts.services.Auth.Login(ctx, service.LoginRequest{
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)

	return user, "Authorization: Bearer " + resp.AccessToken
}

// createBook posts a book as the given user and returns the decoded response.
func (ts *testServer) createBook(t *testing.T, authHeader, name, price, autor string) BookResponse {
	t.Helper()
	resp := ts.api.Post("/books", authHeader, map[string]any{
		"name":       name,
		"price":      price,
		"autor_name": autor,
	})
	require.Equal(t, 201, resp.Code, resp.Body.String())
	return decode[BookResponse](t, resp)
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

// errorBody mirrors APIError on the wire.
type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}
