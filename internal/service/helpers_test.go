package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/listenupapp/bookstore-server/internal/auth"
	"github.com/listenupapp/bookstore-server/internal/domain"
	"github.com/listenupapp/bookstore-server/internal/store/sqlite"
	"github.com/listenupapp/bookstore-server/internal/validation"
	"github.com/stretchr/testify/require"
)

// testParams keep password hashing fast in tests.
var testParams = auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type testServices struct {
	store     *sqlite.Store
	auth      *AuthService
	books     *BookService
	relations *RelationService
}

// setupServices wires every service against a fresh database.
func setupServices(t *testing.T, openRegistration bool) *testServices {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, 15*time.Minute)
	require.NoError(t, err)

	v := validation.New()
	authSvc := NewAuthService(s, tokens, v, nil, openRegistration)
	authSvc.hashParams = testParams

	return &testServices{
		store:     s,
		auth:      authSvc,
		books:     NewBookService(s, v, nil),
		relations: NewRelationService(s, nil),
	}
}

func (ts *testServices) createUser(t *testing.T, username string, staff bool) *domain.User {
	t.Helper()
	u, err := ts.auth.CreateUser(context.Background(), CredentialsRequest{
		Username: username,
		Password: "password123",
	}, staff)
	require.NoError(t, err)
	return u
}

func (ts *testServices) createBook(t *testing.T, owner *domain.User, name, price, autor string) *domain.AnnotatedBook {
	t.Helper()
	b, err := ts.books.CreateBook(context.Background(), owner, CreateBookRequest{
		Name:      name,
		Price:     price,
		AutorName: autor,
	})
	require.NoError(t, err)
	return b
}

func ptr[T any](v T) *T { return &v }
