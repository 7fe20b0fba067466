package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/listenupapp/bookstore-server/internal/domain"
	domainerrors "github.com/listenupapp/bookstore-server/internal/errors"
	"github.com/listenupapp/bookstore-server/internal/http/response"
	"github.com/listenupapp/bookstore-server/internal/logger"
	"github.com/listenupapp/bookstore-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// userKey is the context key for the authenticated user.
const userKey ctxKey = "user"

// withUser stores the authenticated user in context.
func withUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}

// RequireUser returns the authenticated user or a 401 error.
func RequireUser(ctx context.Context) (*domain.User, error) {
	user := CurrentUser(ctx)
	if user.IsAnonymous() {
		return nil, domainerrors.Unauthorized(domainerrors.MsgNotAuthenticated)
	}
	return user, nil
}

// bearerToken extracts the token from "Bearer <t>" or "Token <t>".
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		token = strings.TrimSpace(token)
		return token, token != ""
	default:
		return "", false
	}
}

// authMiddleware resolves an Authorization header to a user.
// Requests without the header continue anonymously; handlers decide whether
// that is acceptable. A header that is present but invalid is rejected.
func authMiddleware(auth *service.AuthService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				response.Unauthorized(w, "Invalid authorization header format", log)
				return
			}

			user, _, err := auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				response.HandleError(w, err, log)
				return
			}

			ctx := withUser(r.Context(), user)
			ctx = logger.WithAttrs(ctx, slog.String("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
