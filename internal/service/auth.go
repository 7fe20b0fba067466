package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/bookstore-server/internal/auth"
	"github.com/listenupapp/bookstore-server/internal/domain"
	domainerrors "github.com/listenupapp/bookstore-server/internal/errors"
	"github.com/listenupapp/bookstore-server/internal/id"
	"github.com/listenupapp/bookstore-server/internal/metrics"
	"github.com/listenupapp/bookstore-server/internal/store"
	"github.com/listenupapp/bookstore-server/internal/validation"
)

// AuthService handles accounts and access tokens.
type AuthService struct {
	store            store.Store
	tokens           *auth.TokenService
	validator        *validation.Validator
	logger           *slog.Logger
	openRegistration bool
	hashParams       auth.Params
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokens *auth.TokenService,
	validator *validation.Validator,
	logger *slog.Logger,
	openRegistration bool,
) *AuthService {
	return &AuthService{
		store:            store,
		tokens:           tokens,
		validator:        validator,
		logger:           loggerOrDiscard(logger),
		openRegistration: openRegistration,
		hashParams:       auth.DefaultParams,
	}
}

// SetHashParams overrides the argon2id settings used for new passwords.
func (s *AuthService) SetHashParams(p auth.Params) {
	s.hashParams = p
}

// CredentialsRequest creates an account.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by every operation that issues a token.
type AuthResponse struct {
	User        *domain.User
	AccessToken string
	ExpiresIn   time.Duration
}

// SetupRequired reports whether no account exists yet.
func (s *AuthService) SetupRequired(ctx context.Context) (bool, error) {
	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n == 0, nil
}

// RegistrationOpen reports whether anyone may create an account.
func (s *AuthService) RegistrationOpen() bool {
	return s.openRegistration
}

// Setup creates the first account as staff. It only works while no
// account exists.
func (s *AuthService) Setup(ctx context.Context, req CredentialsRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	required, err := s.SetupRequired(ctx)
	if err != nil {
		return nil, err
	}
	if !required {
		return nil, domainerrors.AlreadyConfigured("server is already configured")
	}

	user, err := s.createUser(ctx, req, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Server setup complete", "user_id", user.ID, "username", user.Username)
	return s.issue(user)
}

// Register creates a regular account when registration is open.
func (s *AuthService) Register(ctx context.Context, req CredentialsRequest) (*AuthResponse, error) {
	if !s.openRegistration {
		return nil, domainerrors.Forbidden("registration is closed")
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, req, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return s.issue(user)
}

// CreateUser creates an account directly, bypassing registration settings.
// Used by seeding and administrative tooling.
func (s *AuthService) CreateUser(ctx context.Context, req CredentialsRequest, staff bool) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.createUser(ctx, req, staff)
}

func (s *AuthService) createUser(ctx context.Context, req CredentialsRequest, staff bool) (*domain.User, error) {
	passwordHash, err := auth.HashPasswordWithParams(req.Password, s.hashParams)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Username:     req.Username,
		PasswordHash: passwordHash,
		IsStaff:      staff,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return nil, domainerrors.FieldError("username", "A user with that username already exists.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	invalid := domainerrors.InvalidCredentials("invalid username or password")

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, store.ErrUserNotFound) {
		metrics.RecordLogin(false)
		return nil, invalid
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.PasswordHash == "" || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		metrics.RecordLogin(false)
		s.logger.Warn("Failed login", "username", req.Username)
		return nil, invalid
	}

	user.LastLoginAt = time.Now().UTC()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("Failed to update last login time", "user_id", user.ID, "error", err)
	}

	metrics.RecordLogin(true)
	s.logger.Info("User logged in", "user_id", user.ID)
	return s.issue(user)
}

// VerifyAccessToken resolves a bearer token to its user.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, nil, domainerrors.Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	return user, claims, nil
}

// GetUser returns an account by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   s.tokens.AccessTokenDuration(),
	}, nil
}
