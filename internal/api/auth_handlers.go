package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookstore-server/internal/domain"
	"github.com/listenupapp/bookstore-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "authStatus",
		Method:      http.MethodGet,
		Path:        "/auth/status",
		Summary:     "Authentication status",
		Description: "Reports whether the first account still has to be created and whether registration is open",
		Tags:        []string{"Authentication"},
	}, s.handleAuthStatus)

	huma.Register(s.api, huma.Operation{
		OperationID:   "setup",
		Method:        http.MethodPost,
		Path:          "/auth/setup",
		Summary:       "Initial setup",
		Description:   "Creates the first account with staff rights. Only works while no account exists.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
	}, s.handleSetup)

	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register",
		Description:   "Creates a regular account when open registration is enabled",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login",
		Description: "Exchanges a username and password for an access token",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.loginRateLimit},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Current user",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMe)
}

// === DTOs ===

// CredentialsRequest is the body for setup, registration and login.
type CredentialsRequest struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	Username string   `json:"username,omitempty" required:"false" doc:"Letters, digits and @.+-_ only"`
	Password string   `json:"password,omitempty" required:"false" doc:"At least 8 characters"`
}

// CredentialsInput wraps the credentials for Huma.
type CredentialsInput struct {
	Body CredentialsRequest
}

// UserResponse contains user information in auth responses.
type UserResponse struct {
	ID          string     `json:"id" doc:"User ID"`
	Username    string     `json:"username" doc:"Username"`
	IsStaff     bool       `json:"is_staff" doc:"Whether the user may modify any book"`
	CreatedAt   time.Time  `json:"created_at" doc:"Creation timestamp"`
	LastLoginAt *time.Time `json:"last_login_at" doc:"Last login timestamp, null before the first login"`
}

// AuthResponse contains the access token and its user.
type AuthResponse struct {
	AccessToken string       `json:"access_token" doc:"PASETO access token"`
	TokenType   string       `json:"token_type" doc:"Always Bearer"`
	ExpiresIn   int          `json:"expires_in" doc:"Token lifetime in seconds"`
	User        UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body UserResponse
}

// AuthStatusResponse describes what the client may do next.
type AuthStatusResponse struct {
	SetupRequired    bool `json:"setup_required" doc:"No account exists yet"`
	OpenRegistration bool `json:"open_registration" doc:"Anyone may register"`
}

// AuthStatusOutput wraps the status for Huma.
type AuthStatusOutput struct {
	Body AuthStatusResponse
}

// === Handlers ===

func (s *Server) handleAuthStatus(ctx context.Context, _ *struct{}) (*AuthStatusOutput, error) {
	required, err := s.services.Auth.SetupRequired(ctx)
	if err != nil {
		return nil, err
	}
	return &AuthStatusOutput{Body: AuthStatusResponse{
		SetupRequired:    required,
		OpenRegistration: s.services.Auth.RegistrationOpen(),
	}}, nil
}

func (s *Server) handleSetup(ctx context.Context, input *CredentialsInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Setup(ctx, service.CredentialsRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: toAuthResponse(resp)}, nil
}

func (s *Server) handleRegister(ctx context.Context, input *CredentialsInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Register(ctx, service.CredentialsRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: toAuthResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *CredentialsInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: toAuthResponse(resp)}, nil
}

func (s *Server) handleMe(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	user, err := RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

func toAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		AccessToken: resp.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(resp.ExpiresIn.Seconds()),
		User:        toUserResponse(resp.User),
	}
}

func toUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		IsStaff:   u.IsStaff,
		CreatedAt: u.CreatedAt,
	}
	if !u.LastLoginAt.IsZero() {
		t := u.LastLoginAt
		resp.LastLoginAt = &t
	}
	return resp
}
