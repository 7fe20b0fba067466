package api

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templates embed.FS

var authPage = template.Must(template.ParseFS(templates, "templates/auth.html"))

// authPageData contains data for the sign-in landing page.
type authPageData struct {
	ServerURL        string
	SetupRequired    bool
	OpenRegistration bool
	User             string
}

// handleAuthPage serves a small HTML page describing how to obtain a token.
// GET /auth
func (s *Server) handleAuthPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	required, err := s.services.Auth.SetupRequired(ctx)
	if err != nil {
		s.logger.Error("Failed to check setup state", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := authPageData{
		ServerURL:        getServerURL(r),
		SetupRequired:    required,
		OpenRegistration: s.services.Auth.RegistrationOpen(),
	}
	if user := CurrentUser(ctx); !user.IsAnonymous() {
		data.User = user.Username
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := authPage.Execute(w, data); err != nil {
		s.logger.Error("Failed to execute auth template", "error", err)
	}
}

// getServerURL extracts the server URL from the request.
func getServerURL(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		// Check for X-Forwarded-Proto header (common with reverse proxies)
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		} else {
			scheme = "http"
		}
	}

	host := r.Host
	if forwardedHost := r.Header.Get("X-Forwarded-Host"); forwardedHost != "" {
		host = forwardedHost
	}

	return scheme + "://" + host
}
