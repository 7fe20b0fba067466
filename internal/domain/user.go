package domain

import (
	"strings"
	"time"
)

// User represents an account that can own books and keep per-book relations.
type User struct {
	Timestamps
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	IsStaff      bool      `json:"is_staff"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// NormalizeUsername returns the canonical form used for uniqueness checks.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// IsAnonymous reports whether u represents an unauthenticated caller.
func (u *User) IsAnonymous() bool {
	return u == nil || u.ID == ""
}
