package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/listenupapp/bookstore-server/internal/domain"
	"github.com/listenupapp/bookstore-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, username, password_hash, is_staff, last_login_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u           domain.User
		createdAt   string
		updatedAt   string
		passwordH   sql.NullString
		isStaff     int
		lastLoginAt string
	)

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&u.Username,
		&passwordH,
		&isStaff,
		&lastLoginAt,
	)
	if err != nil {
		return nil, err
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if u.LastLoginAt, err = parseOptionalTime(lastLoginAt); err != nil {
		return nil, fmt.Errorf("parse last_login_at: %w", err)
	}

	u.PasswordHash = passwordH.String
	u.IsStaff = isStaff != 0

	return &u, nil
}

// CreateUser inserts a new user. Returns store.ErrUsernameTaken when the
// username is already in use, ignoring case.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	lastLogin := ""
	if !user.LastLoginAt.IsZero() {
		lastLogin = formatTime(user.LastLoginAt)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, updated_at, username, username_lower,
			password_hash, is_staff, last_login_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		user.Username,
		domain.NormalizeUsername(user.Username),
		nullString(user.PasswordHash),
		boolToInt(user.IsStaff),
		lastLogin,
	)
	if isUniqueViolation(err) {
		return store.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByUsername retrieves a user by username, ignoring case.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username_lower = ?`,
		domain.NormalizeUsername(username))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// UpdateUser writes every mutable user column.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	lastLogin := ""
	if !user.LastLoginAt.IsZero() {
		lastLogin = formatTime(user.LastLoginAt)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			updated_at = ?,
			username = ?,
			username_lower = ?,
			password_hash = ?,
			is_staff = ?,
			last_login_at = ?
		WHERE id = ?`,
		formatTime(user.UpdatedAt),
		user.Username,
		domain.NormalizeUsername(user.Username),
		nullString(user.PasswordHash),
		boolToInt(user.IsStaff),
		lastLogin,
		user.ID,
	)
	if isUniqueViolation(err) {
		return store.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// CountUsers returns the number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
