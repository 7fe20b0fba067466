// Package service holds the catalog's business rules: book CRUD guarded by
// the owner-or-staff rule, per-user book relations and account handling.
package service

import (
	"io"
	"log/slog"
	"strings"
)

// loggerOrDiscard lets constructors accept a nil logger.
func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}

// trimPtr trims the string a pointer refers to, leaving nil alone.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
