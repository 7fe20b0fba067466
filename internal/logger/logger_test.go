package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Writer: &buf})

	log.Info("book created", "book_id", 3)

	assert.Contains(t, buf.String(), `"msg":"book created"`)
	assert.Contains(t, buf.String(), `"book_id":3`)
	assert.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		environment string
		wantJSON    bool
	}{
		{"production", true},
		{"development", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Environment: tt.environment, Writer: &buf})
			log.Info("hello")

			assert.Equal(t, tt.wantJSON, strings.HasPrefix(buf.String(), "{"))
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelWarn, Format: FormatPretty, Writer: &buf})

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "WRN")
}

func TestLogger_WithErrorAndField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Writer: &buf})

	log.WithError(errors.New("boom")).WithField("book_id", 7).Error("update failed")

	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"book_id":7`)
}

func TestWithAttrs_Context(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Writer: &buf})

	ctx := WithAttrs(context.Background(), slog.String("request_id", "req-1"))
	ctx = WithAttrs(ctx, slog.String("user_id", "user-abc"))
	log.InfoContext(ctx, "handled")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"user_id":"user-abc"`)
	assert.Len(t, AttrsFrom(ctx), 2)
	assert.Empty(t, AttrsFrom(context.Background()))
}

func TestWithAttrs_DoesNotAlias(t *testing.T) {
	base := WithAttrs(context.Background(), slog.String("a", "1"))
	left := WithAttrs(base, slog.String("b", "2"))
	right := WithAttrs(base, slog.String("c", "3"))

	assert.Equal(t, "b", AttrsFrom(left)[1].Key)
	assert.Equal(t, "c", AttrsFrom(right)[1].Key)
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	r := slog.NewRecord(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), slog.LevelInfo, "Book created", 0)
	r.AddAttrs(slog.Int64("book_id", 3), slog.String("name", "Test book 1"))
	require.NoError(t, h.Handle(context.Background(), r))

	out := buf.String()
	assert.Contains(t, out, "09:30:00")
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "Book created")
	assert.Contains(t, out, "book_id=3")
	assert.Contains(t, out, `name="Test book 1"`)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))

	log.WithGroup("http").With("method", "GET").Info("request",
		slog.Group("response", slog.Int("status", 200)))

	out := buf.String()
	assert.Contains(t, out, "http.method=GET")
	assert.Contains(t, out, "http.response.status=200")
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	def := NewPrettyHandler(&bytes.Buffer{}, nil)
	assert.False(t, def.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, def.Enabled(context.Background(), slog.LevelInfo))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "plain", formatValue(slog.StringValue("plain")))
	assert.Equal(t, `"two words"`, formatValue(slog.StringValue("two words")))
	assert.Equal(t, `""`, formatValue(slog.StringValue("")))
	assert.Equal(t, "1.5s", formatValue(slog.DurationValue(1500*time.Millisecond)))
	assert.Equal(t, "true", formatValue(slog.BoolValue(true)))
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Info("nothing to see") })
}

func TestIntoFromContext(t *testing.T) {
	var buf bytes.Buffer
	reqLogger := New(Config{Format: FormatJSON, Writer: &buf}).With("request_id", "req-9")
	fallback := Discard()

	ctx := Into(context.Background(), reqLogger)
	FromContext(ctx, fallback).Info("scoped")
	assert.Contains(t, buf.String(), `"request_id":"req-9"`)

	assert.Same(t, fallback, FromContext(context.Background(), fallback))
	assert.NotNil(t, FromContext(context.Background(), nil))
}
