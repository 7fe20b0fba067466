package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "DATA_PATH", "SERVER_PORT",
		"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
		"CORS_ORIGINS", "RATE_LIMIT", "RATE_LIMIT_WINDOW", "TRUST_PROXY",
		"ACCESS_TOKEN_DURATION", "OPEN_REGISTRATION", "LOGIN_RATE",
	} {
		t.Setenv(key, "")
	}
}

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{Path: "/var/lib/bookstore"},
		Server: ServerConfig{
			Port:              "8080",
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       time.Minute,
			RateLimitRequests: 300,
			RateLimitWindow:   time.Minute,
		},
		Auth: AuthConfig{
			AccessTokenDuration: 24 * time.Hour,
			LoginRate:           10,
			LoginWindow:         time.Minute,
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load([]string{"-env-file", filepath.Join(dir, "missing.env"), "-data-path", dir})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, dir, cfg.Data.Path)
	assert.Equal(t, filepath.Join(dir, DatabaseFile), cfg.Data.DatabasePath())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 300, cfg.Server.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.Server.RateLimitWindow)
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenDuration)
	assert.True(t, cfg.Auth.OpenRegistration)
	assert.Equal(t, 10, cfg.Auth.LoginRate)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_PORT=7000\nLOG_LEVEL=warn\n"), 0o644))
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://books.example.com,")
	t.Setenv("OPEN_REGISTRATION", "no")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load([]string{"-env-file", envFile, "-data-path", dir, "-log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port, "env beats .env file")
	assert.Equal(t, "debug", cfg.Logger.Level, "flag beats everything")
	assert.Equal(t, []string{"http://localhost:3000", "https://books.example.com"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Auth.OpenRegistration)
	assert.True(t, cfg.Server.TrustProxy)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad duration", []string{"-read-timeout", "soon"}},
		{"bad int", []string{"-login-rate", "many"}},
		{"bad env", []string{"-env", "test"}},
		{"zero login rate", []string{"-login-rate", "0"}},
		{"unknown flag", []string{"-audiobook-path", "/x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			args := append([]string{"-env-file", filepath.Join(dir, "none"), "-data-path", dir}, tt.args...)

			_, err := Load(args)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"staging", func(c *Config) { c.App.Environment = "staging" }, false},
		{"production", func(c *Config) { c.App.Environment = "production" }, false},
		{"empty env", func(c *Config) { c.App.Environment = "" }, true},
		{"case sensitive env", func(c *Config) { c.App.Environment = "DEVELOPMENT" }, true},
		{"uppercase level ok", func(c *Config) { c.Logger.Level = "WARN" }, false},
		{"bad level", func(c *Config) { c.Logger.Level = "trace" }, true},
		{"empty data path", func(c *Config) { c.Data.Path = "" }, true},
		{"zero timeout", func(c *Config) { c.Server.WriteTimeout = 0 }, true},
		{"rate limit disabled", func(c *Config) { c.Server.RateLimitRequests = 0; c.Server.RateLimitWindow = 0 }, false},
		{"negative rate limit", func(c *Config) { c.Server.RateLimitRequests = -1 }, true},
		{"zero token duration", func(c *Config) { c.Auth.AccessTokenDuration = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandDataPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("empty uses default", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, cfg.expandDataPath())
		assert.Equal(t, filepath.Join(homeDir, "Bookstore", "data"), cfg.Data.Path)
	})

	t.Run("tilde", func(t *testing.T) {
		cfg := &Config{Data: DataConfig{Path: "~/books"}}
		require.NoError(t, cfg.expandDataPath())
		assert.Equal(t, filepath.Join(homeDir, "books"), cfg.Data.Path)
	})

	t.Run("relative becomes absolute", func(t *testing.T) {
		cfg := &Config{Data: DataConfig{Path: "data/../data"}}
		require.NoError(t, cfg.expandDataPath())
		assert.True(t, filepath.IsAbs(cfg.Data.Path))
		assert.Equal(t, "data", filepath.Base(cfg.Data.Path))
	})
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("BOOKSTORE_TEST_KEY", "env-value")

	assert.Equal(t, "flag-value", getConfigValue("flag-value", "BOOKSTORE_TEST_KEY", "default"))
	assert.Equal(t, "env-value", getConfigValue("", "BOOKSTORE_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "BOOKSTORE_NONEXISTENT_KEY", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	assert.True(t, getBoolConfigValue("", "BOOKSTORE_NONEXISTENT_KEY", true))
	assert.True(t, getBoolConfigValue("YES", "", false))
	assert.True(t, getBoolConfigValue("1", "", false))
	assert.False(t, getBoolConfigValue("off", "", true))
}

func TestLoadEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := `# Bookstore settings
BOOKSTORE_A=plain

BOOKSTORE_B="quoted value"
  BOOKSTORE_C  =  'single quoted'
BOOKSTORE_KEEP=from-file
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	t.Setenv("BOOKSTORE_A", "")
	t.Setenv("BOOKSTORE_B", "")
	t.Setenv("BOOKSTORE_C", "")
	t.Setenv("BOOKSTORE_KEEP", "from-env")

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "plain", os.Getenv("BOOKSTORE_A"))
	assert.Equal(t, "quoted value", os.Getenv("BOOKSTORE_B"))
	assert.Equal(t, "single quoted", os.Getenv("BOOKSTORE_C"))
	assert.Equal(t, "from-env", os.Getenv("BOOKSTORE_KEEP"), "real env vars are not overwritten")
}

func TestLoadEnvFile_Errors(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VALID=1\nINVALID LINE\n"), 0o644))
	t.Setenv("VALID", "")

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format at line 2")
}
