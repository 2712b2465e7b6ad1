package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "pedagogy-reasoner", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())

	assert.False(t, cfg.Database.UseMock)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "pedagogy", cfg.Database.Name)
	assert.Equal(t, 2, cfg.Database.MinConnections)
	assert.Equal(t, 10, cfg.Database.MaxConnections)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 120, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ContextTTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("USE_MOCK_DB", "true")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "lessons")
	t.Setenv("DB_USER", "reasoner")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_MIN_CONNECTIONS", "4")
	t.Setenv("DB_MAX_CONNECTIONS", "20")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_PORT", "8080")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Database.UseMock)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "lessons", cfg.Database.Name)
	assert.Equal(t, "reasoner", cfg.Database.User)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 4, cfg.Database.MinConnections)
	assert.Equal(t, 20, cfg.Database.MaxConnections)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  environment: production
database:
  host: filehost
  port: 5434
server:
  port: 9000
`), 0o600))

	t.Setenv("DB_HOST", "envhost")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.False(t, cfg.IsDevelopment())
	// Environment wins over the file.
	assert.Equal(t, "envhost", cfg.Database.Host)
	assert.Equal(t, 5434, cfg.Database.Port)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported format")
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("DB_MIN_CONNECTIONS", "50")
	t.Setenv("DB_MAX_CONNECTIONS", "10")

	_, err := Load("")
	assert.ErrorContains(t, err, "DB_MIN_CONNECTIONS must not exceed DB_MAX_CONNECTIONS")
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")

	_, err := Load("")
	assert.ErrorContains(t, err, "LOG_LEVEL")
}
