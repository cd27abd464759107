package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_PORT", "LOG_LEVEL", "STORE_BACKEND", "DATA_DIR", "DATABASE_URL", "SQLITE_PATH", "REDIS_URL",
		"AMQP_URL", "MAIL_HOST", "MAIL_PORT", "MAIL_TO", "SEARCH_DEBOUNCE_MS", "IMPORT_DELAY_MS",
		"REMOTE_DELAY_MS", "LEAD_UPDATE_FAILURE_RATE", "REMOTE_SEED", "CORS_ALLOWED_ORIGINS", "IMPORT_RATE_PER_MINUTE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, time.Second, cfg.ImportDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.RemoteDelay)
	assert.Equal(t, 0.1, cfg.LeadUpdateFailureRate)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10, cfg.ImportRatePerMinute)
	assert.Equal(t, 587, cfg.MailPort)
	assert.False(t, cfg.MailEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SEARCH_DEBOUNCE_MS", "50")
	t.Setenv("LEAD_UPDATE_FAILURE_RATE", "0")
	t.Setenv("REMOTE_SEED", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("MAIL_HOST", "smtp.test")
	t.Setenv("MAIL_TO", "sales@test")
	t.Setenv("MAIL_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, 50*time.Millisecond, cfg.SearchDebounce)
	assert.Zero(t, cfg.LeadUpdateFailureRate)
	assert.Equal(t, int64(7), cfg.RemoteSeed)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 587, cfg.MailPort, "unparseable values fall back")
	assert.True(t, cfg.MailEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"memory", Config{StoreBackend: BackendMemory}, ""},
		{"sqlite", Config{StoreBackend: BackendSQLite}, ""},
		{"redis without url", Config{StoreBackend: BackendRedis}, "REDIS_URL is required"},
		{"postgres without url", Config{StoreBackend: BackendPostgres}, "DATABASE_URL is required"},
		{"postgres", Config{StoreBackend: BackendPostgres, DatabaseURL: "postgres://x"}, ""},
		{"unknown backend", Config{StoreBackend: "mongo"}, `unknown STORE_BACKEND "mongo"`},
		{"failure rate above one", Config{StoreBackend: BackendMemory, LeadUpdateFailureRate: 1.5}, "LEAD_UPDATE_FAILURE_RATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
