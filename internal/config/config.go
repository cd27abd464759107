package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	HTTPPort string
	LogLevel string

	// Storage
	StoreBackend string
	DataDir      string
	DatabaseURL  string
	SQLitePath   string
	RedisURL     string

	// Notifications
	AMQPURL  string
	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string
	MailTo   string

	// Console behaviour
	SearchDebounce        time.Duration
	ImportDelay           time.Duration
	RemoteDelay           time.Duration
	LeadUpdateFailureRate float64
	RemoteSeed            int64

	CORSAllowedOrigins  []string
	ImportRatePerMinute int
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		StoreBackend:          getEnv("STORE_BACKEND", BackendFile),
		DataDir:               getEnv("DATA_DIR", "./data"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SQLitePath:            getEnv("SQLITE_PATH", "./data/console.db"),
		RedisURL:              os.Getenv("REDIS_URL"),
		AMQPURL:               os.Getenv("AMQP_URL"),
		MailHost:              os.Getenv("MAIL_HOST"),
		MailPort:              getEnvInt("MAIL_PORT", 587),
		MailUser:              os.Getenv("MAIL_USER"),
		MailPass:              os.Getenv("MAIL_PASS"),
		MailFrom:              getEnv("MAIL_FROM", "no-reply@lead-console.local"),
		MailTo:                os.Getenv("MAIL_TO"),
		SearchDebounce:        getEnvMillis("SEARCH_DEBOUNCE_MS", 300),
		ImportDelay:           getEnvMillis("IMPORT_DELAY_MS", 1000),
		RemoteDelay:           getEnvMillis("REMOTE_DELAY_MS", 500),
		LeadUpdateFailureRate: getEnvFloat("LEAD_UPDATE_FAILURE_RATE", 0.1),
		RemoteSeed:            int64(getEnvInt("REMOTE_SEED", int(time.Now().UnixNano()%1_000_000))),
		CORSAllowedOrigins:    getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		ImportRatePerMinute:   getEnvInt("IMPORT_RATE_PER_MINUTE", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis store backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.LeadUpdateFailureRate < 0 || c.LeadUpdateFailureRate > 1 {
		return fmt.Errorf("LEAD_UPDATE_FAILURE_RATE must be within [0,1]")
	}
	return nil
}

// MailEnabled reports whether SMTP delivery of notifications is configured.
func (c *Config) MailEnabled() bool {
	return c.MailHost != "" && c.MailTo != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Millisecond
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
