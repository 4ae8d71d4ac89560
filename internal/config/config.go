package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendLocal    = "local"
	BackendPostgres = "postgres"
	BackendREST     = "rest"
)

// Session stores.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Token strategies.
const (
	TokenStrategyJWT  = "jwt"
	TokenStrategyHMAC = "hmac"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress     string
	StorageBackend string
	DatabaseURI    string
	LocalStorePath string

	RemoteAPIURL      string
	RemoteAPIEmail    string
	RemoteAPIPassword string

	SessionStore  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	TokenStrategy string
	SessionTTL    time.Duration
	AdminEmail    string
	AdminPassword string

	CORSOrigins        []string
	ExpiryScanSchedule string
	ShutdownTimeout    time.Duration
	LogLevel           string
}

const (
	defaultRunAddress         = ":8080"
	defaultLocalStorePath     = "data/customers.json"
	defaultRedisAddr          = "localhost:6379"
	defaultJWTSecret          = "change-me-in-production"
	defaultSessionTTL         = 24 * time.Hour
	defaultCORSOrigins        = "*"
	defaultExpiryScanSchedule = "0 8 * * *"
	defaultShutdownTimeout    = 10 * time.Second
	defaultLogLevel           = "info"
	dotEnvFile                = ".env"
)

// Load parses configuration from flags and environment variables. Values
// from a .env file in the working directory are applied first.
func Load() (*Config, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		StorageBackend:     getString(lookup, "STORAGE_BACKEND", BackendLocal),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		LocalStorePath:     getString(lookup, "LOCAL_STORE_PATH", defaultLocalStorePath),
		RemoteAPIURL:       getString(lookup, "REMOTE_API_URL", ""),
		RemoteAPIEmail:     getString(lookup, "REMOTE_API_EMAIL", ""),
		RemoteAPIPassword:  getString(lookup, "REMOTE_API_PASSWORD", ""),
		SessionStore:       getString(lookup, "SESSION_STORE", SessionStoreMemory),
		RedisAddr:          getString(lookup, "REDIS_ADDR", defaultRedisAddr),
		RedisPassword:      getString(lookup, "REDIS_PASSWORD", ""),
		RedisDB:            getInt(lookup, "REDIS_DB", 0),
		JWTSecret:          getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenStrategy:      getString(lookup, "TOKEN_STRATEGY", TokenStrategyJWT),
		SessionTTL:         getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		AdminEmail:         getString(lookup, "ADMIN_EMAIL", ""),
		AdminPassword:      getString(lookup, "ADMIN_PASSWORD", ""),
		ExpiryScanSchedule: defaultExpiryScanSchedule,
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:           getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}
	if v, ok := lookup("EXPIRY_SCAN_SCHEDULE"); ok {
		cfg.ExpiryScanSchedule = v
	}

	flags := flag.NewFlagSet("membership", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		corsOrigins        = getString(lookup, "CORS_ORIGINS", defaultCORSOrigins)
		sessionTTLStr      = cfg.SessionTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.StorageBackend, "storage", cfg.StorageBackend, "Customer storage backend: local, postgres or rest")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	flags.StringVar(&cfg.LocalStorePath, "local-path", cfg.LocalStorePath, "Path of the local JSON store")
	flags.StringVar(&cfg.RemoteAPIURL, "remote", cfg.RemoteAPIURL, "Base URL of the remote membership API")
	flags.StringVar(&cfg.SessionStore, "session-store", cfg.SessionStore, "Session store: memory or redis")
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	flags.StringVar(&cfg.TokenStrategy, "token-strategy", cfg.TokenStrategy, "Token strategy: jwt or hmac")
	flags.StringVar(&sessionTTLStr, "session-ttl", sessionTTLStr, "Session lifetime")
	flags.StringVar(&corsOrigins, "cors", corsOrigins, "Comma separated list of allowed origins")
	flags.StringVar(&cfg.ExpiryScanSchedule, "expiry-schedule", cfg.ExpiryScanSchedule, "Cron schedule of the expiry scan, empty disables it")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SessionTTL, err = time.ParseDuration(sessionTTLStr); err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	cfg.CORSOrigins = splitList(corsOrigins)
	cfg.StorageBackend = strings.ToLower(cfg.StorageBackend)
	cfg.SessionStore = strings.ToLower(cfg.SessionStore)
	cfg.TokenStrategy = strings.ToLower(cfg.TokenStrategy)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.LocalStorePath == "" {
		cfg.LocalStorePath = defaultLocalStorePath
	}

	switch cfg.StorageBackend {
	case BackendLocal:
	case BackendPostgres:
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("database URI must be provided for the postgres backend")
		}
	case BackendREST:
		if cfg.RemoteAPIURL == "" {
			return nil, fmt.Errorf("remote API URL must be provided for the rest backend")
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	switch cfg.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}

	switch cfg.TokenStrategy {
	case TokenStrategyJWT, TokenStrategyHMAC:
	default:
		return nil, fmt.Errorf("unknown token strategy %q", cfg.TokenStrategy)
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
