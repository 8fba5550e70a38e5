package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"tasklist/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	AppVersion  string
	DatabaseURL string
	JWTSecret   string

	LogLevel string
	LogJSON  bool

	// Redis is optional; rate limiting falls back to an in-process limiter
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit  int
	APIRateWindow time.Duration

	// Empty means any origin may open the task feed websocket
	AllowedOrigin string
}

var (
	ErrDatabaseURLMissing = errors.New("DATABASE_URL is not set")
	ErrJWTSecretMissing   = errors.New("JWT_SECRET is not set")
)

// Load reads .env (if present) and the process environment.
// Missing required settings are fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from an env lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, ErrDatabaseURLMissing
	}

	jwtSecret := getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, ErrJWTSecretMissing
	}

	port := getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	version := getenv("APP_VERSION")
	if version == "" {
		version = "dev"
	}

	logLevel := strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:       port,
		AppVersion:    version,
		DatabaseURL:   dbURL,
		JWTSecret:     jwtSecret,
		LogLevel:      logLevel,
		LogJSON:       getenv("LOG_JSON") == "true",
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		RedisDB:       positiveInt(getenv("REDIS_DB"), 0),
		APIRateLimit:  positiveInt(getenv("API_RATE_LIMIT"), 60),
		APIRateWindow: time.Duration(positiveInt(getenv("API_RATE_WINDOW_SECONDS"), 60)) * time.Second,
		AllowedOrigin: getenv("ALLOWED_ORIGIN"),
	}, nil
}

// positiveInt parses v, keeping def for empty, malformed or non-positive values.
func positiveInt(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
