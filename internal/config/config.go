package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robalobadob/wordle-rounds/internal/database"
	"github.com/robalobadob/wordle-rounds/internal/game"
)

// Config holds application configuration
type Config struct {
	Port     string
	LogLevel string

	DB    database.Config
	Store string // sql | memory

	WordsFile  string // empty means the embedded list
	Strict     bool
	Scoring    game.Policy
	AnswerMode string // random | daily
	DailySalt  string

	JWTSecret    string
	JWTTTL       time.Duration
	CookieName   string
	CookieSecure bool

	ClientOrigin   string
	RateLimit      int // requests per minute per IP on guess and auth routes
	RequestTimeout time.Duration
	MetricsEnabled bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	c := &Config{
		Port:     getEnv("PORT", "5175"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: database.Config{
			Type: getEnv("DB_TYPE", "sqlite"),
			Path: getEnv("DB_PATH", "./data/app.db"),
			URL:  os.Getenv("DATABASE_URL"),
		},
		Store:          strings.ToLower(getEnv("STORE", "sql")),
		WordsFile:      os.Getenv("WORDS_FILE"),
		Strict:         getEnvBool("WORDLE_STRICT", true),
		AnswerMode:     strings.ToLower(getEnv("WORDLE_ANSWER_MODE", "random")),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTTTL:         time.Duration(getEnvInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:     getEnv("COOKIE_NAME", "wordle_token"),
		CookieSecure:   os.Getenv("NODE_ENV") == "production",
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		RateLimit:      getEnvInt("RATE_LIMIT", 120),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}

	p, err := game.ParsePolicy(strings.ToLower(os.Getenv("WORDLE_SCORING")))
	if err != nil {
		return nil, fmt.Errorf("WORDLE_SCORING: %w", err)
	}
	c.Scoring = p

	switch c.Store {
	case "sql", "memory":
	default:
		return nil, fmt.Errorf("STORE: unknown store %q", c.Store)
	}
	switch c.AnswerMode {
	case "random", "daily":
	default:
		return nil, fmt.Errorf("WORDLE_ANSWER_MODE: unknown mode %q", c.AnswerMode)
	}
	return c, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
