package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TokenSecret string // Required: HMAC secret for access token signing
	HostName    string // Optional: issuer claim for tokens (default: soliloquio)

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 900s)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 7 days)

	DatabaseFile   string // Optional: path to SQLite database file (default: ./auth.db)
	SingleUserMode bool   // Optional: close registration after the first account (default: true)

	SMTPHost     string // Optional: SMTP relay host; empty means log-only email delivery
	SMTPPort     int    // Optional: SMTP relay port (default: 587)
	SMTPFrom     string // Optional: From address for outgoing mail
	SMTPUser     string // Optional: SMTP auth username
	SMTPPassword string // Optional: SMTP auth password
	AppBaseURL   string // Optional: base URL used in emailed links (default: http://localhost:8080)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-token sweep interval (default: 1h)
}

var errNoTokenSecret = errors.New("TOKEN_SECRET is required")

func LoadConfig() (Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := Config{
		TokenSecret:          os.Getenv("TOKEN_SECRET"),
		HostName:             getEnvOrDefault("HOST_NAME", "soliloquio"),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "auth.db"),
		SingleUserMode:       getEnvBoolOrDefault("SINGLE_USER_MODE", true),
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPPort:             getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPFrom:             os.Getenv("SMTP_FROM"),
		SMTPUser:             os.Getenv("SMTP_USER"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		AppBaseURL:           getEnvOrDefault("APP_BASE_URL", "http://localhost:8080"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	cfg.AccessTokenTTL = time.Duration(getEnvIntOrDefault("TOKEN_EXPIRATION_SECONDS", 900)) * time.Second
	cfg.RefreshTokenTTL = time.Duration(getEnvIntOrDefault("REFRESH_TOKEN_EXPIRATION_DAYS", 7)) * 24 * time.Hour

	if cfg.TokenSecret == "" {
		return Config{}, errNoTokenSecret
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
