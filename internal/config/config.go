package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// AuthMode selects how the calendar client authenticates against Google.
type AuthMode string

const (
	AuthServiceAccount AuthMode = "service_account"
	AuthOAuth          AuthMode = "oauth"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string

	CalendarID       string
	CalendarName     string
	CalendarTimezone *time.Location
	MaxSlots         int

	GoogleAuthMode        AuthMode
	GoogleCredentialsFile string
	GoogleTokenFile       string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	GitHubOwner string
	GitHubRepo  string
	GitHubToken string

	UpstreamTimeout  time.Duration
	UpstreamMaxTries int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// The shared surgeries calendar: either its ID, or a name resolved from
	// the authenticated account's calendar list at startup.
	cfg.CalendarID = getEnv("CALENDAR_ID", "")
	cfg.CalendarName = getEnv("CALENDAR_NAME", "")
	if cfg.CalendarID == "" && cfg.CalendarName == "" {
		return nil, fmt.Errorf("one of CALENDAR_ID or CALENDAR_NAME is required")
	}

	// Timezone used to render slot labels (default: UTC)
	tzName := getEnv("CALENDAR_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid CALENDAR_TIMEZONE %q: %w", tzName, err)
	}
	cfg.CalendarTimezone = loc

	// Maximum number of slots offered on the form (default: 10)
	cfg.MaxSlots, err = getEnvAsInt("MAX_SLOTS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_SLOTS: %w", err)
	}

	// Google auth mode: service_account (default) or oauth with a cached token
	mode := AuthMode(getEnv("GOOGLE_AUTH_MODE", string(AuthServiceAccount)))
	if mode != AuthServiceAccount && mode != AuthOAuth {
		return nil, fmt.Errorf("invalid GOOGLE_AUTH_MODE %q", mode)
	}
	cfg.GoogleAuthMode = mode
	cfg.GoogleCredentialsFile = getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	cfg.GoogleTokenFile = getEnv("GOOGLE_TOKEN_FILE", "token.json")

	// Outbound mail transport
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is required")
	}
	cfg.SMTPPort, err = getEnvAsInt("SMTP_PORT", 587)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTPUser = getEnv("SMTP_USER", "")
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", "")
	cfg.MailFrom = os.Getenv("MAIL_FROM")
	if cfg.MailFrom == "" {
		return nil, fmt.Errorf("MAIL_FROM is required")
	}

	// Issue tracker coordinates; filing is disabled when owner/repo are unset
	cfg.GitHubOwner = getEnv("GITHUB_OWNER", "")
	cfg.GitHubRepo = getEnv("GITHUB_REPO", "")
	cfg.GitHubToken = getEnv("GITHUB_TOKEN", "")

	// Timeout applied to each upstream call (default: 10s)
	timeoutStr := getEnv("UPSTREAM_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}
	cfg.UpstreamTimeout = timeout

	// Bounded retries on transient calendar failures (default: 3)
	cfg.UpstreamMaxTries, err = getEnvAsInt("UPSTREAM_MAX_TRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_MAX_TRIES: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Return 0 and a wrapped error to provide context
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}
