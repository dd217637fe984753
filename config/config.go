package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"tipster/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	HTTPAddr string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Prediction rules
	LockWindow          time.Duration // Predictions close this long before kickoff
	SessionTTL          time.Duration // Lifetime of sessions issued by grant tooling
	SubmitRatePerMinute int           // Submissions allowed per identity per minute

	// Lock watch worker
	LockWatchInterval time.Duration

	// NATS configuration
	NATSServers string // Comma-separated; empty disables NATS publishing

	// Discord announcements (optional)
	DiscordWebhookID    string
	DiscordWebhookToken string

	// OpenTelemetry configuration
	OTelEnabled      bool
	OTelExporterType string // "console" or "otlp"
	OTelServiceName  string
	OTelEndpoint     string

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL combines the base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// DiscordEnabled reports whether webhook announcements are configured
func (c *Config) DiscordEnabled() bool {
	return c.DiscordWebhookID != "" && c.DiscordWebhookToken != ""
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load reads configuration from the environment, after merging a local .env file if present
func load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	config := &Config{
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		LockWindow:          60 * time.Minute,
		SessionTTL:          30 * 24 * time.Hour,
		SubmitRatePerMinute: 30,

		LockWatchInterval: time.Minute,

		NATSServers: os.Getenv("NATS_SERVERS"),

		DiscordWebhookID:    os.Getenv("DISCORD_WEBHOOK_ID"),
		DiscordWebhookToken: os.Getenv("DISCORD_WEBHOOK_TOKEN"),

		OTelEnabled:      os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType: getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelServiceName:  getEnvWithDefault("OTEL_SERVICE_NAME", "tipster"),
		OTelEndpoint:     getEnvWithDefault("OTEL_ENDPOINT", "localhost:4317"),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if minutes := os.Getenv("LOCK_WINDOW_MINUTES"); minutes != "" {
		parsed, err := strconv.Atoi(minutes)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("LOCK_WINDOW_MINUTES must be a non-negative integer, got %q", minutes)
		}
		config.LockWindow = time.Duration(parsed) * time.Minute
	}
	if interval := os.Getenv("LOCK_WATCH_INTERVAL"); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("LOCK_WATCH_INTERVAL must be a positive duration, got %q", interval)
		}
		config.LockWatchInterval = parsed
	}
	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil && parsed > 0 {
			config.SessionTTL = parsed
		}
	}
	if rate := os.Getenv("SUBMIT_RATE_PER_MINUTE"); rate != "" {
		if parsed, err := strconv.Atoi(rate); err == nil && parsed > 0 {
			config.SubmitRatePerMinute = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be blank when provided")
		}
		if config.OTelEnabled && config.OTelExporterType != "console" && config.OTelExporterType != "otlp" {
			return nil, fmt.Errorf("OTEL_EXPORTER_TYPE must be console or otlp, got %q", config.OTelExporterType)
		}
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		HTTPAddr:            ":0",
		LockWindow:          60 * time.Minute,
		SessionTTL:          time.Hour,
		SubmitRatePerMinute: 1000,
		LockWatchInterval:   time.Minute,
		OTelExporterType:    "console",
		OTelServiceName:     "tipster-test",
		LogLevel:            "debug",
		Environment:         "test",
	}
}
