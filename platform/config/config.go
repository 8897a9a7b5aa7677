// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// SchedulerConfig provides settings for the asynq scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetEscalationSweepInterval() time.Duration
}

// MessagingConfig provides settings for the simulated WhatsApp channel.
type MessagingConfig interface {
	GetReadReceiptDelay() time.Duration
	GetMessageSendRate() float64
}

// EmailConfig provides settings for manager alert emails.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env         string
	HTTPAddr    string
	DatabaseURL string

	CORSAllowAll bool
	CORSOrigins  []string

	RedisURL         string
	AsynqQueueName   string
	AsynqConcurrency int

	EscalationSweepInterval time.Duration
	ReadReceiptDelay        time.Duration
	MessageSendRate         float64

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
}

// Load reads configuration from the environment, loading a .env file first
// when present. Missing optional values fall back to development defaults;
// only the database URL is required.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Env:                     getEnv("APP_ENV", "development"),
		HTTPAddr:                getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		CORSAllowAll:            getBoolEnv("CORS_ALLOW_ALL", false),
		CORSOrigins:             splitEnv("CORS_ORIGINS"),
		RedisURL:                getEnv("REDIS_URL", ""),
		AsynqQueueName:          getEnv("ASYNQ_QUEUE", "admissions"),
		AsynqConcurrency:        getIntEnv("ASYNQ_CONCURRENCY", 10),
		EscalationSweepInterval: getDurationEnv("ESCALATION_SWEEP_INTERVAL", time.Hour),
		ReadReceiptDelay:        getDurationEnv("WHATSAPP_READ_RECEIPT_DELAY", 5*time.Second),
		MessageSendRate:         getFloatEnv("WHATSAPP_SEND_RATE", 5),
		EmailEnabled:            getBoolEnv("EMAIL_ENABLED", false),
		SMTPHost:                getEnv("SMTP_HOST", ""),
		SMTPPort:                getIntEnv("SMTP_PORT", 587),
		SMTPUsername:            getEnv("SMTP_USERNAME", ""),
		SMTPPassword:            getEnv("SMTP_PASSWORD", ""),
		EmailFromName:           getEnv("EMAIL_FROM_NAME", "Admissions"),
		EmailFromAddress:        getEnv("EMAIL_FROM_ADDRESS", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

func (c *Config) GetRedisURL() string                        { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string                  { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int                   { return c.AsynqConcurrency }
func (c *Config) GetEscalationSweepInterval() time.Duration  { return c.EscalationSweepInterval }

func (c *Config) GetReadReceiptDelay() time.Duration { return c.ReadReceiptDelay }
func (c *Config) GetMessageSendRate() float64        { return c.MessageSendRate }

func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getIntEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getFloatEnv(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func splitEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
