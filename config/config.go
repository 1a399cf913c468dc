package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port         string
	GinMode      string
	DatabaseURL  string
	SecretKey    string
	SessionTTL   time.Duration
	CookieSecure bool // set behind HTTPS
	RedisURL     string

	// Email Configuration
	SMTPHost      string
	SMTPPort      int
	EmailAddress  string
	EmailPassword string

	// Rate limiting for form submissions
	RateLimitPerMinute int
	RateLimitBurst     int

	LogLevel string
	LogFile  string
}

// Load reads .env (when present) and the process environment once.
// It never fails on missing values; call Validate before serving.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("LOG_LEVEL", "info")

	ttl, err := time.ParseDuration(v.GetString("SESSION_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	return &Config{
		Port:         v.GetString("PORT"),
		GinMode:      v.GetString("GIN_MODE"),
		DatabaseURL:  v.GetString("DATABASE_URL"),
		SecretKey:    v.GetString("SECRET_KEY"),
		SessionTTL:   ttl,
		CookieSecure: v.GetBool("COOKIE_SECURE"),
		RedisURL:     v.GetString("REDIS_URL"),

		SMTPHost:      v.GetString("SMTP_HOST"),
		SMTPPort:      v.GetInt("SMTP_PORT"),
		EmailAddress:  v.GetString("EMAIL_ADDY"),
		EmailPassword: v.GetString("EMAIL_PASS"),

		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),

		LogLevel: v.GetString("LOG_LEVEL"),
		LogFile:  v.GetString("LOG_FILE"),
	}, nil
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	required := []struct {
		key   string
		value string
	}{
		{"SECRET_KEY", c.SecretKey},
		{"DATABASE_URL", c.DatabaseURL},
		{"EMAIL_ADDY", c.EmailAddress},
		{"EMAIL_PASS", c.EmailPassword},
	}
	for _, r := range required {
		if r.value == "" {
			result = multierror.Append(result, fmt.Errorf("%s is not set", r.key))
		}
	}

	if c.SessionTTL <= 0 {
		result = multierror.Append(result, errors.New("SESSION_TTL must be positive"))
	}

	return result.ErrorOrNil()
}
