// Package config loads and validates all environment variables at startup.
// Every other package receives typed values — nothing reads os.Getenv directly.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Email provider names accepted in EMAIL_PROVIDER.
const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port string // default "8080"
	Env  string // "development" | "staging" | "production"

	// ── Assets ────────────────────────────────────────────────────────────────
	AssetsDir string // directory of templates and attachments, default "./assets"

	// ── Stripe ────────────────────────────────────────────────────────────────
	StripeSecretKey     string
	StripeWebhookSecret string

	// ── Email ─────────────────────────────────────────────────────────────────
	EmailProvider string // "resend" (default) | "smtp"
	ResendAPIKey  string
	EmailFromAddr string // e.g. "hello@promptworks.studio"
	EmailFromName string // e.g. "Promptworks"

	// SMTP settings, only consulted when EmailProvider is "smtp".
	SMTPHost string
	SMTPPort int // default 587
	SMTPUser string
	SMTPPass string
}

// Load reads all environment variables and returns a validated Config.
// A .env file in the working directory is loaded first when present, so plain
// `go run ./cmd/api` works in development without any wrapper. godotenv never
// overrides variables already set, so real environment always wins.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing file is fine

	c := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		AssetsDir:           getEnv("ASSETS_DIR", "./assets"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		EmailProvider:       getEnv("EMAIL_PROVIDER", ProviderResend),
		ResendAPIKey:        os.Getenv("RESEND_API_KEY"),
		EmailFromAddr:       getEnv("EMAIL_FROM_ADDR", "hello@promptworks.studio"),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Promptworks"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:            os.Getenv("SMTP_USER"),
		SMTPPass:            os.Getenv("SMTP_PASS"),
	}

	return c, c.validate()
}

func (c *Config) validate() error {
	var errs []error

	required := map[string]string{
		"STRIPE_SECRET_KEY":     c.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET": c.StripeWebhookSecret,
	}

	for name, val := range required {
		if val == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", name))
		}
	}

	switch c.EmailProvider {
	case ProviderResend:
		if c.ResendAPIKey == "" {
			errs = append(errs, fmt.Errorf("missing required env var: RESEND_API_KEY"))
		}
	case ProviderSMTP:
		if c.SMTPHost == "" {
			errs = append(errs, fmt.Errorf("missing required env var: SMTP_HOST"))
		}
	default:
		errs = append(errs, fmt.Errorf("EMAIL_PROVIDER must be %q or %q, got %q",
			ProviderResend, ProviderSMTP, c.EmailProvider))
	}

	return errors.Join(errs...)
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
