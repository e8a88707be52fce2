// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/flexprint/mail-relay/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	Port           string      `mapstructure:"PORT"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS"`
	Version        string      `mapstructure:"VERSION"`
}

// EmailConfig holds configuration for sending submission emails through Resend.
// All three of FromAddress, ToAddress and ResendAPIKey must be present for
// delivery to be attempted; see IsConfigured.
type EmailConfig struct {
	FromAddress  string `mapstructure:"FROM_ADDRESS"`
	FromName     string `mapstructure:"FROM_NAME"`
	ToAddress    string `mapstructure:"TO_ADDRESS"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
}

// IsConfigured reports whether every value required for outbound delivery
// is present. A missing value means sends must be refused before any
// network call is made.
func (c *EmailConfig) IsConfigured() bool {
	return c.FromAddress != "" && c.ToAddress != "" && c.ResendAPIKey != ""
}

// Sender returns the RFC 5322 "Name <address>" form of the configured sender.
func (c *EmailConfig) Sender() string {
	if c.FromName == "" {
		return c.FromAddress
	}
	return fmt.Sprintf("%s <%s>", c.FromName, c.FromAddress)
}

// Config aggregates all application configuration sections.
type Config struct {
	Server ServerConfig `mapstructure:"SERVER"`
	Email  EmailConfig  `mapstructure:"EMAIL"`
}

// LoadConfig reads configuration from the environment, applying defaults
// for everything that is safe to default. Email credentials deliberately
// have no defaults: their absence is detected per-request and reported as
// a configuration error rather than a user error.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("EMAIL.FROM_NAME", "FlexPrint Website")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.TO_ADDRESS", "EMAIL_TO_ADDRESS"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
	}
	for _, binding := range envBindings {
		if err := v.BindEnv(binding[0], binding[1]); err != nil {
			return nil, fmt.Errorf("failed to bind env var %s: %w", binding[1], err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Origins may arrive as a single comma-separated value from the env.
	if len(cfg.Server.AllowedOrigins) == 1 && strings.Contains(cfg.Server.AllowedOrigins[0], ",") {
		cfg.Server.AllowedOrigins = splitAndTrim(cfg.Server.AllowedOrigins[0])
	}

	if !cfg.Email.IsConfigured() {
		// Not fatal: the server still serves health checks, and each
		// delivery attempt reports the missing configuration distinctly.
		log.Warnw("Email delivery is not fully configured",
			"from_set", cfg.Email.FromAddress != "",
			"to_set", cfg.Email.ToAddress != "",
			"api_key", logger.MaskSensitiveString(cfg.Email.ResendAPIKey, 3, 2))
	}

	return &cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
