// Package config provides environment-variable-first configuration loading
// with optional YAML file fallback for the mailgun-send command.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultAPIBase is the Mailgun v3 API root for the US region.
const defaultAPIBase = "https://api.mailgun.net/v3"

// Config holds the complete command configuration.
type Config struct {
	Mailgun MailgunConfig `yaml:"mailgun"`
	Message MessageConfig `yaml:"message"`
	Logging LoggingConfig `yaml:"logging"`
}

// MailgunConfig holds the API credentials and default sender.
type MailgunConfig struct {
	APIBase string `yaml:"api_base"`
	APIKey  string `yaml:"api_key"`
	Domain  string `yaml:"domain"`
	Sender  string `yaml:"sender"`
}

// MessageConfig holds default message fields used when the matching
// flags are not given.
type MessageConfig struct {
	To      string `yaml:"to"`
	Subject string `yaml:"subject"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables with sensible defaults.
// Environment variables always take precedence.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables. Returns an error if the
// specified file path does not exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	cfg.applyEnvVars()

	return cfg, nil
}

// MailgunConfigured returns true if the API key, domain, and sender are set.
func (c *Config) MailgunConfigured() bool {
	return c.Mailgun.APIKey != "" &&
		c.Mailgun.Domain != "" &&
		c.Mailgun.Sender != ""
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.Mailgun.APIBase = defaultAPIBase
	c.Logging.Level = "info"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("MAILGUN_API_BASE"); v != "" {
		c.Mailgun.APIBase = v
	}
	if v := os.Getenv("MAILGUN_API_KEY"); v != "" {
		c.Mailgun.APIKey = v
	}
	if v := os.Getenv("MAILGUN_DOMAIN"); v != "" {
		c.Mailgun.Domain = v
	}
	if v := os.Getenv("MAILGUN_SENDER"); v != "" {
		c.Mailgun.Sender = v
	}

	if v := os.Getenv("SEND_TO"); v != "" {
		c.Message.To = v
	}
	if v := os.Getenv("SEND_SUBJECT"); v != "" {
		c.Message.Subject = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}
