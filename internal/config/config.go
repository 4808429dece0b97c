package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration for the command-line tools.
type Config struct {
	API     APIConfig
	Webhook WebhookConfig
	Server  ServerConfig
	S3      S3Config
	Log     LogConfig
}

// APIConfig holds settings for talking to the Parselyze API.
type APIConfig struct {
	Key       string        `mapstructure:"key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// WebhookConfig holds webhook verification settings.
type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
	Path   string `mapstructure:"path"`
}

// ServerConfig holds settings for the webhook receiver.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// S3Config holds settings for reading s3:// file sources.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from an optional .env file, environment variables
// with the PARSELYZE_ prefix, and flags (which win when explicitly set).
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("PARSELYZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// API defaults
	v.SetDefault("api.key", "")
	v.SetDefault("api.base_url", "https://api.parselyze.com")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.user_agent", "")

	// Webhook defaults
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.path", "/webhooks/parselyze")

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.file", "")

	envBindings := map[string]string{
		"api.key":              "PARSELYZE_API_KEY",
		"api.base_url":         "PARSELYZE_API_BASE_URL",
		"api.timeout":          "PARSELYZE_API_TIMEOUT",
		"api.user_agent":       "PARSELYZE_API_USER_AGENT",
		"webhook.secret":       "PARSELYZE_WEBHOOK_SECRET",
		"webhook.path":         "PARSELYZE_WEBHOOK_PATH",
		"server.port":          "PARSELYZE_SERVER_PORT",
		"server.read_timeout":  "PARSELYZE_SERVER_READ_TIMEOUT",
		"server.write_timeout": "PARSELYZE_SERVER_WRITE_TIMEOUT",
		"server.environment":   "PARSELYZE_SERVER_ENVIRONMENT",
		"s3.region":            "PARSELYZE_S3_REGION",
		"s3.endpoint":          "PARSELYZE_S3_ENDPOINT",
		"s3.access_key":        "PARSELYZE_S3_ACCESS_KEY",
		"s3.secret_key":        "PARSELYZE_S3_SECRET_KEY",
		"log.level":            "PARSELYZE_LOG_LEVEL",
		"log.pretty":           "PARSELYZE_LOG_PRETTY",
		"log.file":             "PARSELYZE_LOG_FILE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if flags != nil {
		flagBindings := map[string]string{
			"api.key":        "api-key",
			"api.base_url":   "base-url",
			"api.timeout":    "timeout",
			"webhook.secret": "webhook-secret",
			"server.port":    "port",
			"log.level":      "log-level",
			"log.pretty":     "pretty",
		}
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		API: APIConfig{
			Key:       v.GetString("api.key"),
			BaseURL:   strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout:   v.GetDuration("api.timeout"),
			UserAgent: v.GetString("api.user_agent"),
		},
		Webhook: WebhookConfig{
			Secret: v.GetString("webhook.secret"),
			Path:   v.GetString("webhook.path"),
		},
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			Environment:  v.GetString("server.environment"),
		},
		S3: S3Config{
			Region:    v.GetString("s3.region"),
			Endpoint:  v.GetString("s3.endpoint"),
			AccessKey: v.GetString("s3.access_key"),
			SecretKey: v.GetString("s3.secret_key"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
			File:   v.GetString("log.file"),
		},
	}

	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("api.timeout must be positive, got %s", cfg.API.Timeout)
	}

	return cfg, nil
}
