package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultTargetURL is the users endpoint the poster contacts unless overridden.
const DefaultTargetURL = "http://localhost/api/users"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName               string        `mapstructure:"app_name"`
	Env                   string        `mapstructure:"app_env"`
	LogLevel              string        `mapstructure:"log_level"`
	TargetURL             string        `mapstructure:"target_url"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	PublishersFile        string        `mapstructure:"publishers_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "userpost")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "warn")
	v.SetDefault("target_url", DefaultTargetURL)
	v.SetDefault("request_timeout_seconds", 0) // no timeout
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.TargetURL = strings.TrimSpace(cfg.TargetURL)
	if err := validateTargetURL(cfg.TargetURL); err != nil {
		return nil, err
	}

	if cfg.RequestTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be zero or positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	cfg.PublishersFile = strings.TrimSpace(cfg.PublishersFile)

	return &cfg, nil
}

func validateTargetURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("target_url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse target_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid target_url scheme %q (expected http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("target_url %q has no host", raw)
	}
	return nil
}
