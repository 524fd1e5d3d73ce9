// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Stagehand.
//
// Configuration is loaded from a single YAML file specified by:
//   - STAGEHAND_CONFIG environment variable, or
//   - --config flag passed to the command
//
// When neither is set, built-in defaults apply, so the client works out
// of the box against the production API. A local .env file, if present,
// is loaded into the environment before the config file is read so that
// ${VAR} expansions can reference it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the master configuration for Stagehand.
type Config struct {
	// API configures the remote BlocStage API client.
	API APIConfig `yaml:"api"`

	// ObjectStore configures the image upload target.
	ObjectStore ObjectStoreConfig `yaml:"object_store"`

	// Session configures the session-lifetime watchdog.
	Session SessionConfig `yaml:"session"`

	// Paths configures local directory locations.
	Paths PathsConfig `yaml:"paths"`
}

// APIConfig configures the remote API client.
type APIConfig struct {
	// BaseURL is the root of the BlocStage API.
	// Default: https://api.blocstage.com
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds each API call.
	// Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ObjectStoreConfig configures the third-party image store. The cloud
// name and upload preset were hard-coded in earlier clients; they are
// configuration here.
type ObjectStoreConfig struct {
	// Host is the object store endpoint host.
	// Default: api.cloudinary.com/v1_1
	Host string `yaml:"host"`

	// CloudName identifies the tenant at the object store.
	CloudName string `yaml:"cloud_name"`

	// UploadPreset is the unsigned upload preset token.
	UploadPreset string `yaml:"upload_preset"`

	// MaxBytes is the largest accepted image. A file of exactly
	// MaxBytes is accepted; one byte more is rejected.
	// Default: 5 MB.
	MaxBytes int64 `yaml:"max_bytes"`

	// AllowedMIMEPrefix gates uploads by detected content type.
	// Default: image/
	AllowedMIMEPrefix string `yaml:"allowed_mime_prefix"`
}

// SessionConfig configures the session-lifetime watchdog.
type SessionConfig struct {
	// Duration is the total session lifetime. Default: 30m.
	Duration time.Duration `yaml:"duration"`

	// WarningThreshold is the remaining time at which the expiry
	// warning appears. Default: 5m.
	WarningThreshold time.Duration `yaml:"warning_threshold"`

	// RefreshThreshold is the remaining time at which user activity
	// triggers a background refresh. Default: 10m.
	RefreshThreshold time.Duration `yaml:"refresh_threshold"`

	// CheckInterval is how often remaining time is recomputed.
	// Default: 30s.
	CheckInterval time.Duration `yaml:"check_interval"`
}

// PathsConfig configures local directory locations.
type PathsConfig struct {
	// State is where the token and draft mirror live.
	// Default: ~/.local/state/stagehand
	State string `yaml:"state"`
}

// Default returns the built-in configuration. These values are a
// working base, not just zero-value padding: the client runs against
// production with no config file at all.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		API: APIConfig{
			BaseURL:        "https://api.blocstage.com",
			RequestTimeout: 30 * time.Second,
		},
		ObjectStore: ObjectStoreConfig{
			Host:              "api.cloudinary.com/v1_1",
			MaxBytes:          5 << 20,
			AllowedMIMEPrefix: "image/",
		},
		Session: SessionConfig{
			Duration:         30 * time.Minute,
			WarningThreshold: 5 * time.Minute,
			RefreshThreshold: 10 * time.Minute,
			CheckInterval:    30 * time.Second,
		},
		Paths: PathsConfig{
			State: filepath.Join(homeDir, ".local", "state", "stagehand"),
		},
	}
}

// Load loads configuration from the STAGEHAND_CONFIG environment
// variable if set, falling back to defaults otherwise. A .env file in
// the working directory is loaded first so expansions can see it;
// a missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configPath := os.Getenv("STAGEHAND_CONFIG")
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, cfg.Validate()
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// the defaults. The only expansion performed is ${VAR} and
// ${VAR:-default} in string fields, for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// string fields that commonly carry them.
func (c *Config) expandVariables() {
	c.API.BaseURL = expandVars(c.API.BaseURL)
	c.ObjectStore.Host = expandVars(c.ObjectStore.Host)
	c.ObjectStore.CloudName = expandVars(c.ObjectStore.CloudName)
	c.ObjectStore.UploadPreset = expandVars(c.ObjectStore.UploadPreset)
	c.Paths.State = expandVars(c.Paths.State)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	} else if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL))
	}
	if c.API.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("api.request_timeout must be positive"))
	}

	if c.ObjectStore.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("object_store.max_bytes must be positive"))
	}
	if c.ObjectStore.AllowedMIMEPrefix == "" {
		errs = append(errs, fmt.Errorf("object_store.allowed_mime_prefix is required"))
	}

	if c.Session.Duration <= 0 {
		errs = append(errs, fmt.Errorf("session.duration must be positive"))
	}
	if c.Session.WarningThreshold <= 0 || c.Session.WarningThreshold >= c.Session.Duration {
		errs = append(errs, fmt.Errorf("session.warning_threshold must fall inside session.duration"))
	}
	if c.Session.RefreshThreshold <= 0 || c.Session.RefreshThreshold >= c.Session.Duration {
		errs = append(errs, fmt.Errorf("session.refresh_threshold must fall inside session.duration"))
	}
	if c.Session.CheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("session.check_interval must be positive"))
	}

	if c.Paths.State == "" {
		errs = append(errs, fmt.Errorf("paths.state is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
