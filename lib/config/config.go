// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DefaultAPIRoot is the hosted course service.
const DefaultAPIRoot = "https://finalsexam.onrender.com/api"

// Environment selects which override section of the file applies.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config is the complete client configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Push    PushConfig    `yaml:"push"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`

	Development *Overrides `yaml:"development,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides holds the fields an environment section may replace.
type Overrides struct {
	API *APIConfig `yaml:"api,omitempty"`
	Log *LogConfig `yaml:"log,omitempty"`
}

// APIConfig locates the course service.
type APIConfig struct {
	// Root is the API root every endpoint path is joined to.
	Root string `yaml:"root"`

	// Timeout bounds each HTTP exchange. Go duration syntax.
	Timeout string `yaml:"timeout"`
}

// SessionConfig controls where the session is persisted.
type SessionConfig struct {
	// File is the session file path.
	File string `yaml:"file"`

	// IdentityFile, when set, names an age identity file. The session
	// file is then sealed to that identity's recipient.
	IdentityFile string `yaml:"identity_file"`
}

// PushConfig drives the configuration-backed push platform used by the
// CLI.
type PushConfig struct {
	Enabled        bool   `yaml:"enabled"`
	PhysicalDevice bool   `yaml:"physical_device"`
	DeviceToken    string `yaml:"device_token"`

	// Permission is the simulated OS answer: granted, denied, or
	// prompt (ask, and grant when a device token is configured).
	Permission string `yaml:"permission"`

	// StepTimeout bounds every step of the registration state machine.
	StepTimeout string `yaml:"step_timeout"`
}

// CacheConfig locates the offline view snapshot cache.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig controls the command logger.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level"`

	// Format is auto, text, or json. Auto picks text on a terminal.
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Environment: Production,
		API: APIConfig{
			Root:    DefaultAPIRoot,
			Timeout: "30s",
		},
		Session: SessionConfig{
			File: DefaultSessionFile(),
		},
		Push: PushConfig{
			Enabled:     true,
			Permission:  "prompt",
			StepTimeout: "10s",
		},
		Cache: CacheConfig{
			Dir: filepath.Join(configHome(), "eduforge", "cache"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// DefaultSessionFile returns $EDUFORGE_SESSION_FILE, else
// $XDG_CONFIG_HOME/eduforge/session.json, else
// ~/.config/eduforge/session.json.
func DefaultSessionFile() string {
	if path := os.Getenv("EDUFORGE_SESSION_FILE"); path != "" {
		return path
	}
	return filepath.Join(configHome(), "eduforge", "session.json")
}

func configHome() string {
	if directory := os.Getenv("XDG_CONFIG_HOME"); directory != "" {
		return directory
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, ".config")
}

// Load reads the file named by path, falling back to EDUFORGE_CONFIG.
// With neither set it returns the defaults with environment variable
// overrides applied.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("EDUFORGE_CONFIG")
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}
	cfg.applyEnvironmentOverrides()
	cfg.applyVariableOverrides()
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// YAML is a superset of JSON, so the stripped document decodes
		// with the same struct tags.
		data = jsonc.ToJSON(data)
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.API != nil {
		if overrides.API.Root != "" {
			c.API.Root = overrides.API.Root
		}
		if overrides.API.Timeout != "" {
			c.API.Timeout = overrides.API.Timeout
		}
	}
	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
		if overrides.Log.Format != "" {
			c.Log.Format = overrides.Log.Format
		}
	}
}

func (c *Config) applyVariableOverrides() {
	if root := os.Getenv("EDUFORGE_API_ROOT"); root != "" {
		c.API.Root = root
	}
	if path := os.Getenv("EDUFORGE_SESSION_FILE"); path != "" {
		c.Session.File = path
	}
}

func (c *Config) expandVariables() {
	c.Session.File = expandVars(c.Session.File)
	c.Session.IdentityFile = expandVars(c.Session.IdentityFile)
	c.Cache.Dir = expandVars(c.Cache.Dir)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %q", c.Environment))
	}

	parsed, err := url.Parse(c.API.Root)
	switch {
	case c.API.Root == "":
		errs = append(errs, errors.New("api.root is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("api.root: %w", err))
	case parsed.Scheme != "http" && parsed.Scheme != "https":
		errs = append(errs, fmt.Errorf("api.root must be an http or https URL, got %q", c.API.Root))
	}

	if _, err := c.APITimeout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.PushStepTimeout(); err != nil {
		errs = append(errs, err)
	}

	if c.Session.File == "" {
		errs = append(errs, errors.New("session.file is required"))
	}

	switch c.Push.Permission {
	case "granted", "denied", "prompt":
	default:
		errs = append(errs, fmt.Errorf("push.permission must be granted, denied, or prompt, got %q", c.Push.Permission))
	}

	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be auto, text, or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// APITimeout parses api.timeout.
func (c *Config) APITimeout() (time.Duration, error) {
	return parsePositive("api.timeout", c.API.Timeout)
}

// PushStepTimeout parses push.step_timeout.
func (c *Config) PushStepTimeout() (time.Duration, error) {
	return parsePositive("push.step_timeout", c.Push.StepTimeout)
}

func parsePositive(field, value string) (time.Duration, error) {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", field, value)
	}
	return duration, nil
}
