// Package config loads resqwatch settings from an optional YAML file with a
// single environment override for the service address.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// EnvAPIURL overrides api_url when set.
const EnvAPIURL = "RESQ_API_URL"

// Defaults.
const (
	DefaultAPIURL         = "http://127.0.0.1:8000"
	DefaultPollInterval   = 10 * time.Second
	DefaultRequestTimeout = 15 * time.Second
	DefaultSearchInterval = time.Second
	DefaultMaxAlerts      = 250
)

// Config is the application configuration.
type Config struct {
	APIURL         string `yaml:"api_url"`
	PollInterval   string `yaml:"poll_interval"`
	RequestTimeout string `yaml:"request_timeout"`
	SearchInterval string `yaml:"search_interval"` // minimum spacing between searches
	MaxAlerts      int    `yaml:"max_alerts"`
	EventLog       string `yaml:"event_log,omitempty"` // JSONL event log path; empty = default
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		PollInterval:   DefaultPollInterval.String(),
		RequestTimeout: DefaultRequestTimeout.String(),
		SearchInterval: DefaultSearchInterval.String(),
		MaxAlerts:      DefaultMaxAlerts,
	}
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "resqwatch", "config.yaml")
}

// DefaultEventLogPath returns where the JSONL event log goes by default.
func DefaultEventLogPath() string {
	return filepath.Join(xdg.StateHome, "resqwatch", "events.jsonl")
}

// Load reads the config at path (DefaultPath when empty). A missing file is
// not an error: defaults are used. Unset fields fall back to defaults, then
// RESQ_API_URL is applied and the result validated.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// defaults
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg.fillDefaults()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults restores defaults for fields a partial file left empty.
func (c *Config) fillDefaults() {
	d := Default()
	if strings.TrimSpace(c.APIURL) == "" {
		c.APIURL = d.APIURL
	}
	if c.PollInterval == "" {
		c.PollInterval = d.PollInterval
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.SearchInterval == "" {
		c.SearchInterval = d.SearchInterval
	}
	if c.MaxAlerts == 0 {
		c.MaxAlerts = d.MaxAlerts
	}
}

// ApplyEnv applies the environment override.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid api_url %q (must be an http(s) URL)", c.APIURL))
	}

	if d, err := time.ParseDuration(c.PollInterval); err != nil || d < time.Second {
		errs = append(errs, fmt.Errorf("invalid poll_interval %q (must be a duration >= 1s)", c.PollInterval))
	}
	if d, err := time.ParseDuration(c.RequestTimeout); err != nil || d <= 0 {
		errs = append(errs, fmt.Errorf("invalid request_timeout %q (must be a positive duration)", c.RequestTimeout))
	}
	if d, err := time.ParseDuration(c.SearchInterval); err != nil || d < 0 {
		errs = append(errs, fmt.Errorf("invalid search_interval %q (must be a duration >= 0)", c.SearchInterval))
	}

	if c.MaxAlerts < 1 || c.MaxAlerts > 10000 {
		errs = append(errs, fmt.Errorf("invalid max_alerts %d (must be 1..10000)", c.MaxAlerts))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// PollDuration returns the poll period. Assumes Validate passed.
func (c *Config) PollDuration() time.Duration {
	return mustDuration(c.PollInterval, DefaultPollInterval)
}

// RequestTimeoutDuration returns the per-request timeout.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return mustDuration(c.RequestTimeout, DefaultRequestTimeout)
}

// SearchIntervalDuration returns the minimum spacing between searches.
func (c *Config) SearchIntervalDuration() time.Duration {
	return mustDuration(c.SearchInterval, DefaultSearchInterval)
}

// EventLogPath resolves the event log location.
func (c *Config) EventLogPath() string {
	if c.EventLog != "" {
		return c.EventLog
	}
	return DefaultEventLogPath()
}

func mustDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
