// Package config loads upgrader settings from a TOML file and the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	upgerr "github.com/matzehuels/upgrader/pkg/errors"
	"github.com/matzehuels/upgrader/pkg/integrations/npm"
)

// Config is the full upgrader configuration.
type Config struct {
	Registry Registry `toml:"registry"`
	Check    Check    `toml:"check"`
	Server   Server   `toml:"server"`

	// Overrides names the environment variables applied by [Load].
	Overrides []string `toml:"-"`
}

// Registry controls how package documents are fetched.
type Registry struct {
	URL       string        `toml:"url"`
	Timeout   time.Duration `toml:"timeout"`
	Retries   int           `toml:"retries"`    // total attempts per fetch
	RateLimit float64       `toml:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int           `toml:"burst"`
}

// Check controls batch manifest checks.
type Check struct {
	Concurrency int `toml:"concurrency"`
}

// Server controls the HTTP API.
type Server struct {
	Addr       string        `toml:"addr"`
	SessionTTL time.Duration `toml:"session_ttl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Registry: Registry{
			URL:     npm.DefaultRegistry,
			Timeout: 10 * time.Second,
			Retries: 1,
			Burst:   1,
		},
		Check:  Check{Concurrency: 8},
		Server: Server{Addr: ":8080", SessionTTL: time.Hour},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/upgrader/config.toml, falling back to
// the OS user config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "upgrader", "config.toml")
}

// Load reads the config at path (or [DefaultPath] when path is empty),
// applies UPGRADER_* environment overrides, and validates the result.
// A missing file at the default location is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || explicit {
				return nil, err
			}
		}
	}

	cfg.Overrides = ApplyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return upgerr.Wrap(upgerr.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return upgerr.Wrap(upgerr.ErrCodeInvalidConfig, err, "reading %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return upgerr.Wrap(upgerr.ErrCodeInvalidConfig, err, "parsing %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return upgerr.New(upgerr.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
	}
	return nil
}

// applyDefaults fills zero values that a partial file or env may leave behind.
func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.Registry.URL == "" {
		cfg.Registry.URL = d.Registry.URL
	}
	if cfg.Registry.Timeout == 0 {
		cfg.Registry.Timeout = d.Registry.Timeout
	}
	if cfg.Registry.Retries == 0 {
		cfg.Registry.Retries = d.Registry.Retries
	}
	if cfg.Registry.Burst == 0 {
		cfg.Registry.Burst = d.Registry.Burst
	}
	if cfg.Check.Concurrency == 0 {
		cfg.Check.Concurrency = d.Check.Concurrency
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = d.Server.Addr
	}
	if cfg.Server.SessionTTL == 0 {
		cfg.Server.SessionTTL = d.Server.SessionTTL
	}
}

// Validate reports the first invalid setting in cfg.
func Validate(cfg *Config) error {
	if err := upgerr.ValidateURL(cfg.Registry.URL); err != nil {
		return upgerr.Wrap(upgerr.ErrCodeInvalidConfig, err, "registry.url")
	}
	switch {
	case cfg.Registry.Timeout < 0:
		return upgerr.New(upgerr.ErrCodeInvalidConfig, "registry.timeout must not be negative")
	case cfg.Registry.Retries < 1:
		return upgerr.New(upgerr.ErrCodeInvalidConfig, "registry.retries must be at least 1")
	case cfg.Registry.RateLimit < 0:
		return upgerr.New(upgerr.ErrCodeInvalidConfig, "registry.rate_limit must not be negative")
	case cfg.Registry.Burst < 1:
		return upgerr.New(upgerr.ErrCodeInvalidConfig, "registry.burst must be at least 1")
	case cfg.Check.Concurrency < 1:
		return upgerr.New(upgerr.ErrCodeInvalidConfig, "check.concurrency must be at least 1")
	case cfg.Server.SessionTTL < 0:
		return upgerr.New(upgerr.ErrCodeInvalidConfig, "server.session_ttl must not be negative")
	}
	return nil
}
