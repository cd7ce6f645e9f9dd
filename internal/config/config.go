// Package config loads and stores moviecat configuration in the XDG config dir.
// Only non-secret settings are kept in the file; credentials go to the
// credential store, and the keyring file password is read from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"moviecat/cli/internal/dsn"
	"moviecat/cli/internal/xdg"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	API   API    `yaml:"api"`
	Store string `yaml:"store" env:"MOVIECAT_STORE" env-default:"keyring"`
	Log   Log    `yaml:"log"`

	// KeyringPassword unlocks the encrypted-file keyring on hosts without a
	// native credential store. Never written to disk.
	KeyringPassword string `yaml:"-" env:"MOVIECAT_KEYRING_PASSWORD"`
}

// API describes where the movie catalog backend lives.
type API struct {
	BaseURL   string        `yaml:"base_url" env:"MOVIECAT_API_URL" env-default:"http://localhost:5000"`
	Timeout   time.Duration `yaml:"timeout" env:"MOVIECAT_API_TIMEOUT" env-default:"10s"`
	Endpoints Endpoints     `yaml:"endpoints"`
}

// Endpoints contains REST API endpoint paths relative to API.BaseURL.
type Endpoints struct {
	Login      string `yaml:"login" env-default:"/api/auth/login"`
	Register   string `yaml:"register" env-default:"/api/auth/register"`
	Profile    string `yaml:"profile" env-default:"/api/auth/profile"`
	Categories string `yaml:"categories" env-default:"/api/categories"`
	Movies     string `yaml:"movies" env-default:"/api/movies"`
	Search     string `yaml:"search" env-default:"/api/search"`
	History    string `yaml:"history" env-default:"/api/history"`
}

// Log holds logger settings.
type Log struct {
	Level string `yaml:"level" env:"MOVIECAT_LOG_LEVEL" env-default:"warn"`
	JSON  bool   `yaml:"json" env:"MOVIECAT_LOG_JSON"`
}

// DefaultPath returns the path to the config file.
func DefaultPath() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads configuration from path (the default path when empty) and then
// the environment. A missing file yields defaults plus environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := &Config{}
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read config from environment: %w", err)
	}

	normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.Store = strings.TrimSpace(cfg.Store)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
}

// Validate rejects configurations the client cannot run with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: use http(s)://host[:port]", cfg.API.BaseURL)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("invalid api.timeout %s: must be positive", cfg.API.Timeout)
	}
	if _, err := dsn.Parse(cfg.Store); err != nil {
		return fmt.Errorf("invalid store: %w", err)
	}
	return nil
}

// fileConfig mirrors Config with the timeout rendered as a duration string.
type fileConfig struct {
	API struct {
		BaseURL   string    `yaml:"base_url"`
		Timeout   string    `yaml:"timeout"`
		Endpoints Endpoints `yaml:"endpoints"`
	} `yaml:"api"`
	Store string `yaml:"store"`
	Log   Log    `yaml:"log"`
}

// Save writes configuration to path (the default path when empty) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	var fc fileConfig
	fc.API.BaseURL = cfg.API.BaseURL
	fc.API.Timeout = cfg.API.Timeout.String()
	fc.API.Endpoints = cfg.API.Endpoints
	fc.Store = cfg.Store
	fc.Log = cfg.Log

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
