// Package config holds statboard settings. Values come from defaults, then an
// optional YAML file, then STATBOARD_* environment variables; command-line
// flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/glockmonth/2100-Hours/internal/loader"
	"github.com/glockmonth/2100-Hours/internal/pagegen"
)

// Config is the full set of statboard settings.
type Config struct {
	// CSV is a path, http(s) URL or s3://bucket/key of the member export.
	CSV       string `yaml:"csv" env:"STATBOARD_CSV"`
	OutputDir string `yaml:"output_dir" env:"STATBOARD_OUTPUT_DIR"`
	StaticDir string `yaml:"static_dir" env:"STATBOARD_STATIC_DIR"`
	// LogoPath, when set, seeds the page accent colours.
	LogoPath string `yaml:"logo" env:"STATBOARD_LOGO"`
	Title    string `yaml:"title" env:"STATBOARD_TITLE"`

	Addr string `yaml:"addr" env:"STATBOARD_ADDR"`

	Bucket     string `yaml:"bucket" env:"STATBOARD_BUCKET"`
	Region     string `yaml:"region" env:"STATBOARD_REGION"`
	CloudFront bool   `yaml:"cloudfront" env:"STATBOARD_CLOUDFRONT"`

	FetchTimeout  time.Duration `yaml:"fetch_timeout" env:"STATBOARD_FETCH_TIMEOUT"`
	WatchDebounce time.Duration `yaml:"watch_debounce" env:"STATBOARD_WATCH_DEBOUNCE"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		CSV:           loader.DefaultLocator,
		OutputDir:     "public",
		StaticDir:     "static",
		Title:         pagegen.DefaultTitle,
		Addr:          ":8000",
		FetchTimeout:  10 * time.Second,
		WatchDebounce: 250 * time.Millisecond,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty or the file does not exist) and the environment.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.CSV == "" {
		return errors.New("csv locator is required")
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must not be negative, got %s", c.FetchTimeout)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative, got %s", c.WatchDebounce)
	}
	return nil
}

// Save writes c as YAML to path.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
