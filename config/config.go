// Package config loads imgset settings from a YAML file and the
// environment.
package config

import (
	"bytes"
	"io"
	"os"
	"sort"

	"github.com/caarlos0/env/v11"
	"github.com/heathj/imgset/srcset"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ContentImageSizes map[string]srcset.Size  `yaml:"content_image_sizes"`
	OmitEmptySrcset   bool                    `yaml:"omit_empty_srcset"`
	Fragment          bool                    `yaml:"fragment"`
	Concurrency       int                     `yaml:"concurrency"`
	LogLevel          string                  `yaml:"log_level"`
	Images            map[string]srcset.Image `yaml:"images"`
}

// envConfig holds the raw environment overrides. Unset variables leave the
// pointers nil so file values survive.
type envConfig struct {
	ConfigPath      string  `env:"IMGSET_CONFIG"`
	LogLevel        *string `env:"IMGSET_LOG_LEVEL"`
	OmitEmptySrcset *bool   `env:"IMGSET_OMIT_EMPTY_SRCSET"`
	Fragment        *bool   `env:"IMGSET_FRAGMENT"`
	Concurrency     *int    `env:"IMGSET_CONCURRENCY"`
}

// DefaultSizes are Ghost's stock content image sizes.
func DefaultSizes() map[string]srcset.Size {
	return map[string]srcset.Size{
		"s":  {Width: 600},
		"m":  {Width: 1000},
		"l":  {Width: 1600},
		"xl": {Width: 2400},
	}
}

func Default() Config {
	return Config{
		ContentImageSizes: DefaultSizes(),
		Concurrency:       4,
		LogLevel:          "info",
	}
}

// Load reads a YAML config file on top of the defaults. Unknown keys are
// rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// Parse decodes YAML config data on top of the defaults. A document that
// lists content_image_sizes replaces the default sizes entirely.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	cfg.ContentImageSizes = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "strict config parse error")
	}
	if cfg.ContentImageSizes == nil {
		cfg.ContentImageSizes = DefaultSizes()
	}
	return cfg, nil
}

// Resolve builds the effective configuration: defaults, then the file at
// path (or $IMGSET_CONFIG when path is empty), then environment overrides.
// A nil environ reads the process environment.
func Resolve(path string, environ map[string]string) (Config, error) {
	var raw envConfig
	var err error
	if environ == nil {
		err = env.Parse(&raw)
	} else {
		err = env.ParseWithOptions(&raw, env.Options{Environment: environ})
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}

	if path == "" {
		path = raw.ConfigPath
	}
	cfg := Default()
	if path != "" {
		if cfg, err = Load(path); err != nil {
			return Config{}, err
		}
	}

	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.OmitEmptySrcset != nil {
		cfg.OmitEmptySrcset = *raw.OmitEmptySrcset
	}
	if raw.Fragment != nil {
		cfg.Fragment = *raw.Fragment
	}
	if raw.Concurrency != nil {
		cfg.Concurrency = *raw.Concurrency
	}

	return cfg, Validate(cfg)
}

// Validate checks values the rest of the program relies on.
func Validate(cfg Config) error {
	if len(cfg.ContentImageSizes) == 0 {
		return errors.Wrap(ErrInvalidConfig, "content_image_sizes is empty")
	}
	for _, name := range sortedKeys(cfg.ContentImageSizes) {
		s := cfg.ContentImageSizes[name]
		if s.Width <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "content_image_sizes.%s: width must be positive, got %d", name, s.Width)
		}
		if s.Height < 0 {
			return errors.Wrapf(ErrInvalidConfig, "content_image_sizes.%s: height must not be negative, got %d", name, s.Height)
		}
	}
	for _, src := range sortedKeys(cfg.Images) {
		img := cfg.Images[src]
		if img.Width <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "images[%q]: width must be positive, got %d", src, img.Width)
		}
		if img.Height < 0 {
			return errors.Wrapf(ErrInvalidConfig, "images[%q]: height must not be negative, got %d", src, img.Height)
		}
	}
	if cfg.Concurrency < 1 {
		return errors.Wrapf(ErrInvalidConfig, "concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log_level: %v", err)
	}
	return nil
}

func (c Config) SrcsetOptions() srcset.Options {
	return srcset.Options{
		ContentImageSizes: c.ContentImageSizes,
		OmitEmpty:         c.OmitEmptySrcset,
	}
}

// Level is the parsed log level; invalid levels fall back to info.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
