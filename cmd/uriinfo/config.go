package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/urikit/internal/errorutil"
	"github.com/ghettovoice/urikit/query"
	"github.com/ghettovoice/urikit/uri"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Log modes.
const (
	LogModeDef  = "def"
	LogModeDev  = "dev"
	LogModeNone = "none"
)

// Config is the uriinfo configuration file.
type Config struct {
	Format   string             `yaml:"format"`
	Label    string             `yaml:"label,omitempty"`
	Policy   uri.ParsePolicy    `yaml:"policy"`
	Defaults uri.Defaults       `yaml:"defaults,omitempty"`
	Query    query.ParseOptions `yaml:"query,omitempty"`
	Log      LogConfig          `yaml:"log"`
}

// LogConfig configures diagnostics written to stderr.
type LogConfig struct {
	Mode  string     `yaml:"mode"`
	Level slog.Level `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Format: FormatText,
		Policy: uri.FallbackToCurrent,
		Log: LogConfig{
			Mode:  LogModeDef,
			Level: slog.LevelWarn,
		},
	}
}

// LoadConfig reads a YAML configuration from path over the defaults.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	defer f.Close()

	cfg, err := decodeConfig(f)
	if err != nil {
		return nil, errtrace.Wrap(errorutil.JoinPrefix(path, err))
	}
	return cfg, nil
}

func decodeConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errtrace.Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	var errs []error
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		errs = append(errs, errorutil.NewInvalidArgumentError("unknown format %q", c.Format))
	}
	switch c.Log.Mode {
	case LogModeDef, LogModeDev, LogModeNone:
	default:
		errs = append(errs, errorutil.NewInvalidArgumentError("unknown log mode %q", c.Log.Mode))
	}
	if c.Query.MaxDepth < 0 {
		errs = append(errs, errorutil.NewInvalidArgumentError("negative query max depth %d", c.Query.MaxDepth))
	}
	return errtrace.Wrap(errorutil.JoinPrefix("invalid config:", errs...))
}

// RecordOptions returns options for records built from the configuration.
func (c *Config) RecordOptions(logger *slog.Logger) []uri.Option {
	opts := []uri.Option{
		uri.WithPolicy(c.Policy),
		uri.WithDefaults(c.Defaults),
		uri.WithLogger(logger),
	}
	if c.Label != "" {
		opts = append(opts, uri.WithLabel(c.Label))
	}
	if c.Query != (query.ParseOptions{}) {
		qopts := c.Query
		opts = append(opts, uri.WithQueryOptions(&qopts))
	}
	return opts
}
