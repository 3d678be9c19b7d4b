package app

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/passgraph/internal/report"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath string // hcl and yaml files
	Format    string // report format

	LogFormat string
	LogLevel  string
	ServePort int
	Simulate  bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if !slices.Contains(report.Formats, cfg.Format) {
		return nil, fmt.Errorf("invalid format %q: must be one of %v", cfg.Format, report.Formats)
	}
	if cfg.ServePort < 0 || cfg.ServePort > 65535 {
		return nil, fmt.Errorf("invalid serve port %d", cfg.ServePort)
	}
	return &cfg, nil
}
