// Package config loads the optional relic config file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/relicscan/relic/pkg/inventory"
	"github.com/relicscan/relic/pricing"
	"github.com/relicscan/relic/report"
)

// Config holds the file-backed settings. CLI flags override anything set
// here.
type Config struct {
	Regions  []string          `yaml:"regions,omitempty"`
	Services []string          `yaml:"services,omitempty"`
	Workers  int               `yaml:"workers,omitempty"`
	Format   string            `yaml:"format,omitempty"`
	Output   string            `yaml:"output,omitempty"`
	Profile  string            `yaml:"profile,omitempty"`
	NoCost   bool              `yaml:"no_cost,omitempty"`
	Pricing  pricing.Overrides `yaml:"pricing,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Services: []string{"ec2", "ebs", "s3", "eip", "snapshots"},
		Workers:  4,
		Format:   report.FormatText,
	}
}

// Load reads path and merges it over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate ensures the settings reference known services and formats.
func (c *Config) Validate() error {
	for _, svc := range c.Services {
		if _, ok := inventory.KindForService(svc); !ok {
			return fmt.Errorf("unknown service %q", svc)
		}
	}
	if c.Format != "" && !report.ValidFormat(c.Format) {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}

// Kinds resolves the configured service names to resource kinds.
func (c *Config) Kinds() []inventory.Kind {
	kinds := make([]inventory.Kind, 0, len(c.Services))
	for _, svc := range c.Services {
		if k, ok := inventory.KindForService(svc); ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
