// Package config holds the allocation policy parameters and per-region
// reservoir state. The core treats it as read-only; administrative changes
// arrive by editing the YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/alerts"
)

// RegionConfig is the reservoir state of one region.
type RegionConfig struct {
	ReservoirLevel float64 `yaml:"reservoir_level"`
	TotalSupply    float64 `yaml:"total_supply"`
}

// Config holds all configurable allocation parameters.
type Config struct {
	PerCapitaDomestic     float64 `yaml:"per_capita_domestic"`
	AgriculturalBenchmark float64 `yaml:"agricultural_benchmark"`
	IndustrialBenchmark   float64 `yaml:"industrial_benchmark"`
	ReservoirSafeLevel    float64 `yaml:"reservoir_safe_level"`
	// DroughtThreshold drives alerting only; the engine never reads it.
	DroughtThreshold float64 `yaml:"drought_threshold"`

	Regions map[int]RegionConfig `yaml:"regions"`

	Webhooks []alerts.WebhookConfig `yaml:"webhooks"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PerCapitaDomestic:     1500,
		AgriculturalBenchmark: 10000,
		IndustrialBenchmark:   5000,
		ReservoirSafeLevel:    80,
		DroughtThreshold:      50,
		Regions: map[int]RegionConfig{
			1: {ReservoirLevel: 90, TotalSupply: 1000000},
			2: {ReservoirLevel: 40, TotalSupply: 500000},
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "aquaguard", "config.yaml")
	}
	return filepath.Join(home, ".aquaguard", "config.yaml")
}

// Load loads configuration from a YAML file. Empty path falls back to
// DefaultPath. A missing file returns defaults; invalid YAML is an error.
// YAML overwrites only the fields it specifies.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Region returns the reservoir state for a region. Unconfigured regions
// default to a full reservoir over zero supply, so their available capacity
// is always zero.
func (c *Config) Region(id int) RegionConfig {
	if r, ok := c.Regions[id]; ok {
		return r
	}
	return RegionConfig{ReservoirLevel: 100, TotalSupply: 0}
}

// DefaultYAML returns a commented YAML string for the init command.
func DefaultYAML() string {
	return `# aquaguard allocation policy configuration
# Generated by: aquaguard init
#
# Decision order (cannot be changed):
#   1. Sector validity -> error
#   2. Duplicate (region, cycle, sector) -> error
#   3. Benchmark clamp (halved in drought mode)
#   4. Reservoir safety gate (domestic exempt)
#   5. Drought gate (domestic exempt)
#   6. Capacity clamp against remaining supply
#   7. Zero-volume gate -> rejected

# Benchmark ceilings in liters per cycle.
# domestic benchmark = population * per_capita_domestic
per_capita_domestic: 1500
agricultural_benchmark: 10000
industrial_benchmark: 5000

# Reservoir fill thresholds in percent.
# Below reservoir_safe_level, non-domestic requests are rejected.
# Below drought_threshold, the alerting layer raises CRITICAL.
reservoir_safe_level: 80
drought_threshold: 50

# Per-region reservoir state. Unlisted regions default to
# reservoir_level 100 / total_supply 0.
regions:
  1:
    reservoir_level: 90
    total_supply: 1000000
  2:
    reservoir_level: 40
    total_supply: 500000

# Webhook alert destinations (optional).
# Fields:
#   url: webhook endpoint
#   format: generic | slack | pagerduty
#   events: severities to forward ["critical", "warning", "info"]
#   headers: extra HTTP headers
webhooks: []
`
}
