package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// Environment variables read as fallbacks for the CLI flags.
const (
	EnvInputPath  = "GOABUND_INPUT_PATH"
	EnvOutputPath = "GOABUND_OUTPUT_PATH"
	EnvConfig     = "GOABUND_CONFIG"
	EnvLogLevel   = "GOABUND_LOG_LEVEL"
)

type Config struct {
	LogLevel string       `yaml:"log_level"`
	Filter   Filter       `yaml:"filter"`
	Chart    ChartStyle   `yaml:"chart"`
	Charts   []ChartGroup `yaml:"charts"`
}

type Filter struct {
	QValueMax float64 `yaml:"q_value_max"`
}

type ChartStyle struct {
	WidthIn  float64 `yaml:"width_in"`
	HeightIn float64 `yaml:"height_in"`
}

// ChartGroup is one curated set of GO term descriptions drawn as a single chart.
type ChartGroup struct {
	Name         string   `yaml:"name"`
	Domain       string   `yaml:"domain"`
	ColorScheme  string   `yaml:"color_scheme"`
	Descriptions []string `yaml:"descriptions"`
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	return parse(nil)
}

// Load reads a config YAML file over the embedded defaults. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse applies data on top of the embedded defaults and validates the result.
// A charts list in data replaces the default list.
func parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(DefaultConfigYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing default config: %w", err)
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks thresholds, sizes and chart groups. Color scheme names are
// checked by the renderer.
func (c *Config) Validate() error {
	var errs []error

	if c.Filter.QValueMax <= 0 || c.Filter.QValueMax > 1 {
		errs = append(errs, fmt.Errorf("filter.q_value_max must be in (0, 1], got %g", c.Filter.QValueMax))
	}
	if c.Chart.WidthIn <= 0 || c.Chart.HeightIn <= 0 {
		errs = append(errs, fmt.Errorf("chart size must be positive, got %gx%g", c.Chart.WidthIn, c.Chart.HeightIn))
	}

	names := make(map[string]bool, len(c.Charts))
	for i, g := range c.Charts {
		name := strings.TrimSpace(g.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("charts[%d]: name is required", i))
		case names[name]:
			errs = append(errs, fmt.Errorf("charts[%d]: duplicate chart name %q", i, name))
		}
		names[name] = true

		switch g.Domain {
		case "C", "P", "F":
		default:
			errs = append(errs, fmt.Errorf("charts[%d] %s: domain must be one of C, P, F, got %q", i, name, g.Domain))
		}
		if g.ColorScheme == "" {
			errs = append(errs, fmt.Errorf("charts[%d] %s: color_scheme is required", i, name))
		}
		if len(g.Descriptions) == 0 {
			errs = append(errs, fmt.Errorf("charts[%d] %s: descriptions must not be empty", i, name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Resolve returns the flag value if set, otherwise the environment variable.
func Resolve(flagValue, envKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envKey)
}
