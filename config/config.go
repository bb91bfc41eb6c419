// Package config loads the optional YAML settings file used by the command
// line tool and merges it with command line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/achilleasa/strokedensity/hull"
	"github.com/achilleasa/strokedensity/intersect"
	"github.com/achilleasa/strokedensity/pipeline"
	"github.com/achilleasa/strokedensity/sampler"
	"gopkg.in/yaml.v3"
)

// Config holds the pipeline settings.
type Config struct {
	// Input channel order (rgb or bgr).
	ChannelOrder string `yaml:"channel_order"`

	// Crossing resolution policy (last or nearest).
	Policy string `yaml:"policy"`

	// Number of intersection workers; 0 uses all CPUs.
	Workers int `yaml:"workers"`

	// Directory for intersection cache archives. Relative cache paths are
	// resolved against it.
	CacheDir string `yaml:"cache_dir"`

	// Mark pixels that coincide with the hull centroid as invalid instead
	// of failing.
	SkipDegenerateRays bool `yaml:"skip_degenerate_rays"`

	// Relative spread below which the color cloud is treated as planar.
	PlanarTolerance float64 `yaml:"planar_tolerance"`

	// Logger verbosity.
	LogLevel string `yaml:"log_level"`
}

// Flags holds the command line overrides. Zero values leave the
// corresponding config setting untouched.
type Flags struct {
	ChannelOrder       string
	Policy             string
	Workers            int
	CacheDir           string
	SkipDegenerateRays bool
	LogLevel           string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ChannelOrder:    sampler.RGB.String(),
		Policy:          intersect.LastWins.String(),
		PlanarTolerance: hull.DefaultOptions().PlanarTolerance,
		LogLevel:        "notice",
	}
}

// Load reads a YAML config file. Fields not set in the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// A relative cache dir is relative to the config file
	if cfg.CacheDir != "" && !filepath.IsAbs(cfg.CacheDir) {
		cfg.CacheDir = filepath.Join(filepath.Dir(path), cfg.CacheDir)
	}
	return cfg, nil
}

// Resolve applies the command line overrides. CLI flags take priority when
// non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.ChannelOrder != "" {
		c.ChannelOrder = flags.ChannelOrder
	}
	if flags.Policy != "" {
		c.Policy = flags.Policy
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.CacheDir != "" {
		c.CacheDir = flags.CacheDir
	}
	if flags.SkipDegenerateRays {
		c.SkipDegenerateRays = true
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// Options converts the settings into pipeline options. The cache store is
// left for the caller to attach.
func (c *Config) Options() (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()

	order, err := sampler.ParseChannelOrder(c.ChannelOrder)
	if err != nil {
		return opts, err
	}
	policy, err := intersect.ParsePolicy(c.Policy)
	if err != nil {
		return opts, err
	}
	if c.Workers < 0 {
		return opts, fmt.Errorf("config: workers must not be negative; got %d", c.Workers)
	}
	if c.PlanarTolerance < 0 {
		return opts, fmt.Errorf("config: planar tolerance must not be negative; got %g", c.PlanarTolerance)
	}

	opts.ChannelOrder = order
	opts.Policy = policy
	opts.Workers = c.Workers
	opts.SkipDegenerateRays = c.SkipDegenerateRays
	if c.PlanarTolerance > 0 {
		opts.Hull.PlanarTolerance = c.PlanarTolerance
	}
	return opts, nil
}
