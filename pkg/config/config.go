// Package config loads infraviz settings from TOML.
//
// Settings are looked up in this order, first match wins:
//
//  1. the file given with --config
//  2. infraviz.toml in the working directory
//  3. $XDG_CONFIG_HOME/infraviz/config.toml (~/.config/infraviz/config.toml)
//
// A missing file is not an error; built-in defaults apply. Command-line flags
// override whatever the file sets.
//
//	output_dir = "docs/generated"
//	parallel   = 8
//	formats    = ["png", "svg"]
//
//	[dpi]
//	print = 300
//	web   = 150
//
//	[cache]
//	backend = "redis"
//	ttl     = "72h"
//	[cache.redis]
//	addr   = "localhost:6379"
//	prefix = "infraviz:"
//
//	[roi]
//	hourly_rate = 90
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/agenticinfraops/infraviz/pkg/cache"
	"github.com/agenticinfraops/infraviz/pkg/catalog"
	"github.com/agenticinfraops/infraviz/pkg/errors"
	"github.com/agenticinfraops/infraviz/pkg/infographic"
	"github.com/agenticinfraops/infraviz/pkg/pipeline"
)

const (
	// AppName names the config and cache directories.
	AppName = "infraviz"

	// LocalFile is the project-level config file name.
	LocalFile = "infraviz.toml"

	// DefaultServeAddr is where the preview server listens.
	DefaultServeAddr = "localhost:8080"
)

// Config is the decoded configuration file.
type Config struct {
	OutputDir string   `toml:"output_dir"`
	Parallel  int      `toml:"parallel"`
	Formats   []string `toml:"formats"`
	DPI       DPI      `toml:"dpi"`
	Cache     Cache    `toml:"cache"`
	Serve     Serve    `toml:"serve"`

	ROI infographic.ROIInputs `toml:"roi"`
	WAF WAF                   `toml:"waf"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// DPI sets the resolution of each raster class.
type DPI struct {
	Print  float64 `toml:"print"`
	Web    float64 `toml:"web"`
	Screen float64 `toml:"screen"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
	Redis   Redis    `toml:"redis"`
}

// Redis configures the redis cache backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Serve configures the preview server.
type Serve struct {
	Addr string `toml:"addr"`
}

// WAF overrides the scorecard pillars.
type WAF struct {
	Pillars []infographic.Pillar `toml:"pillars"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	res := catalog.DefaultResolutions
	params := catalog.DefaultParams()
	return Config{
		OutputDir: pipeline.DefaultOutputDir,
		Parallel:  pipeline.DefaultParallel,
		DPI:       DPI{Print: res.Print, Web: res.Web, Screen: res.Screen},
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     Duration{cache.DefaultTTL},
			Redis:   Redis{Prefix: AppName + ":"},
		},
		Serve: Serve{Addr: DefaultServeAddr},
		ROI:   params.ROI,
		WAF:   WAF{Pillars: params.Pillars},
	}
}

// Load reads the config at path, or the first file found by Locate when
// path is empty. An explicit path that does not exist is an error.
func Load(path string) (Config, error) {
	if path == "" {
		found, ok := Locate()
		if !ok {
			return Default(), nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
// Unknown keys are rejected so typos do not pass silently.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Locate returns the first config file that exists.
func Locate() (string, bool) {
	candidates := []string{LocalFile}
	if dir, err := Dir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.toml"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Dir returns the config directory using XDG standard (~/.config/infraviz/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Validate rejects values no command can use.
func (c Config) Validate() error {
	if c.Parallel < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "parallel must not be negative, got %d", c.Parallel)
	}
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "formats")
	}
	for _, d := range []struct {
		name string
		dpi  float64
	}{{"print", c.DPI.Print}, {"web", c.DPI.Web}, {"screen", c.DPI.Screen}} {
		if err := errors.ValidateDPI(d.dpi); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "dpi.%s", d.name)
		}
	}
	backends := []string{cache.BackendFile, cache.BackendNone, cache.BackendRedis}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown cache backend %q (must be one of: file, none, redis)", c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis.addr is required for the redis backend")
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.Redis.Prefix == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis.prefix must not be empty")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if err := c.ROI.Validate(); err != nil {
		return err
	}
	return infographic.ValidatePillars(c.WAF.Pillars)
}

// Resolutions returns the DPI settings as catalog resolutions.
func (c Config) Resolutions() catalog.Resolutions {
	return catalog.Resolutions{Print: c.DPI.Print, Web: c.DPI.Web, Screen: c.DPI.Screen}
}

// Params returns the dataset overrides.
func (c Config) Params() catalog.Params {
	return catalog.Params{ROI: c.ROI, Pillars: c.WAF.Pillars}
}

// PipelineOptions converts the config into render options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		OutputDir:   c.OutputDir,
		Formats:     c.Formats,
		Parallel:    c.Parallel,
		Resolutions: c.Resolutions(),
		Params:      c.Params(),
		TTL:         c.Cache.TTL.Duration,
	}
}

// CacheConfig converts the cache section. defaultDir is used when no
// directory is configured.
func (c Config) CacheConfig(defaultDir string) cache.Config {
	dir := c.Cache.Dir
	if dir == "" {
		dir = defaultDir
	}
	return cache.Config{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   c.Cache.Redis.Prefix,
		},
	}
}
