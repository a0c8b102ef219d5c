// Package config loads the driver's configuration file (spec §6): paths,
// watch debounce, and formatter timing, layered with environment variable
// overrides. Grounded on emergent-company-specmcp/internal/config's
// defaults-then-file-then-env layering, using the same
// github.com/BurntSushi/toml decoder.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the full set of recognized keys from spec §6's configuration
// file table, plus the process environment variables layered on top.
type Config struct {
	Paths  PathsConfig  `toml:"paths"`
	Watch  WatchConfig  `toml:"watch"`
	Format FormatConfig `toml:"format"`
}

// PathsConfig names the markup source directory and the artifact/index/
// style/cache file locations.
type PathsConfig struct {
	HTMLDir   string `toml:"html_dir"`
	IndexFile string `toml:"index_file"`
	CSSFile   string `toml:"css_file"`
	StyleDir  string `toml:"style_dir"`
	CacheDir  string `toml:"cache_dir"`
}

// WatchConfig controls the filesystem-watch debounce window.
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// FormatConfig controls the delayed/interval pretty-printer.
type FormatConfig struct {
	DelayMS    int  `toml:"delay_ms"`
	IntervalMS int  `toml:"interval_ms"`
	ForceWrite bool `toml:"force_write"`
	DebounceMS int  `toml:"debounce_ms"`
}

// Default returns the documented defaults for every key (spec §6:
// "Missing values take documented defaults").
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			HTMLDir:   ".",
			IndexFile: ".dx/index.json",
			CSSFile:   "dist/dx.css",
			StyleDir:  ".dx/style",
			CacheDir:  ".dx/cache",
		},
		Watch: WatchConfig{
			DebounceMS: 250,
		},
		Format: FormatConfig{
			DelayMS:    10000,
			IntervalMS: 10000,
			ForceWrite: false,
			DebounceMS: 1000,
		},
	}
}

// Load builds a Config starting from Default(), layering in
// configPath (if non-empty and present) and then the process
// environment, which always wins.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if _, err := toml.DecodeFile(configPath, cfg); err != nil {
				return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays the environment variables from spec §6 on top of the
// file/default values. Only DX_CACHE_DIR is applied here, since it also
// appears in the config file's paths table; the other variables, the
// mmap threshold among them, are read by LoadEnv into Env.
func (c *Config) applyEnv() {
	if v := os.Getenv("DX_CACHE_DIR"); v != "" {
		c.Paths.CacheDir = v
	}
}

// Env collects the remaining environment-only knobs from spec §6 that
// have no config-file equivalent.
type Env struct {
	StyleBin         string
	MmapThreshold    int64
	ForceFormat      bool
	SilentFormat     bool
	DumpStateOnStart bool
	ValidatorLog     string
}

// LoadEnv reads DX_STYLE_BIN, DX_MMAP_THRESHOLD, DX_FORCE_FORMAT,
// DX_SILENT_FORMAT, DX_DUMP_STATE_ON_START, and DX_VALIDATOR_LOG.
func LoadEnv() Env {
	var e Env
	e.StyleBin = os.Getenv("DX_STYLE_BIN")
	if v := os.Getenv("DX_MMAP_THRESHOLD"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			e.MmapThreshold = n
		}
	}
	e.ForceFormat = isTruthy(os.Getenv("DX_FORCE_FORMAT"))
	e.SilentFormat = isTruthy(os.Getenv("DX_SILENT_FORMAT"))
	e.DumpStateOnStart = isTruthy(os.Getenv("DX_DUMP_STATE_ON_START"))
	e.ValidatorLog = os.Getenv("DX_VALIDATOR_LOG")
	return e
}

func isTruthy(v string) bool {
	return v == "1" || v == "true" || v == "yes"
}
