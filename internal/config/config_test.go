package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesDocumentedValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".", cfg.Paths.HTMLDir)
	assert.Equal(t, "dist/dx.css", cfg.Paths.CSSFile)
	assert.Equal(t, 250, cfg.Watch.DebounceMS)
	assert.Equal(t, 10000, cfg.Format.DelayMS)
	assert.Equal(t, 10000, cfg.Format.IntervalMS)
	assert.Equal(t, 1000, cfg.Format.DebounceMS)
	assert.False(t, cfg.Format.ForceWrite)
}

func TestLoadWithMissingConfigPathFallsBackToDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Paths, cfg.Paths)
}

func TestLoadReadsConfigFileOverridingDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[paths]
html_dir = "views"
css_file = "public/out.css"

[watch]
debounce_ms = 500
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "views", cfg.Paths.HTMLDir)
	assert.Equal(t, "public/out.css", cfg.Paths.CSSFile)
	assert.Equal(t, 500, cfg.Watch.DebounceMS)
	// Unset keys still fall back to defaults.
	assert.Equal(t, 10000, cfg.Format.DelayMS)
}

func TestLoadNonexistentConfigFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Paths, cfg.Paths)
}

func TestEnvOverridesCacheDir(t *testing.T) {
	t.Setenv("DX_CACHE_DIR", "/tmp/custom-cache")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-cache", cfg.Paths.CacheDir)
}

func TestLoadEnvParsesKnobs(t *testing.T) {
	t.Setenv("DX_STYLE_BIN", "/opt/dx/style.bin")
	t.Setenv("DX_MMAP_THRESHOLD", "4096")
	t.Setenv("DX_FORCE_FORMAT", "true")
	t.Setenv("DX_SILENT_FORMAT", "0")

	env := LoadEnv()
	assert.Equal(t, "/opt/dx/style.bin", env.StyleBin)
	assert.Equal(t, int64(4096), env.MmapThreshold)
	assert.True(t, env.ForceFormat)
	assert.False(t, env.SilentFormat)
}

func TestIsTruthy(t *testing.T) {
	assert.True(t, isTruthy("1"))
	assert.True(t, isTruthy("true"))
	assert.True(t, isTruthy("yes"))
	assert.False(t, isTruthy("0"))
	assert.False(t, isTruthy(""))
	assert.False(t, isTruthy("no"))
}
