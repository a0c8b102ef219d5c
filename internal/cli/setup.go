package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/daaku/dxcss/internal/config"
	"github.com/daaku/dxcss/internal/driver"
	"github.com/daaku/dxcss/internal/output"
	"github.com/daaku/dxcss/internal/rules"
)

// loadDictionary opens the binary dictionary named by DX_STYLE_BIN, or,
// when that variable is unset, falls back to an empty MapDictionary so
// the commands can run without one.
func loadDictionary(env config.Env) (rules.Dictionary, func(), error) {
	if env.StyleBin == "" {
		return rules.NewMapDictionary(), func() {}, nil
	}
	bd, err := rules.OpenBinaryDictionary(env.StyleBin)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", driver.ErrConfigMissing, err)
	}
	return bd, func() { bd.Close() }, nil
}

// buildState assembles everything Rebuild needs: config, dictionary,
// CSS output, and AppState, from the process environment and an
// optional --config path.
func buildState(configPath string) (*driver.AppState, *config.Config, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	env := config.LoadEnv()

	dict, closeDict, err := loadDictionary(env)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Paths.CSSFile), 0o755); err != nil {
		closeDict()
		return nil, nil, nil, fmt.Errorf("%w: %v", driver.ErrConfigMissing, err)
	}
	if err := os.MkdirAll(cfg.Paths.CacheDir, 0o755); err != nil {
		closeDict()
		return nil, nil, nil, fmt.Errorf("%w: %v", driver.ErrConfigMissing, err)
	}

	cssOut, err := output.Open(cfg.Paths.CSSFile, env.MmapThreshold)
	if err != nil {
		closeDict()
		return nil, nil, nil, err
	}

	cachePath := filepath.Join(cfg.Paths.CacheDir, "state.json")
	state := driver.NewAppState(cssOut, dict, cachePath, rules.KnownPrefixesFrom(dict))

	cleanup := func() {
		cssOut.Close()
		closeDict()
	}
	return state, cfg, cleanup, nil
}
