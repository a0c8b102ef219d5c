package cli

import (
	"github.com/spf13/cobra"

	"github.com/daaku/dxcss/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run a single full-rewrite compile and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, cfg, cleanup, err := buildState(configFlag)
		if err != nil {
			return err
		}
		defer cleanup()

		markupPath, err := firstMarkupFile(cfg.Paths.HTMLDir)
		if err != nil {
			return err
		}
		_, err = driver.Rebuild(state, markupPath, true)
		return err
	},
}
