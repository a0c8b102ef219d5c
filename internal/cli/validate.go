package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daaku/dxcss/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Tokenize the current CSS artifact once and exit nonzero on failure",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, _, cleanup, err := buildState(configFlag)
		if err != nil {
			return err
		}
		defer cleanup()

		data, err := state.CSSOut.ReadAll()
		if err != nil {
			return err
		}
		res := validate.Validate(data)
		if !res.OK {
			return fmt.Errorf("artifact invalid at byte %d: %w", res.ErrOffset, res.Err)
		}
		return nil
	},
}
