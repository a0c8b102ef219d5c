package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daaku/dxcss/internal/extract"
)

var dedupeWrite bool

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <file>",
	Short: "Rewrite repeated class lists in a markup file into dx-group aliases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		html, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		result := extract.RewriteDuplicateClasses(html)
		if result == nil || len(result.Groups) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no repeated class lists found")
			return nil
		}
		for _, g := range result.Groups {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %v\n", g.Alias, g.Classes)
		}
		if dedupeWrite {
			return os.WriteFile(path, result.HTML, 0o644)
		}
		return nil
	},
}

func init() {
	dedupeCmd.Flags().BoolVar(&dedupeWrite, "write", false, "write the rewritten markup back to the file")
}
