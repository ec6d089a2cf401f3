package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/history"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/tui"
)

func newHistoryCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show the repository's fix history",
		Long:  "List fixes that previously resolved build errors in this repository, most successful first. The repair loop consults this record before trying static strategies.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}

			hist, err := history.New().Load(absPath)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, hist)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(hist))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
