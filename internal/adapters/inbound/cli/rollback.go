package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/gitops"
)

func newRollbackCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rollback [path]",
		Short: "Revert the most recent commit",
		Long:  "Hard-reset the repository to the parent of HEAD, reporting the discarded commit. Refuses to roll back the only commit.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}

			result := gitops.New().RollbackLastCommit(absPath)

			if jsonOutput {
				return renderJSON(cmd, result)
			}
			if !result.Success {
				return fmt.Errorf("rollback failed: %s", result.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %.12s (%s)\nHEAD is now %.12s\n",
				result.RolledBackCommit, result.CommitMessage, result.NewHead)
			if result.HadUncommittedChanges {
				fmt.Fprintln(cmd.OutOrStdout(), "warning: uncommitted changes were discarded")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
