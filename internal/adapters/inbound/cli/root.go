package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lazarus",
		Short:         "Bring dead repositories back to life",
		Long:          "Lazarus proves a repository is broken, applies prioritized dependency updates in risk-ordered batches with rollback, repairs what remains, and emits a before/after verdict.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newProofCmd())
	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newResurrectCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newRollbackCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
