package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/applier"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/compiler"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/history"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/notify"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/tui"
	"github.com/abdidvp/lazarus/internal/application"
	"github.com/abdidvp/lazarus/internal/domain"
)

func newValidateCmd() *cobra.Command {
	var (
		flags      engineFlags
		quiet      bool
		jsonOutput bool
		ciMode     bool
	)

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Iteratively repair the build until it compiles",
		Long:  "Compile the repository, analyze failures, apply one fix per iteration, and repeat until the build succeeds or the loop provably cannot make progress.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}
			opts, err := flags.load(absPath)
			if err != nil {
				return err
			}

			var observer domain.Observer = domain.NopObserver{}
			if !quiet {
				observer = notify.New(cmd.ErrOrStderr())
			}

			svc := application.NewValidateService(compiler.New(), applier.New(), history.New(), observer)

			result, err := svc.Validate(cmd.Context(), absPath, opts)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, result); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderValidation(result))
			}

			if ciMode && !result.Success {
				return fmt.Errorf("build still broken after %d iterations (%s)", result.Iterations, result.Outcome)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress progress log lines")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 when the build stays broken")

	return cmd
}
