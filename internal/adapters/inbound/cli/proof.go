package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/compiler"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/detector"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/snapshot"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/tui"
	"github.com/abdidvp/lazarus/internal/application"
)

func newProofCmd() *cobra.Command {
	var (
		flags      engineFlags
		baseline   bool
		final      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "proof [path]",
		Short: "Run a compilation check and prove the repository's state",
		Long:  "Compile the repository and report parsed, categorized errors. --baseline records the snapshot; --final diffs against the recorded baseline and emits a resurrection verdict.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseline && final {
				return fmt.Errorf("--baseline and --final are mutually exclusive")
			}

			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}
			opts, err := flags.load(absPath)
			if err != nil {
				return err
			}

			svc := application.NewProofService(compiler.New(), detector.New(), snapshot.New())

			if final {
				verdict, err := svc.RunFinal(cmd.Context(), absPath, opts)
				if err != nil {
					return fmt.Errorf("final proof failed: %w", err)
				}
				if jsonOutput {
					return renderJSON(cmd, verdict)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderVerdict(verdict))
				return nil
			}

			run := svc.Check
			if baseline {
				run = svc.RunBaseline
			}
			result, err := run(cmd.Context(), absPath, opts)
			if err != nil {
				return fmt.Errorf("proof failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, result)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderProof(result))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&baseline, "baseline", false, "Record this check as the baseline")
	cmd.Flags().BoolVar(&final, "final", false, "Diff this check against the recorded baseline")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
