package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/applier"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/compiler"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/detector"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/gitops"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/history"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/notify"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/snapshot"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/tui"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/updater"
	"github.com/abdidvp/lazarus/internal/application"
	"github.com/abdidvp/lazarus/internal/domain"
)

func newResurrectCmd() *cobra.Command {
	var (
		flags      engineFlags
		planFile   string
		quiet      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "resurrect [path]",
		Short: "Run the full resurrection pipeline",
		Long:  "Prove the repository broken, apply planned dependency updates in risk-ordered batches with rollback on failure, repair remaining build errors, and emit a before/after verdict.",
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

			var items []domain.ResurrectionPlanItem
			if planFile != "" {
				items, err = readPlanItems(planFile)
				if err != nil {
					return err
				}
			}

			git := gitops.New()
			if len(items) > 0 && !git.IsGitRepo(absPath) {
				return fmt.Errorf("%s is not a git repository: updates need commits to roll back to", absPath)
			}

			var observer domain.Observer = domain.NopObserver{}
			if !quiet {
				observer = notify.New(cmd.ErrOrStderr())
			}

			comp := compiler.New()
			proofSvc := application.NewProofService(comp, detector.New(), snapshot.New())
			validateSvc := application.NewValidateService(comp, applier.New(), history.New(), observer)
			svc := application.NewResurrectService(proofSvc, validateSvc, comp, updater.New(), git, observer)

			report, err := svc.Resurrect(cmd.Context(), absPath, items, opts)
			if err != nil {
				return fmt.Errorf("resurrection failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderVerdict(report.Verdict))
			if report.Validation != nil {
				fmt.Fprint(cmd.OutOrStdout(), "\n"+tui.RenderValidation(report.Validation))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&planFile, "plan", "", "Path to the plan items JSON file")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress progress log lines")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the full report as JSON")

	return cmd
}
