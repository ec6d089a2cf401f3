package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/tui"
	"github.com/abdidvp/lazarus/internal/domain"
)

func newPlanCmd() *cobra.Command {
	var (
		flags      engineFlags
		planFile   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "plan [path]",
		Short: "Group planned dependency updates into risk-ordered batches",
		Long:  "Read plan items from a JSON file, group them into batches by security urgency and bump size, and print the execution order without touching the repository.",
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

			items, err := readPlanItems(planFile)
			if err != nil {
				return err
			}

			batches := domain.ReorderForSafety(domain.CreateBatches(items, opts.BatchOptions()))

			if jsonOutput {
				return renderJSON(cmd, batches)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderBatches(batches))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&planFile, "plan", "", "Path to the plan items JSON file (required)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func readPlanItems(path string) ([]domain.ResurrectionPlanItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	var items []domain.ResurrectionPlanItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing plan file %s: %w", path, err)
	}
	for _, item := range items {
		if item.PackageName == "" {
			return nil, fmt.Errorf("plan file %s: item without package_name", path)
		}
	}
	return items, nil
}
