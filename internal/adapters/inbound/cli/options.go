package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/config"
	"github.com/abdidvp/lazarus/internal/domain"
)

// engineFlags holds the flag values shared by commands that run the engine.
// Zero values mean "not set": .lazarus.yaml wins, then the engine defaults.
type engineFlags struct {
	maxIterations  int
	packageManager string
	buildCommand   string
	timeoutMs      int64
	maxBatchSize   int
	skipNative     bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxIterations, "max-iterations", 0, "Maximum repair iterations")
	cmd.Flags().StringVar(&f.packageManager, "pm", "", "Package manager (npm, yarn, pnpm)")
	cmd.Flags().StringVar(&f.buildCommand, "build-command", "", "Build command override")
	cmd.Flags().Int64Var(&f.timeoutMs, "timeout-ms", 0, "Build timeout in milliseconds")
	cmd.Flags().IntVar(&f.maxBatchSize, "batch-size", 0, "Maximum packages per update batch")
	cmd.Flags().BoolVar(&f.skipNative, "skip-native", false, "Skip fixes for native module failures")
}

// load resolves the effective options: .lazarus.yaml from the target
// repository with flag overrides layered on top.
func (f *engineFlags) load(repoPath string) (domain.Options, error) {
	opts, err := config.New().Load(repoPath)
	if err != nil {
		return domain.Options{}, fmt.Errorf("loading config: %w", err)
	}
	if f.maxIterations > 0 {
		opts.MaxIterations = f.maxIterations
	}
	if f.packageManager != "" {
		opts.PackageManager = domain.PackageManager(f.packageManager)
	}
	if f.buildCommand != "" {
		opts.BuildCommand = f.buildCommand
	}
	if f.timeoutMs > 0 {
		opts.TimeoutMs = f.timeoutMs
	}
	if f.maxBatchSize > 0 {
		opts.MaxBatchSize = f.maxBatchSize
	}
	if f.skipNative {
		opts.SkipNativeModules = true
	}
	if err := opts.Validate(); err != nil {
		return domain.Options{}, err
	}
	return opts, nil
}

func resolvePath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absPath, nil
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
