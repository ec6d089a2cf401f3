// Package application orchestrates the resurrection engine: proof runs,
// batch execution, and the post-resurrection repair loop. Services depend
// only on domain ports so adapters can be swapped in tests.
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/abdidvp/lazarus/internal/domain"
	"github.com/abdidvp/lazarus/internal/domain/diag"
)

// ProofService produces compilation proofs: full baseline and final
// compilation snapshots, and the verdict diff between them.
type ProofService struct {
	compiler  domain.Compiler
	detector  domain.StrategyDetector
	snapshots domain.SnapshotStore
}

// NewProofService creates a ProofService.
func NewProofService(
	compiler domain.Compiler,
	detector domain.StrategyDetector,
	snapshots domain.SnapshotStore,
) *ProofService {
	return &ProofService{
		compiler:  compiler,
		detector:  detector,
		snapshots: snapshots,
	}
}

// Check runs one full compilation check: detect how to verify the
// repository, run the build, parse and categorize diagnostics, and derive
// fix suggestions. It does not touch the snapshot store.
func (s *ProofService) Check(ctx context.Context, repoPath string, opts domain.Options) (*domain.BaselineCompilationResult, error) {
	opts = opts.WithDefaults()

	// 1. Decide package manager and verification strategy.
	pm := opts.PackageManager
	if pm == "" {
		pm = s.compiler.DetectPackageManager(repoPath)
	}
	probe, err := s.detector.Detect(repoPath, pm)
	if err != nil {
		return nil, fmt.Errorf("detecting build strategy: %w", err)
	}

	compileOpts := domain.CompileOptions{
		PackageManager: pm,
		BuildCommand:   opts.BuildCommand,
		TimeoutMs:      opts.TimeoutMs,
	}
	if compileOpts.BuildCommand == "" {
		compileOpts.BuildCommand = probe.BuildCommand
	}
	if probe.TimeoutMs > 0 && opts.BuildCommand == "" {
		compileOpts.TimeoutMs = probe.TimeoutMs
	}

	// 2. A repository with no way to verify it counts as building: there
	// is nothing to prove broken.
	if compileOpts.BuildCommand == "" {
		return &domain.BaselineCompilationResult{
			Timestamp:        time.Now().UTC(),
			Success:          true,
			ErrorsByCategory: map[domain.DiagCategory]int{},
			ProjectKind:      probe.Kind,
			BuildStrategy:    probe.BuildStrategy,
		}, nil
	}

	// 3. Compile and parse diagnostics.
	res, err := s.compiler.Compile(ctx, repoPath, compileOpts)
	if err != nil {
		return nil, fmt.Errorf("running %q: %w", compileOpts.BuildCommand, err)
	}

	errs := diag.ParseErrors(res.CombinedOutput())
	result := &domain.BaselineCompilationResult{
		Timestamp:        time.Now().UTC(),
		Success:          res.Success,
		ErrorCount:       len(errs),
		Errors:           errs,
		ErrorsByCategory: domain.CountByCategory(errs),
		Output:           res.CombinedOutput(),
		ProjectKind:      probe.Kind,
		BuildStrategy:    probe.BuildStrategy,
	}
	if !res.Success {
		result.SuggestedFixes = diag.GenerateFixSuggestions(errs)
	}
	return result, nil
}

// RunBaseline runs a compilation check and records it as the baseline for
// a later verdict.
func (s *ProofService) RunBaseline(ctx context.Context, repoPath string, opts domain.Options) (*domain.BaselineCompilationResult, error) {
	result, err := s.Check(ctx, repoPath, opts)
	if err != nil {
		return nil, err
	}
	if err := s.snapshots.SaveBaseline(repoPath, result); err != nil {
		return nil, fmt.Errorf("saving baseline snapshot: %w", err)
	}
	return result, nil
}

// RunFinal runs a compilation check and diffs it against the recorded
// baseline. The baseline snapshot is consumed: a verdict invalidates it.
func (s *ProofService) RunFinal(ctx context.Context, repoPath string, opts domain.Options) (*domain.ResurrectionVerdict, error) {
	baseline, err := s.snapshots.LoadBaseline(repoPath)
	if err != nil {
		return nil, fmt.Errorf("loading baseline snapshot: %w", err)
	}
	if baseline == nil {
		return nil, fmt.Errorf("no baseline recorded for %s: run the baseline proof first", repoPath)
	}

	final, err := s.Check(ctx, repoPath, opts)
	if err != nil {
		return nil, err
	}

	verdict := domain.GenerateResurrectionVerdict(*baseline, *final)
	if err := s.snapshots.Invalidate(repoPath); err != nil {
		return nil, fmt.Errorf("invalidating baseline snapshot: %w", err)
	}
	return &verdict, nil
}
