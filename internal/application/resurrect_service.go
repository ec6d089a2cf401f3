package application

import (
	"context"
	"fmt"
	"time"

	"github.com/abdidvp/lazarus/internal/domain"
)

// ResurrectService runs the full resurrection pipeline: prove the repository
// broken, apply planned dependency updates in risk-ordered batches with
// rollback on failure, repair what remains, and render a verdict.
type ResurrectService struct {
	proof    *ProofService
	validate *ValidateService
	compiler domain.Compiler
	updater  domain.DependencyUpdater
	rollback domain.Rollbacker
	observer domain.Observer
}

// NewResurrectService creates a ResurrectService. A nil observer is replaced
// with a no-op.
func NewResurrectService(
	proof *ProofService,
	validate *ValidateService,
	compiler domain.Compiler,
	updater domain.DependencyUpdater,
	rollback domain.Rollbacker,
	observer domain.Observer,
) *ResurrectService {
	if observer == nil {
		observer = domain.NopObserver{}
	}
	return &ResurrectService{
		proof:    proof,
		validate: validate,
		compiler: compiler,
		updater:  updater,
		rollback: rollback,
		observer: observer,
	}
}

// Resurrect executes the pipeline against repoPath using the given plan.
// The report is returned even when the repository stays broken; only
// infrastructure failures (unreadable repo, baseline proof failure) return
// an error.
func (s *ResurrectService) Resurrect(ctx context.Context, repoPath string, plan []domain.ResurrectionPlanItem, opts domain.Options) (*domain.ResurrectionReport, error) {
	opts = opts.WithDefaults()
	start := time.Now()
	report := &domain.ResurrectionReport{RepoPath: repoPath}

	// 1. Prove the repository broken before changing anything.
	baseline, err := s.proof.Check(ctx, repoPath, opts)
	if err != nil {
		return nil, fmt.Errorf("baseline proof: %w", err)
	}
	if baseline.Success {
		verdict := domain.GenerateResurrectionVerdict(*baseline, *baseline)
		report.Verdict = &verdict
		report.DurationMs = time.Since(start).Milliseconds()
		return report, nil
	}

	pm := opts.PackageManager
	if pm == "" {
		pm = s.compiler.DetectPackageManager(repoPath)
	}

	// 2. Apply planned updates in risk order, one commit per package, so a
	// failed update rolls back to exactly the previous state.
	batches := domain.ReorderForSafety(domain.CreateBatches(plan, opts.BatchOptions()))
	for _, batch := range batches {
		report.Batches = append(report.Batches, s.runBatch(ctx, repoPath, pm, batch, opts))
	}

	// 3. Repair whatever the updates did not resolve.
	validation, err := s.validate.Validate(ctx, repoPath, opts)
	if err != nil {
		return nil, fmt.Errorf("post-resurrection validation: %w", err)
	}
	report.Validation = validation

	// 4. Final proof and verdict.
	final, err := s.proof.Check(ctx, repoPath, opts)
	if err != nil {
		return nil, fmt.Errorf("final proof: %w", err)
	}
	verdict := domain.GenerateResurrectionVerdict(*baseline, *final)
	report.Verdict = &verdict

	report.DurationMs = time.Since(start).Milliseconds()
	return report, nil
}

// runBatch applies one batch item by item. An item whose install fails is
// marked failed; an item that installs but breaks the build is rolled back.
// The batch always runs to completion so the report covers every package.
func (s *ResurrectService) runBatch(ctx context.Context, repoPath string, pm domain.PackageManager, batch domain.UpdateBatch, opts domain.Options) domain.BatchResult {
	s.observer.BatchStarted(batch)
	result := domain.BatchResult{BatchID: batch.ID}

	for _, item := range batch.Packages {
		s.observer.PackageUpdateStarted(item)
		update := domain.PackageUpdateResult{Item: item, Status: domain.UpdateApplied}

		if err := s.updater.Update(ctx, repoPath, pm, item); err != nil {
			// Nothing was committed, so there is nothing to roll back.
			update.Status = domain.UpdateFailed
			update.Error = err.Error()
			s.observer.PackageUpdateCompleted(update)
			result.Packages = append(result.Packages, update)
			continue
		}

		res, err := s.compiler.Compile(ctx, repoPath, opts.CompileOptions())
		if err != nil || !res.Success {
			update.Error = buildFailureReason(res, err)
			s.rollback.RecoverFromFailedUpdate(repoPath, &update)
		}

		s.observer.PackageUpdateCompleted(update)
		result.Packages = append(result.Packages, update)
	}

	s.observer.BatchCompleted(batch, result)
	return result
}

func buildFailureReason(res domain.CompilationResult, err error) string {
	if err != nil {
		return err.Error()
	}
	if res.TimedOut {
		return fmt.Sprintf("build timed out after %dms", res.DurationMs)
	}
	return fmt.Sprintf("build failed with exit code %d", res.ExitCode)
}
