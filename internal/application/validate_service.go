package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/abdidvp/lazarus/internal/domain"
)

// ValidateService is the post-resurrection repair loop. It compiles the
// repository, analyzes failures, applies one fix per iteration, and repeats
// until the build is clean or the loop provably cannot make progress.
type ValidateService struct {
	compiler domain.Compiler
	applier  domain.FixApplier
	history  domain.HistoryStore
	observer domain.Observer
}

// NewValidateService creates a ValidateService. A nil observer is replaced
// with a no-op.
func NewValidateService(
	compiler domain.Compiler,
	applier domain.FixApplier,
	history domain.HistoryStore,
	observer domain.Observer,
) *ValidateService {
	if observer == nil {
		observer = domain.NopObserver{}
	}
	return &ValidateService{
		compiler: compiler,
		applier:  applier,
		history:  history,
		observer: observer,
	}
}

// pendingFix is a successfully applied fix whose benefit has not yet been
// confirmed by a drop in the error count.
type pendingFix struct {
	pattern  string
	strategy domain.FixStrategy
}

// Validate runs the repair loop. The result is always populated, even on
// worst-case failure. Terminal states:
//
//   - success: a compile succeeded; a compilation proof is attached.
//   - failure_max_iterations: the iteration cap was reached.
//   - failure_no_progress: the error count stayed flat for consecutive
//     iterations and no untried strategy remains for any outstanding error.
func (s *ValidateService) Validate(ctx context.Context, repoPath string, opts domain.Options) (*domain.ValidationResult, error) {
	opts = opts.WithDefaults()
	start := time.Now()

	pm := opts.PackageManager
	if pm == "" {
		pm = s.compiler.DetectPackageManager(repoPath)
	}
	compileOpts := opts.CompileOptions()
	compileOpts.PackageManager = pm

	// A corrupt or unreadable history degrades to an empty one: the loop
	// must run even when its memory is gone.
	hist, err := s.history.Load(repoPath)
	if err != nil || hist == nil {
		hist = &domain.FixHistory{}
	}

	engine := domain.NewStrategyEngine()
	result := &domain.ValidationResult{Outcome: domain.OutcomeMaxIterations}

	prevCount := -1
	flatStreak := 0
	var pending []pendingFix
	var lastErrors []domain.AnalyzedError

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		result.Iterations = iter
		s.observer.IterationStarted(iter, opts.MaxIterations)

		res, err := s.compiler.Compile(ctx, repoPath, compileOpts)
		if err != nil {
			// The command could not even start. Treat it as a failing
			// compile so the analyzer gets a chance at the message.
			res = domain.CompilationResult{Success: false, Stderr: err.Error(), ExitCode: -1}
		}

		if res.Success {
			result.Success = true
			result.Outcome = domain.OutcomeSuccess
			result.RemainingErrors = nil
			proof := buildProof(res, pm, iter)
			result.Proof = &proof
			s.commitHistory(repoPath, hist, pending)
			result.DurationMs = time.Since(start).Milliseconds()
			return result, nil
		}

		errs := domain.Prioritize(domain.AnalyzeOutput(res))
		s.observer.AnalysisCompleted(iter, errs)
		lastErrors = errs

		if prevCount >= 0 {
			if len(errs) < prevCount {
				// Progress: confirm the pending fixes and let exhausted
				// strategies retry against the changed problem.
				s.commitHistory(repoPath, hist, pending)
				pending = nil
				engine.ResetAttemptedStrategies()
				flatStreak = 0
			} else {
				flatStreak++
			}
		}
		prevCount = len(errs)

		// Apply one fix: the highest-priority error with an untried strategy.
		for _, e := range errs {
			if opts.SkipNativeModules && e.Category == domain.CategoryNativeModuleFailure {
				continue
			}
			strategy, ok := engine.SelectStrategy(e, hist)
			if !ok {
				continue
			}
			engine.MarkStrategyAttempted(strategy)

			fix := domain.AppliedFix{Iteration: iter, Error: e, Strategy: strategy}
			s.observer.FixApplied(fix)
			applyErr := s.applier.Apply(ctx, repoPath, pm, strategy)
			fix.Succeeded = applyErr == nil
			result.AppliedFixes = append(result.AppliedFixes, fix)
			s.observer.FixOutcome(fix)

			if fix.Succeeded {
				pending = append(pending, pendingFix{pattern: e.Pattern(), strategy: strategy})
			}
			break
		}

		if flatStreak >= domain.NoProgressThreshold && !anyUntried(engine, errs) {
			result.Outcome = domain.OutcomeNoProgress
			break
		}
	}

	result.RemainingErrors = lastErrors
	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}

// commitHistory records confirmed fixes and persists the history. Save
// failures are swallowed: history is an optimization, not a dependency.
func (s *ValidateService) commitHistory(repoPath string, hist *domain.FixHistory, pending []pendingFix) {
	now := time.Now().UTC()
	for _, p := range pending {
		hist.Record(p.pattern, p.strategy, now)
	}
	hist.LastResurrection = now
	_ = s.history.Save(repoPath, hist)
}

func anyUntried(engine *domain.StrategyEngine, errs []domain.AnalyzedError) bool {
	for _, e := range errs {
		if engine.HasUntriedStrategies(e) {
			return true
		}
	}
	return false
}

// buildProof derives a tamper-evident record from a successful compile.
// The hash covers the build output, so the proof cannot be replayed
// against a different run.
func buildProof(res domain.CompilationResult, pm domain.PackageManager, iterations int) domain.CompilationProof {
	sum := sha256.Sum256([]byte(res.CombinedOutput()))
	return domain.CompilationProof{
		Timestamp:          time.Now().UTC(),
		BuildCommand:       res.Command,
		ExitCode:           res.ExitCode,
		DurationMs:         res.DurationMs,
		OutputHash:         hex.EncodeToString(sum[:]),
		PackageManager:     pm,
		IterationsRequired: iterations,
	}
}
