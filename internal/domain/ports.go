package domain

import "context"

// CompileOptions parameterizes one build/verify invocation.
type CompileOptions struct {
	PackageManager PackageManager // empty means auto-detect by lockfile
	BuildCommand   string         // empty means detect from manifest scripts
	TimeoutMs      int64
}

// Compiler runs the project's build/verify command. Implementations must
// return a synthetic failing result on timeout rather than an error.
type Compiler interface {
	Compile(ctx context.Context, repoPath string, opts CompileOptions) (CompilationResult, error)
	DetectPackageManager(repoPath string) PackageManager
}

// ProjectProbe is what the strategy detector learned about the repository.
type ProjectProbe struct {
	Kind           ProjectKind
	BuildStrategy  BuildStrategy
	BuildCommand   string
	HasBuildScript bool
	TimeoutMs      int64
}

// StrategyDetector inspects the working tree and decides how to verify it.
type StrategyDetector interface {
	Detect(repoPath string, pm PackageManager) (ProjectProbe, error)
}

// FixApplier applies a fix strategy to the working tree: manifest edits,
// lockfile deletion, installs with relaxed flags. Returns an error when the
// underlying operation fails; the caller decides whether to continue.
type FixApplier interface {
	Apply(ctx context.Context, repoPath string, pm PackageManager, strategy FixStrategy) error
}

// Rollbacker reverts the most recent commit in the working tree.
// RecoverFromFailedUpdate additionally stamps the update with the rollback
// outcome so the batch report reflects what actually happened on disk.
type Rollbacker interface {
	RollbackLastCommit(repoPath string) RollbackResult
	RecoverFromFailedUpdate(repoPath string, update *PackageUpdateResult) RollbackResult
}

// DependencyUpdater installs one planned dependency change and commits it,
// so a later rollback can bisect to exactly that change.
type DependencyUpdater interface {
	Update(ctx context.Context, repoPath string, pm PackageManager, item ResurrectionPlanItem) error
}

// HistoryStore persists per-repository fix memory. Load returns an empty
// history (never nil) when the repository has no record yet.
type HistoryStore interface {
	Load(repoPath string) (*FixHistory, error)
	Save(repoPath string, history *FixHistory) error
}

// SnapshotStore persists the baseline compilation snapshot between the
// baseline and final proof runs, which may be separate invocations.
type SnapshotStore interface {
	LoadBaseline(repoPath string) (*BaselineCompilationResult, error)
	SaveBaseline(repoPath string, result *BaselineCompilationResult) error
	Invalidate(repoPath string) error
}

// ConfigLoader reads project-level options from the working tree.
type ConfigLoader interface {
	Load(repoPath string) (Options, error)
}

// Observer receives engine progress events. Implementations decide delivery:
// log lines, dashboard pushes, or nothing. All methods must be non-blocking
// from the engine's point of view and must never fail the run.
type Observer interface {
	IterationStarted(iteration, maxIterations int)
	AnalysisCompleted(iteration int, errors []AnalyzedError)
	FixApplied(fix AppliedFix)
	FixOutcome(fix AppliedFix)
	BatchStarted(batch UpdateBatch)
	BatchCompleted(batch UpdateBatch, result BatchResult)
	PackageUpdateStarted(item ResurrectionPlanItem)
	PackageUpdateCompleted(result PackageUpdateResult)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) IterationStarted(int, int)                 {}
func (NopObserver) AnalysisCompleted(int, []AnalyzedError)    {}
func (NopObserver) FixApplied(AppliedFix)                     {}
func (NopObserver) FixOutcome(AppliedFix)                     {}
func (NopObserver) BatchStarted(UpdateBatch)                  {}
func (NopObserver) BatchCompleted(UpdateBatch, BatchResult)   {}
func (NopObserver) PackageUpdateStarted(ResurrectionPlanItem) {}
func (NopObserver) PackageUpdateCompleted(PackageUpdateResult) {}
