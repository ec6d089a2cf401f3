package application_test

import (
	"context"
	"errors"

	"github.com/abdidvp/lazarus/internal/domain"
)

// fakeCompiler replays a scripted sequence of results; the last one repeats.
type fakeCompiler struct {
	results []domain.CompilationResult
	errs    []error
	calls   int
}

func (f *fakeCompiler) Compile(_ context.Context, _ string, _ domain.CompileOptions) (domain.CompilationResult, error) {
	i := f.calls
	f.calls++
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return f.results[i], err
}

func (f *fakeCompiler) DetectPackageManager(string) domain.PackageManager {
	return domain.PMNpm
}

type fakeDetector struct {
	probe domain.ProjectProbe
	err   error
}

func (f *fakeDetector) Detect(string, domain.PackageManager) (domain.ProjectProbe, error) {
	return f.probe, f.err
}

type fakeApplier struct {
	applied []domain.FixStrategy
	err     error
}

func (f *fakeApplier) Apply(_ context.Context, _ string, _ domain.PackageManager, s domain.FixStrategy) error {
	f.applied = append(f.applied, s)
	return f.err
}

// fakeHistory is an in-memory HistoryStore.
type fakeHistory struct {
	hist    *domain.FixHistory
	saved   *domain.FixHistory
	loadErr error
}

func (f *fakeHistory) Load(string) (*domain.FixHistory, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.hist == nil {
		return &domain.FixHistory{}, nil
	}
	return f.hist, nil
}

func (f *fakeHistory) Save(_ string, h *domain.FixHistory) error {
	f.saved = h
	return nil
}

// fakeSnapshot is an in-memory SnapshotStore.
type fakeSnapshot struct {
	baseline *domain.BaselineCompilationResult
}

func (f *fakeSnapshot) LoadBaseline(string) (*domain.BaselineCompilationResult, error) {
	return f.baseline, nil
}

func (f *fakeSnapshot) SaveBaseline(_ string, r *domain.BaselineCompilationResult) error {
	f.baseline = r
	return nil
}

func (f *fakeSnapshot) Invalidate(string) error {
	f.baseline = nil
	return nil
}

type fakeUpdater struct {
	updated []domain.ResurrectionPlanItem
	failOn  map[string]bool
}

func (f *fakeUpdater) Update(_ context.Context, _ string, _ domain.PackageManager, item domain.ResurrectionPlanItem) error {
	if f.failOn[item.PackageName] {
		return errors.New("install failed")
	}
	f.updated = append(f.updated, item)
	return nil
}

type fakeRollbacker struct {
	rollbacks int
}

func (f *fakeRollbacker) RollbackLastCommit(string) domain.RollbackResult {
	f.rollbacks++
	return domain.RollbackResult{Success: true}
}

func (f *fakeRollbacker) RecoverFromFailedUpdate(repoPath string, update *domain.PackageUpdateResult) domain.RollbackResult {
	result := f.RollbackLastCommit(repoPath)
	update.Status = domain.UpdateRolledBack
	return result
}

func typecheckProbe() domain.ProjectProbe {
	return domain.ProjectProbe{
		Kind:          domain.KindTypeScript,
		BuildStrategy: domain.StrategyTypecheck,
		BuildCommand:  "npx tsc --noEmit",
		TimeoutMs:     120_000,
	}
}

func compileOK() domain.CompilationResult {
	return domain.CompilationResult{Success: true, Command: "npx tsc --noEmit", DurationMs: 40}
}

func compileFail(output string) domain.CompilationResult {
	return domain.CompilationResult{Success: false, ExitCode: 2, Stderr: output, Command: "npx tsc --noEmit"}
}
