package application_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/lazarus/internal/application"
	"github.com/abdidvp/lazarus/internal/domain"
)

func newValidate(compiler *fakeCompiler, applier *fakeApplier, history *fakeHistory) *application.ValidateService {
	return application.NewValidateService(compiler, applier, history, nil)
}

func TestValidate_CleanBuildSucceedsImmediately(t *testing.T) {
	compiler := &fakeCompiler{results: []domain.CompilationResult{compileOK()}}
	applier := &fakeApplier{}
	svc := newValidate(compiler, applier, &fakeHistory{})

	result, err := svc.Validate(context.Background(), "/repo", domain.Options{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, domain.OutcomeSuccess, result.Outcome)
	assert.Equal(t, 1, result.Iterations)
	assert.Empty(t, result.AppliedFixes)
	assert.Empty(t, result.RemainingErrors)

	require.NotNil(t, result.Proof)
	assert.Equal(t, "npx tsc --noEmit", result.Proof.BuildCommand)
	assert.Equal(t, 1, result.Proof.IterationsRequired)
	sum := sha256.Sum256([]byte(compileOK().CombinedOutput()))
	assert.Equal(t, hex.EncodeToString(sum[:]), result.Proof.OutputHash)
}

func TestValidate_RepairsThenSucceeds(t *testing.T) {
	compiler := &fakeCompiler{results: []domain.CompilationResult{
		compileFail("npm ERR! Conflicting peer dependency: react@18.2.0"),
		compileOK(),
	}}
	applier := &fakeApplier{}
	history := &fakeHistory{}
	svc := newValidate(compiler, applier, history)

	result, err := svc.Validate(context.Background(), "/repo", domain.Options{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Iterations)
	require.Len(t, result.AppliedFixes, 1)
	assert.Equal(t, domain.StrategyLegacyPeerDeps, result.AppliedFixes[0].Strategy.Kind)
	assert.True(t, result.AppliedFixes[0].Succeeded)

	// The confirmed fix lands in persistent history.
	require.NotNil(t, history.saved)
	recorded := history.saved.Lookup("peer_dependency_conflict:react")
	require.Len(t, recorded, 1)
	assert.Equal(t, domain.StrategyLegacyPeerDeps, recorded[0].Strategy.Kind)
	assert.False(t, history.saved.LastResurrection.IsZero())
}

func TestValidate_NoProgressTerminates(t *testing.T) {
	// The unknown category has exactly one candidate; once tried, the flat
	// error count ends the run well before the iteration cap.
	compiler := &fakeCompiler{results: []domain.CompilationResult{
		compileFail("segmentation fault"),
	}}
	applier := &fakeApplier{}
	svc := newValidate(compiler, applier, &fakeHistory{})

	result, err := svc.Validate(context.Background(), "/repo", domain.Options{MaxIterations: 50})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, domain.OutcomeNoProgress, result.Outcome)
	assert.LessOrEqual(t, result.Iterations, 5)
	assert.Len(t, applier.applied, 1)
	require.NotEmpty(t, result.RemainingErrors)
	assert.Equal(t, domain.CategoryUnknown, result.RemainingErrors[0].Category)
}

func TestValidate_MaxIterationsCapsTheLoop(t *testing.T) {
	// Peer conflicts carry several candidates, so the cap fires while
	// strategies remain untried.
	compiler := &fakeCompiler{results: []domain.CompilationResult{
		compileFail("npm ERR! Conflicting peer dependency: react@18.2.0"),
	}}
	applier := &fakeApplier{}
	svc := newValidate(compiler, applier, &fakeHistory{})

	result, err := svc.Validate(context.Background(), "/repo", domain.Options{MaxIterations: 2})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, domain.OutcomeMaxIterations, result.Outcome)
	assert.Equal(t, 2, result.Iterations)
	assert.Len(t, result.AppliedFixes, 2)
	assert.NotEmpty(t, result.RemainingErrors)
}

func TestValidate_AlwaysTerminates(t *testing.T) {
	compiler := &fakeCompiler{results: []domain.CompilationResult{
		compileFail("npm ERR! Conflicting peer dependency: react@18.2.0"),
	}}
	svc := newValidate(compiler, &fakeApplier{}, &fakeHistory{})

	result, err := svc.Validate(context.Background(), "/repo", domain.Options{MaxIterations: 10})
	require.NoError(t, err)
	assert.LessOrEqual(t, result.Iterations, 10)
	assert.False(t, result.Success)
}

func TestValidate_CompilerErrorDegradesToFailingResult(t *testing.T) {
	compiler := &fakeCompiler{
		results: []domain.CompilationResult{{}},
		errs:    []error{assert.AnError},
	}
	svc := newValidate(compiler, &fakeApplier{}, &fakeHistory{})

	result, err := svc.Validate(context.Background(), "/repo", domain.Options{MaxIterations: 3})
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotEmpty(t, result.RemainingErrors)
	assert.Equal(t, domain.CategoryUnknown, result.RemainingErrors[0].Category)
}

func TestValidate_HistoryLoadFailureIsNotFatal(t *testing.T) {
	compiler := &fakeCompiler{results: []domain.CompilationResult{compileOK()}}
	svc := newValidate(compiler, &fakeApplier{}, &fakeHistory{loadErr: assert.AnError})

	result, err := svc.Validate(context.Background(), "/repo", domain.Options{})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestValidate_FailedApplyIsRecordedButNotCommitted(t *testing.T) {
	compiler := &fakeCompiler{results: []domain.CompilationResult{
		compileFail("segmentation fault"),
	}}
	applier := &fakeApplier{err: assert.AnError}
	history := &fakeHistory{}
	svc := newValidate(compiler, applier, history)

	result, err := svc.Validate(context.Background(), "/repo", domain.Options{MaxIterations: 10})
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.NotEmpty(t, result.AppliedFixes)
	assert.False(t, result.AppliedFixes[0].Succeeded)
	if history.saved != nil {
		assert.Empty(t, history.saved.Fixes)
	}
}
