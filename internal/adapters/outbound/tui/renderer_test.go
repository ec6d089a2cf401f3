package tui_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/tui"
	"github.com/abdidvp/lazarus/internal/domain"
)

func sampleVerdict(resurrected bool) *domain.ResurrectionVerdict {
	baseline := domain.BaselineCompilationResult{
		Success:       false,
		ErrorCount:    3,
		ProjectKind:   domain.KindTypeScript,
		BuildStrategy: domain.StrategyTypecheck,
	}
	final := domain.BaselineCompilationResult{Success: resurrected}
	if !resurrected {
		final.ErrorCount = 2
	}
	v := domain.GenerateResurrectionVerdict(baseline, final)
	return &v
}

func TestRenderVerdict_Resurrected(t *testing.T) {
	output := tui.RenderVerdict(sampleVerdict(true))
	assert.Contains(t, output, "RESURRECTED")
	assert.Contains(t, output, "typecheck")
	assert.Contains(t, output, "typescript")
}

func TestRenderVerdict_StillDead(t *testing.T) {
	output := tui.RenderVerdict(sampleVerdict(false))
	assert.Contains(t, output, "STILL DEAD")
}

func TestRenderVerdict_NeverBroken(t *testing.T) {
	ok := domain.BaselineCompilationResult{Success: true}
	v := domain.GenerateResurrectionVerdict(ok, ok)
	assert.Contains(t, tui.RenderVerdict(&v), "WAS NEVER BROKEN")
}

func TestRenderBatches(t *testing.T) {
	batches := domain.CreateBatches([]domain.ResurrectionPlanItem{
		{PackageName: "minimist", CurrentVersion: "1.2.0", TargetVersion: "1.2.8",
			FixesVulnerabilities: true, VulnerabilityCount: 2},
		{PackageName: "react", CurrentVersion: "17.0.2", TargetVersion: "18.2.0"},
	}, domain.DefaultBatchOptions())

	output := tui.RenderBatches(batches)
	assert.Contains(t, output, "2 batches")
	assert.Contains(t, output, "minimist")
	assert.Contains(t, output, "react")
	assert.Contains(t, output, "2 vulns")
}

func TestRenderValidation_Success(t *testing.T) {
	result := &domain.ValidationResult{
		Success:    true,
		Outcome:    domain.OutcomeSuccess,
		Iterations: 2,
		AppliedFixes: []domain.AppliedFix{
			{Iteration: 1, Strategy: domain.FixStrategy{Kind: domain.StrategyLegacyPeerDeps}, Succeeded: true},
		},
		Proof: &domain.CompilationProof{
			Timestamp:    time.Now(),
			BuildCommand: "npx tsc --noEmit",
			OutputHash:   "0123456789abcdef0123456789abcdef",
			DurationMs:   120,
		},
	}

	output := tui.RenderValidation(result)
	assert.Contains(t, output, "build repaired")
	assert.Contains(t, output, "2 iterations")
	assert.Contains(t, output, "relaxed peer dependency")
	assert.Contains(t, output, "0123456789ab", "proof hash is shortened")
	assert.Contains(t, output, "npx tsc --noEmit")
}

func TestRenderValidation_Failure(t *testing.T) {
	result := &domain.ValidationResult{
		Outcome:    domain.OutcomeNoProgress,
		Iterations: 3,
		RemainingErrors: []domain.AnalyzedError{
			{Category: domain.CategoryNativeModuleFailure, Message: "gyp ERR! build error"},
		},
	}

	output := tui.RenderValidation(result)
	assert.Contains(t, output, "failure_no_progress")
	assert.Contains(t, output, "native_module_failure")
}

func TestRenderProof(t *testing.T) {
	result := &domain.BaselineCompilationResult{
		Success:    false,
		ErrorCount: 2,
		ErrorsByCategory: map[domain.DiagCategory]int{
			domain.DiagImport: 1,
			domain.DiagType:   1,
		},
		ProjectKind:   domain.KindTypeScript,
		BuildStrategy: domain.StrategyTypecheck,
		SuggestedFixes: []domain.FixSuggestion{
			{Category: domain.DiagImport, Description: "install 1 missing package(s)", AutoApplicable: true},
		},
	}

	output := tui.RenderProof(result)
	assert.Contains(t, output, "broken")
	assert.Contains(t, output, "2")
	assert.Contains(t, output, "install 1 missing package(s)")
}

func TestRenderHistory(t *testing.T) {
	hist := &domain.FixHistory{
		Fixes: []domain.HistoricalFix{
			{
				ErrorPattern: "peer_dependency_conflict:react",
				Strategy:     domain.FixStrategy{Kind: domain.StrategyLegacyPeerDeps},
				SuccessCount: 3,
			},
		},
		LastResurrection: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	output := tui.RenderHistory(hist)
	assert.Contains(t, output, "1 entries")
	assert.Contains(t, output, "relaxed peer dependency")
	assert.Contains(t, output, "peer_dependency_conflict:react")
	assert.Contains(t, output, "2026-05-01")
}

func TestRenderHistory_Empty(t *testing.T) {
	output := tui.RenderHistory(&domain.FixHistory{})
	assert.Contains(t, output, "no recorded fixes")
}
