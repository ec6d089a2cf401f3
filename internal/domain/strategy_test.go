package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/lazarus/internal/domain"
)

func TestSelectStrategy_PrefersHistory(t *testing.T) {
	err := domain.AnalyzedError{Category: domain.CategoryPeerConflict, Package: "react"}
	remembered := domain.FixStrategy{Kind: domain.StrategyForceInstall}

	hist := &domain.FixHistory{}
	hist.Record(err.Pattern(), remembered, time.Now())

	engine := domain.NewStrategyEngine()
	got, ok := engine.SelectStrategy(err, hist)
	require.True(t, ok)
	assert.Equal(t, remembered, got, "history beats the static candidate order")
}

func TestSelectStrategy_StaticOrderWithoutHistory(t *testing.T) {
	err := domain.AnalyzedError{Category: domain.CategoryPeerConflict, Package: "react"}

	engine := domain.NewStrategyEngine()
	got, ok := engine.SelectStrategy(err, nil)
	require.True(t, ok)
	assert.Equal(t, domain.StrategyLegacyPeerDeps, got.Kind)
}

func TestSelectStrategy_ExhaustsCandidates(t *testing.T) {
	err := domain.AnalyzedError{Category: domain.CategoryUnknown}
	engine := domain.NewStrategyEngine()

	s, ok := engine.SelectStrategy(err, nil)
	require.True(t, ok)
	engine.MarkStrategyAttempted(s)

	_, ok = engine.SelectStrategy(err, nil)
	assert.False(t, ok, "unknown has a single candidate")
	assert.False(t, engine.HasUntriedStrategies(err))
}

func TestSelectStrategy_ResetRestoresCandidates(t *testing.T) {
	err := domain.AnalyzedError{Category: domain.CategoryUnknown}
	engine := domain.NewStrategyEngine()

	s, _ := engine.SelectStrategy(err, nil)
	engine.MarkStrategyAttempted(s)
	engine.ResetAttemptedStrategies()

	assert.True(t, engine.HasUntriedStrategies(err))
}

func TestSelectStrategy_NativeModuleSubstitute(t *testing.T) {
	err := domain.AnalyzedError{Category: domain.CategoryNativeModuleFailure, Package: "node-sass"}

	engine := domain.NewStrategyEngine()
	got, ok := engine.SelectStrategy(err, nil)
	require.True(t, ok)
	assert.Equal(t, domain.StrategySubstitutePackage, got.Kind)
	assert.Equal(t, "sass", got.Replacement)
}

func TestSelectStrategy_NoRemediationForTypeErrors(t *testing.T) {
	engine := domain.NewStrategyEngine()
	for _, cat := range []domain.ErrorCategory{domain.CategorySyntaxError, domain.CategoryTypeError} {
		_, ok := engine.SelectStrategy(domain.AnalyzedError{Category: cat}, nil)
		assert.False(t, ok, "%s is not automatically fixable", cat)
	}
}

func TestSelectStrategy_SkipsTriedHistoryEntry(t *testing.T) {
	err := domain.AnalyzedError{Category: domain.CategoryVersionConflict, Package: "lodash"}
	remembered := domain.FixStrategy{Kind: domain.StrategyForceInstall}

	hist := &domain.FixHistory{}
	hist.Record(err.Pattern(), remembered, time.Now())

	engine := domain.NewStrategyEngine()
	engine.MarkStrategyAttempted(remembered)

	got, ok := engine.SelectStrategy(err, hist)
	require.True(t, ok)
	assert.Equal(t, domain.StrategyAdjustVersion, got.Kind, "falls through to static candidates")
}

func TestFixStrategy_Describe(t *testing.T) {
	s := domain.FixStrategy{Kind: domain.StrategySubstitutePackage, Package: "bcrypt", Replacement: "bcryptjs"}
	assert.Equal(t, "replace bcrypt with bcryptjs", s.Describe())
}
