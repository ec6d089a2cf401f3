package snapshot_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/snapshot"
	"github.com/abdidvp/lazarus/internal/domain"
)

func TestLoadBaseline_MissingIsNilNil(t *testing.T) {
	result, err := snapshot.New().LoadBaseline(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSaveLoadInvalidate(t *testing.T) {
	dir := t.TempDir()
	store := snapshot.New()

	baseline := &domain.BaselineCompilationResult{
		Timestamp:  time.Now().UTC(),
		Success:    false,
		ErrorCount: 2,
		Errors: []domain.CategorizedError{
			{File: "src/a.ts", Line: 1, Code: "TS2307", Message: "Cannot find module 'x'.", Category: domain.DiagImport},
		},
		ProjectKind:   domain.KindTypeScript,
		BuildStrategy: domain.StrategyTypecheck,
	}
	require.NoError(t, store.SaveBaseline(dir, baseline))

	loaded, err := store.LoadBaseline(dir)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 2, loaded.ErrorCount)
	assert.Equal(t, domain.StrategyTypecheck, loaded.BuildStrategy)
	require.Len(t, loaded.Errors, 1)
	assert.Equal(t, domain.DiagImport, loaded.Errors[0].Category)

	require.NoError(t, store.Invalidate(dir))
	gone, err := store.LoadBaseline(dir)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestInvalidate_MissingIsFine(t *testing.T) {
	assert.NoError(t, snapshot.New().Invalidate(t.TempDir()))
}
