package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/lazarus/internal/domain"
)

func diagErr(file string, line int, code, message string, cat domain.DiagCategory) domain.CategorizedError {
	return domain.CategorizedError{File: file, Line: line, Code: code, Message: message, Category: cat}
}

func snapshot(success bool, errs ...domain.CategorizedError) domain.BaselineCompilationResult {
	return domain.BaselineCompilationResult{
		Success:          success,
		ErrorCount:       len(errs),
		Errors:           errs,
		ErrorsByCategory: domain.CountByCategory(errs),
	}
}

func TestGenerateResurrectionVerdict_BrokenToBuilding(t *testing.T) {
	baseline := snapshot(false,
		diagErr("src/a.ts", 1, "TS2307", "Cannot find module 'lodash'.", domain.DiagImport))
	final := snapshot(true)

	v := domain.GenerateResurrectionVerdict(baseline, final)
	assert.True(t, v.Resurrected)
	assert.Equal(t, 1, v.ErrorsFixed)
	assert.Equal(t, 0, v.ErrorsRemaining)
	require.Len(t, v.FixedErrors, 1)
	assert.Empty(t, v.NewErrors)
	assert.Equal(t, 1, v.ErrorsFixedByCat[domain.DiagImport])
}

func TestGenerateResurrectionVerdict_IdenticalSnapshots(t *testing.T) {
	s := snapshot(false,
		diagErr("src/a.ts", 1, "TS2307", "Cannot find module 'lodash'.", domain.DiagImport))

	v := domain.GenerateResurrectionVerdict(s, s)
	assert.False(t, v.Resurrected)
	assert.Equal(t, 0, v.ErrorsFixed)
	assert.Empty(t, v.FixedErrors)
	assert.Empty(t, v.NewErrors)
	assert.Equal(t, 1, v.ErrorsRemaining)
}

func TestGenerateResurrectionVerdict_PartialRepair(t *testing.T) {
	fixed := diagErr("src/a.ts", 1, "TS2307", "Cannot find module 'lodash'.", domain.DiagImport)
	kept := diagErr("src/b.ts", 5, "TS2322", "Type 'string' is not assignable.", domain.DiagType)
	introduced := diagErr("src/c.ts", 9, "TS1005", "';' expected.", domain.DiagSyntax)

	baseline := snapshot(false, fixed, kept)
	final := snapshot(false, kept, introduced)

	v := domain.GenerateResurrectionVerdict(baseline, final)
	assert.False(t, v.Resurrected)
	assert.Equal(t, []domain.CategorizedError{fixed}, v.FixedErrors)
	assert.Equal(t, []domain.CategorizedError{introduced}, v.NewErrors)
	assert.Equal(t, 2, v.ErrorsRemaining)
	assert.Equal(t, 1, v.ErrorsRemainingByCat[domain.DiagType])
	assert.Equal(t, 1, v.ErrorsRemainingByCat[domain.DiagSyntax])
}

func TestGenerateResurrectionVerdict_ErrorsFixedNeverNegative(t *testing.T) {
	baseline := snapshot(false,
		diagErr("src/a.ts", 1, "TS2322", "Type error.", domain.DiagType))
	final := snapshot(false,
		diagErr("src/a.ts", 1, "TS2322", "Type error.", domain.DiagType),
		diagErr("src/b.ts", 2, "TS2322", "Another type error.", domain.DiagType))

	v := domain.GenerateResurrectionVerdict(baseline, final)
	assert.Equal(t, 0, v.ErrorsFixed)
	assert.Len(t, v.NewErrors, 1)
}

func TestGenerateResurrectionVerdict_LineShiftCountsBothWays(t *testing.T) {
	baseline := snapshot(false,
		diagErr("src/a.ts", 1, "TS2322", "Type error.", domain.DiagType))
	final := snapshot(false,
		diagErr("src/a.ts", 2, "TS2322", "Type error.", domain.DiagType))

	v := domain.GenerateResurrectionVerdict(baseline, final)
	assert.Len(t, v.FixedErrors, 1)
	assert.Len(t, v.NewErrors, 1)
}

func TestCountByCategory(t *testing.T) {
	counts := domain.CountByCategory([]domain.CategorizedError{
		{Category: domain.DiagType},
		{Category: domain.DiagType},
		{Category: domain.DiagImport},
	})
	assert.Equal(t, 2, counts[domain.DiagType])
	assert.Equal(t, 1, counts[domain.DiagImport])
}
