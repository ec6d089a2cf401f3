package domain

import (
	"strconv"
	"time"
)

// DiagCategory classifies a compiler diagnostic for the proof engine.
type DiagCategory string

const (
	DiagSyntax     DiagCategory = "syntax"
	DiagImport     DiagCategory = "import"
	DiagType       DiagCategory = "type"
	DiagDependency DiagCategory = "dependency"
	DiagConfig     DiagCategory = "config"
)

// ProjectKind is the detected language flavor of the target repository.
type ProjectKind string

const (
	KindTypeScript ProjectKind = "typescript"
	KindJavaScript ProjectKind = "javascript"
)

// BuildStrategy names how the repository is verified.
type BuildStrategy string

const (
	StrategyTypecheck   BuildStrategy = "typecheck"
	StrategyBundler     BuildStrategy = "bundler"
	StrategyBuildScript BuildStrategy = "build-script"
	StrategyCustom      BuildStrategy = "custom"
)

// CategorizedError is one parsed compiler diagnostic.
type CategorizedError struct {
	File         string       `json:"file"`
	Line         int          `json:"line"`
	Column       int          `json:"column"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	Category     DiagCategory `json:"category"`
	SuggestedFix string       `json:"suggested_fix,omitempty"`
}

// key is the structural identity used for verdict diffing. Exact equality on
// (file, line, code, message): an error whose line shifts counts as both
// fixed and new, which keeps the diff honest at the cost of double counting.
func (e CategorizedError) key() [4]string {
	return [4]string{e.File, strconv.Itoa(e.Line), e.Code, e.Message}
}

// FixSuggestion is a per-category remediation hint derived from diagnostics.
type FixSuggestion struct {
	Category       DiagCategory `json:"category"`
	Description    string       `json:"description"`
	AutoApplicable bool         `json:"auto_applicable"`
	Packages       []string     `json:"packages,omitempty"`
}

// BaselineCompilationResult is one full compilation check snapshot. Two are
// retained per resurrection run: baseline (pre-repair) and final.
type BaselineCompilationResult struct {
	Timestamp        time.Time            `json:"timestamp"`
	Success          bool                 `json:"success"`
	ErrorCount       int                  `json:"error_count"`
	Errors           []CategorizedError   `json:"errors"`
	ErrorsByCategory map[DiagCategory]int `json:"errors_by_category"`
	Output           string               `json:"output"`
	ProjectKind      ProjectKind          `json:"detected_project_kind"`
	BuildStrategy    BuildStrategy        `json:"detected_build_strategy"`
	SuggestedFixes   []FixSuggestion      `json:"suggested_fixes,omitempty"`
}

// ResurrectionVerdict is the structural diff between the baseline and final
// compilation checks. Derived and read-only.
type ResurrectionVerdict struct {
	BaselineCompilation  BaselineCompilationResult `json:"baseline_compilation"`
	FinalCompilation     BaselineCompilationResult `json:"final_compilation"`
	Resurrected          bool                      `json:"resurrected"`
	ErrorsFixed          int                       `json:"errors_fixed"`
	ErrorsRemaining      int                       `json:"errors_remaining"`
	ErrorsFixedByCat     map[DiagCategory]int      `json:"errors_fixed_by_category"`
	ErrorsRemainingByCat map[DiagCategory]int      `json:"errors_remaining_by_category"`
	FixedErrors          []CategorizedError        `json:"fixed_errors"`
	NewErrors            []CategorizedError        `json:"new_errors"`
}

// GenerateResurrectionVerdict diffs two compilation snapshots. Resurrected
// means the repository went from broken to building. Fixed/new error lists
// are the structural set difference keyed on (file, line, code, message).
func GenerateResurrectionVerdict(baseline, final BaselineCompilationResult) ResurrectionVerdict {
	v := ResurrectionVerdict{
		BaselineCompilation:  baseline,
		FinalCompilation:     final,
		Resurrected:          !baseline.Success && final.Success,
		ErrorsRemaining:      final.ErrorCount,
		ErrorsFixedByCat:     map[DiagCategory]int{},
		ErrorsRemainingByCat: map[DiagCategory]int{},
	}

	if fixed := baseline.ErrorCount - final.ErrorCount; fixed > 0 {
		v.ErrorsFixed = fixed
	}

	finalKeys := make(map[[4]string]bool, len(final.Errors))
	for _, e := range final.Errors {
		finalKeys[e.key()] = true
		v.ErrorsRemainingByCat[e.Category]++
	}
	baseKeys := make(map[[4]string]bool, len(baseline.Errors))
	for _, e := range baseline.Errors {
		baseKeys[e.key()] = true
	}

	for _, e := range baseline.Errors {
		if !finalKeys[e.key()] {
			v.FixedErrors = append(v.FixedErrors, e)
			v.ErrorsFixedByCat[e.Category]++
		}
	}
	for _, e := range final.Errors {
		if !baseKeys[e.key()] {
			v.NewErrors = append(v.NewErrors, e)
		}
	}

	return v
}

// CountByCategory tallies diagnostics per category.
func CountByCategory(errs []CategorizedError) map[DiagCategory]int {
	out := make(map[DiagCategory]int)
	for _, e := range errs {
		out[e.Category]++
	}
	return out
}
