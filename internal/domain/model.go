package domain

import (
	"time"
)

// PackageManager identifies the package manager driving installs and builds.
type PackageManager string

const (
	PMNpm  PackageManager = "npm"
	PMYarn PackageManager = "yarn"
	PMPnpm PackageManager = "pnpm"
)

// Lockfile returns the lockfile name owned by the package manager.
func (pm PackageManager) Lockfile() string {
	switch pm {
	case PMYarn:
		return "yarn.lock"
	case PMPnpm:
		return "pnpm-lock.yaml"
	default:
		return "package-lock.json"
	}
}

// CompilationResult is the raw outcome of one build/verify subprocess run.
type CompilationResult struct {
	Success    bool   `json:"success"`
	ExitCode   int    `json:"exit_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	DurationMs int64  `json:"duration_ms"`
	Command    string `json:"command"`
	TimedOut   bool   `json:"timed_out,omitempty"`
}

// CombinedOutput returns stdout and stderr joined for pattern matching.
func (r CompilationResult) CombinedOutput() string {
	if r.Stdout == "" {
		return r.Stderr
	}
	if r.Stderr == "" {
		return r.Stdout
	}
	return r.Stdout + "\n" + r.Stderr
}

// ErrorCategory classifies a build failure for the repair loop.
type ErrorCategory string

const (
	CategoryDependencyNotFound   ErrorCategory = "dependency_not_found"
	CategoryVersionConflict      ErrorCategory = "dependency_version_conflict"
	CategoryPeerConflict         ErrorCategory = "peer_dependency_conflict"
	CategoryNativeModuleFailure  ErrorCategory = "native_module_failure"
	CategoryLockfileConflict     ErrorCategory = "lockfile_conflict"
	CategoryGitDependencyFailure ErrorCategory = "git_dependency_failure"
	CategorySyntaxError          ErrorCategory = "syntax_error"
	CategoryTypeError            ErrorCategory = "type_error"
	CategoryUnknown              ErrorCategory = "unknown"
)

// AnalyzedError is one classified build error with extracted package info.
type AnalyzedError struct {
	Category          ErrorCategory `json:"category"`
	Message           string        `json:"message"`
	Package           string        `json:"package,omitempty"`
	VersionConstraint string        `json:"version_constraint,omitempty"`
	Priority          int           `json:"priority"`
}

// Pattern returns the normalized history key for this error.
// Errors with the same category and package share remediation history.
func (e AnalyzedError) Pattern() string {
	if e.Package == "" {
		return string(e.Category)
	}
	return string(e.Category) + ":" + e.Package
}

// AppliedFix is one fix attempt made during a validation run. Append-only.
type AppliedFix struct {
	Iteration int           `json:"iteration"`
	Error     AnalyzedError `json:"error"`
	Strategy  FixStrategy   `json:"strategy"`
	Succeeded bool          `json:"succeeded"`
}

// HistoricalFix records that a strategy previously resolved an error pattern.
type HistoricalFix struct {
	ErrorPattern string      `json:"error_pattern"`
	Strategy     FixStrategy `json:"strategy"`
	SuccessCount int         `json:"success_count"`
	LastUsed     time.Time   `json:"last_used"`
}

// FixHistory is the durable per-repository fix memory. Grows monotonically.
type FixHistory struct {
	RepoID           string          `json:"repo_id"`
	Fixes            []HistoricalFix `json:"fixes"`
	LastResurrection time.Time       `json:"last_resurrection"`
}

// Record increments the success count for (pattern, strategy), appending a
// new entry when the pair has not been seen before.
func (h *FixHistory) Record(pattern string, strategy FixStrategy, now time.Time) {
	for i := range h.Fixes {
		if h.Fixes[i].ErrorPattern == pattern && h.Fixes[i].Strategy.Key() == strategy.Key() {
			h.Fixes[i].SuccessCount++
			h.Fixes[i].LastUsed = now
			return
		}
	}
	h.Fixes = append(h.Fixes, HistoricalFix{
		ErrorPattern: pattern,
		Strategy:     strategy,
		SuccessCount: 1,
		LastUsed:     now,
	})
}

// Lookup returns recorded strategies for an error pattern, most successful first.
func (h *FixHistory) Lookup(pattern string) []HistoricalFix {
	var out []HistoricalFix
	for _, f := range h.Fixes {
		if f.ErrorPattern == pattern {
			out = append(out, f)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].SuccessCount > out[j-1].SuccessCount; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// RiskLevel estimates how likely a batch is to break the build.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ResurrectionPlanItem is one planned dependency change. Produced by an
// external planning stage, consumed exactly once by the batch planner.
type ResurrectionPlanItem struct {
	PackageName          string `json:"package_name"`
	CurrentVersion       string `json:"current_version"`
	TargetVersion        string `json:"target_version"`
	Priority             int    `json:"priority"`
	Reason               string `json:"reason,omitempty"`
	FixesVulnerabilities bool   `json:"fixes_vulnerabilities"`
	VulnerabilityCount   int    `json:"vulnerability_count,omitempty"`
}

// UpdateBatch is a risk-scored group of plan items applied and validated as a unit.
type UpdateBatch struct {
	ID            string                 `json:"id"`
	Packages      []ResurrectionPlanItem `json:"packages"`
	Priority      int                    `json:"priority"`
	EstimatedRisk RiskLevel              `json:"estimated_risk"`
}

// UpdateStatus is the per-item outcome of batch execution.
type UpdateStatus string

const (
	UpdateApplied    UpdateStatus = "applied"
	UpdateFailed     UpdateStatus = "failed"
	UpdateRolledBack UpdateStatus = "rolled_back"
)

// PackageUpdateResult records what happened to one plan item.
type PackageUpdateResult struct {
	Item   ResurrectionPlanItem `json:"item"`
	Status UpdateStatus         `json:"status"`
	Error  string               `json:"error,omitempty"`
}

// BatchResult summarizes execution of one batch.
type BatchResult struct {
	BatchID  string                `json:"batch_id"`
	Packages []PackageUpdateResult `json:"packages"`
}

// RollbackResult is the outcome of reverting the most recent commit.
// Failure is reported in-band, never as a panic.
type RollbackResult struct {
	Success               bool   `json:"success"`
	RolledBackCommit      string `json:"rolled_back_commit,omitempty"`
	CommitMessage         string `json:"commit_message,omitempty"`
	NewHead               string `json:"new_head,omitempty"`
	HadUncommittedChanges bool   `json:"had_uncommitted_changes,omitempty"`
	Error                 string `json:"error,omitempty"`
}

// CompilationProof is a tamper-evident record that a build succeeded.
type CompilationProof struct {
	Timestamp          time.Time      `json:"timestamp"`
	BuildCommand       string         `json:"build_command"`
	ExitCode           int            `json:"exit_code"`
	DurationMs         int64          `json:"duration_ms"`
	OutputHash         string         `json:"output_hash"`
	PackageManager     PackageManager `json:"package_manager"`
	IterationsRequired int            `json:"iterations_required"`
}

// ValidationOutcome is the terminal state of the post-resurrection validator.
type ValidationOutcome string

const (
	OutcomeSuccess       ValidationOutcome = "success"
	OutcomeMaxIterations ValidationOutcome = "failure_max_iterations"
	OutcomeNoProgress    ValidationOutcome = "failure_no_progress"
)

// ValidationResult is the full outcome of a post-resurrection validation run.
// It is always populated, even on worst-case failure.
type ValidationResult struct {
	Success         bool              `json:"success"`
	Outcome         ValidationOutcome `json:"outcome"`
	Iterations      int               `json:"iterations"`
	Proof           *CompilationProof `json:"compilation_proof,omitempty"`
	AppliedFixes    []AppliedFix      `json:"applied_fixes"`
	RemainingErrors []AnalyzedError   `json:"remaining_errors"`
	DurationMs      int64             `json:"duration_ms"`
}

// ResurrectionReport is the top-level output of a full resurrection run.
type ResurrectionReport struct {
	RepoPath   string               `json:"repo_path"`
	Verdict    *ResurrectionVerdict `json:"verdict"`
	Batches    []BatchResult        `json:"batches,omitempty"`
	Validation *ValidationResult    `json:"validation,omitempty"`
	DurationMs int64                `json:"duration_ms"`
}
