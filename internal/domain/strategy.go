package domain

import "fmt"

// StrategyKind tags the FixStrategy variant.
type StrategyKind string

const (
	StrategyAdjustVersion     StrategyKind = "adjust_version"
	StrategyLegacyPeerDeps    StrategyKind = "legacy_peer_deps"
	StrategyRemoveLockfile    StrategyKind = "remove_lockfile"
	StrategySubstitutePackage StrategyKind = "substitute_package"
	StrategyRemovePackage     StrategyKind = "remove_package"
	StrategyAddResolution     StrategyKind = "add_resolution"
	StrategyForceInstall      StrategyKind = "force_install"
)

// FixStrategy is one concrete remediation action. Immutable after selection;
// only the fields relevant to the kind are set.
type FixStrategy struct {
	Kind        StrategyKind `json:"kind"`
	Package     string       `json:"package,omitempty"`
	NewVersion  string       `json:"new_version,omitempty"`
	Replacement string       `json:"replacement,omitempty"`
	Lockfile    string       `json:"lockfile,omitempty"`
}

// Key returns a stable identity used for the per-run tried set and history matching.
func (s FixStrategy) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", s.Kind, s.Package, s.NewVersion, s.Replacement, s.Lockfile)
}

// Describe returns a short human-readable summary of the action.
func (s FixStrategy) Describe() string {
	switch s.Kind {
	case StrategyAdjustVersion:
		return fmt.Sprintf("pin %s to %s", s.Package, s.NewVersion)
	case StrategyLegacyPeerDeps:
		return "reinstall with relaxed peer dependency checks"
	case StrategyRemoveLockfile:
		return fmt.Sprintf("delete %s and reinstall", s.Lockfile)
	case StrategySubstitutePackage:
		return fmt.Sprintf("replace %s with %s", s.Package, s.Replacement)
	case StrategyRemovePackage:
		return fmt.Sprintf("remove %s", s.Package)
	case StrategyAddResolution:
		return fmt.Sprintf("force resolution %s@%s", s.Package, s.NewVersion)
	case StrategyForceInstall:
		return "reinstall with --force"
	default:
		return string(s.Kind)
	}
}

// knownSubstitutes maps packages with chronic native build failures to
// maintained drop-in replacements.
var knownSubstitutes = map[string]string{
	"node-sass": "sass",
	"bcrypt":    "bcryptjs",
	"phantomjs": "puppeteer",
}

// StrategyEngine maps error categories to candidate strategies and tracks
// which strategies were already attempted in the current run. It performs
// no filesystem or process I/O; applying a strategy is the caller's concern.
type StrategyEngine struct {
	tried map[string]bool
}

func NewStrategyEngine() *StrategyEngine {
	return &StrategyEngine{tried: make(map[string]bool)}
}

// SelectStrategy picks the next strategy for an error: a previously
// successful one from history when available, else the first untried
// static candidate. Returns false when every candidate was attempted.
func (e *StrategyEngine) SelectStrategy(err AnalyzedError, history *FixHistory) (FixStrategy, bool) {
	if history != nil {
		for _, hf := range history.Lookup(err.Pattern()) {
			if !e.tried[hf.Strategy.Key()] {
				return hf.Strategy, true
			}
		}
	}
	for _, s := range e.candidates(err) {
		if !e.tried[s.Key()] {
			return s, true
		}
	}
	return FixStrategy{}, false
}

// HasUntriedStrategies reports whether any candidate remains for the error.
func (e *StrategyEngine) HasUntriedStrategies(err AnalyzedError) bool {
	for _, s := range e.candidates(err) {
		if !e.tried[s.Key()] {
			return true
		}
	}
	return false
}

// MarkStrategyAttempted adds the strategy to the per-run tried set.
func (e *StrategyEngine) MarkStrategyAttempted(s FixStrategy) {
	e.tried[s.Key()] = true
}

// ResetAttemptedStrategies clears the tried set. Called when the error count
// drops, so exhausted strategies can be retried against a changed problem.
func (e *StrategyEngine) ResetAttemptedStrategies() {
	e.tried = make(map[string]bool)
}

// candidates returns the static, ordered remediation list for an error.
func (e *StrategyEngine) candidates(err AnalyzedError) []FixStrategy {
	pkg := err.Package
	switch err.Category {
	case CategoryLockfileConflict:
		return []FixStrategy{
			{Kind: StrategyRemoveLockfile, Lockfile: "package-lock.json"},
			{Kind: StrategyRemoveLockfile, Lockfile: "yarn.lock"},
			{Kind: StrategyRemoveLockfile, Lockfile: "pnpm-lock.yaml"},
		}
	case CategoryVersionConflict:
		out := []FixStrategy{}
		if pkg != "" {
			out = append(out,
				FixStrategy{Kind: StrategyAdjustVersion, Package: pkg, NewVersion: "latest"},
				FixStrategy{Kind: StrategyAddResolution, Package: pkg, NewVersion: "latest"},
			)
		}
		return append(out, FixStrategy{Kind: StrategyForceInstall})
	case CategoryPeerConflict:
		out := []FixStrategy{{Kind: StrategyLegacyPeerDeps}}
		if pkg != "" {
			out = append(out, FixStrategy{Kind: StrategyAddResolution, Package: pkg, NewVersion: "latest"})
		}
		return append(out, FixStrategy{Kind: StrategyForceInstall})
	case CategoryNativeModuleFailure:
		var out []FixStrategy
		if sub, ok := knownSubstitutes[pkg]; ok {
			out = append(out, FixStrategy{Kind: StrategySubstitutePackage, Package: pkg, Replacement: sub})
		}
		if pkg != "" {
			out = append(out, FixStrategy{Kind: StrategyRemovePackage, Package: pkg})
		}
		return out
	case CategoryDependencyNotFound:
		if pkg == "" {
			return nil
		}
		return []FixStrategy{
			{Kind: StrategyAdjustVersion, Package: pkg, NewVersion: "latest"},
			{Kind: StrategyRemovePackage, Package: pkg},
		}
	case CategoryGitDependencyFailure:
		if pkg == "" {
			return nil
		}
		return []FixStrategy{
			{Kind: StrategyAdjustVersion, Package: pkg, NewVersion: "latest"},
			{Kind: StrategyRemovePackage, Package: pkg},
		}
	case CategoryUnknown:
		return []FixStrategy{{Kind: StrategyForceInstall}}
	default:
		// syntax_error and type_error have no automated remediation.
		return nil
	}
}
