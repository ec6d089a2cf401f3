package domain

import (
	"regexp"
	"sort"
	"strings"
)

// categoryPattern is one entry in the ordered detection table. The first
// pattern that matches the combined output claims the error.
type categoryPattern struct {
	category ErrorCategory
	re       *regexp.Regexp
	// pkgGroup and verGroup are capture group indexes for package name and
	// version constraint; 0 means the group is absent.
	pkgGroup int
	verGroup int
}

// Detection order matters: lockfile conflicts mask version conflicts, which
// mask peer conflicts, and so on down to the unknown fallback.
var categoryPatterns = []categoryPattern{
	{
		category: CategoryLockfileConflict,
		re:       regexp.MustCompile(`(?im)(?:merge conflict in (package-lock\.json|yarn\.lock|pnpm-lock\.yaml)|(package-lock\.json|yarn\.lock|pnpm-lock\.yaml)[^\n]*(?:out of (?:date|sync)|needs to be updated)|can only install with an existing (package-lock\.json)|lockfile[^\n]*conflict)`),
	},
	{
		category: CategoryVersionConflict,
		re:       regexp.MustCompile(`(?im)(?:No matching version found for (\S+)@(\S+)|code ETARGET|Could not resolve dependency:\s+\S+ (\S+)@)`),
		pkgGroup: 1,
		verGroup: 2,
	},
	{
		category: CategoryPeerConflict,
		re:       regexp.MustCompile(`(?im)(?:ERESOLVE (?:unable to resolve|could not resolve)|Conflicting peer dependency:\s*(\S+)@\S+|peer (\S+)@"([^"]+)")`),
		pkgGroup: 1,
		verGroup: 3,
	},
	{
		category: CategoryNativeModuleFailure,
		re:       regexp.MustCompile(`(?im)(?:node-gyp|gyp ERR!|prebuild-install|node-pre-gyp|make: \*\*\*)`),
	},
	{
		category: CategoryGitDependencyFailure,
		re:       regexp.MustCompile(`(?im)(?:ENOGIT|git dep preparation failed|Command failed: git |fatal: (?:repository .* not found|unable to access))`),
	},
	{
		category: CategoryDependencyNotFound,
		re:       regexp.MustCompile(`(?im)(?:Cannot find module '([^']+)'|404\s+Not Found[^\n]*?:\s*(\S+)|Module not found: (?:Error: )?Can't resolve '([^']+)')`),
		pkgGroup: 1,
	},
	{
		category: CategorySyntaxError,
		re:       regexp.MustCompile(`(?im)(?:SyntaxError|Unexpected token|error TS1\d{3})`),
	},
	{
		// TS1xxx codes are syntax diagnostics and belong to the entry above.
		category: CategoryTypeError,
		re:       regexp.MustCompile(`(?im)error TS[2-9]\d{3}`),
	},
}

// categoryPriority ranks categories for fix ordering. Lockfile conflicts go
// first because they poison every later install; unknown goes last.
var categoryPriority = map[ErrorCategory]int{
	CategoryLockfileConflict:     100,
	CategoryVersionConflict:      90,
	CategoryPeerConflict:         80,
	CategoryNativeModuleFailure:  70,
	CategoryGitDependencyFailure: 60,
	CategoryDependencyNotFound:   50,
	CategorySyntaxError:          40,
	CategoryTypeError:            30,
	CategoryUnknown:              10,
}

// AnalyzeOutput classifies a failed compilation into structured errors, one
// per detected category. Table order resolves overlapping claims: output that
// matches an earlier pattern is already explained and a later pattern only
// adds a distinct error, never a reclassification. Malformed or unrecognized
// output never fails; it degrades to a single unknown-category error so the
// loop always has something to act on.
func AnalyzeOutput(result CompilationResult) []AnalyzedError {
	if result.Success {
		return nil
	}

	output := result.CombinedOutput()
	var errs []AnalyzedError
	for _, cp := range categoryPatterns {
		m := cp.re.FindStringSubmatch(output)
		if m == nil {
			continue
		}

		err := AnalyzedError{
			Category: cp.category,
			Message:  strings.TrimSpace(m[0]),
			Priority: categoryPriority[cp.category],
		}
		err.Package, err.VersionConstraint = extractPackageInfo(m, cp)
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return []AnalyzedError{{
			Category: CategoryUnknown,
			Message:  firstNonEmptyLine(output),
			Priority: categoryPriority[CategoryUnknown],
		}}
	}
	return errs
}

// extractPackageInfo pulls the package name and version constraint from the
// pattern's capture groups. Alternation means the declared group may be
// empty while a later one matched, so scan forward from the declared index.
func extractPackageInfo(m []string, cp categoryPattern) (pkg, ver string) {
	if cp.pkgGroup > 0 {
		for i := cp.pkgGroup; i < len(m); i++ {
			if m[i] != "" {
				pkg = m[i]
				break
			}
		}
	}
	if cp.verGroup > 0 && cp.verGroup < len(m) {
		ver = m[cp.verGroup]
	}
	// Scoped packages keep their scope; strip any trailing version suffix.
	if at := strings.LastIndex(pkg, "@"); at > 0 {
		if ver == "" {
			ver = pkg[at+1:]
		}
		pkg = pkg[:at]
	}
	// Relative imports are project files, not installable packages.
	if strings.HasPrefix(pkg, ".") || strings.HasPrefix(pkg, "/") {
		pkg = ""
	}
	return pkg, ver
}

// Prioritize sorts errors by descending category priority, stable for ties.
func Prioritize(errs []AnalyzedError) []AnalyzedError {
	out := make([]AnalyzedError, len(errs))
	copy(out, errs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

func firstNonEmptyLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return "build failed with no output"
}
