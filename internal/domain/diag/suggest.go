package diag

import (
	"fmt"

	"github.com/abdidvp/lazarus/internal/domain"
)

// GenerateFixSuggestions emits one suggestion per non-empty error category.
// Import suggestions are auto-applicable when concrete missing module names
// could be extracted; dependency suggestions are auto-applicable generically.
func GenerateFixSuggestions(errs []domain.CategorizedError) []domain.FixSuggestion {
	counts := domain.CountByCategory(errs)
	var out []domain.FixSuggestion

	// Fixed emission order keeps output stable across runs.
	for _, cat := range []domain.DiagCategory{
		domain.DiagImport, domain.DiagDependency, domain.DiagSyntax,
		domain.DiagType, domain.DiagConfig,
	} {
		n := counts[cat]
		if n == 0 {
			continue
		}
		s := domain.FixSuggestion{Category: cat}
		switch cat {
		case domain.DiagImport:
			missing := MissingModules(errs)
			if len(missing) > 0 {
				s.Description = fmt.Sprintf("install %d missing package(s)", len(missing))
				s.Packages = missing
				s.AutoApplicable = true
			} else {
				s.Description = fmt.Sprintf("resolve %d unresolved import(s)", n)
			}
		case domain.DiagDependency:
			s.Description = fmt.Sprintf("reconcile %d dependency error(s) via reinstall", n)
			s.AutoApplicable = true
		case domain.DiagSyntax:
			s.Description = fmt.Sprintf("fix %d syntax error(s) by hand", n)
		case domain.DiagType:
			s.Description = fmt.Sprintf("fix %d type error(s), likely from changed APIs", n)
		case domain.DiagConfig:
			s.Description = fmt.Sprintf("review build configuration (%d error(s))", n)
		}
		out = append(out, s)
	}
	return out
}
