package diag

import (
	"strconv"
	"strings"

	"github.com/abdidvp/lazarus/internal/domain"
)

// Categorize maps a compiler diagnostic to a proof-engine category. Numeric
// code ranges decide first; message keywords break ties for codes outside
// the known ranges.
func Categorize(code, message string) domain.DiagCategory {
	if n, ok := diagNumber(code); ok {
		switch {
		case n == 2307 || n == 2305:
			return domain.DiagImport
		case n >= 1000 && n < 2000:
			return domain.DiagSyntax
		case n >= 2000 && n < 3000:
			return domain.DiagType
		case n >= 5000 && n < 7000:
			return domain.DiagConfig
		}
	}
	return categorizeByMessage(message)
}

func diagNumber(code string) (int, bool) {
	code = strings.TrimPrefix(strings.ToUpper(code), "TS")
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, false
	}
	return n, true
}

func categorizeByMessage(message string) domain.DiagCategory {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "module") || strings.Contains(msg, "resolve"):
		return domain.DiagImport
	case strings.Contains(msg, "unexpected") || strings.Contains(msg, "syntax"):
		return domain.DiagSyntax
	case strings.Contains(msg, "peer dep") || strings.Contains(msg, "dependency"):
		return domain.DiagDependency
	case strings.Contains(msg, "config") || strings.Contains(msg, "tsconfig") ||
		strings.Contains(msg, "webpack") || strings.Contains(msg, "vite") ||
		strings.Contains(msg, "rollup"):
		return domain.DiagConfig
	default:
		return domain.DiagType
	}
}
