// Package diag parses and categorizes compiler diagnostics for the
// compilation proof engine.
package diag

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/abdidvp/lazarus/internal/domain"
)

// The two equivalent textual layouts tsc emits depending on invocation:
//
//	src/app.ts(10,5): error TS2307: Cannot find module 'lodash'.
//	src/app.ts:10:5 - error TS2307: Cannot find module 'lodash'.
var (
	parenLayout = regexp.MustCompile(`(?m)^(.+?)\((\d+),(\d+)\): error (TS\d+): (.+)$`)
	colonLayout = regexp.MustCompile(`(?m)^(.+?):(\d+):(\d+) - error (TS\d+): (.+)$`)
)

// ParseErrors extracts every diagnostic from raw compiler output, matching
// both layouts and deduplicating across them by (file, line, code).
func ParseErrors(output string) []domain.CategorizedError {
	type dedupKey struct {
		file string
		line int
		code string
	}
	seen := make(map[dedupKey]bool)
	var errs []domain.CategorizedError

	for _, re := range []*regexp.Regexp{parenLayout, colonLayout} {
		for _, m := range re.FindAllStringSubmatch(output, -1) {
			line, _ := strconv.Atoi(m[2])
			col, _ := strconv.Atoi(m[3])
			key := dedupKey{file: m[1], line: line, code: m[4]}
			if seen[key] {
				continue
			}
			seen[key] = true

			msg := strings.TrimSpace(m[5])
			errs = append(errs, domain.CategorizedError{
				File:     m[1],
				Line:     line,
				Column:   col,
				Code:     m[4],
				Message:  msg,
				Category: Categorize(m[4], msg),
			})
		}
	}
	return errs
}

// missingModuleRe pulls module names out of import diagnostics.
var missingModuleRe = regexp.MustCompile(`Cannot find module '([^']+)'`)

// MissingModules returns the distinct module names referenced by
// import-category diagnostics, in first-seen order.
func MissingModules(errs []domain.CategorizedError) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range errs {
		if e.Category != domain.DiagImport {
			continue
		}
		m := missingModuleRe.FindStringSubmatch(e.Message)
		if m == nil {
			continue
		}
		name := m[1]
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "/") {
			continue // project-relative import, not an installable package
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
