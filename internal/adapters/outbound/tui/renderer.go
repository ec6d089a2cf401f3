// Package tui renders verdicts, batches, and validation results for the
// terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/lazarus/internal/domain"
)

// ── warm terminal palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderVerdict renders the resurrection verdict summary.
func RenderVerdict(v *domain.ResurrectionVerdict) string {
	var b strings.Builder

	outcome := failStyle.Render("STILL DEAD")
	if v.Resurrected {
		outcome = passStyle.Render("RESURRECTED")
	} else if v.BaselineCompilation.Success {
		outcome = warnStyle.Render("WAS NEVER BROKEN")
	}

	title := headerStyle.Render("lazarus")
	subtitle := dimStyle.Render("Resurrection Verdict")
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + outcome))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %s %s → %s\n",
		titleStyle.Render("Compilation"),
		renderBuildState(v.BaselineCompilation.Success),
		renderBuildState(v.FinalCompilation.Success)))
	b.WriteString(fmt.Sprintf("  %s %d fixed, %d remaining, %d new\n",
		titleStyle.Render("Errors     "),
		v.ErrorsFixed, v.ErrorsRemaining, len(v.NewErrors)))
	b.WriteString(fmt.Sprintf("  %s %s via %s\n",
		titleStyle.Render("Strategy   "),
		string(v.BaselineCompilation.BuildStrategy),
		string(v.BaselineCompilation.ProjectKind)))

	if len(v.ErrorsRemainingByCat) > 0 {
		b.WriteString("\n" + separatorLine + "\n")
		for cat, n := range v.ErrorsRemainingByCat {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				warnStyle.Render(fmt.Sprintf("%3d", n)),
				dimStyle.Render(string(cat))))
		}
	}

	return b.String()
}

// RenderProof renders one compilation check snapshot.
func RenderProof(r *domain.BaselineCompilationResult) string {
	var b strings.Builder

	state := failStyle.Render("broken")
	if r.Success {
		state = passStyle.Render("building")
	}
	b.WriteString(fmt.Sprintf("%s %s %s\n",
		titleStyle.Render("Compilation"),
		state,
		dimStyle.Render(fmt.Sprintf("(%s via %s)", r.BuildStrategy, r.ProjectKind))))

	if r.ErrorCount > 0 {
		b.WriteString(fmt.Sprintf("  %s errors\n", warnStyle.Render(fmt.Sprintf("%d", r.ErrorCount))))
		for cat, n := range r.ErrorsByCategory {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				warnStyle.Render(fmt.Sprintf("%3d", n)),
				dimStyle.Render(string(cat))))
		}
	}

	for _, s := range r.SuggestedFixes {
		marker := dimStyle.Render("·")
		if s.AutoApplicable {
			marker = passStyle.Render("·")
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", marker, dimStyle.Render(s.Description)))
	}

	return b.String()
}

// RenderHistory renders the per-repository fix memory.
func RenderHistory(h *domain.FixHistory) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Fix history") +
		dimStyle.Render(fmt.Sprintf("  %d entries", len(h.Fixes))) + "\n")
	b.WriteString(separatorLine + "\n")

	if len(h.Fixes) == 0 {
		b.WriteString(dimStyle.Render("no recorded fixes\n"))
		return b.String()
	}

	for _, f := range h.Fixes {
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			passStyle.Render(fmt.Sprintf("%3d×", f.SuccessCount)),
			f.Strategy.Describe(),
			faintStyle.Render(f.ErrorPattern)))
	}
	if !h.LastResurrection.IsZero() {
		b.WriteString(dimStyle.Render(
			fmt.Sprintf("last resurrection %s\n", h.LastResurrection.Format("2006-01-02 15:04"))))
	}
	return b.String()
}

// RenderBatches renders the planned update batches in execution order.
func RenderBatches(batches []domain.UpdateBatch) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Update plan") +
		dimStyle.Render(fmt.Sprintf("  %d batches", len(batches))) + "\n")
	b.WriteString(separatorLine + "\n")

	for i, batch := range batches {
		b.WriteString(fmt.Sprintf("%s %s\n",
			dimStyle.Render(fmt.Sprintf("%2d.", i+1)),
			domain.DescribeBatch(batch)))
		for _, pkg := range batch.Packages {
			line := fmt.Sprintf("     %s %s → %s",
				pkg.PackageName, pkg.CurrentVersion, pkg.TargetVersion)
			if pkg.FixesVulnerabilities {
				line += " " + failStyle.Render(fmt.Sprintf("(%d vulns)", pkg.VulnerabilityCount))
			}
			b.WriteString(dimStyle.Render(line) + "\n")
		}
	}
	return b.String()
}

// RenderValidation renders the post-resurrection validation outcome.
func RenderValidation(r *domain.ValidationResult) string {
	var b strings.Builder

	state := failStyle.Render(string(r.Outcome))
	if r.Success {
		state = passStyle.Render("build repaired")
	}
	b.WriteString(fmt.Sprintf("%s %s %s\n",
		titleStyle.Render("Validation"),
		state,
		dimStyle.Render(fmt.Sprintf("(%d iterations)", r.Iterations))))

	for _, fix := range r.AppliedFixes {
		mark := failStyle.Render("✗")
		if fix.Succeeded {
			mark = passStyle.Render("✓")
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			mark,
			fix.Strategy.Describe(),
			faintStyle.Render(fmt.Sprintf("iteration %d", fix.Iteration))))
	}

	for _, e := range r.RemainingErrors {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			warnStyle.Render(string(e.Category)),
			dimStyle.Render(truncate(e.Message, 80))))
	}

	if r.Proof != nil {
		b.WriteString(separatorLine + "\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("proof: %s  %s  %dms\n",
			shortHash(r.Proof.OutputHash), r.Proof.BuildCommand, r.Proof.DurationMs)))
	}

	return b.String()
}

func renderBuildState(ok bool) string {
	if ok {
		return passStyle.Render("building")
	}
	return failStyle.Render("broken")
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
