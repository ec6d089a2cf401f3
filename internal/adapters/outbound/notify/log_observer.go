// Package notify delivers engine progress events as structured log lines.
package notify

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/abdidvp/lazarus/internal/domain"
)

// LogObserver implements domain.Observer on top of charmbracelet/log.
type LogObserver struct {
	logger *log.Logger
}

// New creates a LogObserver writing to w.
func New(w io.Writer) *LogObserver {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "lazarus",
	})
	return &LogObserver{logger: logger}
}

func (o *LogObserver) IterationStarted(iteration, maxIterations int) {
	o.logger.Info("validation iteration", "iteration", iteration, "max", maxIterations)
}

func (o *LogObserver) AnalysisCompleted(iteration int, errors []domain.AnalyzedError) {
	if len(errors) == 0 {
		o.logger.Info("build clean", "iteration", iteration)
		return
	}
	o.logger.Warn("build errors analyzed", "iteration", iteration, "count", len(errors),
		"top", string(errors[0].Category))
}

func (o *LogObserver) FixApplied(fix domain.AppliedFix) {
	o.logger.Info("applying fix", "iteration", fix.Iteration,
		"category", string(fix.Error.Category), "strategy", fix.Strategy.Describe())
}

func (o *LogObserver) FixOutcome(fix domain.AppliedFix) {
	if fix.Succeeded {
		o.logger.Info("fix applied", "strategy", fix.Strategy.Describe())
		return
	}
	o.logger.Warn("fix failed", "strategy", fix.Strategy.Describe())
}

func (o *LogObserver) BatchStarted(batch domain.UpdateBatch) {
	o.logger.Info("batch started", "id", batch.ID, "summary", domain.DescribeBatch(batch))
}

func (o *LogObserver) BatchCompleted(batch domain.UpdateBatch, result domain.BatchResult) {
	failed := 0
	for _, p := range result.Packages {
		if p.Status != domain.UpdateApplied {
			failed++
		}
	}
	o.logger.Info("batch completed", "id", batch.ID,
		"packages", len(result.Packages), "failed", failed)
}

func (o *LogObserver) PackageUpdateStarted(item domain.ResurrectionPlanItem) {
	o.logger.Info("updating package", "package", item.PackageName,
		"from", item.CurrentVersion, "to", item.TargetVersion)
}

func (o *LogObserver) PackageUpdateCompleted(result domain.PackageUpdateResult) {
	if result.Status == domain.UpdateApplied {
		o.logger.Info("package updated", "package", result.Item.PackageName)
		return
	}
	o.logger.Warn("package update failed", "package", result.Item.PackageName,
		"status", string(result.Status), "error", result.Error)
}
