package notify_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/notify"
	"github.com/abdidvp/lazarus/internal/domain"
)

func TestLogObserver_EmitsStructuredLines(t *testing.T) {
	buf := new(bytes.Buffer)
	obs := notify.New(buf)

	obs.IterationStarted(1, 10)
	obs.AnalysisCompleted(1, []domain.AnalyzedError{
		{Category: domain.CategoryPeerConflict, Message: "conflict"},
	})
	fix := domain.AppliedFix{
		Iteration: 1,
		Error:     domain.AnalyzedError{Category: domain.CategoryPeerConflict},
		Strategy:  domain.FixStrategy{Kind: domain.StrategyLegacyPeerDeps},
		Succeeded: true,
	}
	obs.FixApplied(fix)
	obs.FixOutcome(fix)

	out := buf.String()
	assert.Contains(t, out, "lazarus")
	assert.Contains(t, out, "validation iteration")
	assert.Contains(t, out, "peer_dependency_conflict")
	assert.Contains(t, out, "relaxed peer dependency")
}

func TestLogObserver_BatchEvents(t *testing.T) {
	buf := new(bytes.Buffer)
	obs := notify.New(buf)

	batch := domain.UpdateBatch{
		ID:            "b1",
		Packages:      []domain.ResurrectionPlanItem{{PackageName: "lodash"}},
		Priority:      domain.PrioritySecurity,
		EstimatedRisk: domain.RiskMedium,
	}
	obs.BatchStarted(batch)
	obs.PackageUpdateStarted(batch.Packages[0])
	obs.PackageUpdateCompleted(domain.PackageUpdateResult{
		Item: batch.Packages[0], Status: domain.UpdateRolledBack, Error: "build broke",
	})
	obs.BatchCompleted(batch, domain.BatchResult{BatchID: "b1", Packages: []domain.PackageUpdateResult{
		{Item: batch.Packages[0], Status: domain.UpdateRolledBack},
	}})

	out := buf.String()
	assert.Contains(t, out, "security batch")
	assert.Contains(t, out, "lodash")
	assert.Contains(t, out, "rolled_back")
	assert.Contains(t, out, "batch completed")
}
