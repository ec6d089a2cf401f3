package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"
)

// Batch priorities. Security fixes always run first, isolated major bumps
// second, grouped minor/patch updates last.
const (
	PrioritySecurity   = 1000
	PriorityMajorBump  = 500
	PriorityMinorPatch = 100
)

// BatchOptions bounds batch construction.
type BatchOptions struct {
	MaxBatchSize int
	// RiskSizeThreshold is the batch size at which a grouped minor/patch
	// batch is escalated to high risk.
	RiskSizeThreshold int
}

// DefaultBatchOptions returns the planner defaults.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{MaxBatchSize: 5, RiskSizeThreshold: 8}
}

// CreateBatches partitions plan items into three disjoint groups: security
// fixes (packed highest-priority first), major version bumps (one singleton
// batch each, so a compile break bisects to exactly one commit), and grouped
// minor/patch updates. The multiset of packages across all batches equals
// the input.
func CreateBatches(items []ResurrectionPlanItem, opts BatchOptions) []UpdateBatch {
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = DefaultBatchOptions().MaxBatchSize
	}
	if opts.RiskSizeThreshold <= 0 {
		opts.RiskSizeThreshold = DefaultBatchOptions().RiskSizeThreshold
	}

	var security, major, rest []ResurrectionPlanItem
	for _, it := range items {
		switch {
		case it.FixesVulnerabilities:
			security = append(security, it)
		case IsMajorBump(it.CurrentVersion, it.TargetVersion):
			major = append(major, it)
		default:
			rest = append(rest, it)
		}
	}

	// Security items are packed highest-priority first; spillover keeps
	// relative order in additional same-priority batches.
	sort.SliceStable(security, func(i, j int) bool {
		return security[i].Priority > security[j].Priority
	})

	var batches []UpdateBatch
	for _, chunk := range chunkItems(security, opts.MaxBatchSize) {
		batches = append(batches, UpdateBatch{
			ID:            uuid.NewString(),
			Packages:      chunk,
			Priority:      PrioritySecurity,
			EstimatedRisk: RiskMedium,
		})
	}

	for _, it := range major {
		batches = append(batches, UpdateBatch{
			ID:            uuid.NewString(),
			Packages:      []ResurrectionPlanItem{it},
			Priority:      PriorityMajorBump,
			EstimatedRisk: RiskHigh,
		})
	}

	for _, chunk := range chunkItems(rest, opts.MaxBatchSize) {
		risk := RiskLow
		if len(chunk) >= opts.RiskSizeThreshold {
			risk = RiskHigh
		}
		batches = append(batches, UpdateBatch{
			ID:            uuid.NewString(),
			Packages:      chunk,
			Priority:      PriorityMinorPatch,
			EstimatedRisk: risk,
		})
	}

	return batches
}

// ReorderForSafety returns batches sorted by descending priority. The sort is
// stable, so all security batches precede all major-bump batches, which
// precede all minor/patch batches.
func ReorderForSafety(batches []UpdateBatch) []UpdateBatch {
	out := make([]UpdateBatch, len(batches))
	copy(out, batches)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// IsMajorBump reports whether the target version crosses a major-version
// boundary relative to the current one. Range-operator prefixes (^, ~, >=)
// are ignored; only the leading numeric segment counts.
func IsMajorBump(current, target string) bool {
	cur := canonicalSemver(current)
	tgt := canonicalSemver(target)
	if cur == "" || tgt == "" {
		return false
	}
	return semver.Major(cur) != semver.Major(tgt)
}

// canonicalSemver strips range operators and returns a "vX.Y.Z"-style string
// that golang.org/x/mod/semver accepts, or "" when unparseable.
func canonicalSemver(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimLeft(v, "^~=<> ")
	v = strings.TrimPrefix(v, "v")
	if v == "" || v == "latest" || v == "*" {
		return ""
	}
	// Pad partial versions ("18", "18.2") so semver parses them.
	switch strings.Count(v, ".") {
	case 0:
		v += ".0.0"
	case 1:
		v += ".0"
	}
	canon := "v" + v
	if !semver.IsValid(canon) {
		return ""
	}
	return canon
}

// FlattenBatches returns every plan item across the batches in batch order.
func FlattenBatches(batches []UpdateBatch) []ResurrectionPlanItem {
	var out []ResurrectionPlanItem
	for _, b := range batches {
		out = append(out, b.Packages...)
	}
	return out
}

// chunkItems splits items into consecutive slices of at most size elements.
func chunkItems(items []ResurrectionPlanItem, size int) [][]ResurrectionPlanItem {
	var chunks [][]ResurrectionPlanItem
	for len(items) > 0 {
		n := size
		if len(items) < n {
			n = len(items)
		}
		chunks = append(chunks, items[:n])
		items = items[n:]
	}
	return chunks
}

// DescribeBatch returns a short label for logs and rendering.
func DescribeBatch(b UpdateBatch) string {
	kind := "minor/patch"
	switch b.Priority {
	case PrioritySecurity:
		kind = "security"
	case PriorityMajorBump:
		kind = "major"
	}
	return fmt.Sprintf("%s batch (%d packages, %s risk)", kind, len(b.Packages), b.EstimatedRisk)
}
