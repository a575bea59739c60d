// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality applies staged quality gates to a thesis run: citation
// coverage over the manuscript, novelty of the hypothesis, and health of
// the trust evaluation pipeline. Gates are advisory; the supervisor and
// the operator decide what to do with a warn or block.
package quality

import (
	"fmt"
	"sort"

	"github.com/pdiddy/thesis-engine/pkg/types"
)

// GateStatus is the aggregate outcome of a gate evaluation.
type GateStatus string

const (
	GatePass  GateStatus = "pass"
	GateWarn  GateStatus = "warn"
	GateBlock GateStatus = "block"
)

// CitationCoverage reports how many assigned sources the manuscript
// actually cites.
type CitationCoverage struct {
	CoverageRate  float64
	Missing       map[string][]string
	TotalAssigned int
	TotalCited    int
}

// EvaluatorHealth carries health signals from the trust evaluation run:
// transient failures plus any false positives or negatives found by
// spot-checking the evaluator against known tallies.
type EvaluatorHealth struct {
	Failures       int
	FalsePositives int
	FalseNegatives int
}

// GateReport is the result of evaluating all gates against a state.
type GateReport struct {
	Status        GateStatus
	Warnings      []string
	Blocks        []string
	RetryRequired bool
	Coverage      CitationCoverage
	NoveltyScore  *float64
}

// AssignSources distributes document ids across sections round-robin,
// maxPerSection at a time, wrapping over the document list. Sections come
// back cloned with AssignedSources set; with no documents the outline is
// returned cloned but unassigned.
func AssignSources(outline []types.Section, documents []types.ResearchDocument, maxPerSection int) []types.Section {
	if len(outline) == 0 {
		return nil
	}

	assigned := make([]types.Section, 0, len(outline))
	if len(documents) == 0 {
		for _, section := range outline {
			assigned = append(assigned, section.Clone())
		}
		return assigned
	}

	ids := make([]string, len(documents))
	for i, doc := range documents {
		ids[i] = doc.ID
	}

	count := maxPerSection
	if count < 1 {
		count = 1
	}

	idx := 0
	for _, section := range outline {
		clone := section.Clone()
		clone.AssignedSources = make([]string, 0, count)
		for i := 0; i < count; i++ {
			clone.AssignedSources = append(clone.AssignedSources, ids[idx%len(ids)])
			idx++
		}
		assigned = append(assigned, clone)
	}
	return assigned
}

// ComputeCoverage measures assigned-versus-cited sources per section.
// Duplicate ids within a section count once. A run with nothing assigned
// has full coverage.
func ComputeCoverage(sections []types.Section) CitationCoverage {
	coverage := CitationCoverage{Missing: map[string][]string{}}
	totalMissing := 0

	for _, section := range sections {
		assigned := uniqueSet(section.AssignedSources)
		cited := uniqueSet(section.Citations)
		coverage.TotalAssigned += len(assigned)
		coverage.TotalCited += len(cited)

		var diff []string
		for id := range assigned {
			if _, ok := cited[id]; !ok {
				diff = append(diff, id)
			}
		}
		if len(diff) > 0 {
			sort.Strings(diff)
			coverage.Missing[section.ID] = diff
			totalMissing += len(diff)
		}
	}

	if coverage.TotalAssigned == 0 {
		coverage.CoverageRate = 1.0
	} else {
		coverage.CoverageRate = float64(coverage.TotalAssigned-totalMissing) / float64(coverage.TotalAssigned)
	}
	return coverage
}

// EvaluateGates applies the coverage, novelty, and evaluator-health gates
// in order. Any false positive or negative from the trust pipeline blocks
// outright since it means the validation signal itself cannot be trusted.
func EvaluateGates(state types.ThesisState, health EvaluatorHealth, cfg types.QualityConfig) GateReport {
	report := GateReport{
		Coverage:     ComputeCoverage(state.Manuscript),
		NoveltyScore: state.NoveltyScore,
	}

	if report.Coverage.CoverageRate < cfg.CoverageBlockThreshold && len(report.Coverage.Missing) > 0 {
		report.Blocks = append(report.Blocks, "Citation coverage below required 100%; missing citations present.")
	} else if report.Coverage.CoverageRate < cfg.CoverageWarnThreshold {
		report.Warnings = append(report.Warnings, "Citation coverage below 98%; review missing citations.")
	}

	if state.NoveltyScore != nil {
		novelty := *state.NoveltyScore
		switch {
		case novelty >= cfg.NoveltyBlock:
			report.Blocks = append(report.Blocks, fmt.Sprintf("Novelty score %.2f exceeds blocking threshold.", novelty))
		case novelty >= cfg.NoveltyWarn:
			report.Warnings = append(report.Warnings, fmt.Sprintf("Novelty score %.2f exceeds warning threshold.", novelty))
		}
	}

	if health.FalsePositives > 0 || health.FalseNegatives > 0 {
		report.Blocks = append(report.Blocks, fmt.Sprintf(
			"Scite validation produced false positives (%d) / false negatives (%d); manual review required.",
			health.FalsePositives, health.FalseNegatives))
	}

	if health.Failures > 0 {
		report.Warnings = append(report.Warnings, "Scite failures encountered; retry validation.")
		report.RetryRequired = true
	}

	switch {
	case len(report.Blocks) > 0:
		report.Status = GateBlock
	case len(report.Warnings) > 0:
		report.Status = GateWarn
	default:
		report.Status = GatePass
	}
	return report
}

func uniqueSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
