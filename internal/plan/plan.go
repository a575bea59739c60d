// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan builds the thesis outline and hypothesis. It runs the
// novelty assessment first so a pivoted hypothesis feeds into the table of
// contents, then flattens the three-level TOC into the ordered section list
// stored on state.
package plan

import (
	"fmt"
	"math"

	"github.com/pdiddy/thesis-engine/internal/novelty"
	"github.com/pdiddy/thesis-engine/pkg/types"
)

// TOCNode is a node in the three-level table of contents.
type TOCNode struct {
	Title    string
	Children []TOCNode
}

// Options control a planning run. Facets defaults to a topic-derived
// profile; RelatedProfiles feed the novelty assessment.
type Options struct {
	Facets          *types.FacetProfile
	RelatedProfiles []types.FacetProfile
}

// Plan generates the outline, hypothesis, and novelty score, returning the
// updated state. The input state is never modified.
func Plan(state types.ThesisState, cfg types.PlannerConfig, opts Options) types.ThesisState {
	facets := defaultFacets(state.Topic)
	if opts.Facets != nil {
		facets = *opts.Facets
	}

	assessment := novelty.Assess(facets, opts.RelatedProfiles, cfg.PivotThreshold)
	if assessment.PivotRequired {
		facets = novelty.Pivot(facets, assessment.OverlappingFacet)
	}

	toc := buildTOC(state.Topic, facets)

	out := state.Clone()
	out.Hypothesis = ComposeHypothesis(facets, assessment.PivotRequired)
	out.Outline = Flatten(toc)
	score := round3(math.Max(assessment.NoveltyScore, 0))
	out.NoveltyScore = &score
	return out
}

// ComposeHypothesis renders the facets as a hypothesis sentence, prefixed
// with "Pivot: " when the planner had to pivot.
func ComposeHypothesis(facets types.FacetProfile, pivoted bool) string {
	base := fmt.Sprintf(
		"We hypothesize that %s can be achieved using %s. "+
			"We will evaluate success via %s and ground the work in %s.",
		facets.Purpose, facets.Mechanism, facets.Evaluation, facets.Application,
	)
	if pivoted {
		return "Pivot: " + base
	}
	return base
}

// Flatten assigns dot-delimited hierarchical IDs by depth-first traversal
// in declaration order and prefixes each title with its ID. Every section
// starts pending.
func Flatten(nodes []TOCNode) []types.Section {
	return flatten(nodes, "")
}

func flatten(nodes []TOCNode, prefix string) []types.Section {
	var sections []types.Section
	for i, node := range nodes {
		id := fmt.Sprintf("%d", i+1)
		if prefix != "" {
			id = prefix + "." + id
		}
		sections = append(sections, types.Section{
			ID:     id,
			Title:  id + ". " + node.Title,
			Status: types.SectionPending,
		})
		if len(node.Children) > 0 {
			sections = append(sections, flatten(node.Children, id)...)
		}
	}
	return sections
}

// buildTOC returns the fixed six-chapter outline. Each chapter has exactly
// two subsections and each subsection one leaf tying the chapter to a facet
// or the topic.
func buildTOC(topic string, facets types.FacetProfile) []TOCNode {
	return []TOCNode{
		{
			Title: "Introduction",
			Children: []TOCNode{
				{Title: "Motivation and Scope", Children: []TOCNode{
					{Title: "Problem framing: " + topic},
				}},
				{Title: "Central Hypothesis", Children: []TOCNode{
					{Title: facets.Purpose},
				}},
			},
		},
		{
			Title: "Literature Review",
			Children: []TOCNode{
				{Title: "Perspective Survey", Children: []TOCNode{
					{Title: "Mechanism landscape: " + facets.Mechanism},
				}},
				{Title: "Novelty Gaps", Children: []TOCNode{
					{Title: "Applications frontier: " + facets.Application},
				}},
			},
		},
		{
			Title: "Methodology",
			Children: []TOCNode{
				{Title: "Planning Graph Design", Children: []TOCNode{
					{Title: "Three-level outline construction"},
				}},
				{Title: "Novelty Evaluation Pipeline", Children: []TOCNode{
					{Title: "Metrics: " + facets.Evaluation},
				}},
			},
		},
		{
			Title: "Results",
			Children: []TOCNode{
				{Title: "Ablation and Baselines", Children: []TOCNode{
					{Title: "Impact of perspective diversity"},
				}},
				{Title: "Novelty Outcomes", Children: []TOCNode{
					{Title: "Pivot vs non-pivot comparisons"},
				}},
			},
		},
		{
			Title: "Discussion",
			Children: []TOCNode{
				{Title: "Implications", Children: []TOCNode{
					{Title: "Risks and limitations"},
				}},
				{Title: "Future Work", Children: []TOCNode{
					{Title: "Extending to additional domains"},
				}},
			},
		},
		{
			Title: "Conclusion",
			Children: []TOCNode{
				{Title: "Summary of Findings", Children: []TOCNode{
					{Title: "Restating the hypothesis and novelty"},
				}},
				{Title: "Practical Recommendations", Children: []TOCNode{
					{Title: "Deployment considerations"},
				}},
			},
		},
	}
}

// defaultFacets derives a starting profile from the topic alone.
func defaultFacets(topic string) types.FacetProfile {
	return types.FacetProfile{
		Purpose:     "establish a novel thesis plan around " + topic,
		Mechanism:   "multi-perspective research planner",
		Evaluation:  "outline coverage and novelty scoring",
		Application: "graduate-level research reports",
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
