// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package novelty scores a candidate hypothesis against prior related work
// and decides whether the hypothesis must pivot. Similarity is token-set
// Jaccard over the four facets of a FacetProfile; the novelty score is one
// minus the closest profile-level similarity.
package novelty

import (
	"strings"
	"unicode"

	"github.com/pdiddy/thesis-engine/pkg/types"
)

// Result holds a novelty assessment. OverlappingFacet and ClosestSimilarity
// are unset when no related profiles were compared.
type Result struct {
	// NoveltyScore is 1 - ClosestSimilarity, or 1.0 with no related work.
	NoveltyScore float64 `json:"novelty_score" yaml:"novelty_score"`

	// PivotRequired reports whether the closest similarity reached the
	// pivot threshold.
	PivotRequired bool `json:"pivot_required" yaml:"pivot_required"`

	// OverlappingFacet names the dominant facet of the closest profile.
	OverlappingFacet string `json:"overlapping_facet,omitempty" yaml:"overlapping_facet,omitempty"`

	// ClosestSimilarity is the highest profile-level similarity found.
	ClosestSimilarity *float64 `json:"closest_similarity,omitempty" yaml:"closest_similarity,omitempty"`
}

// Assess compares base against each related profile and returns the novelty
// assessment. With no related profiles the hypothesis is fully novel:
// score 1.0, no pivot.
func Assess(base types.FacetProfile, related []types.FacetProfile, pivotThreshold float64) Result {
	if len(related) == 0 {
		return Result{NoveltyScore: 1.0}
	}

	bestSimilarity := -1.0
	bestFacet := ""
	for _, candidate := range related {
		similarity, dominant := profileSimilarity(base, candidate)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			bestFacet = dominant
		}
	}

	closest := bestSimilarity
	return Result{
		NoveltyScore:      1 - bestSimilarity,
		PivotRequired:     bestSimilarity >= pivotThreshold,
		OverlappingFacet:  bestFacet,
		ClosestSimilarity: &closest,
	}
}

// profileSimilarity averages the four facet similarities and returns that
// average together with the dominant facet (the facet with the highest
// similarity, first in canonical facet order on ties).
func profileSimilarity(base, candidate types.FacetProfile) (float64, string) {
	sum := 0.0
	dominant := ""
	dominantScore := -1.0
	for _, facet := range types.FacetNames {
		score := facetSimilarity(base.Facet(facet), candidate.Facet(facet))
		sum += score
		if score > dominantScore {
			dominantScore = score
			dominant = facet
		}
	}
	return sum / float64(len(types.FacetNames)), dominant
}

// facetSimilarity is the Jaccard index over the two texts' token sets.
// An empty token set on either side yields 0.0 rather than an undefined
// ratio.
func facetSimilarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range tokensA {
		if tokensB[token] {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	return float64(intersection) / float64(union)
}

// tokenize lowercases text, strips punctuation, and returns the word set.
func tokenize(text string) map[string]bool {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	tokens := make(map[string]bool)
	for _, field := range strings.Fields(b.String()) {
		tokens[field] = true
	}
	return tokens
}

// pivotHints maps the overlapping facet to a domain-specific reframing of
// the application facet.
var pivotHints = map[string]string{
	types.FacetPurpose:     "human-in-the-loop oversight",
	types.FacetMechanism:   "retrieval-aware curriculum",
	types.FacetEvaluation:  "longitudinal peer review",
	types.FacetApplication: "low-resource domains",
}

// reframedSuffix is appended to the purpose facet on pivot.
const reframedSuffix = " (reframed for novelty)"

// Pivot deterministically rewrites the application and purpose facets to
// steer the hypothesis away from the overlapping facet. Mechanism and
// evaluation are never touched. An unknown overlapping facet falls back to
// the application hint.
func Pivot(base types.FacetProfile, overlappingFacet string) types.FacetProfile {
	hint, ok := pivotHints[overlappingFacet]
	if !ok {
		hint = pivotHints[types.FacetApplication]
	}

	out := base
	out.Application = base.Application + " pivoted toward " + hint
	out.Purpose = base.Purpose + reframedSuffix
	return out
}
