// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate applies citation trust scores to the documents on state.
// It is the only component that appends to the state's hallucination flags,
// and the only one allowed to rewrite a document's status, trust score, and
// flag set.
package validate

import (
	"context"
	"strings"

	"github.com/pdiddy/thesis-engine/internal/trust"
	"github.com/pdiddy/thesis-engine/pkg/types"
)

// Flag values attached to documents during validation. Trust evaluator
// warnings are carried verbatim alongside these.
const (
	FlagMissingDOI     = "missing_doi"
	FlagNoCoverage     = "no_coverage"
	FlagManualReview   = "manual_review_required"
	FlagContrastExcess = "contrasting evidence exceeds supporting"
	FlagLowTrust       = "trust_score_below_threshold"
)

// ScoreFunc evaluates a batch of DOIs. The default is a trust.Evaluator;
// tests inject canned results.
type ScoreFunc func(ctx context.Context, dois []string) []trust.Result

// Validate scores every document and rewrites its validation state. A
// document with no DOI, or one the evaluator has no result for, lands in
// needs_review with a zero trust score. A scored document accumulates
// flags; any flag excludes it and records a joined diagnostic on the
// state's hallucination flags. Documents are never reordered or removed.
func Validate(ctx context.Context, state types.ThesisState, cfg types.ValidationConfig, score ScoreFunc) types.ThesisState {
	out := state.Clone()

	var dois []string
	for _, doc := range out.Documents {
		if doc.DOI != "" {
			dois = append(dois, doc.DOI)
		}
	}

	byDOI := make(map[string]trust.Result)
	if len(dois) > 0 && score != nil {
		for _, result := range score(ctx, dois) {
			if result.DOI != "" {
				byDOI[result.DOI] = result
			}
		}
	}

	for i := range out.Documents {
		doc := &out.Documents[i]
		flags := append([]string(nil), doc.Flags...)

		switch {
		case doc.DOI == "":
			doc.Status = types.DocNeedsReview
			doc.TrustScore = 0.0
			flags = append(flags, FlagMissingDOI)

		case hasResult(byDOI, doc.DOI):
			result := byDOI[doc.DOI]
			doc.TrustScore = result.TrustScore

			if result.Warning != "" {
				flags = append(flags, result.Warning)
			}
			if result.ManualReviewRequired {
				flags = append(flags, FlagManualReview)
			}
			if exceedsContrastRatio(result, cfg.ContrastRatio) {
				flags = append(flags, FlagContrastExcess)
			}
			if result.TrustScore < cfg.MinTrustScore {
				flags = append(flags, FlagLowTrust)
			}

			if len(flags) > 0 {
				doc.Status = types.DocExcluded
				out.HallucinationFlags = append(out.HallucinationFlags,
					doc.ID+": "+strings.Join(flags, "; "))
			} else {
				doc.Status = types.DocValidated
			}

		default:
			doc.Status = types.DocNeedsReview
			doc.TrustScore = 0.0
			flags = append(flags, FlagNoCoverage)
		}

		doc.SetFlags(flags)
	}

	return out
}

func hasResult(byDOI map[string]trust.Result, doi string) bool {
	_, ok := byDOI[doi]
	return ok
}

// exceedsContrastRatio reports whether contrasting evidence dominates:
// contrasting > max(1, supporting) * ratio. The max guard keeps a single
// contrasting citation from excluding an otherwise unexamined document.
func exceedsContrastRatio(result trust.Result, ratio float64) bool {
	supporting := result.Supporting
	if supporting < 1 {
		supporting = 1
	}
	return float64(result.Contrasting) > float64(supporting)*ratio
}
