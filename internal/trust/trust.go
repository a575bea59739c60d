// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trust scores document trustworthiness from citation tallies.
// The primary path queries the Scite tallies API; when no credential is
// configured, citation-context snippets are classified into stances
// instead. Every external failure is recovered locally into a
// zero-confidence result carrying a warning: no error crosses the
// evaluator boundary.
package trust

import (
	"errors"
	"math"
)

// Stance labels one citation context.
type Stance string

const (
	StanceSupporting  Stance = "supporting"
	StanceMentioning  Stance = "mentioning"
	StanceContrasting Stance = "contrasting"
)

// Result sources. "scite" is the primary tally service; "fallback" marks a
// recovered primary-path failure; "llm_fallback" marks the
// context-classification path.
const (
	SourceScite       = "scite"
	SourceFallback    = "fallback"
	SourceLLMFallback = "llm_fallback"
)

// ErrMissingAPIKey is a configuration error: the strict citation check was
// requested without a Scite credential. It is fatal, never defaulted.
var ErrMissingAPIKey = errors.New("scite api key is not configured")

// Tallies holds supporting/mentioning/contrasting citation counts for one DOI.
type Tallies struct {
	Supporting  int `json:"supporting" yaml:"supporting"`
	Mentioning  int `json:"mentioning" yaml:"mentioning"`
	Contrasting int `json:"contrasting" yaml:"contrasting"`
}

// Total returns the sum of all three counts.
func (t Tallies) Total() int {
	return t.Supporting + t.Mentioning + t.Contrasting
}

// Score computes the trust score: (supporting + 0.5*mentioning) / total,
// rounded to 3 decimal places, or 0.0 when no citations were tallied.
func (t Tallies) Score() float64 {
	total := t.Total()
	if total == 0 {
		return 0.0
	}
	score := (float64(t.Supporting) + 0.5*float64(t.Mentioning)) / float64(total)
	return math.Round(score*1000) / 1000
}

// Result is the trust evaluation for one DOI.
type Result struct {
	DOI         string `json:"doi" yaml:"doi"`
	Supporting  int    `json:"supporting" yaml:"supporting"`
	Mentioning  int    `json:"mentioning" yaml:"mentioning"`
	Contrasting int    `json:"contrasting" yaml:"contrasting"`

	// TrustScore is in [0,1]; 0.0 exactly when the total tally is zero.
	TrustScore float64 `json:"trust_score" yaml:"trust_score"`

	// Warning describes why the result needs human attention, empty when
	// the evaluation was clean.
	Warning string `json:"warning,omitempty" yaml:"warning,omitempty"`

	// Source records which path produced the result: scite, fallback, or
	// llm_fallback.
	Source string `json:"source" yaml:"source"`

	// Reason is a short machine-readable cause for fallback results
	// (rate_limit, coverage, error).
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// ManualReviewRequired is set whenever a warning was attached.
	ManualReviewRequired bool `json:"manual_review_required" yaml:"manual_review_required"`
}

// resultFromTallies builds a clean-path result, attaching at most one
// warning: empty coverage is checked first, then contrasting dominance.
func resultFromTallies(doi string, t Tallies, source string) Result {
	warning := ""
	if t.Total() == 0 {
		warning = "citation coverage is empty; manual verification recommended."
	} else if t.Contrasting > t.Supporting {
		warning = "contrasting evidence exceeds supporting citations."
	}

	return Result{
		DOI:                  doi,
		Supporting:           t.Supporting,
		Mentioning:           t.Mentioning,
		Contrasting:          t.Contrasting,
		TrustScore:           t.Score(),
		Warning:              warning,
		Source:               source,
		ManualReviewRequired: warning != "",
	}
}

// zeroConfidence builds a recovered-failure result.
func zeroConfidence(doi, warning, source, reason string) Result {
	return Result{
		DOI:                  doi,
		TrustScore:           0.0,
		Warning:              warning,
		Source:               source,
		Reason:               reason,
		ManualReviewRequired: true,
	}
}
