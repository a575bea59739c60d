// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trust

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/thesis-engine/pkg/types"
)

// ContextFetcher retrieves citation-context snippets for a DOI from an
// external index (OpenAlex, Semantic Scholar, COCI, ...).
type ContextFetcher func(ctx context.Context, doi string) ([]string, error)

// Classifier assigns a stance to each snippet, one label per input.
type Classifier func(contexts []string) ([]Stance, error)

// ErrNoContexts marks a DOI with no retrievable citation contexts.
var ErrNoContexts = errors.New("no citation contexts available")

// errClassify wraps classifier failures so the recovery path can tell them
// apart from fetch failures.
type errClassify struct{ err error }

func (e *errClassify) Error() string { return "classifying citation contexts: " + e.err.Error() }
func (e *errClassify) Unwrap() error { return e.err }

// DefaultClassifier labels contexts with keyword heuristics: refutation
// vocabulary marks contrasting, "support" marks supporting, everything
// else is a mention.
func DefaultClassifier(contexts []string) ([]Stance, error) {
	labels := make([]Stance, len(contexts))
	for i, text := range contexts {
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(lower, "refute"),
			strings.Contains(lower, "contradict"),
			strings.Contains(lower, "contrast"):
			labels[i] = StanceContrasting
		case strings.Contains(lower, "support"):
			labels[i] = StanceSupporting
		default:
			labels[i] = StanceMentioning
		}
	}
	return labels, nil
}

// tallyStances counts stance labels, treating unknown labels as mentions.
func tallyStances(labels []Stance) Tallies {
	var t Tallies
	for _, label := range labels {
		switch Stance(strings.ToLower(strings.TrimSpace(string(label)))) {
		case StanceSupporting:
			t.Supporting++
		case StanceContrasting:
			t.Contrasting++
		default:
			t.Mentioning++
		}
	}
	return t
}

// strategy is one fallible evaluation attempt for a DOI. recover converts
// the strategy's failure into the zero-confidence result that stands in
// for it.
type strategy struct {
	run     func(ctx context.Context, doi string) (Result, error)
	recover func(doi string, err error) Result
}

// runStrategies composes strategies left to right, short-circuiting on the
// first success. When every strategy fails, the recovery of the last
// failure is returned, so the caller always gets a usable Result.
func runStrategies(ctx context.Context, doi string, strategies []strategy) Result {
	var recovered Result
	for _, s := range strategies {
		result, err := s.run(ctx, doi)
		if err == nil {
			return result
		}
		recovered = s.recover(doi, err)
	}
	return recovered
}

// Evaluator scores DOIs through the configured strategy chain: Scite when
// a credential exists, citation-context classification otherwise.
type Evaluator struct {
	scite    *SciteClient
	fetch    ContextFetcher
	classify Classifier
}

// EvaluatorOptions override the fallback-path collaborators.
type EvaluatorOptions struct {
	// Fetch retrieves citation contexts; defaults to an empty fetch.
	Fetch ContextFetcher

	// Classify labels the contexts; defaults to DefaultClassifier.
	Classify Classifier
}

// NewEvaluator builds the trust evaluator. With a Scite key configured the
// primary tally path is used; otherwise the context-classification path.
// Construction never fails: a missing credential selects the fallback
// chain instead of erroring.
func NewEvaluator(client *http.Client, cfg types.TrustConfig, opts EvaluatorOptions) *Evaluator {
	e := &Evaluator{
		fetch:    opts.Fetch,
		classify: opts.Classify,
	}
	if cfg.SciteAPIKey != "" {
		sc, err := NewSciteClient(client, cfg)
		if err == nil {
			e.scite = sc
		}
	}
	if e.fetch == nil {
		e.fetch = func(context.Context, string) ([]string, error) { return nil, nil }
	}
	if e.classify == nil {
		e.classify = DefaultClassifier
	}
	return e
}

// Evaluate scores each DOI in order, fully evaluating one before moving to
// the next. The returned slice is parallel to dois. No failure propagates:
// every entry is a usable Result.
func (e *Evaluator) Evaluate(ctx context.Context, dois []string) []Result {
	results := make([]Result, 0, len(dois))
	for _, doi := range dois {
		results = append(results, runStrategies(ctx, doi, e.strategies()))
	}
	return results
}

// strategies returns the ordered chain for this configuration.
func (e *Evaluator) strategies() []strategy {
	if e.scite != nil {
		return []strategy{e.sciteStrategy()}
	}
	return []strategy{e.contextStrategy()}
}

// sciteStrategy wraps the primary path. EvaluateDOI self-recovers, so the
// strategy itself cannot fail.
func (e *Evaluator) sciteStrategy() strategy {
	return strategy{
		run: func(ctx context.Context, doi string) (Result, error) {
			return e.scite.EvaluateDOI(ctx, doi), nil
		},
		recover: func(doi string, err error) Result {
			return zeroConfidence(doi, fmt.Sprintf("Scite unavailable: %v.", err), SourceFallback, "error")
		},
	}
}

// contextStrategy fetches citation contexts and classifies their stances.
// Each failure mode recovers to its own descriptive warning.
func (e *Evaluator) contextStrategy() strategy {
	return strategy{
		run: func(ctx context.Context, doi string) (Result, error) {
			contexts, err := e.fetch(ctx, doi)
			if err != nil {
				return Result{}, fmt.Errorf("fetching citation contexts: %w", err)
			}
			if len(contexts) == 0 {
				return Result{}, ErrNoContexts
			}
			labels, err := e.classify(contexts)
			if err != nil {
				return Result{}, &errClassify{err: err}
			}
			result := resultFromTallies(doi, tallyStances(labels), SourceLLMFallback)
			return result, nil
		},
		recover: func(doi string, err error) Result {
			var ce *errClassify
			switch {
			case errors.Is(err, ErrNoContexts):
				return zeroConfidence(doi, "No citation contexts available.", SourceLLMFallback, "no_contexts")
			case errors.As(err, &ce):
				return zeroConfidence(doi, fmt.Sprintf("Classification failed: %v.", ce.err), SourceLLMFallback, "classify")
			default:
				return zeroConfidence(doi, fmt.Sprintf("Failed to fetch citation contexts: %v.", err), SourceLLMFallback, "fetch")
			}
		},
	}
}
