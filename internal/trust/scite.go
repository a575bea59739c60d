// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trust

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/thesis-engine/internal/httputil"
	"github.com/pdiddy/thesis-engine/pkg/types"
)

// sciteAPIBase is the Scite tallies endpoint. Declared as a var so tests
// can substitute an httptest server.
var sciteAPIBase = "https://api.scite.ai/tallies"

// Distinguishable Scite failure modes. Both recover to zero-confidence
// results; callers use errors.Is to pick the warning text.
var (
	// ErrRateLimited is returned when Scite answers 429 even after the
	// retry budget is spent.
	ErrRateLimited = errors.New("scite api rate limit reached")

	// ErrNoCoverage is returned when Scite has no record of the DOI.
	ErrNoCoverage = errors.New("scite has no coverage for this doi")
)

// SciteClient fetches citation tallies from the Scite API.
type SciteClient struct {
	client *http.Client
	apiKey string
	cfg    types.HTTPConfig
}

// NewSciteClient builds a tallies client. A missing API key is a
// configuration error and is never silently defaulted.
func NewSciteClient(client *http.Client, cfg types.TrustConfig) (*SciteClient, error) {
	if cfg.SciteAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &SciteClient{client: client, apiKey: cfg.SciteAPIKey, cfg: cfg.HTTPConfig}, nil
}

type talliesResponse struct {
	Tallies *struct {
		Supporting  int `json:"supporting"`
		Mentioning  int `json:"mentioning"`
		Contrasting int `json:"contrasting"`
	} `json:"tallies"`
}

// FetchTallies retrieves the citation tallies for a DOI. Rate limiting and
// missing coverage map to ErrRateLimited and ErrNoCoverage respectively;
// any other failure is a generic transport error.
func (c *SciteClient) FetchTallies(ctx context.Context, doi string) (Tallies, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sciteAPIBase+"/"+doi, nil)
	if err != nil {
		return Tallies{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return Tallies{}, fmt.Errorf("scite api request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return Tallies{}, ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return Tallies{}, ErrNoCoverage
	case resp.StatusCode != http.StatusOK:
		return Tallies{}, fmt.Errorf("scite api returned HTTP %d", resp.StatusCode)
	}

	var tr talliesResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Tallies{}, fmt.Errorf("parsing scite response: %w", err)
	}
	if tr.Tallies == nil {
		return Tallies{}, fmt.Errorf("scite response missing tallies")
	}

	return Tallies{
		Supporting:  tr.Tallies.Supporting,
		Mentioning:  tr.Tallies.Mentioning,
		Contrasting: tr.Tallies.Contrasting,
	}, nil
}

// EvaluateDOI fetches tallies and computes a trust result. It never returns
// an error: every failure degrades to a zero-confidence result with a
// descriptive warning and manual review required.
func (c *SciteClient) EvaluateDOI(ctx context.Context, doi string) Result {
	tallies, err := c.FetchTallies(ctx, doi)
	switch {
	case errors.Is(err, ErrRateLimited):
		return zeroConfidence(doi,
			"Scite API rate limit reached. Manual approval or alternate source required.",
			SourceFallback, "rate_limit")
	case errors.Is(err, ErrNoCoverage):
		return zeroConfidence(doi,
			"Scite has no coverage for this DOI. Please verify manually or use alternative source.",
			SourceFallback, "coverage")
	case err != nil:
		return zeroConfidence(doi, fmt.Sprintf("Scite error: %v.", err), SourceFallback, "error")
	}

	return resultFromTallies(doi, tallies, SourceScite)
}

// CheckCitations evaluates every DOI through Scite. It is the strict
// primary path: a missing credential fails fast rather than degrading.
func CheckCitations(ctx context.Context, client *http.Client, cfg types.TrustConfig, dois []string) ([]Result, error) {
	sc, err := NewSciteClient(client, cfg)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(dois))
	for _, doi := range dois {
		results = append(results, sc.EvaluateDOI(ctx, doi))
	}
	return results, nil
}
