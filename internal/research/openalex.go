// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/thesis-engine/internal/httputil"
	"github.com/pdiddy/thesis-engine/pkg/types"
)

// openAlexAPIBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// NewOpenAlexSearch returns a SearchFunc backed by the OpenAlex Works
// API. OpenAlex serves abstracts as inverted indexes; results come back
// with the abstract reconstructed into plain text.
func NewOpenAlexSearch(client *http.Client, cfg types.ResearchConfig) SearchFunc {
	return func(topic, perspective string) ([]SearchResult, error) {
		return openAlexSearch(context.Background(), client, cfg, topic, perspective)
	}
}

type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string           `json:"id"`
	DisplayName           string           `json:"display_name"`
	DOI                   string           `json:"doi"`
	PublicationYear       int              `json:"publication_year"`
	CitedByCount          int              `json:"cited_by_count"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}

func openAlexSearch(ctx context.Context, client *http.Client, cfg types.ResearchConfig, topic, perspective string) ([]SearchResult, error) {
	maxResults := cfg.MaxResultsPerPerspective
	if maxResults <= 0 {
		maxResults = 1
	}

	params := url.Values{
		"search":   {topic + " " + perspective},
		"per_page": {fmt.Sprintf("%d", maxResults)},
		"page":     {"1"},
	}
	if cfg.OpenAlexEmail != "" {
		params.Set("mailto", cfg.OpenAlexEmail)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	var results []SearchResult
	for _, work := range oar.Results {
		results = append(results, SearchResult{
			Title:         work.DisplayName,
			Abstract:      InvertAbstract(work.AbstractInvertedIndex),
			DOI:           strings.TrimPrefix(work.DOI, "https://doi.org/"),
			PaperID:       work.ID,
			Year:          work.PublicationYear,
			CitationCount: work.CitedByCount,
		})
	}
	return results, nil
}
