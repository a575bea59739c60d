// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/thesis-engine/internal/httputil"
	"github.com/pdiddy/thesis-engine/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "paperId,title,abstract,externalIds,year,citationCount"

// NewSemanticScholarSearch returns a SearchFunc backed by the Semantic
// Scholar Graph API. The query combines the topic with the perspective so
// each perspective retrieves a distinct slice of the literature.
func NewSemanticScholarSearch(client *http.Client, cfg types.ResearchConfig) SearchFunc {
	return func(topic, perspective string) ([]SearchResult, error) {
		return semanticSearch(context.Background(), client, cfg, topic, perspective)
	}
}

type semanticResponse struct {
	Data []struct {
		PaperID       string `json:"paperId"`
		Title         string `json:"title"`
		Abstract      string `json:"abstract"`
		Year          int    `json:"year"`
		CitationCount int    `json:"citationCount"`
		ExternalIDs   struct {
			DOI string `json:"DOI"`
		} `json:"externalIds"`
	} `json:"data"`
}

func semanticSearch(ctx context.Context, client *http.Client, cfg types.ResearchConfig, topic, perspective string) ([]SearchResult, error) {
	limit := cfg.MaxResultsPerPerspective
	if limit <= 0 {
		limit = 2
	}

	params := url.Values{
		"query":  {topic + " " + perspective},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.SemanticScholarAPIKey != "" {
		req.Header.Set("x-api-key", cfg.SemanticScholarAPIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var results []SearchResult
	for _, paper := range sr.Data {
		results = append(results, SearchResult{
			Title:         paper.Title,
			Abstract:      paper.Abstract,
			DOI:           paper.ExternalIDs.DOI,
			PaperID:       paper.PaperID,
			Year:          paper.Year,
			CitationCount: paper.CitationCount,
		})
	}
	return results, nil
}

// InvertAbstract reconstructs abstract text from an OpenAlex-style inverted
// index (token to positions). Some search sources only ship the inverted
// form.
func InvertAbstract(index map[string][]int) string {
	type posToken struct {
		pos   int
		token string
	}
	var flat []posToken
	for token, positions := range index {
		for _, pos := range positions {
			flat = append(flat, posToken{pos: pos, token: token})
		}
	}
	sort.Slice(flat, func(i, j int) bool {
		if flat[i].pos != flat[j].pos {
			return flat[i].pos < flat[j].pos
		}
		return flat[i].token < flat[j].token
	})
	words := make([]string, len(flat))
	for i, pt := range flat {
		words[i] = pt.token
	}
	return strings.Join(words, " ")
}
