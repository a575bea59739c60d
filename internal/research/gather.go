// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research expands a topic into distinct perspectives and attaches
// retrieved documents to state. Search backends are injected as functions so
// the gatherer itself stays free of transport concerns.
package research

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/thesis-engine/pkg/types"
)

// SearchResult is one item returned by an injected search function.
type SearchResult struct {
	Title         string `json:"title" yaml:"title"`
	Abstract      string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	DOI           string `json:"doi,omitempty" yaml:"doi,omitempty"`
	PaperID       string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`
	Year          int    `json:"year,omitempty" yaml:"year,omitempty"`
	CitationCount int    `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`
}

// SearchFunc retrieves candidate documents for a topic viewed through one
// perspective.
type SearchFunc func(topic, perspective string) ([]SearchResult, error)

// ConversationFunc generates advisory interview questions for a perspective.
type ConversationFunc func(perspective string) []string

// Options control a gathering run. Perspectives defaults to the derived
// set; Search defaults to an empty search; Conversation is optional.
type Options struct {
	Perspectives []string
	Search       SearchFunc
	Conversation ConversationFunc
}

// defaultCategories seed the derived perspectives, each templated with the
// topic.
var defaultCategories = []string{
	"Technical robustness",
	"Economic impact",
	"Policy and governance",
	"Human factors",
	"Historical precedents",
}

// GeneratePerspectives derives diverse, de-duplicated perspectives for a
// topic. The result always has at least max(minCount, 3) entries, padded
// with synthetic exploratory angles when the category seeds run out.
func GeneratePerspectives(topic string, minCount int) []string {
	var unique []string
	seen := make(map[string]bool)
	for _, category := range defaultCategories {
		candidate := strings.TrimSpace(category + " of " + topic)
		key := strings.ToLower(candidate)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, candidate)
		if minCount > 0 && len(unique) >= minCount {
			break
		}
	}
	floor := minCount
	if floor < 3 {
		floor = 3
	}
	for len(unique) < floor {
		extra := fmt.Sprintf("Exploratory angle %d on %s", len(unique)+1, topic)
		key := strings.ToLower(extra)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, extra)
		}
	}
	return unique
}

// Gather runs one research iteration: it resolves perspectives, queries the
// search function for each, and appends the results to state as pending
// documents. Existing documents are never replaced or reordered. Search
// failures are reported to w and skipped; a flaky backend must not abort
// the run.
func Gather(state types.ThesisState, cfg types.ResearchConfig, opts Options, w io.Writer) types.ThesisState {
	chosen := opts.Perspectives
	if len(chosen) == 0 {
		chosen = GeneratePerspectives(state.Topic, cfg.MinPerspectives)
	}

	var perspectives []string
	seen := make(map[string]bool)
	for _, p := range chosen {
		normalized := strings.TrimSpace(p)
		key := strings.ToLower(normalized)
		if normalized == "" || seen[key] {
			continue
		}
		seen[key] = true
		perspectives = append(perspectives, normalized)
	}

	search := opts.Search
	if search == nil {
		search = func(string, string) ([]SearchResult, error) { return nil, nil }
	}

	maxResults := cfg.MaxResultsPerPerspective
	if maxResults <= 0 {
		maxResults = 1
	}

	out := state.Clone()
	out.Perspectives = perspectives

	for _, perspective := range perspectives {
		var questions []string
		if opts.Conversation != nil {
			questions = opts.Conversation(perspective)
		}

		results, err := search(state.Topic, perspective)
		if err != nil {
			fmt.Fprintf(w, "warning: search failed for %q: %v\n", perspective, err)
			continue
		}
		if len(results) > maxResults {
			results = results[:maxResults]
		}

		for idx, item := range results {
			out.Documents = append(out.Documents, newDocument(item, perspective, idx, questions))
		}
	}

	return out
}

// newDocument converts a search result into a pending ResearchDocument.
// The ID falls back from paper ID to DOI to a perspective-derived slug.
func newDocument(item SearchResult, perspective string, idx int, questions []string) types.ResearchDocument {
	id := item.PaperID
	if id == "" {
		id = item.DOI
	}
	if id == "" {
		id = fmt.Sprintf("%s-%d", perspectivePrefix(perspective), idx)
	}

	title := item.Title
	if title == "" {
		title = titleCase(perspective) + " insight"
	}

	return types.ResearchDocument{
		ID:                    id,
		Title:                 title,
		Abstract:              item.Abstract,
		Perspective:           perspective,
		Summary:               summarizeAbstract(item.Abstract, perspective),
		DOI:                   item.DOI,
		PaperID:               item.PaperID,
		Year:                  item.Year,
		CitationCount:         item.CitationCount,
		Status:                types.DocPending,
		ConversationQuestions: questions,
	}
}

// summarizeAbstract builds the one-line summary: first line of the abstract
// truncated to 180 characters, or a pending marker.
func summarizeAbstract(abstract, perspective string) string {
	snippet := strings.TrimSpace(abstract)
	if snippet != "" {
		if i := strings.IndexByte(snippet, '\n'); i >= 0 {
			snippet = snippet[:i]
		}
		if len(snippet) > 180 {
			snippet = snippet[:180]
		}
	} else {
		snippet = "summary pending"
	}
	return perspective + ": " + snippet
}

func perspectivePrefix(perspective string) string {
	runes := []rune(perspective)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}

// titleCase uppercases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
