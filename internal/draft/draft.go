// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft turns validated documents and the outline into cited
// manuscript paragraphs. Every paragraph it emits ends in exactly one
// citation marker, so downstream coverage checks can account for every
// claim.
package draft

import (
	"strings"

	"github.com/pdiddy/thesis-engine/pkg/types"
)

// Draft writes one manuscript section per outline section. Documents are
// consumed round-robin, two per section, cycling continuously across
// sections rather than restarting, so citation assignment is deterministic
// given document order. Excluded documents are never cited; with nothing
// usable the drafter falls back to all documents, or a placeholder when
// state has none at all.
func Draft(state types.ThesisState, cfg types.DraftConfig) types.ThesisState {
	maxLen := cfg.MaxParagraphLength
	if maxLen <= 0 {
		maxLen = 180
	}

	usable := usableDocuments(state.Documents)

	out := state.Clone()
	out.Manuscript = nil

	cursor := 0
	for _, section := range out.Outline {
		batch := nextBatch(usable, &cursor, 2)

		var paragraphs []string
		var citations []string
		for _, doc := range batch {
			citations = append(citations, doc.ID)
			text := buildSentence(doc, section)
			paragraphs = append(paragraphs, chunkParagraphs(text, "["+doc.ID+"]", maxLen)...)
		}

		out.Manuscript = append(out.Manuscript, types.Section{
			ID:        section.ID,
			Title:     section.Title,
			Content:   strings.Join(paragraphs, "\n\n"),
			Citations: citations,
			Status:    types.SectionDraft,
		})
	}

	return out
}

// usableDocuments returns the citable pool: non-excluded documents, then
// all documents, then a single placeholder.
func usableDocuments(docs []types.ResearchDocument) []types.ResearchDocument {
	var usable []types.ResearchDocument
	for _, doc := range docs {
		if doc.Status != types.DocExcluded {
			usable = append(usable, doc)
		}
	}
	if len(usable) > 0 {
		return usable
	}
	if len(docs) > 0 {
		return append([]types.ResearchDocument(nil), docs...)
	}
	return []types.ResearchDocument{
		{ID: "ref-1", Title: "Placeholder", Perspective: "general"},
	}
}

// nextBatch takes n documents from the pool starting at the shared cursor,
// wrapping around. The cursor persists across sections.
func nextBatch(pool []types.ResearchDocument, cursor *int, n int) []types.ResearchDocument {
	batch := make([]types.ResearchDocument, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, pool[*cursor%len(pool)])
		*cursor++
	}
	return batch
}

// buildSentence renders the base sentence tying the document to the section.
func buildSentence(doc types.ResearchDocument, section types.Section) string {
	base := section.Title + " integrates findings from " + doc.Title +
		" through the lens of " + strings.ToLower(doc.Perspective) + "."
	if doc.Summary != "" {
		base += " Key point: " + doc.Summary
	}
	return base
}

// chunkParagraphs splits text on sentence boundaries and greedily packs
// sentences until appending the next sentence plus the citation marker
// would exceed limit, flushing each paragraph with a trailing marker. The
// result always has at least one paragraph, and every paragraph carries
// exactly one citation marker.
func chunkParagraphs(text, citation string, limit int) []string {
	var sentences []string
	for _, part := range strings.Split(text, ".") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	var paragraphs []string
	current := ""
	for _, sentence := range sentences {
		candidate := sentence
		if current != "" {
			candidate = current + " " + sentence
		}
		if len(candidate)+len(citation)+1 > limit && current != "" {
			paragraphs = append(paragraphs, current+" "+citation)
			current = sentence
		} else {
			current = candidate
		}
	}
	if current != "" {
		paragraphs = append(paragraphs, current+" "+citation)
	}

	if len(paragraphs) == 0 {
		return []string{strings.TrimSpace(strings.TrimSpace(text) + " " + citation)}
	}
	return paragraphs
}
