// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/thesis-engine/pkg/types"
)

func makeState(docs []types.ResearchDocument, sections ...string) types.ThesisState {
	state := types.NewThesisState("test topic", 1000, "apa")
	for _, id := range sections {
		state.Outline = append(state.Outline, types.Section{
			ID:     id,
			Title:  id + ". Section " + id,
			Status: types.SectionPending,
		})
	}
	state.Documents = docs
	return state
}

func TestDraftEveryParagraphCited(t *testing.T) {
	docs := []types.ResearchDocument{
		{ID: "d1", Title: "Paper One", Perspective: "Technical robustness of AI", Summary: "Technical robustness of AI: systems degrade under shift.", Status: types.DocValidated},
		{ID: "d2", Title: "Paper Two", Perspective: "Economic impact of AI", Status: types.DocValidated},
		{ID: "d3", Title: "Paper Three", Perspective: "Policy and governance of AI", Status: types.DocValidated},
	}
	state := makeState(docs, "1", "1.1", "2")

	out := Draft(state, types.DraftConfig{MaxParagraphLength: 180})
	require.Len(t, out.Manuscript, 3)

	for _, section := range out.Manuscript {
		assert.Equal(t, types.SectionDraft, section.Status)
		require.Len(t, section.Citations, 2)
		require.NotEmpty(t, section.Content)
		for _, paragraph := range strings.Split(section.Content, "\n\n") {
			marker := paragraph[strings.LastIndex(paragraph, "["):]
			assert.True(t, strings.HasSuffix(paragraph, marker))
			id := strings.Trim(marker, "[]")
			assert.Contains(t, section.Citations, id)
			// exactly one marker per paragraph
			assert.Equal(t, 1, strings.Count(paragraph, "["))
		}
	}
}

func TestDraftRoundRobinContinuesAcrossSections(t *testing.T) {
	docs := []types.ResearchDocument{
		{ID: "d1", Title: "A", Perspective: "p", Status: types.DocValidated},
		{ID: "d2", Title: "B", Perspective: "p", Status: types.DocValidated},
		{ID: "d3", Title: "C", Perspective: "p", Status: types.DocValidated},
	}
	state := makeState(docs, "1", "2", "3")

	out := Draft(state, types.DraftConfig{})
	require.Len(t, out.Manuscript, 3)

	// The cursor wraps over the pool instead of restarting per section.
	assert.Equal(t, []string{"d1", "d2"}, out.Manuscript[0].Citations)
	assert.Equal(t, []string{"d3", "d1"}, out.Manuscript[1].Citations)
	assert.Equal(t, []string{"d2", "d3"}, out.Manuscript[2].Citations)
}

func TestDraftSkipsExcludedDocuments(t *testing.T) {
	docs := []types.ResearchDocument{
		{ID: "bad", Title: "Bad", Perspective: "p", Status: types.DocExcluded},
		{ID: "good", Title: "Good", Perspective: "p", Status: types.DocValidated},
	}
	state := makeState(docs, "1")

	out := Draft(state, types.DraftConfig{})
	require.Len(t, out.Manuscript, 1)
	for _, id := range out.Manuscript[0].Citations {
		assert.NotEqual(t, "bad", id)
	}
}

func TestDraftFallsBackToAllDocumentsWhenAllExcluded(t *testing.T) {
	docs := []types.ResearchDocument{
		{ID: "d1", Title: "A", Perspective: "p", Status: types.DocExcluded},
		{ID: "d2", Title: "B", Perspective: "p", Status: types.DocExcluded},
	}
	state := makeState(docs, "1")

	out := Draft(state, types.DraftConfig{})
	require.Len(t, out.Manuscript, 1)
	assert.Equal(t, []string{"d1", "d2"}, out.Manuscript[0].Citations)
}

func TestDraftPlaceholderWhenNoDocuments(t *testing.T) {
	state := makeState(nil, "1")

	out := Draft(state, types.DraftConfig{})
	require.Len(t, out.Manuscript, 1)
	assert.Equal(t, []string{"ref-1", "ref-1"}, out.Manuscript[0].Citations)
	assert.Contains(t, out.Manuscript[0].Content, "Placeholder")
	assert.Contains(t, out.Manuscript[0].Content, "[ref-1]")
}

func TestDraftParagraphPacking(t *testing.T) {
	long := strings.Repeat("Sentence with several words here. ", 8)
	docs := []types.ResearchDocument{
		{ID: "d1", Title: "Long", Perspective: "p", Summary: long, Status: types.DocValidated},
	}
	state := makeState(docs, "1")

	out := Draft(state, types.DraftConfig{MaxParagraphLength: 80})
	paragraphs := strings.Split(out.Manuscript[0].Content, "\n\n")
	assert.Greater(t, len(paragraphs), 1)
	for _, paragraph := range paragraphs {
		assert.True(t, strings.HasSuffix(paragraph, "[d1]"))
	}
}

func TestDraftLeavesInputUntouched(t *testing.T) {
	docs := []types.ResearchDocument{
		{ID: "d1", Title: "A", Perspective: "p", Status: types.DocValidated},
	}
	state := makeState(docs, "1")

	_ = Draft(state, types.DraftConfig{})
	assert.Empty(t, state.Manuscript)
}
