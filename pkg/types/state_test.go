// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func sampleState() ThesisState {
	score := 0.4
	return ThesisState{
		Topic:           "LLM safety",
		TargetWordCount: 3000,
		StyleGuide:      "apa",
		Hypothesis:      "We hypothesize something.",
		Perspectives:    []string{"Technical robustness of LLM safety"},
		Outline: []Section{
			{ID: "1", Title: "1. Introduction", Status: SectionPending},
			{ID: "1.1", Title: "1.1. Motivation", Status: SectionPending},
		},
		Documents: []ResearchDocument{
			{ID: "doc-1", Title: "One", Perspective: "tech", DOI: "10.1/abc", Status: DocPending},
		},
		Manuscript: []Section{
			{ID: "1", Title: "1. Introduction", Content: "text [doc-1]", Citations: []string{"doc-1"}, Status: SectionDraft},
		},
		NoveltyScore:       &score,
		UserApprovalStatus: ApprovalPending,
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleState()
	clone := orig.Clone()

	clone.Outline[0].Title = "mutated"
	clone.Documents[0].Flags = []string{"x"}
	clone.Perspectives[0] = "mutated"
	*clone.NoveltyScore = 0.9

	assert.Equal(t, "1. Introduction", orig.Outline[0].Title)
	assert.Empty(t, orig.Documents[0].Flags)
	assert.Equal(t, "Technical robustness of LLM safety", orig.Perspectives[0])
	assert.Equal(t, 0.4, *orig.NoveltyScore)
}

func TestYAMLRoundTrip(t *testing.T) {
	orig := sampleState()

	data, err := yaml.Marshal(orig)
	require.NoError(t, err)

	var restored ThesisState
	require.NoError(t, yaml.Unmarshal(data, &restored))

	assert.Equal(t, orig.Topic, restored.Topic)
	assert.Equal(t, orig.Outline, restored.Outline)
	assert.Equal(t, orig.Documents, restored.Documents)
	assert.Equal(t, orig.Manuscript, restored.Manuscript)
	require.NotNil(t, restored.NoveltyScore)
	assert.Equal(t, *orig.NoveltyScore, *restored.NoveltyScore)
}

func TestCheckInvariants(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ThesisState)
		wantErr bool
	}{
		{"valid state", func(*ThesisState) {}, false},
		{
			"manuscript id outside outline",
			func(s *ThesisState) { s.Manuscript[0].ID = "9" },
			true,
		},
		{
			"duplicate outline id",
			func(s *ThesisState) { s.Outline[1].ID = "1" },
			true,
		},
		{
			"duplicate document id",
			func(s *ThesisState) {
				s.Documents = append(s.Documents, ResearchDocument{ID: "doc-1", Title: "dup", Perspective: "tech"})
			},
			true,
		},
		{
			"empty document id",
			func(s *ThesisState) { s.Documents[0].ID = "" },
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := sampleState()
			tt.mutate(&state)
			err := state.CheckInvariants()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var invErr *InvariantError
			assert.True(t, errors.As(err, &invErr))
		})
	}
}

func TestSetFlagsDeduplicatesAndSorts(t *testing.T) {
	doc := ResearchDocument{ID: "d", Title: "T", Perspective: "p"}
	doc.SetFlags([]string{"missing_doi", "b-flag", "missing_doi", "", "a-flag"})
	assert.Equal(t, []string{"a-flag", "b-flag", "missing_doi"}, doc.Flags)
}

func TestSectionDepth(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"1", 1},
		{"1.2", 2},
		{"2.1.3", 3},
		{"", 0},
	}
	for _, tt := range tests {
		if got := (Section{ID: tt.id}).Depth(); got != tt.want {
			t.Errorf("Depth(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}
