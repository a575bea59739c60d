// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/thesis-engine/pkg/types"
)

func TestRenderMarkdownEmptyManuscript(t *testing.T) {
	state := types.NewThesisState("AI in education", 1200, "apa")

	out := renderMarkdown(state)
	assert.Contains(t, out, "# AI in education")
	assert.Contains(t, out, "_No manuscript generated._")
}

func TestRenderMarkdownSectionsAndCitations(t *testing.T) {
	state := types.NewThesisState("AI in education", 1200, "apa")
	state.ThesisTitle = "Adaptive Tutoring at Scale"
	state.Manuscript = []types.Section{
		{ID: "1", Title: "1. Introduction", Content: "Body text. [d1]", Citations: []string{"d1"}},
		{ID: "2", Title: "2. Methods", Content: "More text. [d2]", Citations: []string{"d2", "d3"}},
	}

	out := renderMarkdown(state)
	assert.True(t, strings.HasPrefix(out, "# AI in education\n## Adaptive Tutoring at Scale"))
	assert.Contains(t, out, "## 1. Introduction")
	assert.Contains(t, out, "_Citations: d1_")
	assert.Contains(t, out, "_Citations: d2, d3_")
	assert.True(t, strings.HasSuffix(out, "\n"))
}
