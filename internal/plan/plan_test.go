// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/thesis-engine/pkg/types"
)

func plannerCfg() types.PlannerConfig {
	return types.PlannerConfig{PivotThreshold: 0.75}
}

func countNodes(nodes []TOCNode) int {
	total := 0
	for _, n := range nodes {
		total += 1 + countNodes(n.Children)
	}
	return total
}

// idLess compares dotted section ids component-wise, numerically.
func idLess(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		av, _ := strconv.Atoi(as[i])
		bv, _ := strconv.Atoi(bs[i])
		if av != bv {
			return av < bv
		}
	}
	return len(as) < len(bs)
}

func TestFlattenIsBijective(t *testing.T) {
	facets := types.FacetProfile{
		Purpose: "p", Mechanism: "m", Evaluation: "e", Application: "a",
	}
	toc := buildTOC("LLM safety", facets)
	sections := Flatten(toc)

	require.Equal(t, countNodes(toc), len(sections))

	seen := make(map[string]bool)
	for _, sec := range sections {
		assert.False(t, seen[sec.ID], "duplicate id %s", sec.ID)
		seen[sec.ID] = true
	}
}

func TestFlattenIDsIncreaseAndEncodeDepth(t *testing.T) {
	sections := Flatten(buildTOC("topic", types.FacetProfile{
		Purpose: "p", Mechanism: "m", Evaluation: "e", Application: "a",
	}))

	for i, sec := range sections {
		wantDepth := strings.Count(sec.ID, ".") + 1
		assert.Equal(t, wantDepth, sec.Depth(), "id %s", sec.ID)
		assert.True(t, strings.HasPrefix(sec.Title, sec.ID+". "), "title %q not prefixed by id", sec.Title)
		assert.Equal(t, types.SectionPending, sec.Status)
		if i > 0 {
			assert.True(t, idLess(sections[i-1].ID, sec.ID),
				"ids not increasing: %s then %s", sections[i-1].ID, sec.ID)
		}
	}
}

func TestFlattenOrder(t *testing.T) {
	sections := Flatten([]TOCNode{
		{Title: "A", Children: []TOCNode{
			{Title: "A1", Children: []TOCNode{{Title: "A1a"}}},
			{Title: "A2"},
		}},
		{Title: "B"},
	})

	var ids []string
	for _, sec := range sections {
		ids = append(ids, sec.ID)
	}
	assert.Equal(t, []string{"1", "1.1", "1.1.1", "1.2", "2"}, ids)
}

func TestPlanBuildsSixChapterOutline(t *testing.T) {
	state := types.NewThesisState("LLM safety", 3000, "apa")

	planned := Plan(state, plannerCfg(), Options{})

	chapters := 0
	for _, sec := range planned.Outline {
		if sec.Depth() == 1 {
			chapters++
		}
	}
	assert.Equal(t, 6, chapters)
	assert.Equal(t, 30, len(planned.Outline))
	assert.NotEmpty(t, planned.Hypothesis)
	require.NotNil(t, planned.NoveltyScore)
	assert.Equal(t, 1.0, *planned.NoveltyScore)
	assert.False(t, strings.HasPrefix(planned.Hypothesis, "Pivot: "))

	// Input state is untouched.
	assert.Empty(t, state.Outline)
	assert.Nil(t, state.NoveltyScore)
}

func TestPlanPivotsOnOverlappingRelatedWork(t *testing.T) {
	state := types.NewThesisState("LLM safety", 3000, "apa")
	facets := types.FacetProfile{
		Purpose:     "reduce hallucinations in theses",
		Mechanism:   "retrieval planner",
		Evaluation:  "citation coverage",
		Application: "research reports",
	}

	planned := Plan(state, plannerCfg(), Options{
		Facets:          &facets,
		RelatedProfiles: []types.FacetProfile{facets},
	})

	assert.True(t, strings.HasPrefix(planned.Hypothesis, "Pivot: "))
	assert.Contains(t, planned.Hypothesis, "(reframed for novelty)")
	require.NotNil(t, planned.NoveltyScore)
	assert.Equal(t, 0.0, *planned.NoveltyScore)
}

func TestPlanRoundsNoveltyToThreeDecimals(t *testing.T) {
	state := types.NewThesisState("edge deployment", 2000, "ieee")
	facets := types.FacetProfile{
		Purpose:     "one two three",
		Mechanism:   "alpha beta",
		Evaluation:  "gamma delta",
		Application: "epsilon zeta",
	}
	related := types.FacetProfile{
		Purpose:     "one two four",
		Mechanism:   "alpha other",
		Evaluation:  "gamma other",
		Application: "different entirely",
	}

	planned := Plan(state, plannerCfg(), Options{
		Facets:          &facets,
		RelatedProfiles: []types.FacetProfile{related},
	})

	require.NotNil(t, planned.NoveltyScore)
	score := *planned.NoveltyScore
	assert.GreaterOrEqual(t, score, 0.0)
	assert.Equal(t, float64(int(score*1000+0.5))/1000, score)
}

func TestComposeHypothesisTemplate(t *testing.T) {
	facets := types.FacetProfile{
		Purpose: "P", Mechanism: "M", Evaluation: "E", Application: "A",
	}
	got := ComposeHypothesis(facets, false)
	want := "We hypothesize that P can be achieved using M. " +
		"We will evaluate success via E and ground the work in A."
	assert.Equal(t, want, got)
	assert.Equal(t, "Pivot: "+want, ComposeHypothesis(facets, true))
}
