// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/thesis-engine/internal/research"
	"github.com/pdiddy/thesis-engine/internal/supervisor"
	"github.com/pdiddy/thesis-engine/pkg/types"
)

func TestRunFromEmptyStateTerminates(t *testing.T) {
	var buf bytes.Buffer
	driver := New(types.DefaultPipelineConfig(), &buf)

	state := types.NewThesisState("AI in education", 2000, "apa")
	final, err := driver.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, string(supervisor.AgentFinish), final.NextNode)
	assert.Equal(t, types.ApprovalApproved, final.UserApprovalStatus)
	assert.NotEmpty(t, final.Manuscript)
	// researcher ran first, writer and validator followed
	require.GreaterOrEqual(t, len(final.ExecutionTrace), 4)
	assert.Equal(t, "researcher", final.ExecutionTrace[0])
	assert.Contains(t, final.ExecutionTrace, "writer")
	assert.Contains(t, final.ExecutionTrace, "validator")
	assert.Equal(t, "FINISH", final.ExecutionTrace[len(final.ExecutionTrace)-1])
}

func TestRunSeedsPlaceholderDocument(t *testing.T) {
	driver := New(types.DefaultPipelineConfig(), &bytes.Buffer{})

	state := types.NewThesisState("quantum sensing", 1500, "ieee")
	final, err := driver.Run(context.Background(), state)
	require.NoError(t, err)

	require.NotEmpty(t, final.Documents)
	assert.Equal(t, "seed-1", final.Documents[0].ID)
}

func TestRunWithSearchResultsSkipsSeeding(t *testing.T) {
	driver := New(types.DefaultPipelineConfig(), &bytes.Buffer{})
	driver.Search = func(topic, perspective string) ([]research.SearchResult, error) {
		return []research.SearchResult{{Title: "Paper for " + perspective, PaperID: "p-" + perspective[:3]}}, nil
	}

	state := types.NewThesisState("edge inference", 1800, "apa")
	final, err := driver.Run(context.Background(), state)
	require.NoError(t, err)

	require.NotEmpty(t, final.Documents)
	for _, doc := range final.Documents {
		assert.NotEqual(t, "seed-1", doc.ID)
	}
}

func TestRunFromApprovedStateFinishesImmediately(t *testing.T) {
	driver := New(types.DefaultPipelineConfig(), &bytes.Buffer{})

	state := types.NewThesisState("done topic", 1000, "apa")
	state.UserApprovalStatus = types.ApprovalApproved

	final, err := driver.Run(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, []string{"FINISH"}, final.ExecutionTrace)
	assert.Empty(t, final.Manuscript)
}

func TestRunAbortsAfterIterationBudget(t *testing.T) {
	cfg := types.DefaultPipelineConfig()
	cfg.MaxIterations = 3
	driver := New(cfg, &bytes.Buffer{})
	// researcher that never makes progress
	driver.Researcher = func(_ context.Context, state types.ThesisState) (types.ThesisState, error) {
		return state, nil
	}

	state := types.NewThesisState("stuck topic", 1000, "apa")
	_, err := driver.Run(context.Background(), state)
	assert.ErrorIs(t, err, ErrMaxIterations)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	driver := New(types.DefaultPipelineConfig(), &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state := types.NewThesisState("cancelled", 1000, "apa")
	_, err := driver.Run(ctx, state)
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingCheckpointer struct {
	steps  []int
	agents []string
}

func (r *recordingCheckpointer) Save(_ context.Context, _ string, step int, agent string, _ types.ThesisState) error {
	r.steps = append(r.steps, step)
	r.agents = append(r.agents, agent)
	return nil
}

func TestRunCheckpointsEveryStage(t *testing.T) {
	driver := New(types.DefaultPipelineConfig(), &bytes.Buffer{})
	recorder := &recordingCheckpointer{}
	driver.Checkpoint = recorder
	driver.RunID = "run-1"

	state := types.NewThesisState("checkpointed topic", 1200, "apa")
	final, err := driver.Run(context.Background(), state)
	require.NoError(t, err)

	// one snapshot per non-FINISH stage
	assert.Len(t, recorder.steps, len(final.ExecutionTrace)-1)
	assert.Equal(t, "researcher", recorder.agents[0])
}

func TestRunPlansOutlineBeforeGathering(t *testing.T) {
	driver := New(types.DefaultPipelineConfig(), &bytes.Buffer{})

	state := types.NewThesisState("no plan topic", 1000, "apa")
	final, err := driver.Run(context.Background(), state)
	require.NoError(t, err)

	require.NotEmpty(t, final.Outline)
	require.NotEmpty(t, final.Manuscript)
	assert.NotEmpty(t, final.Hypothesis)
	assert.Equal(t, final.Outline[0].ID, final.Manuscript[0].ID)
}

func TestWriterNodeSeedsOutlineWhenPlanningSkipped(t *testing.T) {
	driver := New(types.DefaultPipelineConfig(), &bytes.Buffer{})

	state := types.NewThesisState("bare state", 1000, "apa")
	out, err := driver.Writer(context.Background(), state)
	require.NoError(t, err)

	require.NotEmpty(t, out.Outline)
	assert.Equal(t, "1", out.Outline[0].ID)
	require.NotEmpty(t, out.Manuscript)
	assert.Equal(t, []string{"seed-1", "seed-1"}, out.Manuscript[0].Citations)
}
