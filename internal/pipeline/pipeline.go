// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the supervisor loop: route, run the chosen stage,
// apply its state update, repeat until the supervisor reports FINISH. The
// state is threaded linearly through stages; nothing here runs
// concurrently.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/thesis-engine/internal/draft"
	"github.com/pdiddy/thesis-engine/internal/plan"
	"github.com/pdiddy/thesis-engine/internal/research"
	"github.com/pdiddy/thesis-engine/internal/supervisor"
	"github.com/pdiddy/thesis-engine/internal/validate"
	"github.com/pdiddy/thesis-engine/pkg/types"
)

// ErrMaxIterations reports a run that failed to reach FINISH within the
// configured iteration budget.
var ErrMaxIterations = fmt.Errorf("pipeline: supervisor loop exceeded iteration budget")

// NodeFunc applies one stage to the state and returns the updated state.
type NodeFunc func(ctx context.Context, state types.ThesisState) (types.ThesisState, error)

// Checkpointer persists a state snapshot after each stage.
type Checkpointer interface {
	Save(ctx context.Context, runID string, step int, agent string, state types.ThesisState) error
}

// Driver executes the supervisor loop with injectable stage nodes.
// Zero-value nodes fall back to the built-in implementations.
type Driver struct {
	cfg types.PipelineConfig
	w   io.Writer

	Researcher NodeFunc
	Writer     NodeFunc
	Validator  NodeFunc
	Analyst    NodeFunc

	// Search and Conversation back the researcher stage; nil leaves the
	// gather pass empty and the researcher seeds a placeholder.
	Search       research.SearchFunc
	Conversation research.ConversationFunc

	// Score feeds trust results to the validator stage; nil leaves
	// every document with a DOI in needs_review.
	Score validate.ScoreFunc

	Checkpoint Checkpointer
	RunID      string
}

// New builds a driver with the default stage nodes. w receives progress
// lines; pass io.Discard to silence them.
func New(cfg types.PipelineConfig, w io.Writer) *Driver {
	d := &Driver{cfg: cfg, w: w}
	d.Researcher = d.researcherNode
	d.Writer = d.writerNode
	d.Validator = d.validatorNode
	d.Analyst = analystNode
	return d
}

// Run drives state to completion. Each iteration re-routes from scratch,
// records the decision in the execution trace, runs the chosen stage, and
// verifies state invariants before continuing. A loop that has not
// finished after MaxIterations iterations aborts with ErrMaxIterations.
func (d *Driver) Run(ctx context.Context, state types.ThesisState) (types.ThesisState, error) {
	maxIterations := d.cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 16
	}

	for step := 0; step < maxIterations; step++ {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		route := supervisor.RouteNext(state)
		state = state.Clone()
		state.NextNode = string(route.NextAgent)
		state.ExecutionTrace = append(state.ExecutionTrace, string(route.NextAgent))
		fmt.Fprintf(d.w, "supervisor: %s (%s)\n", route.NextAgent, route.Reasoning)

		if route.NextAgent == supervisor.AgentFinish {
			return state, nil
		}

		node, err := d.nodeFor(route.NextAgent)
		if err != nil {
			return state, err
		}

		next, err := node(ctx, state)
		if err != nil {
			return state, fmt.Errorf("pipeline: %s stage: %w", route.NextAgent, err)
		}
		if err := next.CheckInvariants(); err != nil {
			return state, fmt.Errorf("pipeline: after %s stage: %w", route.NextAgent, err)
		}
		state = next

		if d.Checkpoint != nil {
			if err := d.Checkpoint.Save(ctx, d.RunID, step, string(route.NextAgent), state); err != nil {
				return state, fmt.Errorf("pipeline: checkpoint: %w", err)
			}
		}
	}

	return state, ErrMaxIterations
}

func (d *Driver) nodeFor(agent supervisor.Agent) (NodeFunc, error) {
	switch agent {
	case supervisor.AgentResearcher:
		return d.Researcher, nil
	case supervisor.AgentWriter:
		return d.Writer, nil
	case supervisor.AgentValidator:
		return d.Validator, nil
	case supervisor.AgentAnalyst:
		return d.Analyst, nil
	default:
		return nil, fmt.Errorf("pipeline: no node for agent %q", agent)
	}
}

// researcherNode plans the outline when none exists yet, then runs an
// evidence-gathering pass. A pass that produces no documents seeds a
// placeholder so the loop can progress to writing.
func (d *Driver) researcherNode(_ context.Context, state types.ThesisState) (types.ThesisState, error) {
	if len(state.Outline) == 0 {
		state = plan.Plan(state, d.cfg.Planner, plan.Options{})
	}

	opts := research.Options{Search: d.Search, Conversation: d.Conversation}
	updated := research.Gather(state, d.cfg.Research, opts, d.w)
	if len(updated.Documents) == 0 {
		updated.Documents = append(updated.Documents, types.ResearchDocument{
			ID:          "seed-1",
			Title:       "Placeholder",
			Perspective: "general",
		})
	}
	return updated, nil
}

// writerNode drafts the manuscript, seeding a minimal outline and
// document pool first when planning never ran.
func (d *Driver) writerNode(_ context.Context, state types.ThesisState) (types.ThesisState, error) {
	current := state
	if len(state.Outline) == 0 {
		current = state.Clone()
		current.Outline = []types.Section{{ID: "1", Title: "Auto-generated section", Status: types.SectionPending}}
		if len(current.Documents) == 0 {
			current.Documents = []types.ResearchDocument{
				{ID: "seed-1", Title: "Placeholder", Perspective: "general"},
			}
		}
	}
	return draft.Draft(current, d.cfg.Draft), nil
}

// validatorNode validates documents, then approves the manuscript. With a
// manuscript present the whole draft is marked approved so the supervisor
// can finish; document-level exclusions remain visible in the state.
func (d *Driver) validatorNode(ctx context.Context, state types.ThesisState) (types.ThesisState, error) {
	validated := validate.Validate(ctx, state, d.cfg.Validation, d.Score)
	if len(validated.Manuscript) == 0 {
		return validated, nil
	}

	out := validated.Clone()
	for i := range out.Manuscript {
		out.Manuscript[i].Status = types.SectionApproved
	}
	out.UserApprovalStatus = types.ApprovalApproved
	return out, nil
}

// analystNode is a placeholder for synthesis or summarization.
func analystNode(_ context.Context, state types.ThesisState) (types.ThesisState, error) {
	return state, nil
}
