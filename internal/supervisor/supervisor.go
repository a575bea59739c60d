// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package supervisor decides which pipeline stage runs next. Routing is a
// pure function of the current state, evaluated against a fixed priority
// order, so re-evaluating after a retry always yields the same decision.
package supervisor

import "github.com/pdiddy/thesis-engine/pkg/types"

// Agent names a routable pipeline stage.
type Agent string

const (
	AgentResearcher Agent = "researcher"
	AgentWriter     Agent = "writer"
	AgentValidator  Agent = "validator"
	AgentAnalyst    Agent = "analyst"
	AgentFinish     Agent = "FINISH"
)

// Route is a routing decision with its rationale.
type Route struct {
	NextAgent Agent
	Reasoning string
}

// RouteNext picks the next agent for state. Rules apply in strict priority
// order and the first match wins.
func RouteNext(state types.ThesisState) Route {
	if state.UserApprovalStatus == types.ApprovalApproved || hasCompleteManuscript(state) {
		return Route{
			NextAgent: AgentFinish,
			Reasoning: "Draft is complete and approved; finishing execution.",
		}
	}
	if len(state.Outline) == 0 || len(state.Documents) == 0 {
		return Route{
			NextAgent: AgentResearcher,
			Reasoning: "Insufficient evidence collected; dispatching researcher.",
		}
	}
	if len(state.Outline) > 0 && len(state.Manuscript) == 0 {
		return Route{
			NextAgent: AgentWriter,
			Reasoning: "Outline exists without a draft; delegating writing.",
		}
	}
	if len(state.Manuscript) > 0 && state.UserApprovalStatus != types.ApprovalApproved {
		return Route{
			NextAgent: AgentValidator,
			Reasoning: "Draft present but unverified; sending to validator.",
		}
	}
	return Route{
		NextAgent: AgentAnalyst,
		Reasoning: "Routing to analyst for summarization or synthesis.",
	}
}

func hasCompleteManuscript(state types.ThesisState) bool {
	if len(state.Manuscript) == 0 {
		return false
	}
	for _, section := range state.Manuscript {
		if section.Status != types.SectionApproved {
			return false
		}
	}
	return true
}
