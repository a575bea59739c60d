// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the thesis-engine pipeline.
// The central type is ThesisState, the single record threaded through every
// pipeline stage. Stages never mutate a state in place: each stage clones the
// state it receives and returns the updated copy, so a driver can checkpoint
// or replay any intermediate value.
//
// See docs/ARCHITECTURE.md § Data Structures, § Pipeline Interface.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// ApprovalStatus tracks user sign-off on the manuscript.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// SectionStatus tracks a section's progress through the writing workflow.
// Sections are created pending, become draft when the drafter emits content,
// and reach approved only after validation. A section never reverts except
// through explicit rejected feedback.
type SectionStatus string

const (
	SectionPending  SectionStatus = "pending"
	SectionDraft    SectionStatus = "draft"
	SectionInReview SectionStatus = "in_review"
	SectionApproved SectionStatus = "approved"
	SectionRejected SectionStatus = "rejected"
)

// DocumentStatus tracks a research document through validation. Once a
// document is excluded it is never cited again, but it stays in state for
// auditability.
type DocumentStatus string

const (
	DocPending     DocumentStatus = "pending"
	DocValidated   DocumentStatus = "validated"
	DocExcluded    DocumentStatus = "excluded"
	DocNeedsReview DocumentStatus = "needs_review"
)

// Section is an individual section definition shared by outline and
// manuscript. The ID is a dot-delimited hierarchical string (e.g. "2.1.3"),
// unique within the outline and stable once assigned.
type Section struct {
	// ID is the hierarchical section number (e.g. "1", "1.2", "2.1.3").
	ID string `json:"id" yaml:"id"`

	// Title is the section heading, prefixed with the section number.
	Title string `json:"title" yaml:"title"`

	// Content holds the drafted text; empty until the drafter runs.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Summary is an optional one-line abstract of the section.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Citations lists the IDs of documents actually cited in Content.
	Citations []string `json:"citations,omitempty" yaml:"citations,omitempty"`

	// AssignedSources lists document IDs pre-assigned to this section.
	// Advisory only: distinct from Citations, which records what the
	// drafter actually used.
	AssignedSources []string `json:"assigned_sources,omitempty" yaml:"assigned_sources,omitempty"`

	// Status is the section's workflow state.
	Status SectionStatus `json:"status" yaml:"status"`

	// Feedback carries reviewer comments attached during validation.
	Feedback string `json:"feedback,omitempty" yaml:"feedback,omitempty"`
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := s
	out.Citations = append([]string(nil), s.Citations...)
	out.AssignedSources = append([]string(nil), s.AssignedSources...)
	return out
}

// Depth returns the section's nesting depth: dot count plus one.
func (s Section) Depth() int {
	if s.ID == "" {
		return 0
	}
	return strings.Count(s.ID, ".") + 1
}

// ResearchDocument is a retrieved source attached to state during evidence
// gathering. Validation may rewrite only Status, TrustScore, and Flags;
// every other field is fixed at creation.
type ResearchDocument struct {
	// ID is unique within the state's document list.
	ID string `json:"id" yaml:"id"`

	// Title is the document title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the document abstract, when the source provided one.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Perspective is the free-text provenance tag naming the research
	// angle that retrieved this document.
	Perspective string `json:"perspective" yaml:"perspective"`

	// Summary is a one-line digest derived from the abstract.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// DOI is the document's DOI, when known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// PaperID is the source API's native identifier, when known.
	PaperID string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`

	// Year is the publication year, zero when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// CitationCount is the source-reported citation count, zero when unknown.
	CitationCount int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`

	// TrustScore is the [0,1] confidence assigned by validation.
	TrustScore float64 `json:"trust_score" yaml:"trust_score"`

	// Status is the document's validation state.
	Status DocumentStatus `json:"status" yaml:"status"`

	// Flags lists validation diagnostics, deduplicated and sorted.
	Flags []string `json:"flags,omitempty" yaml:"flags,omitempty"`

	// ConversationQuestions records the advisory interview questions
	// generated for the document's perspective during gathering.
	ConversationQuestions []string `json:"conversation_questions,omitempty" yaml:"conversation_questions,omitempty"`
}

// Clone returns a deep copy of the document.
func (d ResearchDocument) Clone() ResearchDocument {
	out := d
	out.Flags = append([]string(nil), d.Flags...)
	out.ConversationQuestions = append([]string(nil), d.ConversationQuestions...)
	return out
}

// SetFlags stores flags deduplicated and sorted so document state is
// deterministic regardless of flag accumulation order.
func (d *ResearchDocument) SetFlags(flags []string) {
	seen := make(map[string]bool, len(flags))
	var unique []string
	for _, f := range flags {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		unique = append(unique, f)
	}
	sort.Strings(unique)
	d.Flags = unique
}

// ThesisState is the canonical record shared between pipeline stages.
// Topic, TargetWordCount, and StyleGuide are set once at creation; every
// other field is owned by exactly one stage.
type ThesisState struct {
	// Topic is the research topic under investigation.
	Topic string `json:"topic" yaml:"topic"`

	// TargetWordCount is the desired manuscript length.
	TargetWordCount int `json:"target_word_count" yaml:"target_word_count"`

	// StyleGuide names the citation style (e.g. "apa", "ieee").
	StyleGuide string `json:"style_guide" yaml:"style_guide"`

	// ThesisTitle is the working title, when one has been composed.
	ThesisTitle string `json:"thesis_title,omitempty" yaml:"thesis_title,omitempty"`

	// Hypothesis is the planner's composed hypothesis sentence.
	Hypothesis string `json:"hypothesis,omitempty" yaml:"hypothesis,omitempty"`

	// Perspectives lists the research angles explored during gathering.
	Perspectives []string `json:"perspectives,omitempty" yaml:"perspectives,omitempty"`

	// Outline is the planned section hierarchy, flattened in depth-first
	// order. Immutable once writing starts.
	Outline []Section `json:"outline,omitempty" yaml:"outline,omitempty"`

	// Documents holds retrieved sources. Append-only through gathering;
	// validation updates fields in place but never reorders or removes.
	Documents []ResearchDocument `json:"documents,omitempty" yaml:"documents,omitempty"`

	// Manuscript holds drafted sections, parallel to Outline by ID.
	Manuscript []Section `json:"manuscript,omitempty" yaml:"manuscript,omitempty"`

	// NoveltyScore is the planner's [0,1] novelty assessment, nil until
	// planning has run.
	NoveltyScore *float64 `json:"novelty_score,omitempty" yaml:"novelty_score,omitempty"`

	// HallucinationFlags accumulates validation diagnostics. Append-only;
	// the document validator is the only writer.
	HallucinationFlags []string `json:"hallucination_flags,omitempty" yaml:"hallucination_flags,omitempty"`

	// UserApprovalStatus records user sign-off on the manuscript.
	UserApprovalStatus ApprovalStatus `json:"user_approval_status" yaml:"user_approval_status"`

	// ExecutionTrace records routing decisions in order, for auditing.
	ExecutionTrace []string `json:"execution_trace,omitempty" yaml:"execution_trace,omitempty"`

	// NextNode is the supervisor's last routing decision.
	NextNode string `json:"next_node,omitempty" yaml:"next_node,omitempty"`
}

// NewThesisState creates a state with the creation-time fields set and
// approval pending.
func NewThesisState(topic string, targetWordCount int, styleGuide string) ThesisState {
	return ThesisState{
		Topic:              topic,
		TargetWordCount:    targetWordCount,
		StyleGuide:         styleGuide,
		UserApprovalStatus: ApprovalPending,
	}
}

// Clone returns a deep copy of the state. Stage functions clone before
// updating so the caller's value is never aliased.
func (s ThesisState) Clone() ThesisState {
	out := s
	out.Perspectives = append([]string(nil), s.Perspectives...)
	out.HallucinationFlags = append([]string(nil), s.HallucinationFlags...)
	out.ExecutionTrace = append([]string(nil), s.ExecutionTrace...)
	out.Outline = cloneSections(s.Outline)
	out.Manuscript = cloneSections(s.Manuscript)
	if s.Documents != nil {
		out.Documents = make([]ResearchDocument, len(s.Documents))
		for i, d := range s.Documents {
			out.Documents[i] = d.Clone()
		}
	}
	if s.NoveltyScore != nil {
		v := *s.NoveltyScore
		out.NoveltyScore = &v
	}
	return out
}

func cloneSections(sections []Section) []Section {
	if sections == nil {
		return nil
	}
	out := make([]Section, len(sections))
	for i, sec := range sections {
		out[i] = sec.Clone()
	}
	return out
}

// InvariantError reports a malformed state shape. It is distinct from
// configuration and external-service errors: callers treat it as fatal.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "state invariant violated: " + e.Msg
}

// CheckInvariants verifies the structural invariants that every stage may
// rely on: manuscript section IDs form a subset of outline IDs, section IDs
// are unique within the outline, and document IDs are unique.
func (s ThesisState) CheckInvariants() error {
	outlineIDs := make(map[string]bool, len(s.Outline))
	for _, sec := range s.Outline {
		if sec.ID == "" {
			return &InvariantError{Msg: "outline section with empty id"}
		}
		if outlineIDs[sec.ID] {
			return &InvariantError{Msg: fmt.Sprintf("duplicate outline section id %q", sec.ID)}
		}
		outlineIDs[sec.ID] = true
	}
	for _, sec := range s.Manuscript {
		if !outlineIDs[sec.ID] {
			return &InvariantError{Msg: fmt.Sprintf("manuscript section %q has no outline counterpart", sec.ID)}
		}
	}
	docIDs := make(map[string]bool, len(s.Documents))
	for _, doc := range s.Documents {
		if doc.ID == "" {
			return &InvariantError{Msg: "document with empty id"}
		}
		if docIDs[doc.ID] {
			return &InvariantError{Msg: fmt.Sprintf("duplicate document id %q", doc.ID)}
		}
		docIDs[doc.ID] = true
	}
	return nil
}
