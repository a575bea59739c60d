// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Facet names used by the novelty assessor. Each describes one independent
// axis of a hypothesis.
const (
	FacetPurpose     = "purpose"
	FacetMechanism   = "mechanism"
	FacetEvaluation  = "evaluation"
	FacetApplication = "application"
)

// FacetNames lists the four facets in canonical order.
var FacetNames = []string{FacetPurpose, FacetMechanism, FacetEvaluation, FacetApplication}

// FacetProfile decomposes a hypothesis along four independent axes for
// similarity comparison. It is an immutable value object: the novelty
// assessor returns rewritten copies rather than editing a profile.
type FacetProfile struct {
	// Purpose states what the work sets out to achieve.
	Purpose string `json:"purpose" yaml:"purpose"`

	// Mechanism states how the work achieves it.
	Mechanism string `json:"mechanism" yaml:"mechanism"`

	// Evaluation states how success is measured.
	Evaluation string `json:"evaluation" yaml:"evaluation"`

	// Application states where the work applies.
	Application string `json:"application" yaml:"application"`
}

// Facet returns the named facet's text, or "" for an unknown name.
func (p FacetProfile) Facet(name string) string {
	switch name {
	case FacetPurpose:
		return p.Purpose
	case FacetMechanism:
		return p.Mechanism
	case FacetEvaluation:
		return p.Evaluation
	case FacetApplication:
		return p.Application
	}
	return ""
}
