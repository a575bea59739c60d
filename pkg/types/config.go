// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "thesis-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PlannerConfig holds settings for the outline planner and novelty assessor.
type PlannerConfig struct {
	// PivotThreshold is the profile similarity at or above which the
	// planner pivots the hypothesis (default 0.75).
	PivotThreshold float64 `json:"pivot_threshold" yaml:"pivot_threshold"`
}

// ResearchConfig holds settings for the evidence gatherer.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResultsPerPerspective caps how many search results become
	// documents for each perspective (default 2).
	MaxResultsPerPerspective int `json:"max_results_per_perspective" yaml:"max_results_per_perspective"`

	// MinPerspectives is the minimum number of perspectives the gatherer
	// derives when none are supplied (default 3).
	MinPerspectives int `json:"min_perspectives" yaml:"min_perspectives"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool
	// access when searching OpenAlex.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`
}

// TrustConfig holds settings for the citation trust evaluator.
type TrustConfig struct {
	HTTPConfig `yaml:",inline"`

	// SciteAPIKey authenticates against the Scite tallies API. When
	// empty, the evaluator uses the context-classification fallback path.
	SciteAPIKey string `json:"scite_api_key,omitempty" yaml:"scite_api_key,omitempty"`
}

// ValidationConfig holds settings for the document validator.
type ValidationConfig struct {
	// MinTrustScore is the trust score below which a document is flagged
	// (default 0.5).
	MinTrustScore float64 `json:"min_trust_score" yaml:"min_trust_score"`

	// ContrastRatio scales the supporting count when checking whether
	// contrasting evidence dominates (default 1.0).
	ContrastRatio float64 `json:"contrast_ratio" yaml:"contrast_ratio"`
}

// DraftConfig holds settings for the manuscript drafter.
type DraftConfig struct {
	// MaxParagraphLength caps paragraph length including the citation
	// marker (default 180).
	MaxParagraphLength int `json:"max_paragraph_length" yaml:"max_paragraph_length"`
}

// QualityConfig holds thresholds for the quality gate evaluator.
type QualityConfig struct {
	// CoverageWarnThreshold is the citation coverage rate below which a
	// warning is raised (default 0.98).
	CoverageWarnThreshold float64 `json:"coverage_warn_threshold" yaml:"coverage_warn_threshold"`

	// CoverageBlockThreshold is the coverage rate below which the gate
	// blocks when citations are missing (default 1.0).
	CoverageBlockThreshold float64 `json:"coverage_block_threshold" yaml:"coverage_block_threshold"`

	// NoveltyWarn is the novelty score at or above which a warning is
	// raised (default 0.6).
	NoveltyWarn float64 `json:"novelty_warn" yaml:"novelty_warn"`

	// NoveltyBlock is the novelty score at or above which the gate blocks
	// (default 0.7).
	NoveltyBlock float64 `json:"novelty_block" yaml:"novelty_block"`
}

// CheckpointConfig holds settings for the run checkpoint store.
type CheckpointConfig struct {
	// Dir is the directory holding the checkpoint database (default
	// "checkpoints/").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Planner    PlannerConfig    `json:"planner" yaml:"planner"`
	Research   ResearchConfig   `json:"research" yaml:"research"`
	Trust      TrustConfig      `json:"trust" yaml:"trust"`
	Validation ValidationConfig `json:"validation" yaml:"validation"`
	Draft      DraftConfig      `json:"draft" yaml:"draft"`
	Quality    QualityConfig    `json:"quality" yaml:"quality"`
	Checkpoint CheckpointConfig `json:"checkpoint" yaml:"checkpoint"`

	// MaxIterations bounds the supervisor loop so a non-progressing stage
	// cannot spin forever (default 16).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
}

// DefaultPipelineConfig returns the documented defaults for every stage.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Planner: PlannerConfig{PivotThreshold: 0.75},
		Research: ResearchConfig{
			HTTPConfig:               HTTPConfig{Timeout: 10 * time.Second, UserAgent: "thesis-engine/0.1"},
			MaxResultsPerPerspective: 2,
			MinPerspectives:          3,
		},
		Trust: TrustConfig{
			HTTPConfig: HTTPConfig{Timeout: 10 * time.Second, UserAgent: "thesis-engine/0.1"},
		},
		Validation: ValidationConfig{MinTrustScore: 0.5, ContrastRatio: 1.0},
		Draft:      DraftConfig{MaxParagraphLength: 180},
		Quality: QualityConfig{
			CoverageWarnThreshold:  0.98,
			CoverageBlockThreshold: 1.0,
			NoveltyWarn:            0.6,
			NoveltyBlock:           0.7,
		},
		Checkpoint:    CheckpointConfig{Dir: "checkpoints"},
		MaxIterations: 16,
	}
}
