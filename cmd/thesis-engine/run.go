// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/thesis-engine/internal/checkpoint"
	"github.com/pdiddy/thesis-engine/internal/pipeline"
	"github.com/pdiddy/thesis-engine/internal/quality"
	"github.com/pdiddy/thesis-engine/internal/research"
	"github.com/pdiddy/thesis-engine/internal/trust"
	"github.com/pdiddy/thesis-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the thesis workflow for a topic",
	Long: `Run drives the full workflow: plan, gather, draft, validate, and quality
gates. The final manuscript is rendered as markdown to the output path. Every
stage transition is checkpointed under the checkpoint directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		if topic == "" {
			return fmt.Errorf("--topic is required")
		}
		wordCount, _ := cmd.Flags().GetInt("target-word-count")
		styleGuide, _ := cmd.Flags().GetString("style-guide")
		output, _ := cmd.Flags().GetString("output")
		noCheckpoint, _ := cmd.Flags().GetBool("no-checkpoint")

		cfg := buildConfig()
		client := &http.Client{Timeout: cfg.Trust.Timeout}
		ctx := cmd.Context()

		backend, _ := cmd.Flags().GetString("backend")

		driver := pipeline.New(cfg, os.Stderr)
		switch backend {
		case "openalex":
			driver.Search = research.NewOpenAlexSearch(client, cfg.Research)
		case "semantic-scholar":
			driver.Search = research.NewSemanticScholarSearch(client, cfg.Research)
		default:
			return fmt.Errorf("unknown search backend %q", backend)
		}

		evaluator := trust.NewEvaluator(client, cfg.Trust, trust.EvaluatorOptions{})
		driver.Score = evaluator.Evaluate

		if !noCheckpoint {
			store, err := checkpoint.NewStore(cfg.Checkpoint)
			if err != nil {
				return err
			}
			defer store.Close()

			runID, err := store.StartRun(ctx, topic)
			if err != nil {
				return err
			}
			driver.Checkpoint = store
			driver.RunID = runID
			fmt.Fprintf(os.Stderr, "run id: %s\n", runID)
		}

		state := types.NewThesisState(topic, wordCount, styleGuide)
		final, err := driver.Run(ctx, state)
		if err != nil {
			return err
		}

		report := quality.EvaluateGates(final, quality.EvaluatorHealth{}, cfg.Quality)
		fmt.Fprintf(os.Stderr, "quality gates: %s\n", report.Status)
		for _, msg := range report.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
		}
		for _, msg := range report.Blocks {
			fmt.Fprintf(os.Stderr, "block: %s\n", msg)
		}

		if dir := filepath.Dir(output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
		if err := os.WriteFile(output, []byte(renderMarkdown(final)), 0o644); err != nil {
			return fmt.Errorf("writing manuscript: %w", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", output)
		return nil
	},
}

// buildConfig merges defaults, viper configuration, and secrets into the
// pipeline configuration.
func buildConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	if v := viper.GetInt("max_iterations"); v > 0 {
		cfg.MaxIterations = v
	}
	if v := viper.GetInt("research.max_results_per_perspective"); v > 0 {
		cfg.Research.MaxResultsPerPerspective = v
	}
	if v := viper.GetFloat64("validation.min_trust_score"); v > 0 {
		cfg.Validation.MinTrustScore = v
	}
	if v := viper.GetInt("draft.max_paragraph_length"); v > 0 {
		cfg.Draft.MaxParagraphLength = v
	}
	if v := viper.GetString("checkpoint.dir"); v != "" {
		cfg.Checkpoint.Dir = v
	}

	cfg.Trust.SciteAPIKey = secretManager.Get("scite-api-key")
	cfg.Research.SemanticScholarAPIKey = secretManager.Get("semantic-scholar-api-key")
	cfg.Research.OpenAlexEmail = secretManager.Get("openalex-email")
	return cfg
}

func init() {
	runCmd.Flags().String("topic", "", "research topic to explore")
	runCmd.Flags().Int("target-word-count", 1200, "desired total word count for the manuscript")
	runCmd.Flags().String("style-guide", "apa", "styling guideline such as apa or ieee")
	runCmd.Flags().String("output", "thesis.md", "path to write the generated markdown")
	runCmd.Flags().String("backend", "semantic-scholar", "search backend: semantic-scholar or openalex")
	runCmd.Flags().Bool("no-checkpoint", false, "disable run checkpointing")

	rootCmd.AddCommand(runCmd)
}
