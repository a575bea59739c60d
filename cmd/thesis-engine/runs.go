// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/thesis-engine/internal/checkpoint"
	"github.com/pdiddy/thesis-engine/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List checkpointed workflow runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := types.DefaultPipelineConfig().Checkpoint
		if v := viper.GetString("checkpoint.dir"); v != "" {
			cfg.Dir = v
		}

		store, err := checkpoint.NewStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "no runs recorded")
			return nil
		}

		for _, info := range runs {
			fmt.Printf("%s  %-40s  %d steps  %s\n", info.ID, info.Topic, info.Steps, info.CreatedAt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}
