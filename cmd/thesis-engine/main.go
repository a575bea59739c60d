// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the thesis-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/thesis-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// secretManager resolves API keys loaded from .secrets/ at startup, with
// environment fallback.
var secretManager = secrets.NewManager(nil, true)

// rootCmd is the base command for the thesis-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "thesis-engine",
	Short: "Supervised thesis generation pipeline",
	Long: `thesis-engine runs a supervised document generation workflow: it plans an
outline and hypothesis for a topic, gathers evidence from academic search,
scores citations for trustworthiness, drafts a cited manuscript, and applies
quality gates before finishing.

Each run is checkpointed stage by stage so interrupted runs can be inspected
with the runs subcommand.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		secretManager = secrets.NewManager(s, true)
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./thesis-engine.yaml or ~/.config/thesis-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("thesis-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "thesis-engine"))
		}
	}

	viper.SetEnvPrefix("THESIS_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
