// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/logging"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "hybridrec",
		Short: "Hybrid product recommendation server",
		Long: `hybridrec ranks catalog products for users by blending content similarity,
collaborative filtering and popularity, with optional MMR diversity re-ranking.

Configuration comes from built-in defaults, an optional YAML file and
environment variables, in increasing order of priority.`,
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv(config.ConfigPathEnvVar, configPath)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (overrides CONFIG_PATH)")

	root.AddCommand(
		newServeCmd(),
		newSeedCmd(),
		newTrainCmd(),
		newRecommendCmd(),
		newSimilarCmd(),
		newTrendingCmd(),
	)
	return root
}
