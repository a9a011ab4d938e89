package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pipeline-lab/internal/config"
	"pipeline-lab/internal/logging"
	"pipeline-lab/internal/mcp"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "pipeline-lab",
	Short: "pipeline-lab is a survival-analysis and Monte-Carlo MCP server for B2B sales pipelines",
	Long: `An MCP server that estimates non-binary, time-aware deal conversion (Kaplan-Meier
win-rate curves with confidence bands, conditional win rates) and simulates future
revenue from skewed deal-size distributions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("pipeline-lab starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(cfg)
		return server.Serve(context.Background())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
