package commands

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"pipeline-lab/internal/report"
)

var (
	reportOut     string
	reportDeals   int
	reportFutures int
	reportSeed    int64
	reportNoOpen  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the full analysis as a standalone HTML page",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := reportSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		builder := report.NewBuilder(cfg)
		data, err := builder.Build(report.SimulationParams{
			Deals:   reportDeals,
			Futures: reportFutures,
			Seed:    seed,
		})
		if err != nil {
			return err
		}

		out := reportOut
		if out == "" {
			out = filepath.Join(cfg.DataPath, "pipeline-report.html")
		}
		return builder.Render(data, out, !reportNoOpen)
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output path (default: DATA_PATH/pipeline-report.html)")
	reportCmd.Flags().IntVar(&reportDeals, "deals", 10, "deals assumed to close per simulated future")
	reportCmd.Flags().IntVar(&reportFutures, "futures", 10000, "number of simulated futures")
	reportCmd.Flags().Int64Var(&reportSeed, "seed", 0, "RNG seed (0 seeds from the clock)")
	reportCmd.Flags().BoolVar(&reportNoOpen, "no-open", false, "do not open the report in a browser")
	rootCmd.AddCommand(reportCmd)
}
