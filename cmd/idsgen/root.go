package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/idslab-sim/trafficgen/pkg/config"
	"github.com/idslab-sim/trafficgen/pkg/logger"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	seed     int64
	horizon  float64
	outDir   string

	// Shared state set during PersistentPreRun
	cfg *config.ScenarioConfig
	log *slog.Logger
)

// rootCmd is the base command for idsgen.
var rootCmd = &cobra.Command{
	Use:   "idsgen",
	Short: "Labeled IDS dataset generator for a simulated enterprise network",
	Long: `idsgen builds a declarative traffic scenario for a branching enterprise
topology (core, distribution, access, DMZ, wifi and VPN populations),
schedules benign application traffic and exclusive attack windows on one
timeline, replays it through a simulation engine and exports the capture
manifest, flow statistics and ground-truth labels.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadScenario(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
		} else {
			cfg = config.Default()
		}

		// Flags override the file
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		if cmd.Flags().Changed("horizon") {
			cfg.HorizonSeconds = horizon
		}
		if cmd.Flags().Changed("out") {
			cfg.OutputDir = outDir
		}

		log = logger.NewText(cfg.LogLevel, os.Stderr)
		logger.SetDefault(log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "scenario config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "root random seed")
	rootCmd.PersistentFlags().Float64Var(&horizon, "horizon", 1500, "scenario horizon in seconds")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "dataset-out", "output directory")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
