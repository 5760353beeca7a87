package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idslab-sim/trafficgen/internal/scenario"
)

var (
	noBenign      bool
	noAttacks     bool
	enableAttacks []string
	disableAttack []string
	attackerCount map[string]int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build the scenario, run it and export the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		if noBenign {
			cfg.Benign.Disabled = true
		}
		if noAttacks {
			cfg.Attacks.Disabled = true
		}
		if len(enableAttacks) > 0 {
			cfg.Attacks.Enable = enableAttacks
		}
		if len(disableAttack) > 0 {
			cfg.Attacks.Disable = disableAttack
		}
		for name, n := range attackerCount {
			if cfg.Attacks.Attackers == nil {
				cfg.Attacks.Attackers = make(map[string]int)
			}
			cfg.Attacks.Attackers[name] = n
		}

		runID, err := scenario.Run(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "dataset written to %s (run %s)\n", cfg.OutputDir, runID)
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&noBenign, "no-benign", false, "skip benign traffic (attack-only dataset)")
	generateCmd.Flags().BoolVar(&noAttacks, "no-attacks", false, "skip attack injection (benign-only dataset)")
	generateCmd.Flags().StringSliceVar(&enableAttacks, "enable-attack", nil, "restrict injection to these archetypes")
	generateCmd.Flags().StringSliceVar(&disableAttack, "disable-attack", nil, "remove these archetypes from the enabled set")
	generateCmd.Flags().StringToIntVar(&attackerCount, "attackers", nil, "attacker count overrides, e.g. syn-flood=5")
	rootCmd.AddCommand(generateCmd)
}
