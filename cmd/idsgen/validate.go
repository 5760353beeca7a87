package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/idslab-sim/trafficgen/internal/attack"
	"github.com/idslab-sim/trafficgen/internal/scenario"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Build the scenario without running it and print a summary",
	Long: `validate runs the declarative pipeline (topology, addresses, services,
timeline) against the configuration and reports what a generate run would
produce. Configuration errors, unschedulable attack windows and exclusive
window conflicts all surface here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Build(cfg, log)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "scenario ok: %d nodes, %d links, %d subnets\n",
			len(s.Topology.Nodes), len(s.Topology.Links), len(s.Plan.Subnets))
		fmt.Fprintf(out, "services: %d  monitor points: %d  flows: %d\n",
			len(s.Registry.All()), len(s.Monitor), s.Timeline.Len())

		counts := s.Timeline.CountByLabel()
		labels := make([]string, 0, len(counts))
		for label := range counts {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(out, "  %-24s %d\n", label, counts[label])
		}
		return nil
	},
}

var archetypesCmd = &cobra.Command{
	Use:   "archetypes",
	Short: "List the attack archetypes in the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range attack.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(archetypesCmd)
}
