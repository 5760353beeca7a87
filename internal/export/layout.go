package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/idslab-sim/trafficgen/internal/addressing"
	"github.com/idslab-sim/trafficgen/internal/topology"
)

// WriteLayout renders the topology, its links and its address plan as a
// plain-text file, one link block per segment. This is the human-readable
// cross-check for the machine-readable manifest.
func (e *Exporter) WriteLayout(t *topology.Topology, plan *addressing.Plan) error {
	var b strings.Builder

	b.WriteString("network layout\n")
	b.WriteString("==============\n\n")
	fmt.Fprintf(&b, "nodes: %d  links: %d  subnets: %d\n\n", len(t.Nodes), len(t.Links), len(plan.Subnets))

	prefixes := make(map[string]string, len(plan.Subnets))
	for _, s := range plan.Subnets {
		prefixes[s.LinkID] = s.Prefix.String()
	}

	for _, link := range t.Links {
		fmt.Fprintf(&b, "%s (%s, %.0f Mbps, %v delay)", link.ID, link.Kind, link.DataRateMbps, link.Delay)
		if p, ok := prefixes[link.ID]; ok {
			fmt.Fprintf(&b, "  %s", p)
		}
		b.WriteString("\n")
		for _, n := range link.Nodes {
			addr, ok := plan.Addr(link.ID, n.ID)
			if ok {
				fmt.Fprintf(&b, "  %-24s %s\n", n.ID, addr)
			} else {
				fmt.Fprintf(&b, "  %-24s (unaddressed)\n", n.ID)
			}
		}
		b.WriteString("\n")
	}

	path := filepath.Join(e.dir, LayoutFile)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", LayoutFile, err)
	}
	return nil
}
