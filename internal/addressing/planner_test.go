package addressing

import (
	"net/netip"
	"testing"

	"github.com/idslab-sim/trafficgen/internal/topology"
	"github.com/idslab-sim/trafficgen/pkg/config"
)

func TestMaskForHosts(t *testing.T) {
	cases := []struct {
		hosts int
		want  int
	}{
		{1, 30},
		{2, 30},
		{5, 29},
		{6, 29},
		{11, 28},
		{14, 28},
		{15, 27},
		{30, 27},
		{62, 26},
	}
	for _, tc := range cases {
		if got := maskForHosts(tc.hosts); got != tc.want {
			t.Fatalf("maskForHosts(%d) = /%d, want /%d", tc.hosts, got, tc.want)
		}
	}
}

func TestAssignReferenceTopology(t *testing.T) {
	topo, err := topology.Build(config.Default().Populations)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	plan, err := Assign(topo, DefaultBase)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	if len(plan.Subnets) != len(topo.Links) {
		t.Fatalf("expected one subnet per link: %d vs %d", len(plan.Subnets), len(topo.Links))
	}

	// subnets are pairwise disjoint
	for i, a := range plan.Subnets {
		for _, b := range plan.Subnets[i+1:] {
			if a.Prefix.Overlaps(b.Prefix) {
				t.Fatalf("subnets %s (%s) and %s (%s) overlap",
					a.Prefix, a.LinkID, b.Prefix, b.LinkID)
			}
		}
		if !DefaultBase.Contains(a.Prefix.Addr()) {
			t.Fatalf("subnet %s outside the pool", a.Prefix)
		}
	}

	// every attached node got an in-subnet address on every link
	for _, link := range topo.Links {
		var sub netip.Prefix
		for _, s := range plan.Subnets {
			if s.LinkID == link.ID {
				sub = s.Prefix
			}
		}
		for _, n := range link.Nodes {
			a, ok := plan.Addr(link.ID, n.ID)
			if !ok {
				t.Fatalf("node %s has no address on link %s", n.ID, link.ID)
			}
			if !sub.Contains(a) {
				t.Fatalf("address %s of %s outside subnet %s of link %s", a, n.ID, sub, link.ID)
			}
		}
	}

	// no address reused anywhere
	seen := map[netip.Addr]string{}
	for _, link := range topo.Links {
		for _, n := range link.Nodes {
			a, _ := plan.Addr(link.ID, n.ID)
			if prev, dup := seen[a]; dup {
				t.Fatalf("address %s assigned to both %s and %s/%s", a, prev, link.ID, n.ID)
			}
			seen[a] = link.ID + "/" + n.ID
		}
	}
}

func TestAssignDeterministic(t *testing.T) {
	p := config.Default().Populations

	build := func() *Plan {
		topo, err := topology.Build(p)
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		plan, err := Assign(topo, DefaultBase)
		if err != nil {
			t.Fatalf("assign failed: %v", err)
		}
		return plan
	}

	a, b := build(), build()
	for i := range a.Subnets {
		if a.Subnets[i] != b.Subnets[i] {
			t.Fatalf("subnet %d differs: %v vs %v", i, a.Subnets[i], b.Subnets[i])
		}
	}
}

func TestAssignPoolExhaustion(t *testing.T) {
	topo, err := topology.Build(config.Default().Populations)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	// a /28 cannot hold 18 subnets
	if _, err := Assign(topo, netip.MustParsePrefix("10.0.0.0/28")); err == nil {
		t.Fatalf("expected pool exhaustion error")
	}
}
