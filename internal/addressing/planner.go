package addressing

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/idslab-sim/trafficgen/internal/topology"
	"github.com/idslab-sim/trafficgen/pkg/models"
)

// DefaultBase is the address pool subnets are carved from
var DefaultBase = netip.MustParsePrefix("10.0.0.0/8")

// Plan is the frozen result of address assignment: one subnet per link and
// one address per (link, node) attachment
type Plan struct {
	Subnets []models.Subnet

	// linkID -> nodeID -> address
	addrs map[string]map[string]netip.Addr
}

// Addr returns the address assigned to a node on a specific link
func (p *Plan) Addr(linkID, nodeID string) (netip.Addr, bool) {
	a, ok := p.addrs[linkID][nodeID]
	return a, ok
}

// Planner allocates non-overlapping subnets with a monotonic cursor: each
// new subnet starts strictly after the previous one's range, so overlap is
// impossible by construction (and still checked).
type Planner struct {
	base   netip.Prefix
	cursor uint32
	last   uint32 // one past the end of the last allocated range
}

// NewPlanner creates a planner over the given pool
func NewPlanner(base netip.Prefix) *Planner {
	return &Planner{
		base:   base,
		cursor: addrU32(base.Addr()),
	}
}

// maskForHosts returns the prefix length of the smallest subnet holding
// hostCount usable addresses plus network and broadcast. Point-to-point
// pairs get a /30, an eleven-member segment a /28, and so on: the width
// follows the population instead of a hard-coded mask per group.
func maskForHosts(hostCount int) int {
	need := uint32(hostCount) + 2
	bits := 0
	for size := uint32(1); size < need; size <<= 1 {
		bits++
	}
	if bits < 2 {
		bits = 2 // /30 minimum
	}
	return 32 - bits
}

// allocate carves the next subnet for hostCount hosts, advancing the cursor
func (p *Planner) allocate(hostCount int, linkID string) (models.Subnet, error) {
	prefixLen := maskForHosts(hostCount)
	size := uint32(1) << (32 - prefixLen)

	// Align to the subnet's natural boundary
	start := (p.cursor + size - 1) &^ (size - 1)
	end := start + size

	baseStart := addrU32(p.base.Addr())
	baseSize := uint32(1) << (32 - p.base.Bits())
	if end > baseStart+baseSize {
		return models.Subnet{}, fmt.Errorf("addressing: pool %s exhausted allocating /%d for link %s",
			p.base, prefixLen, linkID)
	}
	if start < p.last {
		return models.Subnet{}, fmt.Errorf("addressing: allocation for link %s would overlap the previous range", linkID)
	}

	p.cursor = end
	p.last = end
	prefix := netip.PrefixFrom(u32Addr(start), prefixLen)
	return models.Subnet{Prefix: prefix, LinkID: linkID}, nil
}

// Assign walks the topology's links in their fixed traversal order (core
// uplinks, VPN uplink, enterprise, access, DMZ, wifi, per-remote VPN links)
// and assigns one subnet per link and one address per attached node.
func Assign(t *topology.Topology, base netip.Prefix) (*Plan, error) {
	planner := NewPlanner(base)
	plan := &Plan{addrs: make(map[string]map[string]netip.Addr)}

	for _, link := range t.Links {
		sub, err := planner.allocate(len(link.Nodes), link.ID)
		if err != nil {
			return nil, err
		}
		plan.Subnets = append(plan.Subnets, sub)

		host := addrU32(sub.Prefix.Addr()) + 1
		plan.addrs[link.ID] = make(map[string]netip.Addr, len(link.Nodes))
		for _, n := range link.Nodes {
			a := u32Addr(host)
			if !sub.Prefix.Contains(a) {
				return nil, fmt.Errorf("addressing: link %s has more nodes than subnet %s can hold",
					link.ID, sub.Prefix)
			}
			n.AssignAddr(a)
			plan.addrs[link.ID][n.ID] = a
			host++
		}
	}

	return plan, nil
}

func addrU32(a netip.Addr) uint32 {
	b := a.As4()
	return binary.BigEndian.Uint32(b[:])
}

func u32Addr(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}
