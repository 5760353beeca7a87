package models

import (
	"fmt"
	"net/netip"
	"time"
)

// Role identifies the function of a node in the enterprise topology
type Role string

const (
	RoleCoreRouter         Role = "core-router"
	RoleDistributionSwitch Role = "distribution-switch"
	RoleAccessSwitch       Role = "access-switch"
	RoleEnterpriseClient   Role = "enterprise-client"
	RoleDMZServer          Role = "dmz-server"
	RoleVPNServer          Role = "vpn-server"
	RoleRemoteClient       Role = "remote-client"
	RoleWifiAP             Role = "wifi-ap"
	RoleWifiStation        Role = "wifi-station"
)

// Node is a single network element. Nodes are created once by the topology
// builder and are immutable afterwards except for address assignment, which
// appends one address per attached link.
type Node struct {
	ID    string       `json:"id"`
	Role  Role         `json:"role"`
	Index int          `json:"index"`
	Addrs []netip.Addr `json:"addrs,omitempty"`
}

// NodeID builds the canonical node identifier for a role and index
func NodeID(role Role, index int) string {
	return fmt.Sprintf("%s-%d", role, index)
}

// AssignAddr records an interface address on the node
func (n *Node) AssignAddr(a netip.Addr) {
	n.Addrs = append(n.Addrs, a)
}

// Addr returns the node's primary (first assigned) address
func (n *Node) Addr() netip.Addr {
	if len(n.Addrs) == 0 {
		return netip.Addr{}
	}
	return n.Addrs[0]
}

// LinkKind is the transport model of a link
type LinkKind string

const (
	LinkPointToPoint LinkKind = "point-to-point"
	LinkSharedMedium LinkKind = "shared-medium"
	LinkWireless     LinkKind = "wireless"
)

// Link connects an ordered pair of nodes, or a group for shared-medium and
// wireless segments. Links are owned by the topology builder and read-only
// afterwards.
type Link struct {
	ID           string        `json:"id"`
	Kind         LinkKind      `json:"kind"`
	Nodes        []*Node       `json:"-"`
	NodeIDs      []string      `json:"node_ids"`
	DataRateMbps float64       `json:"data_rate_mbps"`
	Delay        time.Duration `json:"delay"`
}

// Subnet is an address range assigned to exactly one link
type Subnet struct {
	Prefix netip.Prefix `json:"prefix"`
	LinkID string       `json:"link_id"`
}

// Transport is the L4 protocol of a flow
type Transport string

const (
	TransportTCP  Transport = "tcp"
	TransportUDP  Transport = "udp"
	TransportICMP Transport = "icmp"
)

// ServiceBinding binds a protocol server to a host, port and active window.
// The label is the vocabulary used later for traffic attribution.
type ServiceBinding struct {
	Label     string        `json:"label"`
	Host      *Node         `json:"-"`
	HostID    string        `json:"host_id"`
	Addr      netip.Addr    `json:"addr"`
	Port      uint16        `json:"port"`
	Transport Transport     `json:"transport"`
	Start     time.Duration `json:"start"`
	Stop      time.Duration `json:"stop"`
}

// ShapeKind selects the traffic shape template of a flow
type ShapeKind string

const (
	// ShapeBulk transfers up to MaxBytes as fast as the path allows.
	// MaxBytes == 0 means unbounded, e.g. a SYN flood.
	ShapeBulk ShapeKind = "bulk"
	// ShapeOnOff alternates between sending at RateBps and silence
	ShapeOnOff ShapeKind = "onoff"
	// ShapeEcho sends MaxPackets fixed-size datagrams at Interval spacing
	ShapeEcho ShapeKind = "echo"
)

// Shape carries the sampled shaping parameters of a flow
type Shape struct {
	Kind       ShapeKind     `json:"kind"`
	MaxBytes   int64         `json:"max_bytes,omitempty"`
	PacketSize int           `json:"packet_size,omitempty"`
	RateBps    float64       `json:"rate_bps,omitempty"`
	OnTime     time.Duration `json:"on_time,omitempty"`
	OffTime    time.Duration `json:"off_time,omitempty"`
	Interval   time.Duration `json:"interval,omitempty"`
	MaxPackets int           `json:"max_packets,omitempty"`
}

// FlowDescriptor is the central unit of the scenario model: one
// parameterized, labeled traffic generation unit with a start/stop time
// relative to the scenario origin. Descriptors are created by generators,
// appended to the timeline and never mutated.
type FlowDescriptor struct {
	Label      string        `json:"label"`
	SourceID   string        `json:"source_id"`
	SourceAddr netip.Addr    `json:"source_addr"`
	DestAddr   netip.Addr    `json:"dest_addr"`
	DestPort   uint16        `json:"dest_port"`
	Transport  Transport     `json:"transport"`
	Shape      Shape         `json:"shape"`
	Start      time.Duration `json:"start"`
	Stop       time.Duration `json:"stop"`

	// Exclusive marks the flow's (dest, port, window) as an exclusive
	// attack window: no other exclusive flow may overlap it on the same
	// target, so every capture interval maps to exactly one label.
	Exclusive bool `json:"exclusive,omitempty"`
}

// Validate checks the descriptor invariants against the scenario horizon
func (f *FlowDescriptor) Validate(horizon time.Duration) error {
	if f.Label == "" {
		return fmt.Errorf("flow %s->%s:%d: empty label", f.SourceID, f.DestAddr, f.DestPort)
	}
	if f.Start < 0 {
		return fmt.Errorf("flow %q from %s: negative start %v", f.Label, f.SourceID, f.Start)
	}
	if f.Start >= f.Stop {
		return fmt.Errorf("flow %q from %s: start %v not before stop %v", f.Label, f.SourceID, f.Start, f.Stop)
	}
	if f.Stop > horizon {
		return fmt.Errorf("flow %q from %s: stop %v exceeds horizon %v", f.Label, f.SourceID, f.Stop, horizon)
	}
	return nil
}

// Overlaps reports whether the [Start, Stop) intervals of two flows intersect
func (f *FlowDescriptor) Overlaps(other *FlowDescriptor) bool {
	return f.Start < other.Stop && other.Start < f.Stop
}

// MonitorPoint names a link the exporter asks the engine to capture in
// promiscuous mode
type MonitorPoint struct {
	Name        string `json:"name"`
	LinkID      string `json:"link_id"`
	NodeID      string `json:"node_id"`
	Promiscuous bool   `json:"promiscuous"`
}
