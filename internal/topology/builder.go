package topology

import (
	"fmt"
	"time"

	"github.com/idslab-sim/trafficgen/pkg/config"
	"github.com/idslab-sim/trafficgen/pkg/models"
)

// Link identifiers used by the address planner and the exporter. Per-remote
// VPN links are named vpn-remote-<i>.
const (
	LinkCoreDistPrefix  = "core-dist-"
	LinkVPNCore         = "vpn-core"
	LinkEnterpriseLAN   = "enterprise-lan"
	LinkAccessDist      = "access-dist"
	LinkDMZLAN          = "dmz-lan"
	LinkWifiUplink      = "wifi-uplink"
	LinkWifiLAN         = "wifi-lan"
	LinkVPNRemotePrefix = "vpn-remote-"
)

// Topology is the immutable node graph and link set of one scenario
type Topology struct {
	Nodes []*models.Node
	Links []*models.Link

	byRole  map[models.Role][]*models.Node
	byID    map[string]*models.Node
	linksBy map[string]*models.Link
}

// Role returns all nodes with the given role, in creation order
func (t *Topology) Role(role models.Role) []*models.Node {
	return t.byRole[role]
}

// Node returns the node with the given ID, or nil
func (t *Topology) Node(id string) *models.Node {
	return t.byID[id]
}

// Link returns the link with the given ID, or nil
func (t *Topology) Link(id string) *models.Link {
	return t.linksBy[id]
}

// Build constructs the multi-tier enterprise topology from population
// counts: a core router tier, distribution switches (switch 0 serves the
// enterprise and wifi side, switch 1 the DMZ), an access-switch LAN for
// enterprise clients, a DMZ segment, a wifi cell, and a star of dedicated
// VPN links for remote clients. The result is a tree: every non-core node
// has exactly one path to the core router.
func Build(p config.Populations) (*Topology, error) {
	if p.CoreRouters < 1 {
		return nil, fmt.Errorf("topology: no core router, network would be disconnected")
	}
	if p.DistributionSwitches < 2 {
		return nil, fmt.Errorf("topology: need distribution switches for both the enterprise and DMZ sides, got %d", p.DistributionSwitches)
	}
	if p.EnterpriseClients > 0 && p.AccessSwitches < 1 {
		return nil, fmt.Errorf("topology: %d enterprise clients but no access switch", p.EnterpriseClients)
	}
	if p.DMZServers < 1 {
		return nil, fmt.Errorf("topology: no DMZ servers to host services")
	}
	if p.WifiStations > 0 && p.WifiAPs < 1 {
		return nil, fmt.Errorf("topology: %d wifi stations but no access point", p.WifiStations)
	}
	if p.RemoteClients > 0 && p.VPNServers < 1 {
		return nil, fmt.Errorf("topology: %d remote clients but no VPN server", p.RemoteClients)
	}

	t := &Topology{
		byRole:  make(map[models.Role][]*models.Node),
		byID:    make(map[string]*models.Node),
		linksBy: make(map[string]*models.Link),
	}

	t.create(models.RoleCoreRouter, p.CoreRouters)
	t.create(models.RoleDistributionSwitch, p.DistributionSwitches)
	t.create(models.RoleAccessSwitch, p.AccessSwitches)
	t.create(models.RoleEnterpriseClient, p.EnterpriseClients)
	t.create(models.RoleDMZServer, p.DMZServers)
	t.create(models.RoleVPNServer, p.VPNServers)
	t.create(models.RoleWifiAP, p.WifiAPs)
	t.create(models.RoleWifiStation, p.WifiStations)
	t.create(models.RoleRemoteClient, p.RemoteClients)

	core := t.Role(models.RoleCoreRouter)[0]
	dists := t.Role(models.RoleDistributionSwitch)

	// Core to distribution switches: high-speed point-to-point uplinks
	for i, d := range dists {
		t.addLink(fmt.Sprintf("%s%d", LinkCoreDistPrefix, i), models.LinkPointToPoint,
			10000, 2*time.Millisecond, core, d)
	}

	// VPN server uplink to the core
	if p.VPNServers > 0 {
		vpn := t.Role(models.RoleVPNServer)[0]
		t.addLink(LinkVPNCore, models.LinkPointToPoint, 500, 20*time.Millisecond, vpn, core)
	}

	// Enterprise LAN: clients share a segment with the access switch,
	// which uplinks to distribution switch 0
	if p.EnterpriseClients > 0 {
		access := t.Role(models.RoleAccessSwitch)[0]
		members := append([]*models.Node{}, t.Role(models.RoleEnterpriseClient)...)
		members = append(members, access)
		t.addLink(LinkEnterpriseLAN, models.LinkSharedMedium, 500, 2*time.Millisecond, members...)
		t.addLink(LinkAccessDist, models.LinkSharedMedium, 500, 2*time.Millisecond, access, dists[0])
	}

	// DMZ segment behind distribution switch 1
	{
		members := append([]*models.Node{}, t.Role(models.RoleDMZServer)...)
		members = append(members, dists[1])
		t.addLink(LinkDMZLAN, models.LinkSharedMedium, 1000, 2*time.Millisecond, members...)
	}

	// Wifi cell: AP uplinks to distribution switch 0, stations associate
	// with the AP over a single wireless segment
	if p.WifiAPs > 0 {
		ap := t.Role(models.RoleWifiAP)[0]
		t.addLink(LinkWifiUplink, models.LinkSharedMedium, 1000, 2*time.Millisecond, ap, dists[0])
		if p.WifiStations > 0 {
			members := append([]*models.Node{ap}, t.Role(models.RoleWifiStation)...)
			t.addLink(LinkWifiLAN, models.LinkWireless, 54, 2*time.Millisecond, members...)
		}
	}

	// Remote clients each get a dedicated point-to-point tunnel link to
	// the VPN server (star)
	for i, rc := range t.Role(models.RoleRemoteClient) {
		vpn := t.Role(models.RoleVPNServer)[0]
		t.addLink(fmt.Sprintf("%s%d", LinkVPNRemotePrefix, i), models.LinkPointToPoint,
			500, 20*time.Millisecond, vpn, rc)
	}

	if err := t.checkTree(core); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Topology) create(role models.Role, count int) {
	for i := 0; i < count; i++ {
		n := &models.Node{
			ID:    models.NodeID(role, i),
			Role:  role,
			Index: i,
		}
		t.Nodes = append(t.Nodes, n)
		t.byRole[role] = append(t.byRole[role], n)
		t.byID[n.ID] = n
	}
}

func (t *Topology) addLink(id string, kind models.LinkKind, rateMbps float64, delay time.Duration, nodes ...*models.Node) {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	l := &models.Link{
		ID:           id,
		Kind:         kind,
		Nodes:        nodes,
		NodeIDs:      ids,
		DataRateMbps: rateMbps,
		Delay:        delay,
	}
	t.Links = append(t.Links, l)
	t.linksBy[id] = l
}

// checkTree verifies that every node is reachable from the core router
// along exactly one sequence of links. A node reached twice means a cycle;
// an unreached node means a disconnected topology. Both are configuration
// errors.
func (t *Topology) checkTree(core *models.Node) error {
	reached := map[string]bool{core.ID: true}
	usedLink := map[string]bool{}
	frontier := []*models.Node{core}

	for len(frontier) > 0 {
		next := []*models.Node{}
		for _, n := range frontier {
			for _, l := range t.Links {
				if usedLink[l.ID] || !linkHas(l, n.ID) {
					continue
				}
				usedLink[l.ID] = true
				for _, m := range l.Nodes {
					if m.ID == n.ID {
						continue
					}
					if reached[m.ID] {
						return fmt.Errorf("topology: cycle detected at %s via link %s", m.ID, l.ID)
					}
					reached[m.ID] = true
					next = append(next, m)
				}
			}
		}
		frontier = next
	}

	for _, n := range t.Nodes {
		if !reached[n.ID] {
			return fmt.Errorf("topology: node %s has no path to the core router", n.ID)
		}
	}
	return nil
}

func linkHas(l *models.Link, nodeID string) bool {
	for _, id := range l.NodeIDs {
		if id == nodeID {
			return true
		}
	}
	return false
}
