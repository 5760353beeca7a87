package export

import (
	"strings"

	"github.com/idslab-sim/trafficgen/internal/topology"
	"github.com/idslab-sim/trafficgen/pkg/models"
)

// MonitorPoints derives the capture plan from a built topology: every
// aggregation link an IDS sensor would tap. Promiscuous capture at these
// points sees all enterprise, DMZ, wifi and VPN traffic at least once.
func MonitorPoints(t *topology.Topology) []models.MonitorPoint {
	var points []models.MonitorPoint
	add := func(name, linkID string) {
		link := t.Link(linkID)
		if link == nil {
			return
		}
		points = append(points, models.MonitorPoint{
			Name:        name,
			LinkID:      linkID,
			NodeID:      link.NodeIDs[0],
			Promiscuous: true,
		})
	}

	for _, link := range t.Links {
		if strings.HasPrefix(link.ID, topology.LinkCoreDistPrefix) {
			add("core-uplink/"+link.ID, link.ID)
		}
	}
	add("vpn-gateway", topology.LinkVPNCore)
	add("enterprise-segment", topology.LinkEnterpriseLAN)
	add("dmz-segment", topology.LinkDMZLAN)
	add("wifi-uplink", topology.LinkWifiUplink)
	return points
}
