package services

import (
	"strings"
	"testing"

	"github.com/idslab-sim/trafficgen/internal/addressing"
	"github.com/idslab-sim/trafficgen/internal/topology"
	"github.com/idslab-sim/trafficgen/pkg/config"
	"github.com/idslab-sim/trafficgen/pkg/models"
	"github.com/idslab-sim/trafficgen/pkg/utils"
)

func buildTopology(t *testing.T, p config.Populations) *topology.Topology {
	t.Helper()
	topo, err := topology.Build(p)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := addressing.Assign(topo, addressing.DefaultBase); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	return topo
}

func TestBindReferencePlacement(t *testing.T) {
	topo := buildTopology(t, config.Default().Populations)
	horizon := utils.Seconds(1500)

	reg, err := Bind(topo, horizon)
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	cases := []struct {
		label     string
		hostIndex int
		port      uint16
		transport models.Transport
	}{
		{HTTP, 0, 80, models.TransportTCP},
		{HTTPS, 0, 443, models.TransportTCP},
		{Streaming, 0, 554, models.TransportUDP},
		{SMTP, 1, 25, models.TransportTCP},
		{IMAP, 1, 143, models.TransportTCP},
		{POP3, 1, 110, models.TransportTCP},
		{DNS, 2, 53, models.TransportUDP},
		{FTP, 3, 21, models.TransportTCP},
		{SSH, 3, 22, models.TransportTCP},
		{UDPEcho, 4, 9, models.TransportUDP},
		{CnC, 4, 9999, models.TransportTCP},
		{RogueHTTP, 1, 8081, models.TransportTCP},
	}

	for _, tc := range cases {
		b, err := reg.Binding(tc.label)
		if err != nil {
			t.Fatalf("binding %s: %v", tc.label, err)
		}
		wantHost := models.NodeID(models.RoleDMZServer, tc.hostIndex)
		if b.HostID != wantHost {
			t.Fatalf("%s on %s, want %s", tc.label, b.HostID, wantHost)
		}
		if b.Port != tc.port || b.Transport != tc.transport {
			t.Fatalf("%s bound to %d/%s, want %d/%s", tc.label, b.Port, b.Transport, tc.port, tc.transport)
		}
		if !b.Addr.IsValid() {
			t.Fatalf("%s has no address", tc.label)
		}
	}

	vpn, err := reg.Binding(VPN)
	if err != nil {
		t.Fatalf("binding vpn: %v", err)
	}
	if vpn.HostID != models.NodeID(models.RoleVPNServer, 0) || vpn.Port != 443 {
		t.Fatalf("vpn bound to %s:%d", vpn.HostID, vpn.Port)
	}
}

func TestBindWindowsBounded(t *testing.T) {
	topo := buildTopology(t, config.Default().Populations)
	horizon := utils.Seconds(1500)
	reg, err := Bind(topo, horizon)
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	http, _ := reg.Binding(HTTP)
	if http.Stop != horizon {
		t.Fatalf("legitimate service should run to the horizon, stops at %v", http.Stop)
	}

	cnc, _ := reg.Binding(CnC)
	if cnc.Start != utils.Seconds(20) || cnc.Stop != utils.Seconds(700) {
		t.Fatalf("cnc window [%v, %v]", cnc.Start, cnc.Stop)
	}
	rogue, _ := reg.Binding(RogueHTTP)
	if rogue.Start != utils.Seconds(10) || rogue.Stop != utils.Seconds(450) {
		t.Fatalf("rogue window [%v, %v]", rogue.Start, rogue.Stop)
	}
}

func TestBindShortHorizonClampsListeners(t *testing.T) {
	topo := buildTopology(t, config.Default().Populations)
	horizon := utils.Seconds(300)
	reg, err := Bind(topo, horizon)
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	cnc, _ := reg.Binding(CnC)
	if cnc.Stop != horizon {
		t.Fatalf("cnc listener should clamp to the horizon, stops at %v", cnc.Stop)
	}
}

func TestBindSmallDMZWraps(t *testing.T) {
	p := config.Default().Populations
	p.DMZServers = 2
	topo := buildTopology(t, p)

	reg, err := Bind(topo, utils.Seconds(1500))
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	dns, _ := reg.Binding(DNS)
	// host index 2 wraps onto server 0
	if dns.HostID != models.NodeID(models.RoleDMZServer, 0) {
		t.Fatalf("dns on %s, want wrap onto server 0", dns.HostID)
	}
}

func TestBindingUnresolved(t *testing.T) {
	topo := buildTopology(t, config.Default().Populations)
	reg, err := Bind(topo, utils.Seconds(1500))
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	_, err = reg.Binding("gopher")
	if err == nil {
		t.Fatalf("expected unresolved service error")
	}
	if !strings.Contains(err.Error(), "unresolved service") {
		t.Fatalf("error %q does not mention unresolved service", err)
	}
}

func TestBindRequiresAddresses(t *testing.T) {
	topo, err := topology.Build(config.Default().Populations)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := Bind(topo, utils.Seconds(1500)); err == nil {
		t.Fatalf("expected error binding before address assignment")
	}
}

func TestAllRegistrationOrder(t *testing.T) {
	topo := buildTopology(t, config.Default().Populations)
	reg, err := Bind(topo, utils.Seconds(1500))
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	all := reg.All()
	if len(all) != 13 {
		t.Fatalf("expected 13 bindings, got %d", len(all))
	}
	if all[0].Label != HTTP || all[len(all)-1].Label != VPN {
		t.Fatalf("unexpected registration order: first %s, last %s", all[0].Label, all[len(all)-1].Label)
	}
}
