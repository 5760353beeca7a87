package services

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/idslab-sim/trafficgen/internal/topology"
	"github.com/idslab-sim/trafficgen/pkg/models"
	"github.com/idslab-sim/trafficgen/pkg/utils"
)

// Canonical service labels. These are the benign half of the label
// vocabulary the exporter writes into the manifest.
const (
	HTTP      = "http"
	HTTPS     = "https"
	SMTP      = "smtp"
	IMAP      = "imap"
	POP3      = "pop3"
	DNS       = "dns"
	FTP       = "ftp"
	SSH       = "ssh"
	UDPEcho   = "udp-echo"
	Streaming = "streaming"
	VPN       = "vpn"

	// CnC is the operator-defined command-and-control listener used by
	// the botnet archetype
	CnC = "cnc"

	// RogueHTTP is the attacker-controlled listener the MITM archetype
	// redirects web traffic to
	RogueHTTP = "rogue-http"
)

// Registry resolves service labels to their host binding
type Registry struct {
	bindings map[string]*models.ServiceBinding
	order    []string
}

// Bind places the canonical service catalog on the topology's DMZ hosts:
// web and streaming on server 0, mail on server 1, DNS on server 2, FTP and
// SSH on server 3, echo and the C&C listener on server 4 (indices wrap for
// smaller DMZ populations), the rogue listener beside the mail server, and
// the VPN service on the VPN server. Legitimate services are active for the
// whole horizon; the C&C and rogue listeners have bounded windows.
func Bind(t *topology.Topology, horizon time.Duration) (*Registry, error) {
	dmz := t.Role(models.RoleDMZServer)
	if len(dmz) == 0 {
		return nil, fmt.Errorf("services: no DMZ servers to bind to")
	}
	host := func(i int) *models.Node { return dmz[i%len(dmz)] }

	r := &Registry{bindings: make(map[string]*models.ServiceBinding)}
	full := func(label string, h *models.Node, port uint16, tr models.Transport) error {
		return r.add(label, h, port, tr, utils.Seconds(1), horizon)
	}

	if err := full(HTTP, host(0), 80, models.TransportTCP); err != nil {
		return nil, err
	}
	if err := full(HTTPS, host(0), 443, models.TransportTCP); err != nil {
		return nil, err
	}
	if err := full(Streaming, host(0), 554, models.TransportUDP); err != nil {
		return nil, err
	}
	if err := full(SMTP, host(1), 25, models.TransportTCP); err != nil {
		return nil, err
	}
	if err := full(IMAP, host(1), 143, models.TransportTCP); err != nil {
		return nil, err
	}
	if err := full(POP3, host(1), 110, models.TransportTCP); err != nil {
		return nil, err
	}
	if err := full(DNS, host(2), 53, models.TransportUDP); err != nil {
		return nil, err
	}
	if err := full(FTP, host(3), 21, models.TransportTCP); err != nil {
		return nil, err
	}
	if err := full(SSH, host(3), 22, models.TransportTCP); err != nil {
		return nil, err
	}
	if err := full(UDPEcho, host(4), 9, models.TransportUDP); err != nil {
		return nil, err
	}

	// Bounded listeners used only by attack archetypes
	cncStop := utils.MinDuration(utils.Seconds(700), horizon)
	if err := r.add(CnC, host(4), 9999, models.TransportTCP, utils.Seconds(20), cncStop); err != nil {
		return nil, err
	}
	rogueStop := utils.MinDuration(utils.Seconds(450), horizon)
	if err := r.add(RogueHTTP, host(1), 8081, models.TransportTCP, utils.Seconds(10), rogueStop); err != nil {
		return nil, err
	}

	if vpns := t.Role(models.RoleVPNServer); len(vpns) > 0 {
		if err := full(VPN, vpns[0], 443, models.TransportTCP); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Registry) add(label string, host *models.Node, port uint16, tr models.Transport, start, stop time.Duration) error {
	if host.Addr() == (netip.Addr{}) {
		return fmt.Errorf("services: host %s has no address, bind services after address assignment", host.ID)
	}
	if _, exists := r.bindings[label]; exists {
		return fmt.Errorf("services: duplicate binding for %q", label)
	}
	r.bindings[label] = &models.ServiceBinding{
		Label:     label,
		Host:      host,
		HostID:    host.ID,
		Addr:      host.Addr(),
		Port:      port,
		Transport: tr,
		Start:     start,
		Stop:      stop,
	}
	r.order = append(r.order, label)
	return nil
}

// Binding returns the full binding for a service label. An unknown label is
// an unresolved-service configuration error.
func (r *Registry) Binding(label string) (*models.ServiceBinding, error) {
	b, ok := r.bindings[label]
	if !ok {
		return nil, fmt.Errorf("services: unresolved service %q", label)
	}
	return b, nil
}

// Lookup returns the (host address, port) pair for a service label
func (r *Registry) Lookup(label string) (netip.Addr, uint16, error) {
	b, err := r.Binding(label)
	if err != nil {
		return netip.Addr{}, 0, err
	}
	return b.Addr, b.Port, nil
}

// All returns every binding in registration order
func (r *Registry) All() []*models.ServiceBinding {
	out := make([]*models.ServiceBinding, 0, len(r.order))
	for _, label := range r.order {
		out = append(out, r.bindings[label])
	}
	return out
}
