package benign

import (
	"log/slog"
	"time"

	"github.com/idslab-sim/trafficgen/internal/services"
	"github.com/idslab-sim/trafficgen/internal/topology"
	"github.com/idslab-sim/trafficgen/pkg/logger"
	"github.com/idslab-sim/trafficgen/pkg/models"
	"github.com/idslab-sim/trafficgen/pkg/utils"
)

// Generator emits labeled benign flow descriptors for the three client
// populations. Shaping parameters are sampled per flow from distributions
// chosen per (population, service) pairing, and every client's flows are
// staggered by a linear per-client offset plus random jitter so the
// populations never burst in lockstep.
type Generator struct {
	reg     *services.Registry
	horizon time.Duration
	enabled map[string]bool
	log     *slog.Logger
}

// DefaultServices is the benign service mix emitted when no restriction is
// configured
var DefaultServices = []string{
	services.HTTP, services.HTTPS, services.SMTP, services.IMAP, services.POP3,
	services.DNS, services.FTP, services.SSH, services.UDPEcho, services.Streaming,
}

// New creates a benign generator over the given registry and horizon
func New(reg *services.Registry, horizon time.Duration) *Generator {
	return &Generator{
		reg:     reg,
		horizon: horizon,
		log:     logger.Default,
	}
}

// WithServices restricts generation to the given service labels
func (g *Generator) WithServices(labels ...string) *Generator {
	g.enabled = make(map[string]bool, len(labels))
	for _, l := range labels {
		g.enabled[l] = true
	}
	return g
}

func (g *Generator) wants(label string) bool {
	if g.enabled == nil {
		return true
	}
	return g.enabled[label]
}

// Generate produces the full benign schedule for every client population.
// Each population draws from its own random source derived from the root
// seed, so enabling or reordering one population does not perturb the
// sampled parameters of another.
func (g *Generator) Generate(t *topology.Topology, rootSeed int64) ([]*models.FlowDescriptor, error) {
	var flows []*models.FlowDescriptor

	ent, err := g.enterprise(t.Role(models.RoleEnterpriseClient), utils.Derive(rootSeed, "benign/enterprise"))
	if err != nil {
		return nil, err
	}
	flows = append(flows, ent...)

	wifi, err := g.wifi(t.Role(models.RoleWifiStation), utils.Derive(rootSeed, "benign/wifi"))
	if err != nil {
		return nil, err
	}
	flows = append(flows, wifi...)

	remote, err := g.remote(t.Role(models.RoleRemoteClient), utils.Derive(rootSeed, "benign/remote"))
	if err != nil {
		return nil, err
	}
	flows = append(flows, remote...)

	g.log.Info("benign traffic generated",
		"enterprise_flows", len(ent),
		"wifi_flows", len(wifi),
		"remote_flows", len(remote))
	return flows, nil
}

// flow assembles one labeled descriptor against a service binding. Flows
// whose window would be empty (start at or past stop) are dropped: small
// horizons simply truncate the schedule instead of failing it.
func (g *Generator) flow(src *models.Node, b *models.ServiceBinding, shape models.Shape, start, stop time.Duration) *models.FlowDescriptor {
	if stop > g.horizon {
		stop = g.horizon
	}
	if start < 0 || start >= stop {
		return nil
	}
	return &models.FlowDescriptor{
		Label:      b.Label,
		SourceID:   src.ID,
		SourceAddr: src.Addr(),
		DestAddr:   b.Addr,
		DestPort:   b.Port,
		Transport:  b.Transport,
		Shape:      shape,
		Start:      start,
		Stop:       stop,
	}
}

// mailBinding assigns one of SMTP, IMAP and POP3 round-robin by client
// index, modeling clients that either send or fetch mail. The choice is
// structural rather than sampled so the per-label flow counts depend only
// on the population sizes, never on the seed.
func (g *Generator) mailBinding(i int) (*models.ServiceBinding, error) {
	labels := []string{services.SMTP, services.IMAP, services.POP3}
	return g.reg.Binding(labels[i%len(labels)])
}

// stagger computes base + i*step + jitter seconds
func stagger(base, step float64, i int, jitter float64) time.Duration {
	return utils.Seconds(base + float64(i)*step + jitter)
}

func mbps(v float64) float64 { return v * 1e6 }
func kbps(v float64) float64 { return v * 1e3 }

const (
	kb = 1024
	mb = 1024 * 1024
)
