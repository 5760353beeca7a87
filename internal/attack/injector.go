package attack

import (
	"fmt"
	"log/slog"
	"net/netip"
	"sort"
	"time"

	"github.com/idslab-sim/trafficgen/internal/services"
	"github.com/idslab-sim/trafficgen/internal/topology"
	"github.com/idslab-sim/trafficgen/pkg/config"
	"github.com/idslab-sim/trafficgen/pkg/models"
	"github.com/idslab-sim/trafficgen/pkg/utils"
)

// Injector expands catalog profiles into labeled attack flows against a
// built topology and service registry.
type Injector struct {
	topo    *topology.Topology
	reg     *services.Registry
	horizon time.Duration
	log     *slog.Logger
}

// NewInjector creates an injector for the given topology and registry
func NewInjector(topo *topology.Topology, reg *services.Registry, horizon time.Duration, log *slog.Logger) *Injector {
	if log == nil {
		log = slog.Default()
	}
	return &Injector{topo: topo, reg: reg, horizon: horizon, log: log}
}

// Inject selects the enabled archetypes, schedules their windows from the
// configured attack phase start, and expands each into flow descriptors.
// Random draws come from a sub-seed derived per archetype, so disabling one
// archetype does not perturb another's flows.
func (inj *Injector) Inject(cfg config.AttacksConfig, rootSeed int64) ([]*models.FlowDescriptor, error) {
	if cfg.Disabled {
		inj.log.Info("attack injection disabled")
		return nil, nil
	}
	profiles, err := enabled(cfg)
	if err != nil {
		return nil, err
	}
	windows, err := scheduleWindows(utils.Seconds(cfg.StartSeconds), inj.horizon, profiles)
	if err != nil {
		return nil, err
	}

	var flows []*models.FlowDescriptor
	for _, p := range profiles {
		rng := utils.Derive(rootSeed, "attack/"+p.Name)
		expanded, err := inj.expand(p, windows[p.Name], cfg.Attackers[p.Name], rng)
		if err != nil {
			return nil, err
		}
		flows = append(flows, expanded...)
	}
	inj.log.Info("attack flows injected",
		"archetypes", len(profiles),
		"flows", len(flows))
	return flows, nil
}

// enabled filters the catalog by the enable/disable lists, preserving
// catalog (and therefore schedule) order. Unknown names are configuration
// errors, not silent no-ops.
func enabled(cfg config.AttacksConfig) ([]*Profile, error) {
	catalog := Catalog()
	known := make(map[string]bool, len(catalog))
	for _, p := range catalog {
		known[p.Name] = true
	}
	for _, name := range cfg.Enable {
		if !known[name] {
			return nil, fmt.Errorf("attack: unknown archetype %q in enable list", name)
		}
	}
	for _, name := range cfg.Disable {
		if !known[name] {
			return nil, fmt.Errorf("attack: unknown archetype %q in disable list", name)
		}
	}
	for name := range cfg.Attackers {
		if !known[name] {
			return nil, fmt.Errorf("attack: unknown archetype %q in attackers map", name)
		}
	}

	keep := make(map[string]bool, len(catalog))
	if len(cfg.Enable) > 0 {
		for _, name := range cfg.Enable {
			keep[name] = true
		}
	} else {
		for _, p := range catalog {
			keep[p.Name] = true
		}
	}
	for _, name := range cfg.Disable {
		delete(keep, name)
	}

	var out []*Profile
	for _, p := range catalog {
		if keep[p.Name] {
			out = append(out, p)
		}
	}
	return out, nil
}

// target is a resolved destination endpoint
type target struct {
	addr      netip.Addr
	port      uint16
	transport models.Transport
}

// expand is the single expansion path for every archetype: resolve targets,
// pick attackers, then emit one flow per attacker x repetition unit. The
// repetition axis is whichever of Ports, Payloads or Attempts the profile
// sets; profiles with none emit one flow per attacker.
func (inj *Injector) expand(p *Profile, w Window, attackerOverride int, rng *utils.RandSource) ([]*models.FlowDescriptor, error) {
	targets, err := inj.resolveTargets(p, w)
	if err != nil {
		return nil, err
	}
	attackers, err := inj.pickAttackers(p, attackerOverride)
	if err != nil {
		return nil, err
	}

	var flows []*models.FlowDescriptor
	for i, atk := range attackers {
		base := w.Start + utils.Seconds(float64(i)*p.Stagger)
		for _, tgt := range targets {
			for _, u := range unitsOf(p, tgt) {
				start := base + u.offset
				if start >= w.Stop {
					continue
				}
				flows = append(flows, &models.FlowDescriptor{
					Label:      p.Name,
					SourceID:   atk.ID,
					SourceAddr: atk.Addr(),
					DestAddr:   tgt.addr,
					DestPort:   u.port,
					Transport:  tgt.transport,
					Shape:      sampleShape(p.Shape, u.payload, rng),
					Start:      start,
					Stop:       w.Stop,
					Exclusive:  p.Exclusive,
				})
			}
		}
	}
	if len(flows) == 0 {
		return nil, fmt.Errorf("attack: archetype %s expanded to zero flows", p.Name)
	}
	return flows, nil
}

// unit is one repetition of an attacker's activity within the window
type unit struct {
	offset  time.Duration
	port    uint16
	payload string
}

func unitsOf(p *Profile, tgt target) []unit {
	switch {
	case len(p.Ports) > 0:
		units := make([]unit, 0, len(p.Ports))
		for _, port := range p.Ports {
			units = append(units, unit{
				offset: utils.Seconds(float64(port) * p.PortStagger),
				port:   port,
			})
		}
		return units
	case len(p.Payloads) > 0:
		units := make([]unit, 0, len(p.Payloads))
		for i, payload := range p.Payloads {
			units = append(units, unit{
				offset:  utils.Seconds(float64(i) * p.PayloadGap),
				port:    tgt.port,
				payload: payload,
			})
		}
		return units
	case p.Attempts > 0:
		units := make([]unit, 0, p.Attempts)
		for i := 0; i < p.Attempts; i++ {
			units = append(units, unit{
				offset: utils.Seconds(float64(i) * p.AttemptGap),
				port:   tgt.port,
			})
		}
		return units
	default:
		return []unit{{port: tgt.port}}
	}
}

func (inj *Injector) resolveTargets(p *Profile, w Window) ([]target, error) {
	var targets []target
	if p.TargetService != "" {
		for _, label := range append([]string{p.TargetService}, extra(p)...) {
			b, err := inj.reg.Binding(label)
			if err != nil {
				return nil, fmt.Errorf("attack: archetype %s: %w", p.Name, err)
			}
			// bounded listeners (cnc, rogue-http) close before the horizon;
			// a window that misses them would attack a dead port
			if w.Start >= b.Stop || w.Stop <= b.Start {
				return nil, fmt.Errorf("attack: archetype %s: window [%v, %v] misses the %s service window [%v, %v]",
					p.Name, w.Start, w.Stop, label, b.Start, b.Stop)
			}
			tr := b.Transport
			if p.Transport != "" {
				tr = p.Transport
			}
			targets = append(targets, target{addr: b.Addr, port: b.Port, transport: tr})
		}
		return targets, nil
	}
	nodes := inj.topo.Role(p.TargetRole)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("attack: archetype %s: no %s nodes to target", p.Name, p.TargetRole)
	}
	tr := p.Transport
	if tr == "" {
		tr = models.TransportTCP
	}
	return []target{{addr: nodes[0].Addr(), port: p.TargetPort, transport: tr}}, nil
}

func extra(p *Profile) []string {
	if p.ExtraService == "" {
		return nil
	}
	return []string{p.ExtraService}
}

// pickAttackers selects attacker nodes per the profile. Requesting more
// attackers than the population holds clamps to the population size with a
// warning: the run still reproduces, but with fewer sources than asked for.
func (inj *Injector) pickAttackers(p *Profile, override int) ([]*models.Node, error) {
	if len(p.AttackerRoles) > 0 {
		var out []*models.Node
		for i, role := range p.AttackerRoles {
			pop := inj.topo.Role(role)
			if len(pop) == 0 {
				inj.log.Warn("attacker population empty, skipping source",
					"archetype", p.Name, "role", string(role))
				continue
			}
			out = append(out, pop[i%len(pop)])
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("attack: archetype %s: all attacker populations empty", p.Name)
		}
		return out, nil
	}

	pop := inj.topo.Role(p.AttackerRole)
	if len(pop) == 0 {
		return nil, fmt.Errorf("attack: archetype %s: no %s nodes to attack from", p.Name, p.AttackerRole)
	}
	want := p.Attackers
	if override > 0 {
		want = override
	}
	if want > len(pop) {
		inj.log.Warn("attacker population smaller than requested, clamping",
			"archetype", p.Name,
			"requested", want,
			"available", len(pop))
		want = len(pop)
	}
	out := make([]*models.Node, 0, want)
	for j := 0; j < want; j++ {
		out = append(out, pop[(p.AttackerOffset+j)%len(pop)])
	}
	return out, nil
}

func sampleShape(s shapeSpec, payload string, rng *utils.RandSource) models.Shape {
	shape := models.Shape{
		Kind:       s.kind,
		MaxBytes:   int64(s.maxBytes.Sample(rng)),
		PacketSize: int(s.packetSize.Sample(rng)),
		RateBps:    s.rateBps,
		OnTime:     utils.Seconds(s.onTime.Sample(rng)),
		OffTime:    utils.Seconds(s.offTime.Sample(rng)),
		Interval:   utils.Seconds(s.interval.Sample(rng)),
		MaxPackets: s.maxPackets,
	}
	if payload != "" {
		shape.PacketSize = len(payload) + s.payloadPad
	}
	return shape
}

// Names returns every archetype name in the catalog, sorted
func Names() []string {
	catalog := Catalog()
	names := make([]string, 0, len(catalog))
	for _, p := range catalog {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}
