package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/idslab-sim/trafficgen/internal/addressing"
	"github.com/idslab-sim/trafficgen/internal/attack"
	"github.com/idslab-sim/trafficgen/internal/benign"
	"github.com/idslab-sim/trafficgen/internal/engine"
	"github.com/idslab-sim/trafficgen/internal/export"
	"github.com/idslab-sim/trafficgen/internal/flowstats"
	"github.com/idslab-sim/trafficgen/internal/services"
	"github.com/idslab-sim/trafficgen/internal/timeline"
	"github.com/idslab-sim/trafficgen/internal/topology"
	"github.com/idslab-sim/trafficgen/pkg/config"
	"github.com/idslab-sim/trafficgen/pkg/models"
)

// Scenario is one fully built dataset generation run: the topology, its
// address plan, the service registry, the frozen timeline and the capture
// plan. Build produces it declaratively; Execute replays it into an engine.
type Scenario struct {
	Config   *config.ScenarioConfig
	Topology *topology.Topology
	Plan     *addressing.Plan
	Registry *services.Registry
	Timeline *timeline.Timeline
	Monitor  []models.MonitorPoint

	log *slog.Logger
}

// Build runs the declarative pipeline: topology, addresses, services,
// benign flows, attack flows, frozen timeline, capture plan. Everything
// after Build is pure replay; two Builds from the same config produce
// identical scenarios.
func Build(cfg *config.ScenarioConfig, log *slog.Logger) (*Scenario, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	horizon := cfg.Horizon()

	topo, err := topology.Build(cfg.Populations)
	if err != nil {
		return nil, err
	}
	plan, err := addressing.Assign(topo, addressing.DefaultBase)
	if err != nil {
		return nil, err
	}
	reg, err := services.Bind(topo, horizon)
	if err != nil {
		return nil, err
	}

	tl := timeline.New(horizon)
	if !cfg.Benign.Disabled {
		flows, err := benign.New(reg, horizon).Generate(topo, cfg.Seed)
		if err != nil {
			return nil, err
		}
		if err := tl.AppendAll(flows); err != nil {
			return nil, err
		}
	} else {
		log.Info("benign traffic disabled")
	}

	flows, err := attack.NewInjector(topo, reg, horizon, log).Inject(cfg.Attacks, cfg.Seed)
	if err != nil {
		return nil, err
	}
	if err := tl.AppendAll(flows); err != nil {
		return nil, err
	}
	if err := tl.Freeze(); err != nil {
		return nil, err
	}

	s := &Scenario{
		Config:   cfg,
		Topology: topo,
		Plan:     plan,
		Registry: reg,
		Timeline: tl,
		Monitor:  export.MonitorPoints(topo),
		log:      log,
	}
	log.Info("scenario built",
		"nodes", len(topo.Nodes),
		"links", len(topo.Links),
		"flows", tl.Len(),
		"monitor_points", len(s.Monitor))
	return s, nil
}

// Execute replays the scenario into an engine in the canonical order:
// topology, addresses, routing, flows, capture points, run.
func (s *Scenario) Execute(ctx context.Context, eng engine.Engine) error {
	if err := eng.CreateTopology(s.Topology); err != nil {
		return err
	}
	if err := eng.AssignAddresses(s.Plan); err != nil {
		return err
	}
	if err := eng.PopulateRouting(); err != nil {
		return err
	}
	for _, f := range s.Timeline.Flows() {
		if err := eng.InstallFlow(f); err != nil {
			return err
		}
	}
	for _, mp := range s.Monitor {
		if err := eng.EnableCapture(mp); err != nil {
			return err
		}
	}
	return eng.Run(ctx)
}

// Export writes the dataset companion files for a completed run
func (s *Scenario) Export(runID string, stats *flowstats.Collector) error {
	exp, err := export.New(s.Config.OutputDir, s.log)
	if err != nil {
		return err
	}
	manifest := &export.Manifest{
		RunID:          runID,
		GeneratedAt:    time.Now().UTC(),
		Seed:           s.Config.Seed,
		HorizonSeconds: s.Config.HorizonSeconds,
		Nodes:          len(s.Topology.Nodes),
		Links:          len(s.Topology.Links),
		Subnets:        len(s.Plan.Subnets),
		TotalFlows:     s.Timeline.Len(),
		Labels:         export.Labels(s.Timeline),
		Services:       s.Registry.All(),
		MonitorPoints:  s.Monitor,
	}
	if err := exp.WriteManifest(manifest); err != nil {
		return err
	}
	if err := exp.WriteTimeline(s.Timeline); err != nil {
		return err
	}
	if err := exp.WriteLayout(s.Topology, s.Plan); err != nil {
		return err
	}
	if stats != nil {
		if err := exp.WriteFlowStats(stats); err != nil {
			return err
		}
	}
	s.log.Info("dataset exported", "dir", exp.Dir(), "run_id", runID)
	return nil
}

// Run builds the scenario, executes it on the in-process reference engine
// and exports the dataset. This is the whole pipeline behind the CLI's
// generate command.
func Run(ctx context.Context, cfg *config.ScenarioConfig, log *slog.Logger) (string, error) {
	s, err := Build(cfg, log)
	if err != nil {
		return "", err
	}

	stats := flowstats.NewCollector()
	sim := engine.NewSim(cfg.Horizon(), log)
	sim.AddObserver(stats)
	if err := s.Execute(ctx, sim); err != nil {
		return "", err
	}
	if open := stats.Open(); open != 0 {
		return "", fmt.Errorf("scenario: %d flows still open after run", open)
	}

	runID := export.NewRunID()
	if err := s.Export(runID, stats); err != nil {
		return "", err
	}
	return runID, nil
}
