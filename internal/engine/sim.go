package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/idslab-sim/trafficgen/internal/addressing"
	"github.com/idslab-sim/trafficgen/internal/topology"
	"github.com/idslab-sim/trafficgen/pkg/models"
)

// Sim is the in-process reference engine. It does not move packets: it
// replays the installed flows' start and stop events on a virtual clock in
// timestamp order and feeds them to the registered observers, which is
// enough to drive statistics collection and to validate a scenario end to
// end before handing it to a packet-level simulator.
type Sim struct {
	horizon time.Duration
	queue   *EventQueue
	log     *slog.Logger

	topo      *topology.Topology
	plan      *addressing.Plan
	routed    bool
	flows     []*models.FlowDescriptor
	captures  []models.MonitorPoint
	observers []Observer

	seq       int64
	processed int64
	active    int
	peak      int
	cancel    context.CancelFunc
}

// NewSim creates a reference engine for one scenario horizon
func NewSim(horizon time.Duration, log *slog.Logger) *Sim {
	if log == nil {
		log = slog.Default()
	}
	return &Sim{
		horizon: horizon,
		queue:   NewEventQueue(),
		log:     log,
	}
}

// AddObserver registers a flow lifecycle observer. Observers must be added
// before Run.
func (s *Sim) AddObserver(obs Observer) {
	s.observers = append(s.observers, obs)
}

// CreateTopology materializes the nodes and links of a built topology
func (s *Sim) CreateTopology(t *topology.Topology) error {
	if s.topo != nil {
		return fmt.Errorf("engine: topology already created")
	}
	s.topo = t
	s.log.Debug("topology created",
		"nodes", len(t.Nodes),
		"links", len(t.Links))
	return nil
}

// AssignAddresses applies a frozen address plan to the topology
func (s *Sim) AssignAddresses(plan *addressing.Plan) error {
	if s.topo == nil {
		return fmt.Errorf("engine: assign addresses before topology is created")
	}
	s.plan = plan
	s.log.Debug("addresses assigned", "subnets", len(plan.Subnets))
	return nil
}

// PopulateRouting computes routes once addresses are in place
func (s *Sim) PopulateRouting() error {
	if s.plan == nil {
		return fmt.Errorf("engine: populate routing before addresses are assigned")
	}
	s.routed = true
	return nil
}

// InstallFlow registers one labeled flow for execution in its window
func (s *Sim) InstallFlow(f *models.FlowDescriptor) error {
	if !s.routed {
		return fmt.Errorf("engine: install flow %q before routing is populated", f.Label)
	}
	if err := f.Validate(s.horizon); err != nil {
		return fmt.Errorf("engine: install flow: %w", err)
	}
	if s.topo.Node(f.SourceID) == nil {
		return fmt.Errorf("engine: flow %q names unknown source node %s", f.Label, f.SourceID)
	}
	s.flows = append(s.flows, f)
	return nil
}

// EnableCapture arms promiscuous capture at a monitor point
func (s *Sim) EnableCapture(mp models.MonitorPoint) error {
	if s.topo == nil {
		return fmt.Errorf("engine: enable capture before topology is created")
	}
	if s.topo.Link(mp.LinkID) == nil {
		return fmt.Errorf("engine: monitor point %q names unknown link %s", mp.Name, mp.LinkID)
	}
	s.captures = append(s.captures, mp)
	s.log.Debug("capture enabled", "point", mp.Name, "link", mp.LinkID)
	return nil
}

func (s *Sim) schedule(t EventType, at time.Duration, f *models.FlowDescriptor) {
	s.queue.Schedule(&Event{
		Seq:  atomic.AddInt64(&s.seq, 1),
		Type: t,
		Time: at,
		Flow: f,
	})
}

// Run replays the installed flows' lifecycle events on the virtual clock.
// The clock only advances as events are drained; within one timestamp,
// events fire in installation order.
func (s *Sim) Run(ctx context.Context) error {
	if !s.routed {
		return fmt.Errorf("engine: run before routing is populated")
	}
	ctx, s.cancel = context.WithCancel(ctx)
	defer s.cancel()

	for _, f := range s.flows {
		s.schedule(EventTypeFlowStart, f.Start, f)
		s.schedule(EventTypeFlowStop, f.Stop, f)
	}
	s.schedule(EventTypeHorizonEnd, s.horizon, nil)

	s.log.Info("scenario run starting",
		"horizon", s.horizon,
		"flows", len(s.flows),
		"captures", len(s.captures))

	clock := time.Duration(0)
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("engine: run cancelled at %v: %w", clock, ctx.Err())
		default:
		}

		event := s.queue.Next()
		if event == nil {
			break
		}
		if event.Time < clock {
			return fmt.Errorf("engine: clock moved backwards: %v after %v", event.Time, clock)
		}
		clock = event.Time
		atomic.AddInt64(&s.processed, 1)

		switch event.Type {
		case EventTypeFlowStart:
			s.active++
			if s.active > s.peak {
				s.peak = s.active
			}
			for _, obs := range s.observers {
				obs.FlowStarted(event.Flow)
			}
		case EventTypeFlowStop:
			s.active--
			for _, obs := range s.observers {
				obs.FlowStopped(event.Flow)
			}
		case EventTypeHorizonEnd:
			s.queue.Clear()
		}
		if event.Type == EventTypeHorizonEnd {
			break
		}
	}

	s.log.Info("scenario run complete",
		"sim_time", clock,
		"events_processed", atomic.LoadInt64(&s.processed),
		"peak_active_flows", s.peak)
	return nil
}

// Stop aborts a running scenario
func (s *Sim) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.queue.Clear()
	s.log.Info("scenario run stopped")
}

// Stats returns counters from the last run
func (s *Sim) Stats() map[string]interface{} {
	return map[string]interface{}{
		"flows_installed":   len(s.flows),
		"captures_enabled":  len(s.captures),
		"events_processed":  atomic.LoadInt64(&s.processed),
		"peak_active_flows": s.peak,
	}
}
