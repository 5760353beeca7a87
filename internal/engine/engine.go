package engine

import (
	"context"

	"github.com/idslab-sim/trafficgen/internal/addressing"
	"github.com/idslab-sim/trafficgen/internal/topology"
	"github.com/idslab-sim/trafficgen/pkg/models"
)

// Engine is the sink the scenario orchestrator drives. The orchestrator
// builds the whole scenario declaratively and then replays it into an
// engine: first the topology, then addresses and routing, then every flow
// and capture point, then Run. The in-process Sim below is the reference
// implementation; a packet-level simulator binding satisfies the same
// interface.
type Engine interface {
	// CreateTopology materializes the nodes and links of a built topology
	CreateTopology(t *topology.Topology) error

	// AssignAddresses applies a frozen address plan to the topology
	AssignAddresses(plan *addressing.Plan) error

	// PopulateRouting computes routes once addresses are in place
	PopulateRouting() error

	// InstallFlow registers one labeled flow for execution in its window
	InstallFlow(f *models.FlowDescriptor) error

	// EnableCapture arms promiscuous capture at a monitor point
	EnableCapture(mp models.MonitorPoint) error

	// Run executes the scenario up to the horizon
	Run(ctx context.Context) error

	// Stop aborts a running scenario
	Stop()
}

// Observer receives flow lifecycle callbacks as the engine's clock passes
// each flow's start and stop time. Events arrive in timestamp order.
type Observer interface {
	FlowStarted(f *models.FlowDescriptor)
	FlowStopped(f *models.FlowDescriptor)
}
