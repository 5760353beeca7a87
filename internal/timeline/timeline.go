package timeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/idslab-sim/trafficgen/pkg/models"
)

// Timeline is the ordered multiset of all flow descriptors in a scenario.
// It is append-only while generators run and frozen before the engine is
// instructed, so no descriptor is ever mutated after validation.
type Timeline struct {
	horizon time.Duration
	flows   []*models.FlowDescriptor
	frozen  bool
}

// New creates an empty timeline bounded by the scenario horizon
func New(horizon time.Duration) *Timeline {
	return &Timeline{horizon: horizon}
}

// Horizon returns the scenario horizon
func (t *Timeline) Horizon() time.Duration {
	return t.horizon
}

// Append adds a flow descriptor. Appending to a frozen timeline is a
// programming error and is rejected.
func (t *Timeline) Append(f *models.FlowDescriptor) error {
	if t.frozen {
		return fmt.Errorf("timeline: append after freeze")
	}
	t.flows = append(t.flows, f)
	return nil
}

// AppendAll adds a batch of flow descriptors
func (t *Timeline) AppendAll(flows []*models.FlowDescriptor) error {
	for _, f := range flows {
		if err := t.Append(f); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of descriptors
func (t *Timeline) Len() int {
	return len(t.flows)
}

// Freeze validates every descriptor against the timeline invariants and
// orders the set by start time (ties keep insertion order). After a
// successful freeze the timeline is immutable.
//
// Invariants: every interval lies in [0, horizon]; every label is
// non-empty; flows flagged exclusive on the same (target, port) must not
// overlap. An exclusive collision is a configuration error: the scenario
// build fails rather than producing an ambiguously labeled dataset.
func (t *Timeline) Freeze() error {
	if t.frozen {
		return nil
	}
	for _, f := range t.flows {
		if err := f.Validate(t.horizon); err != nil {
			return fmt.Errorf("timeline: %w", err)
		}
	}
	if err := t.checkExclusive(); err != nil {
		return err
	}
	sort.SliceStable(t.flows, func(i, j int) bool {
		return t.flows[i].Start < t.flows[j].Start
	})
	t.frozen = true
	return nil
}

// Frozen reports whether Freeze has completed
func (t *Timeline) Frozen() bool {
	return t.frozen
}

// Flows returns the descriptors. After freeze the slice is in start-time
// order; callers must not mutate the entries.
func (t *Timeline) Flows() []*models.FlowDescriptor {
	out := make([]*models.FlowDescriptor, len(t.flows))
	copy(out, t.flows)
	return out
}

// CountByLabel returns the number of descriptors per label
func (t *Timeline) CountByLabel() map[string]int {
	counts := make(map[string]int)
	for _, f := range t.flows {
		counts[f.Label]++
	}
	return counts
}

// ActiveDuring returns the descriptors whose interval intersects
// [from, to)
func (t *Timeline) ActiveDuring(from, to time.Duration) []*models.FlowDescriptor {
	probe := &models.FlowDescriptor{Start: from, Stop: to}
	var out []*models.FlowDescriptor
	for _, f := range t.flows {
		if f.Overlaps(probe) {
			out = append(out, f)
		}
	}
	return out
}

// Encode serializes the frozen timeline deterministically. Two runs with
// the same root seed produce byte-identical encodings.
func (t *Timeline) Encode() ([]byte, error) {
	if !t.frozen {
		return nil, fmt.Errorf("timeline: encode before freeze")
	}
	return json.MarshalIndent(t.flows, "", "  ")
}

type targetKey struct {
	addr string
	port uint16
}

// checkExclusive folds the exclusive flows of each (target, port) into one
// envelope interval per label, then requires the envelopes to be pairwise
// disjoint. Flows of a single archetype instance may interleave freely;
// two different labels claiming the same target at the same time cannot.
func (t *Timeline) checkExclusive() error {
	type envelope struct {
		label       string
		start, stop time.Duration
	}
	byTarget := make(map[targetKey]map[string]*envelope)
	for _, f := range t.flows {
		if !f.Exclusive {
			continue
		}
		k := targetKey{addr: f.DestAddr.String(), port: f.DestPort}
		if byTarget[k] == nil {
			byTarget[k] = make(map[string]*envelope)
		}
		env := byTarget[k][f.Label]
		if env == nil {
			byTarget[k][f.Label] = &envelope{label: f.Label, start: f.Start, stop: f.Stop}
			continue
		}
		if f.Start < env.start {
			env.start = f.Start
		}
		if f.Stop > env.stop {
			env.stop = f.Stop
		}
	}
	for k, labels := range byTarget {
		envs := make([]*envelope, 0, len(labels))
		for _, env := range labels {
			envs = append(envs, env)
		}
		sort.Slice(envs, func(i, j int) bool { return envs[i].start < envs[j].start })
		for i := 1; i < len(envs); i++ {
			prev, cur := envs[i-1], envs[i]
			if cur.start < prev.stop {
				return fmt.Errorf("timeline: exclusive windows collide on %s:%d: %q [%v,%v) and %q [%v,%v)",
					k.addr, k.port, prev.label, prev.start, prev.stop, cur.label, cur.start, cur.stop)
			}
		}
	}
	return nil
}
