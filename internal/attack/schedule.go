package attack

import (
	"fmt"
	"time"

	"github.com/idslab-sim/trafficgen/pkg/utils"
)

// Window is the absolute time span assigned to one archetype.
type Window struct {
	Start time.Duration
	Stop  time.Duration
}

// scheduleWindows lays the enabled archetypes out sequentially from the
// attack phase start: each window follows the previous one after the
// profile's gap, so exclusive windows are disjoint by construction no
// matter which subset of the catalog is enabled. The first profile's gap
// is ignored; its window opens exactly at start.
func scheduleWindows(start, horizon time.Duration, profiles []*Profile) (map[string]Window, error) {
	windows := make(map[string]Window, len(profiles))
	cursor := start
	for i, p := range profiles {
		if p.Duration <= 0 {
			return nil, fmt.Errorf("attack: archetype %s has non-positive duration %v", p.Name, p.Duration)
		}
		if i > 0 {
			cursor += utils.Seconds(p.Gap)
		}
		w := Window{Start: cursor, Stop: cursor + utils.Seconds(p.Duration)}
		if w.Stop > horizon {
			return nil, fmt.Errorf("attack: window for %s ends at %v, beyond the %v horizon; raise the horizon or disable archetypes", p.Name, w.Stop, horizon)
		}
		windows[p.Name] = w
		cursor = w.Stop
	}
	return windows, nil
}
