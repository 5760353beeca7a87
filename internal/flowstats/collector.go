package flowstats

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idslab-sim/trafficgen/pkg/models"
	"github.com/idslab-sim/trafficgen/pkg/utils"
)

// FlowRecord is the per-flow statistics row emitted alongside the capture.
// Byte and packet counts are analytic estimates from the flow's shape, which
// is what the labeling pipeline needs to cross-check a capture against its
// ground truth.
type FlowRecord struct {
	ID           string           `json:"id"`
	Label        string           `json:"label"`
	SourceID     string           `json:"source_id"`
	SourceAddr   string           `json:"source_addr"`
	DestAddr     string           `json:"dest_addr"`
	DestPort     uint16           `json:"dest_port"`
	Transport    models.Transport `json:"transport"`
	StartSeconds float64          `json:"start_seconds"`
	StopSeconds  float64          `json:"stop_seconds"`
	Duration     float64          `json:"duration_seconds"`
	EstBytes     int64            `json:"est_bytes"`
	EstPackets   int64            `json:"est_packets"`
	MeanRateBps  float64          `json:"mean_rate_bps"`
	Attack       bool             `json:"attack"`
}

// LabelSummary aggregates the records sharing one label
type LabelSummary struct {
	Label       string  `json:"label"`
	Flows       int     `json:"flows"`
	EstBytes    int64   `json:"est_bytes"`
	ActiveFrom  float64 `json:"active_from_seconds"`
	ActiveUntil float64 `json:"active_until_seconds"`
	Attack      bool    `json:"attack"`
}

// Collector builds flow records from the engine's lifecycle callbacks. It
// satisfies the engine observer interface; records are finalized when the
// flow's stop event fires.
type Collector struct {
	mu      sync.RWMutex
	open    map[*models.FlowDescriptor]string
	records []*FlowRecord
}

// NewCollector creates an empty statistics collector
func NewCollector() *Collector {
	return &Collector{
		open: make(map[*models.FlowDescriptor]string),
	}
}

// FlowStarted assigns the flow its record ID
func (c *Collector) FlowStarted(f *models.FlowDescriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open[f] = uuid.NewString()
}

// FlowStopped finalizes the flow's record
func (c *Collector) FlowStopped(f *models.FlowDescriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.open[f]
	if !ok {
		// stop without start is an engine ordering bug; record it anyway
		id = uuid.NewString()
	}
	delete(c.open, f)

	duration := f.Stop - f.Start
	bytes, packets := estimate(f.Shape, duration)
	rec := &FlowRecord{
		ID:           id,
		Label:        f.Label,
		SourceID:     f.SourceID,
		SourceAddr:   f.SourceAddr.String(),
		DestAddr:     f.DestAddr.String(),
		DestPort:     f.DestPort,
		Transport:    f.Transport,
		StartSeconds: utils.ToSeconds(f.Start),
		StopSeconds:  utils.ToSeconds(f.Stop),
		Duration:     utils.ToSeconds(duration),
		EstBytes:     bytes,
		EstPackets:   packets,
		Attack:       f.Exclusive,
	}
	if rec.Duration > 0 {
		rec.MeanRateBps = float64(bytes) * 8 / rec.Duration
	}
	c.records = append(c.records, rec)
}

// estimate derives analytic byte and packet counts from a shape over a
// window. Unbounded bulk flows (MaxBytes 0) estimate zero bytes: their
// volume is path-limited and only the packet simulator knows it.
func estimate(s models.Shape, window time.Duration) (bytes int64, packets int64) {
	seconds := utils.ToSeconds(window)
	switch s.Kind {
	case models.ShapeBulk:
		bytes = s.MaxBytes
		if s.PacketSize > 0 {
			packets = (bytes + int64(s.PacketSize) - 1) / int64(s.PacketSize)
		}
	case models.ShapeOnOff:
		on := utils.ToSeconds(s.OnTime)
		off := utils.ToSeconds(s.OffTime)
		duty := 1.0
		if on+off > 0 {
			duty = on / (on + off)
		}
		bytes = int64(s.RateBps / 8 * seconds * duty)
		if s.PacketSize > 0 {
			packets = bytes / int64(s.PacketSize)
		}
	case models.ShapeEcho:
		packets = int64(s.MaxPackets)
		if s.Interval > 0 {
			fit := int64(seconds / utils.ToSeconds(s.Interval))
			if packets == 0 || fit < packets {
				packets = fit
			}
		}
		bytes = packets * int64(s.PacketSize)
	}
	return bytes, packets
}

// Records returns the finalized records sorted by start time, then label
func (c *Collector) Records() []*FlowRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*FlowRecord, len(c.records))
	copy(out, c.records)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartSeconds != out[j].StartSeconds {
			return out[i].StartSeconds < out[j].StartSeconds
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Open returns how many flows have started but not yet stopped
func (c *Collector) Open() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.open)
}

// ByLabel aggregates the finalized records per label, sorted by label
func (c *Collector) ByLabel() []*LabelSummary {
	byLabel := make(map[string]*LabelSummary)
	for _, rec := range c.Records() {
		s, ok := byLabel[rec.Label]
		if !ok {
			s = &LabelSummary{
				Label:       rec.Label,
				ActiveFrom:  rec.StartSeconds,
				ActiveUntil: rec.StopSeconds,
				Attack:      rec.Attack,
			}
			byLabel[rec.Label] = s
		}
		s.Flows++
		s.EstBytes += rec.EstBytes
		s.ActiveFrom = utils.MinFloat64(s.ActiveFrom, rec.StartSeconds)
		s.ActiveUntil = utils.MaxFloat64(s.ActiveUntil, rec.StopSeconds)
	}

	out := make([]*LabelSummary, 0, len(byLabel))
	for _, s := range byLabel {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
