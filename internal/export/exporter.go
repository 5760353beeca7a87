package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/idslab-sim/trafficgen/internal/flowstats"
	"github.com/idslab-sim/trafficgen/internal/timeline"
	"github.com/idslab-sim/trafficgen/pkg/models"
)

// Output file names within the output directory
const (
	ManifestFile  = "manifest.json"
	TimelineFile  = "timeline.json"
	FlowStatsFile = "flow-stats.json"
	LabelsFile    = "label-summary.json"
	LayoutFile    = "layout.txt"
)

// LabelInfo is one entry of the manifest's label vocabulary
type LabelInfo struct {
	Label  string `json:"label"`
	Attack bool   `json:"attack"`
	Flows  int    `json:"flows"`
}

// Manifest is the ground-truth companion of a generated dataset: enough to
// label every capture interval and to reproduce the run from its seed.
type Manifest struct {
	RunID          string                   `json:"run_id"`
	GeneratedAt    time.Time                `json:"generated_at"`
	Seed           int64                    `json:"seed"`
	HorizonSeconds float64                  `json:"horizon_seconds"`
	Nodes          int                      `json:"nodes"`
	Links          int                      `json:"links"`
	Subnets        int                      `json:"subnets"`
	TotalFlows     int                      `json:"total_flows"`
	Labels         []LabelInfo              `json:"labels"`
	Services       []*models.ServiceBinding `json:"services"`
	MonitorPoints  []models.MonitorPoint    `json:"monitor_points"`
}

// NewRunID returns a fresh manifest run identifier
func NewRunID() string {
	return uuid.NewString()
}

// Exporter writes the dataset companion files to one output directory
type Exporter struct {
	dir string
	log *slog.Logger
}

// New creates an exporter rooted at dir, creating it if needed
func New(dir string, log *slog.Logger) (*Exporter, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create output dir: %w", err)
	}
	return &Exporter{dir: dir, log: log}, nil
}

// Dir returns the output directory
func (e *Exporter) Dir() string {
	return e.dir
}

func (e *Exporter) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("export: encode %s: %w", name, err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", name, err)
	}
	e.log.Debug("wrote output file", "path", path, "bytes", len(data))
	return nil
}

// WriteManifest writes the ground-truth manifest
func (e *Exporter) WriteManifest(m *Manifest) error {
	return e.writeJSON(ManifestFile, m)
}

// WriteTimeline writes the frozen timeline's canonical encoding
func (e *Exporter) WriteTimeline(tl *timeline.Timeline) error {
	data, err := tl.Encode()
	if err != nil {
		return fmt.Errorf("export: encode timeline: %w", err)
	}
	path := filepath.Join(e.dir, TimelineFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", TimelineFile, err)
	}
	return nil
}

// WriteFlowStats writes the per-flow records and the per-label summaries
func (e *Exporter) WriteFlowStats(c *flowstats.Collector) error {
	if err := e.writeJSON(FlowStatsFile, c.Records()); err != nil {
		return err
	}
	return e.writeJSON(LabelsFile, c.ByLabel())
}

// Labels builds the manifest label vocabulary from a frozen timeline.
// Attack labels are those carried only by exclusive flows.
func Labels(tl *timeline.Timeline) []LabelInfo {
	attack := make(map[string]bool)
	for _, f := range tl.Flows() {
		if f.Exclusive {
			attack[f.Label] = true
		}
	}
	counts := tl.CountByLabel()
	out := make([]LabelInfo, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelInfo{Label: label, Attack: attack[label], Flows: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
