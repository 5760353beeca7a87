package timeline

import (
	"bytes"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/idslab-sim/trafficgen/pkg/models"
	"github.com/idslab-sim/trafficgen/pkg/utils"
)

func flow(label string, start, stop float64, exclusive bool) *models.FlowDescriptor {
	return &models.FlowDescriptor{
		Label:      label,
		SourceID:   "enterprise-client-0",
		SourceAddr: netip.MustParseAddr("10.0.0.10"),
		DestAddr:   netip.MustParseAddr("10.0.0.50"),
		DestPort:   80,
		Transport:  models.TransportTCP,
		Shape:      models.Shape{Kind: models.ShapeBulk, MaxBytes: 1024},
		Start:      utils.Seconds(start),
		Stop:       utils.Seconds(stop),
		Exclusive:  exclusive,
	}
}

func TestFreezeSortsByStart(t *testing.T) {
	tl := New(utils.Seconds(100))
	if err := tl.AppendAll([]*models.FlowDescriptor{
		flow("http", 30, 40, false),
		flow("http", 10, 20, false),
		flow("http", 20, 30, false),
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := tl.Freeze(); err != nil {
		t.Fatalf("freeze failed: %v", err)
	}

	flows := tl.Flows()
	for i := 1; i < len(flows); i++ {
		if flows[i].Start < flows[i-1].Start {
			t.Fatalf("flows not sorted by start: %v after %v", flows[i].Start, flows[i-1].Start)
		}
	}
}

func TestFreezeStableForEqualStarts(t *testing.T) {
	tl := New(utils.Seconds(100))
	a := flow("first", 10, 20, false)
	b := flow("second", 10, 20, false)
	if err := tl.AppendAll([]*models.FlowDescriptor{a, b}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := tl.Freeze(); err != nil {
		t.Fatalf("freeze failed: %v", err)
	}
	flows := tl.Flows()
	if flows[0] != a || flows[1] != b {
		t.Fatalf("equal-start flows reordered")
	}
}

func TestAppendAfterFreeze(t *testing.T) {
	tl := New(utils.Seconds(100))
	if err := tl.Freeze(); err != nil {
		t.Fatalf("freeze failed: %v", err)
	}
	if err := tl.Append(flow("http", 1, 2, false)); err == nil {
		t.Fatalf("expected append-after-freeze error")
	}
	if !tl.Frozen() {
		t.Fatalf("timeline should report frozen")
	}
}

func TestFreezeRejectsInvalidFlows(t *testing.T) {
	cases := []struct {
		name string
		f    *models.FlowDescriptor
	}{
		{"beyond horizon", flow("http", 10, 200, false)},
		{"empty window", flow("http", 10, 10, false)},
		{"negative start", flow("http", -1, 10, false)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tl := New(utils.Seconds(100))
			if err := tl.Append(tc.f); err != nil {
				t.Fatalf("append failed: %v", err)
			}
			if err := tl.Freeze(); err == nil {
				t.Fatalf("expected freeze to reject flow")
			}
		})
	}

	t.Run("unlabeled", func(t *testing.T) {
		tl := New(utils.Seconds(100))
		f := flow("", 1, 2, false)
		if err := tl.Append(f); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		err := tl.Freeze()
		if err == nil || !strings.Contains(err.Error(), "empty label") {
			t.Fatalf("expected empty label error, got %v", err)
		}
	})
}

func TestFreezeRejectsExclusiveCollision(t *testing.T) {
	tl := New(utils.Seconds(100))
	if err := tl.AppendAll([]*models.FlowDescriptor{
		flow("syn-flood", 10, 40, true),
		flow("ddos", 30, 60, true),
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	err := tl.Freeze()
	if err == nil {
		t.Fatalf("expected exclusive collision error")
	}
	if !strings.Contains(err.Error(), "exclusive windows collide") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFreezeAllowsSameLabelInterleave(t *testing.T) {
	// one archetype's flows may interleave on the same target
	tl := New(utils.Seconds(100))
	if err := tl.AppendAll([]*models.FlowDescriptor{
		flow("syn-flood", 10, 40, true),
		flow("syn-flood", 10.1, 40, true),
		flow("syn-flood", 10.2, 40, true),
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := tl.Freeze(); err != nil {
		t.Fatalf("same-label flows should not collide: %v", err)
	}
}

func TestFreezeAllowsBenignOverlapWithExclusive(t *testing.T) {
	tl := New(utils.Seconds(100))
	if err := tl.AppendAll([]*models.FlowDescriptor{
		flow("http", 10, 60, false),
		flow("syn-flood", 20, 40, true),
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := tl.Freeze(); err != nil {
		t.Fatalf("benign overlap should be allowed: %v", err)
	}
}

func TestFreezeAllowsDisjointExclusiveWindows(t *testing.T) {
	tl := New(utils.Seconds(100))
	if err := tl.AppendAll([]*models.FlowDescriptor{
		flow("syn-flood", 10, 40, true),
		flow("ddos", 40, 60, true),
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := tl.Freeze(); err != nil {
		t.Fatalf("adjacent exclusive windows should be allowed: %v", err)
	}
}

func TestCountByLabel(t *testing.T) {
	tl := New(utils.Seconds(100))
	if err := tl.AppendAll([]*models.FlowDescriptor{
		flow("http", 1, 2, false),
		flow("http", 3, 4, false),
		flow("dns", 5, 6, false),
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	counts := tl.CountByLabel()
	if counts["http"] != 2 || counts["dns"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestActiveDuring(t *testing.T) {
	tl := New(utils.Seconds(100))
	if err := tl.AppendAll([]*models.FlowDescriptor{
		flow("a", 0, 10, false),
		flow("b", 5, 15, false),
		flow("c", 20, 30, false),
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	active := tl.ActiveDuring(utils.Seconds(8), utils.Seconds(12))
	if len(active) != 2 {
		t.Fatalf("expected 2 active flows, got %d", len(active))
	}
	if got := tl.ActiveDuring(utils.Seconds(15), utils.Seconds(20)); len(got) != 0 {
		t.Fatalf("half-open intervals should exclude boundaries, got %d flows", len(got))
	}
}

func TestEncodeDeterministic(t *testing.T) {
	build := func() []byte {
		tl := New(utils.Seconds(100))
		if err := tl.AppendAll([]*models.FlowDescriptor{
			flow("http", 30, 40, false),
			flow("dns", 10, 20, false),
		}); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if err := tl.Freeze(); err != nil {
			t.Fatalf("freeze failed: %v", err)
		}
		data, err := tl.Encode()
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		return data
	}

	if !bytes.Equal(build(), build()) {
		t.Fatalf("identical timelines encoded differently")
	}
}

func TestEncodeBeforeFreeze(t *testing.T) {
	tl := New(time.Minute)
	if _, err := tl.Encode(); err == nil {
		t.Fatalf("expected encode-before-freeze error")
	}
}
