package flowstats

import (
	"net/netip"
	"testing"

	"github.com/idslab-sim/trafficgen/pkg/models"
	"github.com/idslab-sim/trafficgen/pkg/utils"
)

func descriptor(label string, start, stop float64, shape models.Shape, exclusive bool) *models.FlowDescriptor {
	return &models.FlowDescriptor{
		Label:      label,
		SourceID:   "enterprise-client-0",
		SourceAddr: netip.MustParseAddr("10.0.0.10"),
		DestAddr:   netip.MustParseAddr("10.0.0.50"),
		DestPort:   80,
		Transport:  models.TransportTCP,
		Shape:      shape,
		Start:      utils.Seconds(start),
		Stop:       utils.Seconds(stop),
		Exclusive:  exclusive,
	}
}

func finalize(c *Collector, f *models.FlowDescriptor) {
	c.FlowStarted(f)
	c.FlowStopped(f)
}

func TestCollectorBulkEstimate(t *testing.T) {
	c := NewCollector()
	f := descriptor("ftp", 10, 20, models.Shape{
		Kind:       models.ShapeBulk,
		MaxBytes:   10000,
		PacketSize: 1000,
	}, false)
	finalize(c, f)

	recs := c.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.EstBytes != 10000 {
		t.Fatalf("bulk bytes %d, want 10000", r.EstBytes)
	}
	if r.EstPackets != 10 {
		t.Fatalf("bulk packets %d, want 10", r.EstPackets)
	}
	if r.Duration != 10 {
		t.Fatalf("duration %f, want 10", r.Duration)
	}
	if r.MeanRateBps != 8000 {
		t.Fatalf("mean rate %f, want 8000", r.MeanRateBps)
	}
	if r.ID == "" {
		t.Fatalf("record has no ID")
	}
	if r.Attack {
		t.Fatalf("benign flow marked attack")
	}
}

func TestCollectorOnOffEstimate(t *testing.T) {
	c := NewCollector()
	// 1 Mbps, half duty cycle, 100 s window: 6.25 MB sent
	f := descriptor("http", 0, 100, models.Shape{
		Kind:       models.ShapeOnOff,
		RateBps:    1e6,
		PacketSize: 1250,
		OnTime:     utils.Seconds(0.5),
		OffTime:    utils.Seconds(0.5),
	}, false)
	finalize(c, f)

	r := c.Records()[0]
	if r.EstBytes != 6250000 {
		t.Fatalf("onoff bytes %d, want 6250000", r.EstBytes)
	}
	if r.EstPackets != 5000 {
		t.Fatalf("onoff packets %d, want 5000", r.EstPackets)
	}
}

func TestCollectorEchoEstimate(t *testing.T) {
	c := NewCollector()
	// interval spacing caps the packet budget before MaxPackets does
	f := descriptor("udp-echo", 0, 10, models.Shape{
		Kind:       models.ShapeEcho,
		MaxPackets: 1000,
		PacketSize: 100,
		Interval:   utils.Seconds(0.5),
	}, false)
	finalize(c, f)

	r := c.Records()[0]
	if r.EstPackets != 20 {
		t.Fatalf("echo packets %d, want 20", r.EstPackets)
	}
	if r.EstBytes != 2000 {
		t.Fatalf("echo bytes %d, want 2000", r.EstBytes)
	}
}

func TestCollectorUnboundedBulk(t *testing.T) {
	c := NewCollector()
	f := descriptor("syn-flood", 60, 100, models.Shape{Kind: models.ShapeBulk}, true)
	finalize(c, f)

	r := c.Records()[0]
	if r.EstBytes != 0 {
		t.Fatalf("unbounded bulk should estimate 0 bytes, got %d", r.EstBytes)
	}
	if !r.Attack {
		t.Fatalf("exclusive flow should be marked attack")
	}
}

func TestCollectorRecordsSorted(t *testing.T) {
	c := NewCollector()
	shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: 1}
	finalize(c, descriptor("c", 30, 40, shape, false))
	finalize(c, descriptor("a", 10, 20, shape, false))
	finalize(c, descriptor("b", 20, 30, shape, false))

	recs := c.Records()
	for i := 1; i < len(recs); i++ {
		if recs[i].StartSeconds < recs[i-1].StartSeconds {
			t.Fatalf("records not sorted by start: %f after %f",
				recs[i].StartSeconds, recs[i-1].StartSeconds)
		}
	}
}

func TestCollectorOpenTracking(t *testing.T) {
	c := NewCollector()
	f := descriptor("http", 0, 10, models.Shape{Kind: models.ShapeBulk, MaxBytes: 1}, false)

	c.FlowStarted(f)
	if c.Open() != 1 {
		t.Fatalf("expected 1 open flow, got %d", c.Open())
	}
	c.FlowStopped(f)
	if c.Open() != 0 {
		t.Fatalf("expected 0 open flows, got %d", c.Open())
	}
}

func TestCollectorByLabel(t *testing.T) {
	c := NewCollector()
	shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: 100}
	finalize(c, descriptor("http", 10, 20, shape, false))
	finalize(c, descriptor("http", 30, 50, shape, false))
	finalize(c, descriptor("syn-flood", 60, 100, models.Shape{Kind: models.ShapeBulk}, true))

	sums := c.ByLabel()
	if len(sums) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(sums))
	}
	// sorted by label: http before syn-flood
	http := sums[0]
	if http.Label != "http" || http.Flows != 2 || http.EstBytes != 200 {
		t.Fatalf("unexpected http summary: %+v", http)
	}
	if http.ActiveFrom != 10 || http.ActiveUntil != 50 {
		t.Fatalf("http active span [%f, %f]", http.ActiveFrom, http.ActiveUntil)
	}
	if !sums[1].Attack {
		t.Fatalf("syn-flood summary not marked attack")
	}
}
