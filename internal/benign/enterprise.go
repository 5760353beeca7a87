package benign

import (
	"github.com/idslab-sim/trafficgen/internal/services"
	"github.com/idslab-sim/trafficgen/pkg/models"
	"github.com/idslab-sim/trafficgen/pkg/utils"
)

// enterprise emits the wired-office traffic mix: steady web sessions,
// bursts of mail, DNS query trains, several large FTP transfers, SSH
// sessions, echo probes and evening streaming. Parameter ranges follow the
// reference enterprise dataset.
func (g *Generator) enterprise(clients []*models.Node, rng *utils.RandSource) ([]*models.FlowDescriptor, error) {
	var flows []*models.FlowDescriptor
	add := func(f *models.FlowDescriptor) {
		if f != nil {
			flows = append(flows, f)
		}
	}

	payload := utils.Uniform(512, 10*kb)
	requestGap := utils.Exponential(0.5)

	for i, c := range clients {
		if g.wants(services.HTTP) {
			b, err := g.reg.Binding(services.HTTP)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{
				Kind:       models.ShapeOnOff,
				PacketSize: int(payload.Sample(rng)),
				RateBps:    mbps(1),
				OnTime:     utils.Seconds(0.2),
				OffTime:    utils.Seconds(utils.Exponential(1.5).Sample(rng)),
			}
			add(g.flow(c, b, shape, stagger(5, 1, i, requestGap.Sample(rng)), g.horizon))
		}

		if g.wants(services.HTTPS) {
			b, err := g.reg.Binding(services.HTTPS)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{
				Kind:       models.ShapeOnOff,
				PacketSize: int(payload.Sample(rng)),
				RateBps:    kbps(500),
				OnTime:     utils.Seconds(0.3),
				OffTime:    utils.Seconds(utils.Exponential(2).Sample(rng)),
			}
			add(g.flow(c, b, shape, stagger(6, 1, i, requestGap.Sample(rng)), g.horizon))
		}

		if g.wants(services.SMTP) {
			b, err := g.mailBinding(i)
			if err != nil {
				return nil, err
			}
			mailSize := utils.Uniform(50*kb, 150*kb)
			mailGap := utils.Exponential(30)
			// Each client exchanges a burst of ten mails over the run
			for j := 0; j < 10; j++ {
				shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(mailSize.Sample(rng))}
				add(g.flow(c, b, shape, stagger(10, 2, i, mailGap.Sample(rng)), g.horizon))
			}
		}

		if g.wants(services.DNS) {
			b, err := g.reg.Binding(services.DNS)
			if err != nil {
				return nil, err
			}
			querySize := utils.Uniform(64, 512)
			queryGap := utils.Exponential(0.5)
			// Busier clients resolve more names
			queries := 20 + i*5
			for j := 0; j < queries; j++ {
				shape := models.Shape{
					Kind:       models.ShapeEcho,
					MaxPackets: 1,
					PacketSize: int(querySize.Sample(rng)),
					Interval:   utils.Seconds(queryGap.Sample(rng)),
				}
				add(g.flow(c, b, shape, stagger(15, 0.5, i, float64(j)*0.1), g.horizon))
			}
		}

		if g.wants(services.FTP) {
			b, err := g.reg.Binding(services.FTP)
			if err != nil {
				return nil, err
			}
			fileSize := utils.Uniform(1*mb, 10*mb)
			idle := utils.Exponential(1)
			transfers := 3 + i%3
			for j := 0; j < transfers; j++ {
				shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(fileSize.Sample(rng))}
				add(g.flow(c, b, shape, stagger(20, 0.5, i, float64(j)*idle.Sample(rng)), g.horizon))
			}
		}

		if g.wants(services.SSH) {
			b, err := g.reg.Binding(services.SSH)
			if err != nil {
				return nil, err
			}
			sessionSize := utils.Exponential(500 * kb)
			idle := utils.Uniform(1, 5)
			sessions := 2 + i%3
			for j := 0; j < sessions; j++ {
				shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(sessionSize.Sample(rng))}
				add(g.flow(c, b, shape, stagger(25, 0.5, i, float64(j)*idle.Sample(rng)), g.horizon))
			}
		}

		if g.wants(services.UDPEcho) {
			b, err := g.reg.Binding(services.UDPEcho)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{
				Kind:       models.ShapeEcho,
				MaxPackets: rng.IntBetween(10, 50),
				PacketSize: int(utils.Uniform(128, 1500).Sample(rng)),
				Interval:   utils.Seconds(utils.Exponential(0.1).Sample(rng)),
			}
			add(g.flow(c, b, shape, stagger(12, 0.5, i, 0), g.horizon))
		}

		if g.wants(services.Streaming) {
			b, err := g.reg.Binding(services.Streaming)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{
				Kind:       models.ShapeOnOff,
				PacketSize: int(utils.Uniform(512, 1500).Sample(rng)),
				RateBps:    mbps(utils.Uniform(1.5, 8).Sample(rng)),
				OnTime:     utils.Seconds(utils.Exponential(2).Sample(rng)),
				OffTime:    utils.Seconds(utils.Exponential(0.5).Sample(rng)),
			}
			add(g.flow(c, b, shape, stagger(100, 0.5, i, 0), g.horizon))
		}
	}

	return flows, nil
}
