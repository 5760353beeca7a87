package benign

import (
	"github.com/idslab-sim/trafficgen/internal/services"
	"github.com/idslab-sim/trafficgen/pkg/models"
	"github.com/idslab-sim/trafficgen/pkg/utils"
)

// remote emits the VPN road-warrior mix: short bursty sessions with wide
// random start offsets and several explicitly bounded windows, reflecting
// intermittent connectivity rather than an always-on desk machine.
func (g *Generator) remote(clients []*models.Node, rng *utils.RandSource) ([]*models.FlowDescriptor, error) {
	var flows []*models.FlowDescriptor
	add := func(f *models.FlowDescriptor) {
		if f != nil {
			flows = append(flows, f)
		}
	}

	for i, c := range clients {
		if g.wants(services.HTTP) {
			b, err := g.reg.Binding(services.HTTP)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(utils.Uniform(256*kb, 1280*kb).Sample(rng))}
			// Bounded burst: each client browses in a short window
			add(g.flow(c, b, shape, stagger(5, 10, i, 0), stagger(30, 20, i, 0)))
		}

		if g.wants(services.HTTPS) {
			b, err := g.reg.Binding(services.HTTPS)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(utils.Uniform(128*kb, 1152*kb).Sample(rng))}
			add(g.flow(c, b, shape, stagger(12, 15, i, 0), g.horizon))
		}

		if g.wants(services.SMTP) {
			b, err := g.mailBinding(i)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(utils.Uniform(20*kb, 100*kb).Sample(rng))}
			add(g.flow(c, b, shape, stagger(20, 10, i, utils.Uniform(0, 15).Sample(rng)), g.horizon))
		}

		if g.wants(services.DNS) {
			b, err := g.reg.Binding(services.DNS)
			if err != nil {
				return nil, err
			}
			// Few queries, long gaps: resolver caching does the rest
			shape := models.Shape{
				Kind:       models.ShapeEcho,
				MaxPackets: 3,
				PacketSize: 48,
				Interval:   utils.Seconds(utils.Uniform(1.5, 4.5).Sample(rng)),
			}
			add(g.flow(c, b, shape, stagger(30, 5, i, 0), stagger(150, 10, i, 0)))
		}

		if g.wants(services.FTP) {
			b, err := g.reg.Binding(services.FTP)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(utils.Uniform(200*kb, 3300*kb).Sample(rng))}
			add(g.flow(c, b, shape, stagger(40, 8, i, utils.Uniform(0, 20).Sample(rng)), g.horizon))
		}

		if g.wants(services.SSH) {
			b, err := g.reg.Binding(services.SSH)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(utils.Uniform(100*kb, 400*kb).Sample(rng))}
			add(g.flow(c, b, shape, stagger(50, 6, i, utils.Uniform(0, 10).Sample(rng)), g.horizon))
		}

		if g.wants(services.UDPEcho) {
			b, err := g.reg.Binding(services.UDPEcho)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{
				Kind:       models.ShapeEcho,
				MaxPackets: 10,
				PacketSize: int(utils.Uniform(256, 768).Sample(rng)),
				Interval:   utils.Seconds(utils.Uniform(2, 4).Sample(rng)),
			}
			add(g.flow(c, b, shape, stagger(55, 4, i, utils.Uniform(0, 20).Sample(rng)), g.horizon))
		}

		if g.wants(services.Streaming) {
			b, err := g.reg.Binding(services.Streaming)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{
				Kind:       models.ShapeOnOff,
				PacketSize: int(utils.Uniform(512, 1536).Sample(rng)),
				RateBps:    mbps(1),
				OnTime:     utils.Seconds(1),
				OffTime:    utils.Seconds(utils.Uniform(0.5, 2).Sample(rng)),
			}
			add(g.flow(c, b, shape, stagger(60, 3, i, utils.Uniform(0, 20).Sample(rng)), utils.Seconds(160)))
		}
	}

	return flows, nil
}
