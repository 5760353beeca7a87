package benign

import (
	"github.com/idslab-sim/trafficgen/internal/services"
	"github.com/idslab-sim/trafficgen/pkg/models"
	"github.com/idslab-sim/trafficgen/pkg/utils"
)

// wifi emits the wireless-station mix. Stations behave like lighter
// enterprise clients: smaller transfer sizes, tighter query timing and
// lower streaming bitrates, reflecting handheld devices on a shared cell.
func (g *Generator) wifi(stations []*models.Node, rng *utils.RandSource) ([]*models.FlowDescriptor, error) {
	var flows []*models.FlowDescriptor
	add := func(f *models.FlowDescriptor) {
		if f != nil {
			flows = append(flows, f)
		}
	}

	for i, c := range stations {
		if g.wants(services.HTTP) {
			b, err := g.reg.Binding(services.HTTP)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(utils.Uniform(512, 1500).Sample(rng))}
			add(g.flow(c, b, shape, stagger(6, 0.75, i, 0), g.horizon))
		}

		if g.wants(services.HTTPS) {
			b, err := g.reg.Binding(services.HTTPS)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(utils.Uniform(512, 2000).Sample(rng))}
			add(g.flow(c, b, shape, stagger(6.5, 0.75, i, 0), g.horizon))
		}

		if g.wants(services.SMTP) {
			b, err := g.mailBinding(i)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(utils.Uniform(30*kb, 80*kb).Sample(rng))}
			add(g.flow(c, b, shape, stagger(10, 0.5, i, 0), g.horizon))
		}

		if g.wants(services.DNS) {
			b, err := g.reg.Binding(services.DNS)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{
				Kind:       models.ShapeEcho,
				MaxPackets: 10,
				PacketSize: int(utils.Uniform(50, 256).Sample(rng)),
				Interval:   utils.Seconds(0.5),
			}
			add(g.flow(c, b, shape, stagger(15, 0.2, i, 0), g.horizon))
		}

		if g.wants(services.Streaming) {
			b, err := g.reg.Binding(services.Streaming)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{
				Kind:       models.ShapeOnOff,
				PacketSize: int(utils.Uniform(400, 1200).Sample(rng)),
				RateBps:    mbps(utils.Uniform(1, 4).Sample(rng)),
				OnTime:     utils.Seconds(utils.Exponential(1.5).Sample(rng)),
				OffTime:    utils.Seconds(utils.Exponential(0.7).Sample(rng)),
			}
			add(g.flow(c, b, shape, stagger(100, 0.3, i, 0), g.horizon))
		}

		if g.wants(services.FTP) {
			b, err := g.reg.Binding(services.FTP)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(utils.Uniform(500*kb, 2*mb).Sample(rng))}
			add(g.flow(c, b, shape, stagger(20, 1, i, 0), g.horizon))
		}

		if g.wants(services.SSH) {
			b, err := g.reg.Binding(services.SSH)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{Kind: models.ShapeBulk, MaxBytes: int64(utils.Uniform(100*kb, 700*kb).Sample(rng))}
			add(g.flow(c, b, shape, stagger(25, 1.2, i, 0), g.horizon))
		}

		if g.wants(services.UDPEcho) {
			b, err := g.reg.Binding(services.UDPEcho)
			if err != nil {
				return nil, err
			}
			shape := models.Shape{
				Kind:       models.ShapeEcho,
				MaxPackets: 15,
				PacketSize: int(utils.Uniform(128, 1024).Sample(rng)),
				Interval:   utils.Seconds(0.5),
			}
			add(g.flow(c, b, shape, stagger(12, 0.5, i, 0), g.horizon))
		}
	}

	return flows, nil
}
