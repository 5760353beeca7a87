package attack

import (
	"github.com/idslab-sim/trafficgen/internal/services"
	"github.com/idslab-sim/trafficgen/pkg/models"
	"github.com/idslab-sim/trafficgen/pkg/utils"
)

// Archetype names. Every expanded flow carries its archetype name as its
// label, never a generic "attack" tag, so downstream consumers can train
// multi-class classifiers.
const (
	SynFlood           = "syn-flood"
	UDPFlood           = "udp-flood"
	PortScan           = "port-scan"
	SSHBruteForce      = "ssh-brute-force"
	ICMPFlood          = "icmp-flood"
	MITM               = "mitm"
	ARPSpoof           = "arp-spoof"
	FTPBruteForce      = "ftp-brute-force"
	SQLInjection       = "sql-injection"
	CredentialStuffing = "credential-stuffing"
	FTPLoginFlood      = "ftp-login-flood"
	BotnetCC           = "botnet-cc"
	DDoS               = "ddos"
	VPNFlood           = "vpn-flood"
	XSS                = "xss"
	ZeroDay            = "zero-day"
)

// shapeSpec is a traffic-shape template. Distributions are sampled once
// per expanded flow.
type shapeSpec struct {
	kind       models.ShapeKind
	maxBytes   utils.Dist
	packetSize utils.Dist
	rateBps    float64
	onTime     utils.Dist
	offTime    utils.Dist
	interval   utils.Dist
	maxPackets int

	// payloadPad derives the packet size from the payload string instead
	// of packetSize: len(payload) + payloadPad bytes
	payloadPad int
}

// Profile is one declarative row of the attack catalog. A single expansion
// function (Injector.expand) turns any row into flow descriptors; there is
// no per-archetype code path.
type Profile struct {
	Name string

	// Attacker selection: a population role and how many nodes from it,
	// starting at AttackerOffset. AttackerRoles instead draws one
	// attacker from each listed population (distributed attacks).
	AttackerRole   models.Role
	AttackerRoles  []models.Role
	Attackers      int
	AttackerOffset int

	// Target selection: a registered service label, or a topology role
	// plus an explicit port for targets that are not services
	TargetService string
	ExtraService  string
	TargetRole    models.Role
	TargetPort    uint16

	// Transport overrides the target binding's transport when set
	Transport models.Transport

	// Relative scheduling: the window scheduler assigns absolute times
	// from Duration and Gap (seconds of idle time after the previous
	// archetype's window)
	Duration float64
	Gap      float64

	// Per-attacker start stagger in seconds
	Stagger float64

	// Repetition: short connection attempts per attacker, one flow per
	// scanned port, or one flow per payload string
	Attempts    int
	AttemptGap  float64
	Ports       []uint16
	PortStagger float64
	Payloads    []string
	PayloadGap  float64

	Shape shapeSpec

	// Exclusive windows must not overlap other exclusive labels on the
	// same (target, port). True for every archetype: it is what keeps
	// ground-truth attribution unambiguous.
	Exclusive bool
}

// scanPorts is the fixed port list probed by the port-scan archetype
var scanPorts = []uint16{21, 22, 25, 53, 80, 110, 123, 143, 179, 443, 500, 587}

// sqlPayloads are classic injection strings; the flow's packet size is
// derived from the payload length
var sqlPayloads = []string{
	"' OR '1'='1",
	"' OR 'a'='a",
	"' OR 1=1 --",
	"'; DROP TABLE users; --",
	"'; SELECT * FROM users WHERE 'a'='a",
	"' UNION SELECT NULL, NULL, NULL --",
}

var xssPayloads = []string{
	"GET /search?q=<script>alert('XSS1')</script> HTTP/1.1",
	"GET /profile?name=<script>alert('XSS2')</script> HTTP/1.1",
	"GET /comments?id=1'><script>alert('XSS3')</script> HTTP/1.1",
	"GET /index.html?page=<script>alert('XSS4')</script> HTTP/1.1",
}

// constantRate models a sender that never idles
func constantRate(rateBps float64, packetSize int) shapeSpec {
	return shapeSpec{
		kind:       models.ShapeOnOff,
		packetSize: utils.Constant(float64(packetSize)),
		rateBps:    rateBps,
		onTime:     utils.Constant(1),
		offTime:    utils.Constant(0),
	}
}

// Catalog returns the full archetype table in schedule order. Durations
// follow the reference dataset's revised windows; absolute times are
// assigned by the window scheduler, so changing the horizon or reordering
// rows cannot produce overlapping exclusive windows.
func Catalog() []*Profile {
	return []*Profile{
		{
			Name:         SynFlood,
			AttackerRole: models.RoleRemoteClient, Attackers: 3,
			TargetService: services.HTTP,
			Duration:      40, Stagger: 0.1,
			Shape:     shapeSpec{kind: models.ShapeBulk}, // MaxBytes 0: continuous zero-payload opens
			Exclusive: true,
		},
		{
			Name:         UDPFlood,
			AttackerRole: models.RoleEnterpriseClient, Attackers: 3,
			TargetService: services.DNS,
			Duration:      25, Gap: 10, Stagger: 0.1,
			Shape:     constantRate(100e6, 512),
			Exclusive: true,
		},
		{
			Name:         PortScan,
			AttackerRole: models.RoleWifiStation, Attackers: 3,
			TargetService: services.HTTP, // scanned host; the port list overrides the port
			Duration:      18, Gap: 10, Stagger: 0.1,
			Ports: scanPorts, PortStagger: 0.01,
			Shape:     shapeSpec{kind: models.ShapeBulk, maxBytes: utils.Constant(512)},
			Exclusive: true,
		},
		{
			Name:         SSHBruteForce,
			AttackerRole: models.RoleRemoteClient, Attackers: 3,
			TargetService: services.SSH,
			Duration:      15, Gap: 1, Stagger: 0.2,
			Attempts: 20, AttemptGap: 0.2,
			Shape:     shapeSpec{kind: models.ShapeBulk, maxBytes: utils.Constant(512)},
			Exclusive: true,
		},
		{
			Name:         ICMPFlood,
			AttackerRole: models.RoleWifiStation, Attackers: 3,
			TargetRole: models.RoleCoreRouter, TargetPort: 0,
			Transport: models.TransportICMP,
			Duration:  50, Gap: 20, Stagger: 0.1,
			Shape: shapeSpec{
				kind:       models.ShapeEcho,
				maxPackets: 1000000,
				packetSize: utils.Constant(64),
				interval:   utils.Constant(0.001),
			},
			Exclusive: true,
		},
		{
			Name:         MITM,
			AttackerRole: models.RoleEnterpriseClient, Attackers: 2,
			TargetService: services.RogueHTTP,
			Duration:      51, Gap: 7, Stagger: 0.1,
			Shape:     shapeSpec{kind: models.ShapeBulk, maxBytes: utils.Constant(1 << 20)},
			Exclusive: true,
		},
		{
			Name:         ARPSpoof,
			AttackerRole: models.RoleEnterpriseClient, Attackers: 1, AttackerOffset: 2,
			TargetService: services.HTTP,
			Transport:     models.TransportUDP,
			Duration:      25, Gap: 8,
			Shape:     constantRate(1e6, 128),
			Exclusive: true,
		},
		{
			Name:         FTPBruteForce,
			AttackerRole: models.RoleRemoteClient, Attackers: 3,
			TargetService: services.FTP,
			Duration:      20, Gap: 1, Stagger: 0.1,
			Attempts: 10, AttemptGap: 0.5,
			Shape:     shapeSpec{kind: models.ShapeBulk, maxBytes: utils.Constant(512)},
			Exclusive: true,
		},
		{
			Name:         SQLInjection,
			AttackerRole: models.RoleEnterpriseClient, Attackers: 3,
			TargetService: services.HTTP,
			Duration:      65, Gap: 1, Stagger: 0.1,
			Payloads: sqlPayloads, PayloadGap: 0.5,
			Shape: shapeSpec{
				kind:       models.ShapeOnOff,
				rateBps:    2e6,
				onTime:     utils.Constant(0.5),
				offTime:    utils.Constant(0.5),
				payloadPad: 50,
			},
			Exclusive: true,
		},
		{
			Name:         CredentialStuffing,
			AttackerRole: models.RoleRemoteClient, Attackers: 3,
			TargetService: services.VPN,
			Duration:      39, Gap: 11, Stagger: 0.2,
			Attempts: 15, AttemptGap: 0.1,
			Shape:     shapeSpec{kind: models.ShapeBulk, maxBytes: utils.Constant(512)},
			Exclusive: true,
		},
		{
			Name:         FTPLoginFlood,
			AttackerRole: models.RoleEnterpriseClient, Attackers: 2,
			TargetService: services.FTP,
			Duration:      50, Gap: 0, Stagger: 0.1,
			Attempts: 30, AttemptGap: 0.1,
			Shape:     shapeSpec{kind: models.ShapeBulk, maxBytes: utils.Constant(1024)},
			Exclusive: true,
		},
		{
			Name:         BotnetCC,
			AttackerRole: models.RoleWifiStation, Attackers: 3,
			TargetService: services.CnC,
			Duration:      61, Gap: 13, Stagger: 0.2,
			Shape: shapeSpec{
				kind:       models.ShapeOnOff,
				rateBps:    500e3,
				packetSize: utils.Constant(128),
				onTime:     utils.Constant(1),
				offTime:    utils.Exponential(5),
			},
			Exclusive: true,
		},
		{
			Name:          DDoS,
			AttackerRoles: []models.Role{models.RoleEnterpriseClient, models.RoleWifiStation, models.RoleRemoteClient},
			TargetService: services.HTTP,
			Transport:     models.TransportUDP,
			Duration:      25, Gap: 5, Stagger: 0.5,
			Shape:     constantRate(100e6, 1024),
			Exclusive: true,
		},
		{
			Name:         VPNFlood,
			AttackerRole: models.RoleRemoteClient, Attackers: 3,
			TargetService: services.VPN,
			Duration:      25, Gap: 0, Stagger: 0.1,
			Shape:     constantRate(50e6, 1024),
			Exclusive: true,
		},
		{
			Name:         XSS,
			AttackerRole: models.RoleEnterpriseClient, Attackers: 2,
			TargetService: services.HTTP,
			Duration:      60, Gap: 95, Stagger: 0.1,
			Payloads: xssPayloads, PayloadGap: 0.2,
			Shape: shapeSpec{
				kind:       models.ShapeOnOff,
				rateBps:    500e3,
				onTime:     utils.Constant(0.5),
				offTime:    utils.Constant(0.5),
				payloadPad: 50,
			},
			Exclusive: true,
		},
		{
			Name:         ZeroDay,
			AttackerRole: models.RoleEnterpriseClient, Attackers: 1, AttackerOffset: 1,
			TargetService: services.HTTP,
			ExtraService:  services.HTTPS,
			Duration:      50, Gap: 145,
			Shape:     constantRate(10e6, 1024),
			Exclusive: true,
		},
	}
}
