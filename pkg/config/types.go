package config

import (
	"time"

	"github.com/idslab-sim/trafficgen/pkg/utils"
)

// ScenarioConfig is the top-level configuration for one dataset generation
// run. All knobs that were compile-time constants in earlier tooling are
// explicit here: horizon, population sizes, root seed, attack selection and
// output directory.
type ScenarioConfig struct {
	// LogLevel is the minimum log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Seed is the root random seed. Every generator derives its own
	// sub-seed from it, so two runs with the same seed produce
	// byte-identical timelines.
	Seed int64 `yaml:"seed"`

	// HorizonSeconds is the upper bound of simulated time
	HorizonSeconds float64 `yaml:"horizon_seconds" validate:"gt=0"`

	// OutputDir receives the manifest, flow statistics and layout files
	OutputDir string `yaml:"output_dir"`

	Populations Populations   `yaml:"populations"`
	Benign      BenignConfig  `yaml:"benign"`
	Attacks     AttacksConfig `yaml:"attacks"`
}

// Populations holds the node counts per topology role
type Populations struct {
	CoreRouters          int `yaml:"core_routers" validate:"gte=0"`
	DistributionSwitches int `yaml:"distribution_switches" validate:"gte=0"`
	AccessSwitches       int `yaml:"access_switches" validate:"gte=0"`
	EnterpriseClients    int `yaml:"enterprise_clients" validate:"gte=0"`
	DMZServers           int `yaml:"dmz_servers" validate:"gte=0"`
	VPNServers           int `yaml:"vpn_servers" validate:"gte=0,lte=1"`
	RemoteClients        int `yaml:"remote_clients" validate:"gte=0"`
	WifiAPs              int `yaml:"wifi_aps" validate:"gte=0,lte=1"`
	WifiStations         int `yaml:"wifi_stations" validate:"gte=0"`
}

// BenignConfig controls the benign traffic generators
type BenignConfig struct {
	// Disabled turns off all benign traffic (attack-only datasets)
	Disabled bool `yaml:"disabled"`
}

// AttacksConfig selects and tunes the attack archetypes
type AttacksConfig struct {
	// Disabled turns off all attack injection (benign-only datasets)
	Disabled bool `yaml:"disabled"`

	// StartSeconds is when the relative attack scheduler begins laying
	// out windows. Default 60.
	StartSeconds float64 `yaml:"start_seconds" validate:"gte=0"`

	// Enable, when non-empty, restricts injection to the named archetypes
	Enable []string `yaml:"enable"`

	// Disable removes the named archetypes from the enabled set
	Disable []string `yaml:"disable"`

	// Attackers overrides the attacker count per archetype name
	Attackers map[string]int `yaml:"attackers"`
}

// Horizon returns the scenario horizon as a duration
func (c *ScenarioConfig) Horizon() time.Duration {
	return utils.Seconds(c.HorizonSeconds)
}

// AttackStart returns the start of the attack phase as a duration
func (c *ScenarioConfig) AttackStart() time.Duration {
	return utils.Seconds(c.Attacks.StartSeconds)
}

// Default returns the scenario configuration matching the reference
// enterprise dataset: 1500 s horizon, ten clients per access population,
// five DMZ servers, all archetypes enabled.
func Default() *ScenarioConfig {
	return &ScenarioConfig{
		LogLevel:       "info",
		Seed:           1,
		HorizonSeconds: 1500,
		OutputDir:      "dataset-out",
		Populations: Populations{
			CoreRouters:          1,
			DistributionSwitches: 2,
			AccessSwitches:       1,
			EnterpriseClients:    10,
			DMZServers:           5,
			VPNServers:           1,
			RemoteClients:        10,
			WifiAPs:              1,
			WifiStations:         10,
		},
		Attacks: AttacksConfig{
			StartSeconds: 60,
		},
	}
}
