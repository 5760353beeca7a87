package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadScenario loads, parses and validates a scenario file. Unset fields
// keep their defaults from Default().
func LoadScenario(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}
	cfg, err := ParseScenarioYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}
	return cfg, nil
}

// ParseScenarioYAML parses scenario YAML on top of the defaults and
// validates the result
func ParseScenarioYAML(data []byte) (*ScenarioConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and the cross-field rules that make a
// scenario buildable. All violations are configuration errors: a malformed
// scenario would produce an unusable or mislabeled dataset, so nothing is
// silently repaired here.
func (c *ScenarioConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("scenario config: %w", err)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	p := c.Populations
	if p.CoreRouters < 1 {
		return fmt.Errorf("populations: at least one core router is required")
	}
	if p.DistributionSwitches < 2 {
		return fmt.Errorf("populations: at least two distribution switches are required (enterprise and DMZ sides)")
	}
	if p.EnterpriseClients > 0 && p.AccessSwitches < 1 {
		return fmt.Errorf("populations: enterprise clients require an access switch")
	}
	if p.DMZServers < 1 {
		return fmt.Errorf("populations: at least one DMZ server is required to host services")
	}
	if p.WifiStations > 0 && p.WifiAPs < 1 {
		return fmt.Errorf("populations: wifi stations require a wifi access point")
	}
	if p.RemoteClients > 0 && p.VPNServers < 1 {
		return fmt.Errorf("populations: remote clients require a VPN server")
	}

	if !c.Attacks.Disabled && c.Attacks.StartSeconds >= c.HorizonSeconds {
		return fmt.Errorf("attacks: start_seconds %.1f is not before the horizon %.1f",
			c.Attacks.StartSeconds, c.HorizonSeconds)
	}

	return nil
}
