package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.HorizonSeconds != 1500 {
		t.Fatalf("expected 1500 s horizon, got %f", cfg.HorizonSeconds)
	}
	if cfg.Populations.EnterpriseClients != 10 {
		t.Fatalf("expected 10 enterprise clients, got %d", cfg.Populations.EnterpriseClients)
	}
	if cfg.Attacks.StartSeconds != 60 {
		t.Fatalf("expected attack phase start 60, got %f", cfg.Attacks.StartSeconds)
	}
}

func TestParseScenarioYAMLOverrides(t *testing.T) {
	data := []byte(`
seed: 99
horizon_seconds: 600
populations:
  enterprise_clients: 4
attacks:
  enable: [syn-flood]
  attackers:
    syn-flood: 5
`)
	cfg, err := ParseScenarioYAML(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.Seed != 99 {
		t.Fatalf("expected seed 99, got %d", cfg.Seed)
	}
	if cfg.HorizonSeconds != 600 {
		t.Fatalf("expected horizon 600, got %f", cfg.HorizonSeconds)
	}
	if cfg.Populations.EnterpriseClients != 4 {
		t.Fatalf("expected 4 enterprise clients, got %d", cfg.Populations.EnterpriseClients)
	}
	// unset fields keep their defaults
	if cfg.Populations.DMZServers != 5 {
		t.Fatalf("expected default 5 DMZ servers, got %d", cfg.Populations.DMZServers)
	}
	if cfg.Attacks.Attackers["syn-flood"] != 5 {
		t.Fatalf("expected attacker override 5, got %d", cfg.Attacks.Attackers["syn-flood"])
	}
}

func TestParseScenarioYAMLInvalid(t *testing.T) {
	if _, err := ParseScenarioYAML([]byte("horizon_seconds: [oops")); err == nil {
		t.Fatalf("expected error for malformed YAML")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*ScenarioConfig)
		wantSub string
	}{
		{"zero horizon", func(c *ScenarioConfig) { c.HorizonSeconds = 0 }, "HorizonSeconds"},
		{"bad log level", func(c *ScenarioConfig) { c.LogLevel = "verbose" }, "log_level"},
		{"no core router", func(c *ScenarioConfig) { c.Populations.CoreRouters = 0 }, "core router"},
		{"one dist switch", func(c *ScenarioConfig) { c.Populations.DistributionSwitches = 1 }, "distribution switches"},
		{"clients without access switch", func(c *ScenarioConfig) { c.Populations.AccessSwitches = 0 }, "access switch"},
		{"no dmz", func(c *ScenarioConfig) { c.Populations.DMZServers = 0 }, "DMZ"},
		{"stations without ap", func(c *ScenarioConfig) { c.Populations.WifiAPs = 0 }, "access point"},
		{"remotes without vpn", func(c *ScenarioConfig) { c.Populations.VPNServers = 0 }, "VPN server"},
		{"attack start past horizon", func(c *ScenarioConfig) { c.Attacks.StartSeconds = 2000 }, "not before the horizon"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestAttackStartIgnoredWhenDisabled(t *testing.T) {
	cfg := Default()
	cfg.Attacks.Disabled = true
	cfg.Attacks.StartSeconds = 2000
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled attacks should not be range-checked: %v", err)
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte("seed: 7\n"), 0o644); err != nil {
		t.Fatalf("write temp scenario: %v", err)
	}

	cfg, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Seed != 7 {
		t.Fatalf("expected seed 7, got %d", cfg.Seed)
	}

	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
