package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// Load reads the YAML file at path and fills unset fields with defaults. An
// empty path yields the defaults alone.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Benchmark.Games <= 0 {
		c.Benchmark.Games = 100
	}
	if c.Benchmark.Workers < 0 {
		c.Benchmark.Workers = 0
	}
	if c.Benchmark.PollIntervalMs <= 0 {
		c.Benchmark.PollIntervalMs = 100
	}
	if c.Players.Player == "" {
		c.Players.Player = "hunter"
	}
	if c.Players.Opponent == "" {
		c.Players.Opponent = "random"
	}
	if c.Diagnostics.MaxEntries <= 0 {
		c.Diagnostics.MaxEntries = 1000
	}
	if c.Diagnostics.GuardTail <= 0 {
		c.Diagnostics.GuardTail = 50
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8081"
	}
}
