package config

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"runtime"
)

const (
	DefaultPrefetchAhead = 4
	DefaultPrefetchRate  = 64
)

// Config groups the configuration of a generator family.
// Search and allocator sections are filled with defaults when absent;
// prefetch and telemetry stay disabled when nil.
type Config struct {
	Search32  *SearchCfg    `yaml:"search32"`
	Search64  *SearchCfg    `yaml:"search64"`
	Allocator *AllocatorCfg `yaml:"allocator"`
	Telemetry *TelemetryCfg `yaml:"telemetry"`
}

// Default returns the configuration used by the package-level family.
func Default() *Config {
	cfg := &Config{}
	cfg.AdjustConfig()
	return cfg
}

func (cfg *Config) AdjustConfig() {
	if !cfg.Search32.Enabled() {
		cfg.Search32 = &SearchCfg{}
	}
	if !cfg.Search64.Enabled() {
		cfg.Search64 = &SearchCfg{}
	}
	cfg.Search32.adjust()
	cfg.Search64.adjust()

	if !cfg.Allocator.Enabled() {
		cfg.Allocator = &AllocatorCfg{}
	}
	if p := cfg.Allocator.Prefetch; p.Enabled() {
		if p.Ahead <= 0 {
			p.Ahead = DefaultPrefetchAhead
		}
		if p.Rate <= 0 {
			p.Rate = DefaultPrefetchRate
		}
	}

	if cfg.Telemetry.Enabled() && cfg.Telemetry.Interval <= 0 {
		cfg.Telemetry.Interval = DefaultTelemetryInterval
	}
}

func (cfg *SearchCfg) adjust() {
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = DefaultMaxRecords
	}
	if cfg.MinWeight <= 0 {
		cfg.MinWeight = DefaultMinWeight
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
}

func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.AdjustConfig()

	return cfg, nil
}
