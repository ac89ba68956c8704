package config

import "time"

const DefaultTelemetryInterval = 5 * time.Second

// TelemetryCfg enables periodic logging of search and allocator counters.
type TelemetryCfg struct {
	Interval time.Duration `yaml:"interval"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}
