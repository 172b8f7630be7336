package config

import "time"

// Config is the root configuration for dictcore-cli.
type Config struct {
	Log     LogSection     `koanf:"log" json:"log" yaml:"log"`
	Dict    DictSection    `koanf:"dict" json:"dict" yaml:"dict"`
	Bench   BenchSection   `koanf:"bench" json:"bench" yaml:"bench"`
	Metrics MetricsSection `koanf:"metrics" json:"metrics" yaml:"metrics"`
}

// LogSection configures logging.
type LogSection struct {
	Level       string `koanf:"level" json:"level" yaml:"level"`
	Format      string `koanf:"format" json:"format" yaml:"format"`
	AddSource   bool   `koanf:"add_source" json:"add_source" yaml:"add_source"`
	MaxValueLen int    `koanf:"max_value_len" json:"max_value_len" yaml:"max_value_len"`
}

// DictSection configures newly created dictionaries.
type DictSection struct {
	// InitialCapacity presizes the table. Zero means the minimum size.
	InitialCapacity int `koanf:"initial_capacity" json:"initial_capacity" yaml:"initial_capacity"`
}

// BenchSection configures the churn workload.
type BenchSection struct {
	// Keys is the number of keys inserted per phase.
	Keys int `koanf:"keys" json:"keys" yaml:"keys"`

	// OpsPerSec limits the operation rate. Zero means unlimited.
	OpsPerSec int `koanf:"ops_per_sec" json:"ops_per_sec" yaml:"ops_per_sec"`

	// Burst is the limiter bucket size; it defaults to OpsPerSec.
	Burst int `koanf:"burst" json:"burst" yaml:"burst"`

	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Addr    string `koanf:"addr" json:"addr" yaml:"addr"`
	Path    string `koanf:"path" json:"path" yaml:"path"`
}
