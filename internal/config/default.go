package config

import "time"

// Default configuration values.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultBenchKeys    = 100_000
	DefaultBenchTimeout = 5 * time.Minute

	DefaultMetricsAddr = "127.0.0.1:9464"
	DefaultMetricsPath = "/metrics"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Bench: BenchSection{
			Keys:    DefaultBenchKeys,
			Timeout: DefaultBenchTimeout,
		},
		Metrics: MetricsSection{
			Addr: DefaultMetricsAddr,
			Path: DefaultMetricsPath,
		},
	}
}
