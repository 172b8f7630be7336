package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/dictcore/internal/telemetry/logger"
	"github.com/yndnr/dictcore/pkg/dict"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	if err := verifyDict(&cfg.Dict); err != nil {
		return err
	}
	if err := verifyBench(&cfg.Bench); err != nil {
		return err
	}
	return verifyMetrics(&cfg.Metrics)
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: must be text or json, got %q", cfg.Format)
	}
	return nil
}

func verifyDict(cfg *DictSection) error {
	if cfg.InitialCapacity < 0 {
		return errors.New("dict.initial_capacity must not be negative")
	}
	if cfg.InitialCapacity > dict.MaxCapacity {
		return fmt.Errorf("dict.initial_capacity must be at most %d", dict.MaxCapacity)
	}
	return nil
}

func verifyBench(cfg *BenchSection) error {
	if cfg.Keys < 1 {
		return errors.New("bench.keys must be at least 1")
	}
	if cfg.Keys > dict.MaxCapacity/2 {
		return fmt.Errorf("bench.keys must be at most %d", dict.MaxCapacity/2)
	}
	if cfg.OpsPerSec < 0 {
		return errors.New("bench.ops_per_sec must not be negative")
	}
	if cfg.Burst < 0 {
		return errors.New("bench.burst must not be negative")
	}
	if cfg.Timeout < 0 {
		return errors.New("bench.timeout must not be negative")
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if !cfg.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("metrics.addr: %w", err)
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", cfg.Path)
	}
	return nil
}
