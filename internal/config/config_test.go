package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Bench.Keys != DefaultBenchKeys {
		t.Errorf("Bench.Keys = %d, want %d", cfg.Bench.Keys, DefaultBenchKeys)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should default to false")
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) error = %v", err)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"negative capacity", func(c *Config) { c.Dict.InitialCapacity = -1 }, "dict.initial_capacity"},
		{"zero keys", func(c *Config) { c.Bench.Keys = 0 }, "bench.keys"},
		{"negative rate", func(c *Config) { c.Bench.OpsPerSec = -5 }, "bench.ops_per_sec"},
		{"negative timeout", func(c *Config) { c.Bench.Timeout = -time.Second }, "bench.timeout"},
		{"metrics disabled ignores addr", func(c *Config) { c.Metrics.Addr = "nope" }, ""},
		{"metrics bad addr", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Addr = "nope"
		}, "metrics.addr"},
		{"metrics bad path", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Path = "metrics"
		}, "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := Verify(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Verify() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictcore.yaml")
	content := `
log:
  format: json
bench:
  keys: 2000
  timeout: 30s
metrics:
  enabled: true
  addr: 127.0.0.1:0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DICTCORE_BENCH_OPS_PER_SEC", "1000")

	cfg, err := Load(path, map[string]any{"log.level": "debug"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Bench.Keys != 2000 || cfg.Bench.OpsPerSec != 1000 || cfg.Bench.Timeout != 30*time.Second {
		t.Errorf("Bench = %+v", cfg.Bench)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want default %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
}

func TestLoad_Invalid(t *testing.T) {
	if _, err := Load("", map[string]any{"bench.keys": 0}); err == nil {
		t.Error("Load() should reject bench.keys = 0")
	}
	if _, err := Load("/nonexistent/dictcore.yaml", nil); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	var buf bytes.Buffer

	lc := cfg.LoggerConfig(&buf)
	if lc.Level != "warn" || lc.Format != DefaultLogFormat || lc.Output != &buf {
		t.Errorf("LoggerConfig() = %+v", lc)
	}
}
