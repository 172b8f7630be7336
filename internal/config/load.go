package config

import (
	"fmt"
	"io"

	"github.com/yndnr/dictcore/internal/infra/confloader"
	"github.com/yndnr/dictcore/internal/telemetry/logger"
)

// Load builds the configuration from defaults, the file at path (if not
// empty), DICTCORE_* environment variables and flags keyed by dotted path,
// in increasing priority, and verifies the result.
func Load(path string, flags map[string]any) (*Config, error) {
	cfg := Default()
	l := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithFlags(flags),
	)
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoggerConfig returns the logger configuration writing to out.
func (c *Config) LoggerConfig(out io.Writer) logger.Config {
	return logger.Config{
		Level:       c.Log.Level,
		Format:      c.Log.Format,
		Output:      out,
		AddSource:   c.Log.AddSource,
		MaxValueLen: c.Log.MaxValueLen,
	}
}
