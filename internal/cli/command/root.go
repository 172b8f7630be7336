package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/dictcore/internal/cli/output"
	"github.com/yndnr/dictcore/internal/config"
	"github.com/yndnr/dictcore/internal/infra/buildinfo"
	"github.com/yndnr/dictcore/internal/telemetry/logger"
	"github.com/yndnr/dictcore/pkg/mapping"
)

// Metadata keys set by the Before hook.
const (
	metaConfig = "config"
	metaLogger = "logger"
	metaFlags  = "flags"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "dictcore-cli",
		Usage:   "Insertion-ordered dictionary engine workbench",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			BenchCommand(),
			ReplCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: before,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (YAML)",
			EnvVars: []string{"DICTCORE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config   string
	Output   string
	Wide     bool
	LogLevel string
	Verbose  bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config:   c.String("config"),
		Output:   c.String("output"),
		Wide:     c.Bool("wide"),
		LogLevel: c.String("log-level"),
		Verbose:  c.Bool("verbose"),
	}
}

// Overrides returns the configuration keys set by the flags.
func (g *GlobalFlags) Overrides() map[string]any {
	flags := make(map[string]any)
	if g.LogLevel != "" {
		flags["log.level"] = g.LogLevel
	}
	if g.Verbose {
		flags["log.level"] = "debug"
	}
	return flags
}

// before loads the configuration and installs the logger.
func before(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	if _, err := output.ParseFormat(flags.Output); err != nil {
		return err
	}

	overrides := flags.Overrides()
	cfg, err := config.Load(flags.Config, overrides)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LoggerConfig(errWriter(c)))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	logger.SetDefault(log)

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[metaConfig] = cfg
	c.App.Metadata[metaLogger] = log
	c.App.Metadata[metaFlags] = overrides
	return nil
}

// configFrom returns the loaded configuration, or the defaults when the
// Before hook has not run.
func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// loggerFrom returns the configured logger.
func loggerFrom(c *cli.Context) logger.Logger {
	if l, ok := c.App.Metadata[metaLogger].(logger.Logger); ok {
		return l
	}
	return logger.Default()
}

// overridesFrom returns the configuration keys set by global flags.
func overridesFrom(c *cli.Context) map[string]any {
	flags, _ := c.App.Metadata[metaFlags].(map[string]any)
	return flags
}

// formatterFrom returns the formatter selected by --output.
func formatterFrom(c *cli.Context) output.Formatter {
	flags := ParseGlobalFlags(c)
	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		format = output.FormatTable
	}
	return output.NewFormatter(format, flags.Wide)
}

// dictOptions returns the options for dictionaries created by commands.
func dictOptions(cfg *config.Config, log logger.Logger) []mapping.Option {
	opts := []mapping.Option{mapping.WithLogger(log.Slog())}
	if cfg.Dict.InitialCapacity > 0 {
		opts = append(opts, mapping.WithCapacity(cfg.Dict.InitialCapacity))
	}
	return opts
}

func outWriter(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
