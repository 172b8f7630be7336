package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/dictcore/internal/cli/repl"
	"github.com/yndnr/dictcore/internal/infra/shutdown"
	"github.com/yndnr/dictcore/internal/telemetry/logger"
	"github.com/yndnr/dictcore/internal/telemetry/metric"
	"github.com/yndnr/dictcore/pkg/cmap"
)

// ReplCommand returns the interactive shell command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Interactive dictionary shell",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file",
				Value: repl.DefaultHistoryFile(),
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not read or write the history file",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Serve Prometheus metrics for the session's dictionaries",
			},
		},
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	cfg := *configFrom(c)
	if c.IsSet("metrics") {
		cfg.Metrics.Enabled = c.Bool("metrics")
	}
	log := loggerFrom(c)
	ctx := logger.WithLogger(c.Context, log)

	h := shutdown.NewHandler(shutdownTimeout)
	defer func() {
		if err := h.Shutdown(); err != nil {
			log.Warn("shutdown incomplete", "error", err)
		}
	}()

	reg := metric.NewRegistry()
	sources := cmap.New[metric.Source]()
	if err := reg.Register(metric.NewCollector(sources)); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}
	if cfg.Metrics.Enabled {
		srv, err := serveMetrics(cfg.Metrics, reg, log)
		if err != nil {
			return err
		}
		h.OnShutdown(srv.Shutdown)
	}

	historyFile := c.String("history")
	if c.Bool("no-history") {
		historyFile = ""
	}

	r := repl.New(
		repl.WithInput(c.App.Reader),
		repl.WithOutput(outWriter(c)),
		repl.WithHistory(repl.NewHistory(historyFile)),
		repl.WithFormatter(formatterFrom(c)),
		repl.WithRegistry(sources),
		repl.WithMetrics(reg),
		repl.WithDictOptions(dictOptions(&cfg, log)...),
	)
	h.OnShutdown(func(context.Context) error {
		r.Close()
		return nil
	})
	return r.Run(ctx)
}
