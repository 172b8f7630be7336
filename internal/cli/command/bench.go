package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/dictcore/internal/cli/output"
	"github.com/yndnr/dictcore/internal/config"
	"github.com/yndnr/dictcore/internal/infra/confloader"
	"github.com/yndnr/dictcore/internal/infra/shutdown"
	"github.com/yndnr/dictcore/internal/telemetry/logger"
	"github.com/yndnr/dictcore/internal/telemetry/metric"
	"github.com/yndnr/dictcore/internal/workload"
	"github.com/yndnr/dictcore/pkg/cmap"
	"github.com/yndnr/dictcore/pkg/mapping"
)

// shutdownTimeout bounds the cleanup hooks of long-running commands.
const shutdownTimeout = 5 * time.Second

// BenchCommand returns the bench command.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Run the churn workload against a fresh dictionary",
		Description: "Inserts --keys text keys, deletes every other one, inserts as many new keys,\n" +
			"then reads every live key back and walks the dictionary in both directions.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "keys",
				Aliases: []string{"n"},
				Usage:   "Keys inserted per phase",
			},
			&cli.IntFlag{
				Name:  "ops-per-sec",
				Usage: "Operation rate limit (0 = unlimited)",
			},
			&cli.IntFlag{
				Name:  "burst",
				Usage: "Rate limiter burst (0 = ops-per-sec)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Abort the run after this long (0 = no limit)",
			},
			&cli.IntFlag{
				Name:  "capacity",
				Usage: "Presize the dictionary for this many entries",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Serve Prometheus metrics while the run is in progress",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Metrics listen address",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload the log level when the config file changes",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a progress bar on stderr",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Dictionary name used in logs and metrics",
				Value: "bench",
			},
		},
		Action: benchAction,
	}
}

// benchConfig applies the command flags over the loaded configuration.
func benchConfig(c *cli.Context) (*config.Config, error) {
	cfg := *configFrom(c)
	if c.IsSet("keys") {
		cfg.Bench.Keys = c.Int("keys")
	}
	if c.IsSet("ops-per-sec") {
		cfg.Bench.OpsPerSec = c.Int("ops-per-sec")
	}
	if c.IsSet("burst") {
		cfg.Bench.Burst = c.Int("burst")
	}
	if c.IsSet("timeout") {
		cfg.Bench.Timeout = c.Duration("timeout")
	}
	if c.IsSet("capacity") {
		cfg.Dict.InitialCapacity = c.Int("capacity")
	}
	if c.IsSet("metrics") {
		cfg.Metrics.Enabled = c.Bool("metrics")
	}
	if c.IsSet("metrics-addr") {
		cfg.Metrics.Addr = c.String("metrics-addr")
	}
	if err := config.Verify(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func benchAction(c *cli.Context) error {
	cfg, err := benchConfig(c)
	if err != nil {
		return err
	}
	log := loggerFrom(c)
	name := c.String("name")

	ctx := logger.WithLogger(c.Context, log)
	ctx = logger.WithRunID(ctx, ulid.Make().String())
	ctx = logger.WithDictName(ctx, name)
	log = logger.L(ctx)

	h := shutdown.NewHandler(shutdownTimeout)
	ctx, stop := h.NotifyContext(ctx)
	defer stop()
	if cfg.Bench.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Bench.Timeout)
		defer cancel()
	}
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

	l := workload.NewLocked(mapping.New(dictOptions(cfg, log)...))
	sources.Set(name, l)
	h.OnShutdown(func(context.Context) error {
		sources.Delete(name)
		l.Close()
		return nil
	})

	if cfg.Metrics.Enabled {
		srv, err := serveMetrics(cfg.Metrics, reg, log)
		if err != nil {
			return err
		}
		h.OnShutdown(srv.Shutdown)
	}

	if c.Bool("watch") {
		path := ParseGlobalFlags(c).Config
		if path == "" {
			return errors.New("--watch needs --config")
		}
		w, err := watchConfig(path, overridesFrom(c), log)
		if err != nil {
			return err
		}
		h.OnShutdown(func(context.Context) error { return w.Stop() })
	}

	runOpts := []workload.RunnerOption{workload.WithRegistry(reg)}
	var bar *output.ProgressBar
	if c.Bool("progress") {
		bar = output.NewProgressBar(errWriter(c), name)
		runOpts = append(runOpts, workload.WithProgress(func(done, total int) {
			bar.Update(int64(done), int64(total))
		}))
	}

	runner := workload.NewRunner(workload.Config{
		Keys:      cfg.Bench.Keys,
		OpsPerSec: cfg.Bench.OpsPerSec,
		Burst:     cfg.Bench.Burst,
	}, runOpts...)
	rep, err := runner.Run(ctx, l)
	if err != nil {
		return fmt.Errorf("bench: %w", err)
	}
	if bar != nil {
		bar.Finish()
	}
	return formatterFrom(c).Format(outWriter(c), rep)
}

// serveMetrics starts the metrics endpoint. The listener is bound before
// returning so address errors surface immediately.
func serveMetrics(cfg config.MetricsSection, reg *metric.Registry, log logger.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, reg.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", "error", err)
		}
	}()
	log.Info("serving metrics", "addr", ln.Addr().String(), "path", cfg.Path)
	return srv, nil
}

// watchConfig reloads the log level whenever the file at path changes.
func watchConfig(path string, overrides map[string]any, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}
	w.OnChange(func(string) {
		reloadLogLevel(path, overrides, log)
	})
	w.StartAsync()
	return w, nil
}

// reloadLogLevel applies the log level from a fresh load of the config.
func reloadLogLevel(path string, overrides map[string]any, log logger.Logger) {
	cfg, err := config.Load(path, overrides)
	if err != nil {
		log.Warn("config reload failed", "error", err)
		return
	}
	if cfg.Log.Level == logger.GetLevel() {
		return
	}
	logger.SetLevel(cfg.Log.Level)
	log.Info("log level changed", "level", cfg.Log.Level)
}
