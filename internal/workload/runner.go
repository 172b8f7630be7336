package workload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/dictcore/internal/telemetry/logger"
	"github.com/yndnr/dictcore/internal/telemetry/metric"
	"github.com/yndnr/dictcore/pkg/dict"
	"github.com/yndnr/dictcore/pkg/mapping"
)

// ErrVerify is returned when the dictionary does not hold what the run put
// into it.
var ErrVerify = errors.New("workload: verification failed")

// Operation names recorded in metrics.
const (
	OpInsert   = "insert"
	OpDelete   = "delete"
	OpGet      = "get"
	OpIter     = "iter"
	OpReversed = "reversed"
)

// checkEvery is how many unthrottled operations run between context checks.
const checkEvery = 1024

// Config configures a Runner.
type Config struct {
	// Keys is the number of keys inserted per phase.
	Keys int
	// OpsPerSec limits the operation rate. Zero means unlimited.
	OpsPerSec int
	// Burst is the limiter bucket size. Zero means OpsPerSec.
	Burst int
}

// Report summarizes a run.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Keys      int           `json:"keys" yaml:"keys"`
	Ops       int           `json:"ops" yaml:"ops"`
	Len       int           `json:"len" yaml:"len"`
	Capacity  int           `json:"capacity" yaml:"capacity"`
	Bytes     int           `json:"bytes" yaml:"bytes"`
	Resizes   uint64        `json:"resizes" yaml:"resizes"`
	Restarts  uint64        `json:"restarts" yaml:"restarts"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	OpsPerSec float64       `json:"ops_per_sec" yaml:"ops_per_sec"`
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRegistry records operations into reg instead of the global registry.
func WithRegistry(reg *metric.Registry) RunnerOption {
	return func(r *Runner) {
		r.metrics = reg
	}
}

// WithProgress calls fn with the number of completed operations and the
// run total, every checkEvery operations and once at the end.
func WithProgress(fn func(done, total int)) RunnerOption {
	return func(r *Runner) {
		r.progress = fn
	}
}

// Runner executes churn workloads.
type Runner struct {
	cfg      Config
	metrics  *metric.Registry
	limiter  *rate.Limiter
	progress func(done, total int)
}

// NewRunner creates a runner.
func NewRunner(cfg Config, opts ...RunnerOption) *Runner {
	r := &Runner{cfg: cfg, metrics: metric.Global()}
	if cfg.OpsPerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.OpsPerSec
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.OpsPerSec), burst)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run holds the state of one Run call.
type run struct {
	*Runner
	ctx context.Context
	l   *Locked
	ops int
}

// Run executes one workload against l, which should start empty. The run
// ID is taken from ctx if present, otherwise a new ULID is assigned.
func (r *Runner) Run(ctx context.Context, l *Locked) (*Report, error) {
	id := logger.RunIDFromContext(ctx)
	if id == "" {
		id = ulid.Make().String()
		ctx = logger.WithRunID(ctx, id)
	}
	log := logger.L(ctx)
	n := r.cfg.Keys
	log.Info("workload started", "keys", n, "ops_per_sec", r.cfg.OpsPerSec)

	start := time.Now()
	st := &run{Runner: r, ctx: ctx, l: l}
	if err := st.execute(n); err != nil {
		log.Error("workload failed", "ops", st.ops, "error", err)
		return nil, err
	}
	elapsed := time.Since(start)
	if r.progress != nil {
		r.progress(st.ops, TotalOps(n))
	}

	stats := l.Stats()
	rep := &Report{
		RunID:    id,
		Keys:     n,
		Ops:      st.ops,
		Len:      stats.Len,
		Capacity: stats.Capacity,
		Bytes:    stats.Bytes,
		Resizes:  stats.Resizes,
		Restarts: stats.Restarts,
		Duration: elapsed,
	}
	if elapsed > 0 {
		rep.OpsPerSec = float64(st.ops) / elapsed.Seconds()
	}
	r.metrics.Runs.Inc()
	log.Info("workload finished",
		"ops", rep.Ops,
		"duration", rep.Duration,
		logger.StatsAttr("table", stats),
	)
	return rep, nil
}

func (st *run) execute(n int) error {
	for i := 0; i < n; i++ {
		if err := st.insert(i); err != nil {
			return err
		}
	}
	for i := 0; i < n; i += 2 {
		if err := st.delete(i); err != nil {
			return err
		}
	}
	for i := n; i < 2*n; i++ {
		if err := st.insert(i); err != nil {
			return err
		}
	}

	want := Expected(n)
	for _, i := range want {
		if err := st.get(i); err != nil {
			return err
		}
	}
	if err := st.walk(OpIter, want); err != nil {
		return err
	}
	rev := make([]int, len(want))
	for i, v := range want {
		rev[len(want)-1-i] = v
	}
	return st.walk(OpReversed, rev)
}

// Expected returns the key indices a run over n keys leaves behind, in
// insertion order.
func Expected(n int) []int {
	out := make([]int, 0, n+n/2)
	for i := 1; i < n; i += 2 {
		out = append(out, i)
	}
	for i := n; i < 2*n; i++ {
		out = append(out, i)
	}
	return out
}

// TotalOps returns the number of operations a run over n keys performs.
func TotalOps(n int) int {
	return 4*n + 2
}

// Key returns the text key for index i.
func Key(i int) string {
	return fmt.Sprintf("key-%08d", i)
}

// wait applies the rate limit, or polls ctx when there is none.
func (st *run) wait() error {
	if st.limiter != nil {
		return st.limiter.Wait(st.ctx)
	}
	if st.ops%checkEvery == 0 {
		return st.ctx.Err()
	}
	return nil
}

// op runs fn under the lock and records it.
func (st *run) op(name string, fn func(d *mapping.Dict) error) error {
	if err := st.wait(); err != nil {
		return err
	}
	start := time.Now()
	err := st.l.Do(fn)
	st.metrics.ObserveOp(name, start, err)
	st.ops++
	if st.progress != nil && st.ops%checkEvery == 0 {
		st.progress(st.ops, TotalOps(st.cfg.Keys))
	}
	return err
}

func (st *run) insert(i int) error {
	return st.op(OpInsert, func(d *mapping.Dict) error {
		return d.SetItem(Key(i), i)
	})
}

func (st *run) delete(i int) error {
	return st.op(OpDelete, func(d *mapping.Dict) error {
		return d.DelItem(Key(i))
	})
}

func (st *run) get(i int) error {
	return st.op(OpGet, func(d *mapping.Dict) error {
		v, err := d.GetItem(Key(i))
		if err != nil {
			return err
		}
		if v != i {
			return fmt.Errorf("%w: %s = %v, want %d", ErrVerify, Key(i), v, i)
		}
		return nil
	})
}

// walk iterates the dict in one direction and checks the items against
// want, in order.
func (st *run) walk(name string, want []int) error {
	return st.op(name, func(d *mapping.Dict) error {
		var it *dict.ViewIterator
		if name == OpReversed {
			it = d.Items().Reversed()
		} else {
			it = d.Items().Iter()
		}
		defer it.Close()

		pos := 0
		for it.Next() {
			if pos >= len(want) {
				return fmt.Errorf("%w: %s yielded more than %d items", ErrVerify, name, len(want))
			}
			p := it.Item().(dict.Pair)
			if p.Key != Key(want[pos]) || p.Value != want[pos] {
				return fmt.Errorf("%w: %s item %d = (%v, %v), want (%s, %d)",
					ErrVerify, name, pos, p.Key, p.Value, Key(want[pos]), want[pos])
			}
			pos++
		}
		if err := it.Err(); err != nil {
			return err
		}
		if pos != len(want) {
			return fmt.Errorf("%w: %s yielded %d items, want %d", ErrVerify, name, pos, len(want))
		}
		return nil
	})
}
