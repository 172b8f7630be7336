package metric

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/dictcore/pkg/dict"
)

const namespace = "dictcore"

// Registry holds the process metrics.
type Registry struct {
	reg *prometheus.Registry

	// OpsTotal counts dictionary operations by op.
	OpsTotal *prometheus.CounterVec
	// OpErrors counts failed operations by op and error code.
	OpErrors *prometheus.CounterVec
	// OpDuration observes operation latency by op.
	OpDuration *prometheus.HistogramVec
	// IterationFailures counts iterators stopped by a structural change.
	IterationFailures prometheus.Counter
	// Runs counts completed workload runs.
	Runs prometheus.Counter
}

// NewRegistry creates a registry with Go and process collectors and the
// dictcore operation metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ops_total",
			Help:      "Total dictionary operations.",
		}, []string{"op"}),
		OpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "op_errors_total",
			Help:      "Dictionary operations that returned an error.",
		}, []string{"op", "code"}),
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "op_duration_seconds",
			Help:      "Dictionary operation latency.",
			Buckets:   prometheus.ExponentialBuckets(50e-9, 4, 10),
		}, []string{"op"}),
		IterationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iteration_failures_total",
			Help:      "Iterators stopped because the dictionary changed size.",
		}),
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workload_runs_total",
			Help:      "Completed workload runs.",
		}),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.OpsTotal,
		r.OpErrors,
		r.OpDuration,
		r.IterationFailures,
		r.Runs,
	)
	return r
}

// Register adds a collector. Registering the same collector twice is not
// an error.
func (r *Registry) Register(c prometheus.Collector) error {
	err := r.reg.Register(c)
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return nil
	}
	return err
}

// Gatherer returns the underlying gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler serving the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveOp records one operation that started at start. A non-nil err is
// counted under its dict error code, or "other".
func (r *Registry) ObserveOp(op string, start time.Time, err error) {
	r.OpsTotal.WithLabelValues(op).Inc()
	r.OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err == nil {
		return
	}
	code := dict.ErrorCode(err)
	if code == "" {
		code = "other"
	}
	r.OpErrors.WithLabelValues(op, code).Inc()
	if errors.Is(err, dict.ErrChangedDuringIteration) {
		r.IterationFailures.Inc()
	}
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler serves the process-wide registry.
func Handler() http.Handler {
	return Global().Handler()
}
