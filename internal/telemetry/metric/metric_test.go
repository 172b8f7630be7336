package metric

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/yndnr/dictcore/pkg/cmap"
	"github.com/yndnr/dictcore/pkg/dict"
)

type fixedSource dict.Stats

func (s fixedSource) Stats() dict.Stats { return dict.Stats(s) }

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObserveOp(t *testing.T) {
	r := NewRegistry()

	r.ObserveOp("insert", time.Now(), nil)
	r.ObserveOp("delete", time.Now(), dict.ErrKeyNotFound.WithKey("x"))
	r.ObserveOp("iterate", time.Now(), dict.ErrChangedDuringIteration)
	r.ObserveOp("insert", time.Now(), errors.New("guest failure"))

	tests := []struct {
		name string
		c    prometheus.Counter
		want float64
	}{
		{"insert ops", r.OpsTotal.WithLabelValues("insert"), 2},
		{"delete errors", r.OpErrors.WithLabelValues("delete", "DC-DICT-4040"), 1},
		{"other errors", r.OpErrors.WithLabelValues("insert", "other"), 1},
		{"iteration failures", r.IterationFailures, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := counterValue(t, tt.c); got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollector(t *testing.T) {
	sources := cmap.New[Source]()
	sources.Set("bench", fixedSource{Len: 3, Capacity: 8, Resizes: 2})
	sources.Set("scratch", fixedSource{Len: 1, Capacity: 8})

	r := NewRegistry()
	c := NewCollector(sources)
	if err := r.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(c); err != nil {
		t.Errorf("second Register() error = %v", err)
	}

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "dictcore_dict_len" {
			continue
		}
		for _, m := range f.GetMetric() {
			found[m.GetLabel()[0].GetValue()] = m.GetGauge().GetValue()
		}
	}
	if found["bench"] != 3 || found["scratch"] != 1 {
		t.Errorf("dictcore_dict_len = %v", found)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.ObserveOp("get", time.Now(), nil)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{`dictcore_ops_total{op="get"} 1`, "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestGlobal(t *testing.T) {
	if Global() == nil || Global() != Global() {
		t.Error("Global() should return one registry")
	}
	if Handler() == nil {
		t.Error("Handler() returned nil")
	}
}
