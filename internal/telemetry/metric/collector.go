package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/dictcore/pkg/cmap"
	"github.com/yndnr/dictcore/pkg/dict"
)

// Source is anything that can report table statistics. Stats is called
// from the scrape goroutine and must be safe for that.
type Source interface {
	Stats() dict.Stats
}

// Collector exports dict.Stats of every registered source, labelled by
// source name.
type Collector struct {
	sources *cmap.Map[Source]

	length   *prometheus.Desc
	capacity *prometheus.Desc
	filled   *prometheus.Desc
	logLen   *prometheus.Desc
	bytes    *prometheus.Desc
	version  *prometheus.Desc
	resizes  *prometheus.Desc
	restarts *prometheus.Desc
}

// NewCollector creates a collector over sources.
func NewCollector(sources *cmap.Map[Source]) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "dict", name),
			help,
			[]string{"dict"}, nil,
		)
	}
	return &Collector{
		sources:  sources,
		length:   desc("len", "Live entries."),
		capacity: desc("capacity", "Index table size."),
		filled:   desc("filled_slots", "Index slots holding an entry or a tombstone."),
		logLen:   desc("log_len", "Entry log length including dead entries."),
		bytes:    desc("bytes", "Bytes held by index and log storage."),
		version:  desc("version", "Structural version counter."),
		resizes:  desc("resizes_total", "Index rebuilds."),
		restarts: desc("probe_restarts_total", "Lookups restarted after a re-entrant mutation."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.length
	ch <- c.capacity
	ch <- c.filled
	ch <- c.logLen
	ch <- c.bytes
	ch <- c.version
	ch <- c.resizes
	ch <- c.restarts
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.sources.Range(func(name string, src Source) bool {
		s := src.Stats()
		gauge := func(d *prometheus.Desc, v float64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, name)
		}
		counter := func(d *prometheus.Desc, v float64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v, name)
		}
		gauge(c.length, float64(s.Len))
		gauge(c.capacity, float64(s.Capacity))
		gauge(c.filled, float64(s.Filled))
		gauge(c.logLen, float64(s.LogLen))
		gauge(c.bytes, float64(s.Bytes))
		counter(c.version, float64(s.Version))
		counter(c.resizes, float64(s.Resizes))
		counter(c.restarts, float64(s.Restarts))
		return true
	})
}

var _ prometheus.Collector = (*Collector)(nil)
