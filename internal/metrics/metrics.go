// Package metrics exposes the Manager's internal diagnostics as a
// scrapeable Prometheus metric set. Each Set owns a private Registry
// rather than registering against the default one, since a process can
// run more than one named Manager and the default registerer panics on
// a duplicate metric name.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set is one Manager's metric collection.
type Set struct {
	registry *prometheus.Registry

	// WriteQueueDepth tracks the live length of the write FIFO (spec §3
	// "Write FIFO"), sampled on every Push/Pop.
	WriteQueueDepth prometheus.Gauge

	// HeartbeatsTotal counts pacemaker firings across all bridges (spec
	// §4.5 step 1), useful for alerting if it stalls.
	HeartbeatsTotal prometheus.Counter

	// ReaderState mirrors api.ManagerState as a numeric gauge so it can be
	// graphed alongside other metrics without a log-scraping step.
	ReaderState prometheus.Gauge

	// HelperActive tracks how many write-helper goroutines are currently
	// draining a bridge (spec §4.3 "elastic parallelism").
	HelperActive prometheus.Gauge
}

// NewSet builds a metric Set labeled with the manager's diagnostic name and
// registers its collectors against a fresh, private Registry.
func NewSet(name string) *Set {
	reg := prometheus.NewRegistry()
	s := &Set{
		registry: reg,
		WriteQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "connio",
			Subsystem:   "socket",
			Name:        "write_queue_depth",
			Help:        "Current length of the manager's write FIFO.",
			ConstLabels: prometheus.Labels{"manager": name},
		}),
		HeartbeatsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "connio",
			Subsystem:   "socket",
			Name:        "heartbeats_total",
			Help:        "Total OnHeartbeat callbacks fired across all bridges.",
			ConstLabels: prometheus.Labels{"manager": name},
		}),
		ReaderState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "connio",
			Subsystem:   "socket",
			Name:        "reader_state",
			Help:        "Numeric value of the poll reader's current api.ManagerState.",
			ConstLabels: prometheus.Labels{"manager": name},
		}),
		HelperActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "connio",
			Subsystem:   "socket",
			Name:        "write_helpers_active",
			Help:        "Number of write-helper goroutines currently draining a bridge.",
			ConstLabels: prometheus.Labels{"manager": name},
		}),
	}
	reg.MustRegister(s.WriteQueueDepth, s.HeartbeatsTotal, s.ReaderState, s.HelperActive)
	return s
}

// Registry returns the Set's private Registry so a caller can fold it into
// its own /metrics endpoint (e.g. via prometheus.Gatherers).
func (s *Set) Registry() *prometheus.Registry { return s.registry }
