// Package metrics bridges the executor's rcrowley/go-metrics counters
// into a Prometheus-scrapeable HTTP endpoint, the way
// cmd/kcn/main.go wires metrics.DefaultRegistry into
// prometheus/client_golang via promhttp.Handler() under "Enabling
// metrics collection". The teacher's bridge lives in an internal
// ground-x/klaytn/metrics/prometheus package that is not part of this
// module's dependency surface, so this is built directly against
// client_golang instead of porting that package.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	gometrics "github.com/rcrowley/go-metrics"
)

// Collector adapts a single rcrowley/go-metrics Counter into a
// prometheus.Collector exposing one counter metric.
type Collector struct {
	desc    *prometheus.Desc
	counter gometrics.Counter
}

// NewCollector names the exposed metric name (Prometheus naming
// convention, e.g. "chainetl_items_processed_total") and help text.
func NewCollector(name, help string, counter gometrics.Counter) *Collector {
	return &Collector{
		desc:    prometheus.NewDesc(name, help, nil, nil),
		counter: counter,
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) { ch <- c.desc }

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(c.counter.Count()))
}

// Handler registers collectors against a fresh registry (rather than
// prometheus's global DefaultRegisterer, so a process can run more than
// one Executor's metrics side by side without name collisions) and
// returns the resulting /metrics http.Handler.
func Handler(collectors ...prometheus.Collector) http.Handler {
	reg := prometheus.NewRegistry()
	for _, c := range collectors {
		reg.MustRegister(c)
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ListenAndServe starts an HTTP server on addr exposing collectors at
// /metrics, the equivalent of cmd/kcn/main.go's
// http.Handle("/metrics", promhttp.Handler()) + http.ListenAndServe
// startup sequence.
func ListenAndServe(addr string, collectors ...prometheus.Collector) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(collectors...))
	return http.ListenAndServe(addr, mux)
}
