package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mikey/deepguard/internal/config"
	"github.com/mikey/deepguard/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics for scanning and the HTTP frontend.
// It uses its own registry so tests and multiple instances do not collide.
type Collector struct {
	registry *prometheus.Registry

	ScansTotal             *prometheus.CounterVec
	HarassmentTotal        prometheus.Counter
	ClassificationDuration prometheus.Histogram
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
}

// NewCollector creates a collector with every metric registered
func NewCollector(cfg config.MetricsConfig) *Collector {
	reg := prometheus.NewRegistry()
	ns := cfg.Namespace

	c := &Collector{
		registry: reg,
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "scans_total",
			Help:      "Total messages scanned, by threat level",
		}, []string{"threat_level"}),
		HarassmentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "harassment_total",
			Help:      "Total messages flagged as harassment",
		}),
		ClassificationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "classification_duration_seconds",
			Help:      "Time spent classifying and recording a message",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.ScansTotal,
		c.HarassmentTotal,
		c.ClassificationDuration,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
	)
	return c
}

// ObserveScan implements core.ScanObserver
func (c *Collector) ObserveScan(verdict core.Verdict, elapsed time.Duration) {
	c.ScansTotal.WithLabelValues(string(verdict.ThreatLevel)).Inc()
	if verdict.IsHarassment {
		c.HarassmentTotal.Inc()
	}
	c.ClassificationDuration.Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RegisterLedgerGauge exposes the current number of stored scan records
func (c *Collector) RegisterLedgerGauge(namespace string, size func() int) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ledger_records",
		Help:      "Scan records currently held in history",
	}, func() float64 { return float64(size()) }))
}

// Handler serves the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
