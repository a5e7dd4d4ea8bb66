package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the metrics collector.
type Config struct {
	// Namespace is the metric name prefix. Default: "arbiter"
	Namespace string
	// Subsystem groups the pipeline metrics. Default: "pipeline"
	Subsystem string
	// FeeBuckets are the histogram buckets for mandated fees.
	FeeBuckets []float64
	// DurationBuckets are the histogram buckets for validation latency.
	DurationBuckets []float64
}

// Collector registers and records all pipeline metrics.
type Collector struct {
	registry *prometheus.Registry

	validationsTotal   *prometheus.CounterVec
	validationDuration prometheus.Histogram
	threshold          prometheus.Gauge
	load               prometheus.Gauge
	queueDepth         prometheus.Gauge
	feesMandated       prometheus.Histogram
	ledgerAppends      prometheus.Counter
	tamperEvents       prometheus.Counter
	hardeningTotal     *prometheus.CounterVec
	breachesTotal      prometheus.Counter
}

// NewCollector creates a collector registered on its own registry. If
// registry is nil a fresh one is used.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "arbiter"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "pipeline"
	}
	if len(cfg.FeeBuckets) == 0 {
		cfg.FeeBuckets = []float64{10, 100, 1000, 10000, 100000, 1000000}
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0}
	}

	c := &Collector{
		registry: registry,
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validations_total",
				Help:      "Total validations by terminal status",
			},
			[]string{"status"},
		),
		validationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_duration_seconds",
				Help:      "Validation latency in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),
		threshold: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "admission_threshold",
				Help:      "Current adaptive admission threshold",
			},
		),
		load: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "load_estimate",
				Help:      "Current load estimate",
			},
		),
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "deferred_queue_depth",
				Help:      "Requests parked in the deferred queue",
			},
		),
		feesMandated: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "fee_mandated",
				Help:      "Distribution of mandated fees",
				Buckets:   cfg.FeeBuckets,
			},
		),
		ledgerAppends: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "ledger_appends_total",
				Help:      "Entries appended to the forensic ledger",
			},
		),
		tamperEvents: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "tamper_events_total",
				Help:      "Temporal tampering events detected",
			},
		),
		hardeningTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "hardening_applications_total",
				Help:      "Hardening applications by attack type",
			},
			[]string{"attack_type"},
		),
		breachesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "underreporting_breaches_total",
				Help:      "Underreporting breach events",
			},
		),
	}

	registry.MustRegister(
		c.validationsTotal,
		c.validationDuration,
		c.threshold,
		c.load,
		c.queueDepth,
		c.feesMandated,
		c.ledgerAppends,
		c.tamperEvents,
		c.hardeningTotal,
		c.breachesTotal,
	)
	return c
}

// RecordValidation records one completed validation.
func (c *Collector) RecordValidation(status string, duration time.Duration) {
	c.validationsTotal.WithLabelValues(status).Inc()
	c.validationDuration.Observe(duration.Seconds())
}

// SetThreshold updates the threshold gauge.
func (c *Collector) SetThreshold(threshold float64) {
	c.threshold.Set(threshold)
}

// SetLoad updates the load gauge.
func (c *Collector) SetLoad(load float64) {
	c.load.Set(load)
}

// SetQueueDepth updates the deferred queue gauge.
func (c *Collector) SetQueueDepth(depth int) {
	c.queueDepth.Set(float64(depth))
}

// RecordFee records a mandated fee.
func (c *Collector) RecordFee(fee float64) {
	c.feesMandated.Observe(fee)
}

// RecordLedgerAppend counts one ledger append.
func (c *Collector) RecordLedgerAppend() {
	c.ledgerAppends.Inc()
}

// RecordTamperEvent counts one tamper detection.
func (c *Collector) RecordTamperEvent() {
	c.tamperEvents.Inc()
}

// RecordHardening counts one hardening application.
func (c *Collector) RecordHardening(attackType string) {
	c.hardeningTotal.WithLabelValues(attackType).Inc()
}

// RecordBreach counts one underreporting breach.
func (c *Collector) RecordBreach() {
	c.breachesTotal.Inc()
}

// Handler returns the Prometheus scrape handler for this collector's
// registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
