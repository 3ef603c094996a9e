package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds collector settings.
type Config struct {
	Namespace string `env:"METRICS_NAMESPACE" envDefault:"webserver"`
	Subsystem string `env:"METRICS_SUBSYSTEM" envDefault:"http"`
}

// Collector records request and certificate metrics into its own registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	reloadsTotal    *prometheus.CounterVec
	certificates    prometheus.Gauge
}

// New creates a collector and registers its metrics with registry.
// If registry is nil a fresh one is created.
func New(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "webserver"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "http"
	}

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by method and status code",
			},
			[]string{"method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Time spent handling HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "tls",
				Name:      "certificate_loads_total",
				Help:      "Per-domain certificate load attempts by result",
			},
			[]string{"result"},
		),
		certificates: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "tls",
				Name:      "certificates_cached",
				Help:      "Number of domains with a usable certificate in the cache",
			},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.reloadsTotal,
		c.certificates,
	)

	return c
}

// ObserveRequest records a finished request.
func (c *Collector) ObserveRequest(method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveCertificateReload records the outcome of one cache rebuild.
func (c *Collector) ObserveCertificateReload(loaded, failed, cached int) {
	if c == nil {
		return
	}
	c.reloadsTotal.WithLabelValues("success").Add(float64(loaded))
	c.reloadsTotal.WithLabelValues("failure").Add(float64(failed))
	c.certificates.Set(float64(cached))
}

// Registry returns the registry the collector writes to.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
