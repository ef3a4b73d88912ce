package stats

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seo-optimizer/seoaudit/analyzer"
)

// Metrics exposes audit counters on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	audits        *prometheus.CounterVec
	auditDuration prometheus.Histogram
	images        *prometheus.CounterVec
	links         prometheus.Histogram
}

// NewMetrics registers the audit collectors plus the Go runtime collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		audits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seoaudit",
			Name:      "audits_total",
			Help:      "Page audits by outcome.",
		}, []string{"outcome"}),
		auditDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seoaudit",
			Name:      "audit_duration_seconds",
			Help:      "Wall time of successful audits, fetch and image probes included.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8),
		}),
		images: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seoaudit",
			Name:      "images_probed_total",
			Help:      "Probed images by optimization verdict.",
		}, []string{"verdict"}),
		links: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seoaudit",
			Name:      "internal_links",
			Help:      "Internal links recorded per audited page.",
			Buckets:   []float64{0, 5, 10, 25, 50, 100, 250},
		}),
	}
	m.registry.MustRegister(
		m.audits,
		m.auditDuration,
		m.images,
		m.links,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveReport records a successful audit.
func (m *Metrics) ObserveReport(report *analyzer.Report) {
	m.audits.WithLabelValues("success").Inc()
	m.auditDuration.Observe(report.Duration.Seconds())
	m.links.Observe(float64(len(report.Links)))
	for _, img := range report.Images {
		m.images.WithLabelValues(img.Verdict.String()).Inc()
	}
}

// ObserveFailure records an audit that produced no report.
func (m *Metrics) ObserveFailure() {
	m.audits.WithLabelValues("failure").Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
