package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guichet-numerique/carrousel/internal/common/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   *prometheus.GaugeVec
	exportCnt  *prometheus.CounterVec
	exportDur  *prometheus.HistogramVec
	emailCnt   *prometheus.CounterVec
	aiGenCnt   *prometheus.CounterVec
	aiGenDur   *prometheus.HistogramVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	exportCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "carrousel_exports_total"}, []string{"kind", "status"})
	exportDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "carrousel_export_duration_seconds", Buckets: buckets}, []string{"kind"})
	r.MustRegister(exportCnt, exportDur)

	emailCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "emails_sent_total"}, []string{"status"})
	r.MustRegister(emailCnt)

	aiGenCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "ai_generations_total"}, []string{"provider", "status"})
	aiGenDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "ai_generation_duration_seconds", Buckets: buckets}, []string{"provider"})
	r.MustRegister(aiGenCnt, aiGenDur)

	return &Metrics{
		registry:   r,
		httpReqCnt: httpReqCnt,
		httpDur:    httpDur,
		httpInfl:   httpInfl,
		exportCnt:  exportCnt,
		exportDur:  exportDur,
		emailCnt:   emailCnt,
		aiGenCnt:   aiGenCnt,
		aiGenDur:   aiGenDur,
	}
}

// ExportDone records one spreadsheet export. kind is "single" or "bundle".
func (m *Metrics) ExportDone(kind string, since time.Time, err error) {
	if m == nil {
		return
	}
	m.exportCnt.WithLabelValues(kind, outcome(err)).Inc()
	m.exportDur.WithLabelValues(kind).Observe(time.Since(since).Seconds())
}

func (m *Metrics) EmailDone(err error) {
	if m == nil {
		return
	}
	m.emailCnt.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) AIGenerationDone(provider string, since time.Time, err error) {
	if m == nil {
		return
	}
	m.aiGenCnt.WithLabelValues(provider, outcome(err)).Inc()
	m.aiGenDur.WithLabelValues(provider).Observe(time.Since(since).Seconds())
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
