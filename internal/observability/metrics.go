package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "memoquiz"

// Metrics owns a private registry. All methods are safe on a nil receiver so
// callers can run with metrics disabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	sessions         *prometheus.CounterVec
	sessionSlots     *prometheus.CounterVec
	synthesis        *prometheus.CounterVec
	synthesisLatency prometheus.Histogram
	outcomes         *prometheus.CounterVec
	poolSize         prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "http_requests_inflight",
			Help: "HTTP requests currently being served.",
		}),
		sessions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "quiz_sessions_total",
			Help: "Quiz sessions built, by completeness.",
		}, []string{"result"}),
		sessionSlots: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "quiz_session_slots_total",
			Help: "Session slots by how they were filled (bandit, synthesized, skipped).",
		}, []string{"source"}),
		synthesis: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "quiz_synthesis_total",
			Help: "Question synthesis attempts by result.",
		}, []string{"result"}),
		synthesisLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "quiz_synthesis_duration_seconds",
			Help:    "Latency of question synthesis including the generator call.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		}),
		outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "quiz_outcomes_total",
			Help: "Recorded answers by correctness.",
		}, []string{"result"}),
		poolSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "quiz_pool_size",
			Help: "Number of quiz items in the last loaded snapshot.",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveSession(degraded bool) {
	if m == nil {
		return
	}
	result := "complete"
	if degraded {
		result = "degraded"
	}
	m.sessions.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSlot(source string) {
	if m != nil {
		m.sessionSlots.WithLabelValues(source).Inc()
	}
}

// ObserveSynthesis records one attempt; result is "ok" or a failure reason.
func (m *Metrics) ObserveSynthesis(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.synthesis.WithLabelValues(result).Inc()
	m.synthesisLatency.Observe(d.Seconds())
}

func (m *Metrics) ObserveOutcome(correct bool) {
	if m == nil {
		return
	}
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.outcomes.WithLabelValues(result).Inc()
}

func (m *Metrics) SetPoolSize(n int) {
	if m != nil {
		m.poolSize.Set(float64(n))
	}
}
