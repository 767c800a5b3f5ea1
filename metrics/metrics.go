// Package metrics собирает метрики Prometheus для HTTP и турнирных операций.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "house_tournament"

type Metrics struct {
	registry *prometheus.Registry

	httpLatency    *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	scoreWrites    *prometheus.CounterVec
	completions    *prometheus.CounterVec
	fixtures       prometheus.Gauge
	fixtureRuns    prometheus.Counter
	housePointRuns prometheus.Counter
}

// New создает метрики на собственном реестре, чтобы тесты не конфликтовали
// с глобальным prometheus.DefaultRegisterer.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_latency_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route.",
		}, []string{"route", "method", "code"}),
		scoreWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matches",
			Name:      "score_writes_total",
			Help:      "Recorded game scores by category.",
		}, []string{"category"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matches",
			Name:      "completed_total",
			Help:      "Completed matches by completion reason.",
		}, []string{"reason"}),
		fixtures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fixtures",
			Name:      "matches",
			Help:      "Number of matches in the current schedule.",
		}),
		fixtureRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fixtures",
			Name:      "generations_total",
			Help:      "Schedule regenerations.",
		}),
		housePointRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "house_points",
			Name:      "recalculations_total",
			Help:      "House points cache recalculations.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpLatency, m.httpRequests, m.scoreWrites, m.completions,
		m.fixtures, m.fixtureRuns, m.housePointRuns,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Все методы ниже безопасны для nil-получателя: сервисы в тестах создаются без метрик.

func (m *Metrics) ObserveHTTP(route, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"route": route, "method": method, "code": strconv.Itoa(code)}
	m.httpLatency.With(labels).Observe(elapsed.Seconds())
	m.httpRequests.With(labels).Inc()
}

func (m *Metrics) ScoreRecorded(category string) {
	if m == nil {
		return
	}
	m.scoreWrites.WithLabelValues(category).Inc()
}

const (
	CompletionAuto   = "auto"
	CompletionManual = "manual"
)

func (m *Metrics) MatchCompleted(reason string) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(reason).Inc()
}

func (m *Metrics) FixturesGenerated(count int) {
	if m == nil {
		return
	}
	m.fixtureRuns.Inc()
	m.fixtures.Set(float64(count))
}

func (m *Metrics) HousePointsRecalculated() {
	if m == nil {
		return
	}
	m.housePointRuns.Inc()
}
