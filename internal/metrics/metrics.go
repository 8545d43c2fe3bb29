package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics はカート操作とセッション数を数える。
type Metrics struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	sessions prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cartwidget",
			Name:      "events_total",
			Help:      "Cart events dispatched, by kind and result.",
		}, []string{"kind", "result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cartwidget",
			Name:      "sessions_open",
			Help:      "Widget sessions currently held in memory.",
		}),
	}

	reg.MustRegister(
		m.events,
		m.sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveEvent(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.events.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) SessionOpened() { m.sessions.Inc() }
func (m *Metrics) SessionClosed() { m.sessions.Dec() }

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// /metrics用
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
