// Package metrics exposes Prometheus instrumentation for event transport.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orders"

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Messaging counts published and consumed events.
// A nil *Messaging is valid and records nothing.
type Messaging struct {
	Published *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	Consumed  *prometheus.CounterVec
}

// NewMessaging creates the collectors and registers them with reg.
func NewMessaging(reg prometheus.Registerer) *Messaging {
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Total number of event publications by topic and outcome.",
	}, []string{"topic", "event_name", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "publish_duration_ms",
		Help:      "Event publication latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"topic"})
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "consumed_total",
		Help:      "Total number of consumed event messages by topic and outcome.",
	}, []string{"topic", "event_name", "status"})

	reg.MustRegister(published, latency, consumed)
	return &Messaging{Published: published, LatencyMS: latency, Consumed: consumed}
}

// ObservePublish records one publication attempt.
func (m *Messaging) ObservePublish(topic, eventName, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.Published.WithLabelValues(topic, eventName, status).Inc()
	m.LatencyMS.WithLabelValues(topic).Observe(float64(took.Microseconds()) / 1000)
}

// ObserveConsume records one consumed message.
func (m *Messaging) ObserveConsume(topic, eventName, status string) {
	if m == nil {
		return
	}
	m.Consumed.WithLabelValues(topic, eventName, status).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
