// Package metrics holds Prometheus collectors describing the connection engine.
package metrics

import (
	"strconv"
	"time"

	"github.com/indigo-web/engine/http/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "engine"

// Close reasons, used as the "reason" label of the closed connections counter.
const (
	ReasonClose     = "close"
	ReasonTimeout   = "timeout"
	ReasonTransport = "transport"
	ReasonHandshake = "handshake"
	ReasonStopped   = "stopped"
)

type Metrics struct {
	active          prometheus.Gauge
	accepted        *prometheus.CounterVec
	closed          *prometheus.CounterVec
	responses       *prometheus.CounterVec
	parseFailures   prometheus.Counter
	bytesWritten    prometheus.Counter
	requestDuration prometheus.Histogram
}

// New registers the collectors at reg. A single registerer can't hold two instances.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Current number of registered connections",
		}),
		accepted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_accepted_total",
			Help:      "Total number of accepted connections",
		}, []string{"transport"}),
		closed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_closed_total",
			Help:      "Total number of closed connections by the reason of closing",
		}, []string{"reason"}),
		responses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Total number of sent responses",
		}, []string{"status"}),
		parseFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Total number of malformed requests",
		}),
		bytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Total number of bytes written to clients",
		}),
		requestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from the request being parsed till the response being fully sent",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Nop returns metrics registered nowhere.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) Accepted(secure bool) {
	transport := "plain"
	if secure {
		transport = "tls"
	}

	m.accepted.WithLabelValues(transport).Inc()
	m.active.Inc()
}

func (m *Metrics) Closed(reason string) {
	m.closed.WithLabelValues(reason).Inc()
	m.active.Dec()
}

func (m *Metrics) Responded(code status.Code, since time.Time) {
	m.responses.WithLabelValues(strconv.Itoa(int(code))).Inc()
	m.requestDuration.Observe(time.Since(since).Seconds())
}

func (m *Metrics) ParseFailed() {
	m.parseFailures.Inc()
}

func (m *Metrics) Written(n int) {
	m.bytesWritten.Add(float64(n))
}
