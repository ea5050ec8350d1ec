// Package metrics records service metrics with Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "yantra"

// Recorder holds the service collectors. A nil *Recorder records nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	readouts     *prometheus.CounterVec
	computeTime  *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
	engineErrors *prometheus.CounterVec
	liveClients  prometheus.Gauge
}

var (
	defaultOnce     sync.Once
	defaultRecorder *Recorder
)

// Default returns the recorder registered with the global Prometheus
// registry. It registers on first use only.
func Default() *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return defaultRecorder
}

// New creates a recorder whose collectors are registered with reg.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		gatherer: gatherer,
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"route", "method", "class"},
		),
		readouts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "readouts_computed_total",
				Help:      "Instrument readouts computed",
			},
			[]string{"instrument"},
		),
		computeTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "readout_compute_seconds",
				Help:      "Time spent computing a readout",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"instrument"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Readout cache lookups by result",
			},
			[]string{"result"},
		),
		engineErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "engine_errors_total",
				Help:      "Engine errors by kind",
			},
			[]string{"instrument", "kind"},
		),
		liveClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_clients",
			Help:      "Connected live feed clients",
		}),
	}
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil || r.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method, StatusClass(status)).Observe(d.Seconds())
}

// ObserveReadout records one computed readout.
func (r *Recorder) ObserveReadout(instrument string, d time.Duration) {
	if r == nil {
		return
	}
	r.readouts.WithLabelValues(instrument).Inc()
	r.computeTime.WithLabelValues(instrument).Observe(d.Seconds())
}

// CacheHit records a readout served from the cache.
func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss records a readout that had to be computed.
func (r *Recorder) CacheMiss() {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues("miss").Inc()
}

// EngineError records a failed computation. kind is a short error class
// such as "domain" or "validation".
func (r *Recorder) EngineError(instrument, kind string) {
	if r == nil {
		return
	}
	r.engineErrors.WithLabelValues(instrument, kind).Inc()
}

// LiveConnected adjusts the live client gauge by delta.
func (r *Recorder) LiveConnected(delta int) {
	if r == nil {
		return
	}
	r.liveClients.Add(float64(delta))
}

// StatusClass maps an HTTP status to "2xx", "4xx" and so on.
func StatusClass(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
