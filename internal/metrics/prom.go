package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "forensai_build_info",
			Help: "Build information",
		},
		[]string{"version", "model"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forensai_http_requests_total",
			Help: "HTTP requests served, by route pattern and status code",
		},
		[]string{"route", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forensai_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forensai_backend_requests_total",
			Help: "Calls to the inference backend, by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// Backend call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeStatusError = "status_error"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Register registers all metrics with the provided registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(buildInfo, httpRequests, httpDuration, backendRequests)
}

// SetBuildInfo records the running version and configured model.
func SetBuildInfo(version, model string) {
	buildInfo.WithLabelValues(version, model).Set(1)
}

// ObserveHTTPRequest counts a served request and records its duration.
func ObserveHTTPRequest(route string, code int, d time.Duration) {
	httpRequests.WithLabelValues(route, statusLabel(code)).Inc()
	httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordBackendRequest counts one call to the inference backend.
func RecordBackendRequest(operation, outcome string) {
	backendRequests.WithLabelValues(operation, outcome).Inc()
}

func statusLabel(code int) string {
	if code == 0 {
		code = 200
	}
	return strconv.Itoa(code)
}
