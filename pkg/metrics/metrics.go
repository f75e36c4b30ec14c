// Package metrics exposes Prometheus collectors for the telemetry service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "telemetry_"

const (
	OperationRegisterDevice = "register_device"
	OperationUpdateData     = "update_data"
	OperationGetData        = "get_data"
	OperationSetLimiter     = "set_limiter"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	devicesRegistered prometheus.Counter
	readingsIngested  prometheus.Counter
	rejections        *prometheus.CounterVec
	sinkErrors        prometheus.Counter
)

// Init registers the collectors with the default registry. It is safe to call
// more than once; every recorder calls it.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		)
		devicesRegistered = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "devices_registered_total",
				Help: "Total devices registered",
			},
		)
		readingsIngested = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "readings_ingested_total",
				Help: "Total readings stored",
			},
		)
		rejections = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rejections_total",
				Help: "Total rejected operations by operation and reason",
			},
			[]string{"operation", "reason"},
		)
		sinkErrors = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "sink_errors_total",
				Help: "Total failed mirror writes of readings",
			},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			devicesRegistered,
			readingsIngested,
			rejections,
			sinkErrors,
		)
	})
}

func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

func ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	Init()
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

func IncDevicesRegistered() {
	Init()
	devicesRegistered.Inc()
}

func IncReadingsIngested() {
	Init()
	readingsIngested.Inc()
}

func IncRejected(operation, reason string) {
	Init()
	rejections.WithLabelValues(operation, reason).Inc()
}

func IncSinkErrors() {
	Init()
	sinkErrors.Inc()
}
