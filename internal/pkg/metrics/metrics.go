package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "smartthingsce"

// Registry holds every collector exported on /metrics.
var Registry = prometheus.NewRegistry()

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests sent to the SmartThings API by endpoint and status code",
		},
		[]string{"endpoint", "code"},
	)

	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a full coordinator refresh",
			Buckets:   prometheus.DefBuckets,
		},
	)

	RefreshFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_failures_total",
			Help:      "Coordinator refreshes that failed to fetch devices, rooms or scenes",
		},
	)

	StatusFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_failures_total",
			Help:      "Per-device status fetches that failed during a refresh",
		},
	)

	Devices = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "devices",
			Help:      "Devices held in the coordinator cache",
		},
	)

	LastRefresh = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful refresh",
		},
	)

	WebhookLifecycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_lifecycles_total",
			Help:      "Webhook envelopes received by lifecycle",
		},
		[]string{"lifecycle"},
	)

	Commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Device commands sent by capability and outcome",
		},
		[]string{"capability", "result"},
	)
)

func init() {
	Registry.MustRegister(
		APIRequests,
		RefreshDuration,
		RefreshFailures,
		StatusFailures,
		Devices,
		LastRefresh,
		WebhookLifecycles,
		Commands,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
