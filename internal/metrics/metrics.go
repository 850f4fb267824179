package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devmart_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devmart_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devmart_retry_attempts_total",
			Help: "Retries of remote calls after a transient failure",
		},
		[]string{"op"},
	)

	HookFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devmart_hook_fetches_total",
			Help: "Data hook fetches by outcome (ok, error, discarded)",
		},
		[]string{"hook", "result"},
	)

	HookFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devmart_hook_fetch_duration_seconds",
			Help:    "Duration of data hook fetches",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"hook"},
	)

	LiveHooks = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "devmart_live_hooks",
			Help: "Data hooks currently held by collections",
		},
		[]string{"entity"},
	)

	LeadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devmart_leads_total",
			Help: "Lead submissions by outcome (created, rate_limited, invalid, failed)",
		},
		[]string{"result"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devmart_notifications_total",
			Help: "Outgoing notifications by channel and outcome",
		},
		[]string{"channel", "result"},
	)
)
