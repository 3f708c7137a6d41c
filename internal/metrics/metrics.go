package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blackgpt",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blackgpt",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ExchangesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blackgpt",
			Subsystem: "chat",
			Name:      "exchanges_total",
			Help:      "Completed user/assistant exchanges",
		},
	)

	ConversationsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blackgpt",
			Subsystem: "chat",
			Name:      "conversations_started_total",
			Help:      "Chat requests that arrived without a conversation id",
		},
	)

	MessagesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blackgpt",
			Subsystem: "store",
			Name:      "messages_created_total",
			Help:      "Messages persisted, by role",
		},
		[]string{"role"},
	)

	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blackgpt",
			Subsystem: "upstream",
			Name:      "errors_total",
			Help:      "Upstream completion failures masked by the fallback reply",
		},
		[]string{"provider"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blackgpt",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Upstream completion latency",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"provider"},
	)
)
