// Package metrics registers the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MutationsTotal counts label mutations by change type and result
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relabel_mutations_total",
		Help: "Total label mutations by change type and result",
	}, []string{"change_type", "result"})

	// MutationDuration tracks write+audit latency
	MutationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relabel_mutation_duration_seconds",
		Help:    "Label mutation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	}, []string{"change_type"})

	// CommandsTotal counts interpreted commands by intent kind
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relabel_commands_total",
		Help: "Total free-text commands by interpreted intent",
	}, []string{"intent"})

	// NotifyFailures counts events that could not be handed to the hub
	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relabel_notify_failures_total",
		Help: "Events that failed to publish after a committed mutation",
	})

	// SubscribersEvicted counts subscribers removed because their queue was full
	SubscribersEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relabel_subscribers_evicted_total",
		Help: "Event subscribers evicted because their queue was full",
	})

	// StreamClients tracks connected websocket clients
	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relabel_stream_clients",
		Help: "Currently connected event stream clients",
	})

	// HTTPRequests counts API requests by route and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relabel_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPDuration tracks API request latency
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relabel_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
