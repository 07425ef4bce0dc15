// Package metrics defines the Prometheus instrumentation for the lobby
// server. Collectors are registered with the default registry via promauto
// and exposed by the API server on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lobbyd"

var (
	// SessionsActive tracks the number of live sessions in the store.
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Number of live sessions in the store.",
	})

	// ConnectionsActive tracks currently connected websocket clients.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections_active",
		Help:      "Number of connected websocket clients.",
	})

	// JoinsTotal counts successful joins.
	JoinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "joins_total",
		Help:      "Successful join operations.",
	})

	// JoinFailuresTotal counts rejected joins by reason.
	JoinFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "join_failures_total",
		Help:      "Rejected join operations by reason.",
	}, []string{"reason"})

	// ScoresTotal counts accepted score submissions.
	ScoresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scores_total",
		Help:      "Accepted score submissions.",
	})

	// BroadcastsTotal counts outbound broadcasts by event name.
	BroadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_total",
		Help:      "Broadcasts sent to all clients, by event.",
	}, []string{"event"})

	// SessionsSweptTotal counts sessions removed by the expiry sweep.
	SessionsSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_swept_total",
		Help:      "Sessions removed by the expiry sweep.",
	})

	// ThrottledMessagesTotal counts inbound messages dropped by rate limiting.
	ThrottledMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "throttled_messages_total",
		Help:      "Inbound messages dropped by per-connection rate limiting.",
	})
)
