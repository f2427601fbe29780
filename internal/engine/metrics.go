// Prometheus instrumentation for the routing engine. Label cardinality is
// fixed: drop reasons and dispatch paths are small closed sets.
package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	// acceptedTotal counts submissions appended to the ledger.
	acceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "suggestions_accepted_total",
		Help: "Total number of accepted submissions.",
	})

	// droppedTotal counts silently dropped submissions by reason.
	droppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestions_dropped_total",
			Help: "Total number of dropped submissions.",
		},
		[]string{"reason"}, // "blocked" | "cooldown"
	)

	// dispatchFailures counts post-acceptance delivery failures by path.
	dispatchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_dispatch_failures_total",
			Help: "Total number of dispatch failures after acceptance.",
		},
		[]string{"path"}, // "relay" | "archive_log" | "archive_store" | "ack" | "stats_chart"
	)
)

func init() {
	prometheus.MustRegister(acceptedTotal, droppedTotal, dispatchFailures)
}
