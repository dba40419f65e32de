package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the dedicated registry for client metrics; the agent's debug
// listener exposes it via Handler.
var Registry = prometheus.NewRegistry()

var (
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "companion_chat_pages_fetched_total",
		Help: "History pages successfully fetched from the backend.",
	})
	FetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "companion_fetch_errors_total",
		Help: "Failed backend requests by endpoint.",
	}, []string{"endpoint"})
	CacheErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "companion_cache_errors_total",
		Help: "Local cache failures by operation.",
	}, []string{"op"})
	MessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "companion_chat_messages_sent_total",
		Help: "Messages submitted to the chat endpoint.",
	})
	RecordsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "companion_chat_records_dropped_total",
		Help: "Raw history records dropped by the normalizer.",
	})
	RemindersPlanned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "companion_reminders_planned_total",
		Help: "Reminder triggers produced by the planner.",
	})
)

func init() {
	Registry.MustRegister(PagesFetched, FetchErrors, CacheErrors,
		MessagesSent, RecordsDropped, RemindersPlanned)
}

// Handler returns an HTTP handler serving the client metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
