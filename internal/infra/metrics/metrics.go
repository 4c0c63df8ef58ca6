package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/opisboy29/discord-dsu-bot/internal/domain/dsu"
)

var (
	DispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dsu_dispatch_total",
		Help: "DSU dispatch attempts by kind and outcome",
	}, []string{"kind", "outcome"})

	DispatchSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dsu_dispatch_skipped_total",
		Help: "Scheduled fires that ended without a send attempt",
	}, []string{"kind", "reason"})

	SendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dsu_send_duration_seconds",
		Help:    "Time spent delivering one DSU prompt to the gateway",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	ThreadsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dsu_threads_created_total",
		Help: "Discussion threads successfully created",
	})

	ThreadFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dsu_thread_failures_total",
		Help: "Discussion thread attempts that failed",
	})

	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dsu_commands_total",
		Help: "Manual commands handled, by command name",
	}, []string{"command"})
)

// MustRegister registers every collector with the given registerer. Called
// once from the composition root.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		DispatchTotal,
		DispatchSkipped,
		SendDuration,
		ThreadsCreated,
		ThreadFailures,
		CommandsTotal,
	)
}

// ObserveDispatch records the final outcome of one dispatch attempt.
func ObserveDispatch(kind dsu.Kind, outcome dsu.Outcome) {
	DispatchTotal.WithLabelValues(string(kind), string(outcome)).Inc()
}

// IncSkipped records a scheduled fire that was gated off before sending.
func IncSkipped(kind dsu.Kind, reason string) {
	DispatchSkipped.WithLabelValues(string(kind), reason).Inc()
}

// ObserveSendDuration records how long the gateway send took.
func ObserveSendDuration(kind dsu.Kind, start time.Time) {
	SendDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
}

// IncThreadCreated counts a successful thread creation.
func IncThreadCreated() {
	ThreadsCreated.Inc()
}

// IncThreadFailure counts a thread attempt that failed.
func IncThreadFailure() {
	ThreadFailures.Inc()
}

// IncCommand counts one handled manual command.
func IncCommand(command string) {
	CommandsTotal.WithLabelValues(command).Inc()
}
