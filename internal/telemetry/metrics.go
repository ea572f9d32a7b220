package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Namespace groups every metric this service exports.
const Namespace = "ml_scheduler"

var (
	// RunsTotal counts completed CalculatePlanning runs, labeled by the
	// terminal solver status (OPTIMAL, FEASIBLE, INFEASIBLE, UNKNOWN).
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "runs",
			Name:      "total",
			Help:      "Number of scheduling runs completed, labeled by solver status.",
		},
		[]string{"status"},
	)
	// OrdersScheduled counts ScheduledOrder rows emitted per run.
	OrdersScheduled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "orders",
			Name:      "scheduled_total",
			Help:      "Number of orders scheduled in total, labeled by info_code.",
		},
		[]string{"info_code"},
	)
	// OrdersRejected counts orders the task expander dropped before
	// they ever reached the solver.
	OrdersRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "orders",
			Name:      "rejected_total",
			Help:      "Number of orders dropped during task expansion, labeled by reason.",
		},
		[]string{"reason"},
	)
	// SolveDurationSeconds records each run's wall-clock solve time.
	SolveDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "solver",
			Name:      "duration_seconds",
			Help:      "Wall-clock time spent inside the solver, labeled by terminal status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)

// Registry is this service's own Prometheus registry. Unlike the
// teacher, which registers into controller-runtime's shared registry,
// this service has no controller manager to share one with.
var Registry = prometheus.NewRegistry()

// MustRegister registers every metric above into Registry.
func MustRegister() {
	Registry.MustRegister(RunsTotal, OrdersScheduled, OrdersRejected, SolveDurationSeconds)
}
