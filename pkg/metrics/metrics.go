// Package metrics provides Prometheus instrumentation for weave components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "weave"

// Registry holds all metric instances for weave components.
type Registry struct {
	// Threading Metrics
	PoolThreads       *prometheus.GaugeVec
	ThreadWakeups     *prometheus.CounterVec
	ThreadWorkers     *prometheus.GaugeVec
	WorkersReclaimed  *prometheus.CounterVec
	WorkerRuns        *prometheus.CounterVec
	WorkerRunDuration *prometheus.HistogramVec

	// Messenger Metrics
	MessagesQueued    *prometheus.CounterVec
	MessageDeliveries *prometheus.CounterVec
	SweepDuration     *prometheus.HistogramVec
	ListenersActive   *prometheus.GaugeVec

	// Deadline Scheduler Metrics
	AsyncScheduled    *prometheus.CounterVec
	AsyncExecuted     *prometheus.CounterVec
	AsyncCancelled    *prometheus.CounterVec
	AsyncPending      *prometheus.GaugeVec
	AsyncTaskDuration *prometheus.HistogramVec
}

// DefaultRegistry is the default metrics registry used by weave components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Threading Metrics
		PoolThreads: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "pool",
				Name:      "threads",
				Help:      "Number of worker threads owned by the pool",
			},
			[]string{"pool"},
		),

		ThreadWakeups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "thread",
				Name:      "wakeups_total",
				Help:      "Total number of worker thread wakeups",
			},
			[]string{"thread"},
		),

		ThreadWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "thread",
				Name:      "workers",
				Help:      "Number of workers admitted to the thread",
			},
			[]string{"thread"},
		),

		WorkersReclaimed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "thread",
				Name:      "workers_reclaimed_total",
				Help:      "Total number of dead worker references dropped",
			},
			[]string{"thread"},
		),

		WorkerRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "thread",
				Name:      "worker_runs_total",
				Help:      "Total number of worker runs executed",
			},
			[]string{"thread"},
		),

		WorkerRunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "thread",
				Name:      "worker_run_duration_seconds",
				Help:      "Time spent inside a single worker run",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"thread"},
		),

		// Messenger Metrics
		MessagesQueued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "messenger",
				Name:      "messages_queued_total",
				Help:      "Total number of messages submitted",
			},
			[]string{"messenger"},
		),

		MessageDeliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "messenger",
				Name:      "deliveries_total",
				Help:      "Total number of listener callbacks invoked",
			},
			[]string{"messenger"},
		),

		SweepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "messenger",
				Name:      "sweep_duration_seconds",
				Help:      "Time spent broadcasting one message",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"messenger"},
		),

		ListenersActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "messenger",
				Name:      "listeners_active",
				Help:      "Number of listeners active after the last synchronization point",
			},
			[]string{"messenger"},
		),

		// Deadline Scheduler Metrics
		AsyncScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "async",
				Name:      "tasks_scheduled_total",
				Help:      "Total number of schedule requests",
			},
			[]string{"scheduler"},
		),

		AsyncExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "async",
				Name:      "tasks_executed_total",
				Help:      "Total number of tasks executed",
			},
			[]string{"scheduler"},
		),

		AsyncCancelled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "async",
				Name:      "tasks_cancelled_total",
				Help:      "Total number of pending tasks cancelled",
			},
			[]string{"scheduler"},
		),

		AsyncPending: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "async",
				Name:      "tasks_pending",
				Help:      "Number of tasks waiting for their deadline",
			},
			[]string{"scheduler"},
		),

		AsyncTaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "async",
				Name:      "task_duration_seconds",
				Help:      "Time spent executing a task",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"scheduler"},
		),
	}
}
