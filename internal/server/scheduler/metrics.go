package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scheduledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "journey",
		Subsystem: "scheduler",
		Name:      "scheduled_total",
		Help:      "Time capsule open notifications scheduled.",
	})

	cancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "journey",
		Subsystem: "scheduler",
		Name:      "cancelled_total",
		Help:      "Time capsule open notifications cancelled.",
	})

	permissionDeniedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "journey",
		Subsystem: "scheduler",
		Name:      "permission_denied_total",
		Help:      "Scheduling attempts skipped because notifications are not permitted.",
	})
)
