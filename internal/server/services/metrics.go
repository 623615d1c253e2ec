package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	capsulesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "journey",
		Subsystem: "lifecycle",
		Name:      "capsules_created_total",
		Help:      "Time capsules created.",
	})

	capsulesOpenedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "journey",
		Subsystem: "lifecycle",
		Name:      "capsules_opened_total",
		Help:      "Time capsules opened.",
	})

	reconcileActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journey",
			Subsystem: "lifecycle",
			Name:      "reconcile_actions_total",
			Help:      "Repairs made by launch reconciliation, by action.",
		},
		[]string{"action"},
	)
)
