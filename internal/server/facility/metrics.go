package facility

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journey",
			Subsystem: "facility",
			Name:      "deliveries_total",
			Help:      "Notifications fired, by delivery result.",
		},
		[]string{"result"},
	)

	pendingRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "journey",
			Subsystem: "facility",
			Name:      "pending_requests",
			Help:      "Scheduled notifications not yet fired.",
		},
	)
)
