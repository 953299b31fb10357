// Package metrics holds the Prometheus collectors shared by the orchestration
// handlers. Collectors register on the default registry served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubOrders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catering_suborders_total",
		Help: "Restaurant sub-orders processed, by provider and result.",
	}, []string{"provider", "result"})

	ProviderPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catering_provider_polls_total",
		Help: "Status polls sent to external providers.",
	}, []string{"provider"})

	OrderStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catering_orders_status_total",
		Help: "Aggregate order status transitions, by target status.",
	}, []string{"status"})

	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catering_deliveries_total",
		Help: "Delivery bookings, by result.",
	}, []string{"result"})

	Recommendations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catering_recommendations_total",
		Help: "Per-customer recommendation generations, by result.",
	}, []string{"result"})
)

// Result label values.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)
