package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cartshield_requests_evaluated_total",
		Help: "Total number of requests evaluated against IP reputation",
	})
	requestsBlockedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cartshield_requests_blocked_total",
		Help: "Total number of requests blocked or flagged by IP reputation",
	})
	emailsEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cartshield_emails_evaluated_total",
		Help: "Total number of submitted emails evaluated",
	})
	emailsBlockedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cartshield_emails_blocked_total",
		Help: "Total number of submitted emails rejected",
	})
	ordersApprovedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cartshield_orders_approved_total",
		Help: "Total number of orders approved after fraud scoring",
	})
	ordersRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cartshield_orders_rejected_total",
		Help: "Total number of orders rejected after fraud scoring",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		requestsEvaluatedTotal, requestsBlockedTotal,
		emailsEvaluatedTotal, emailsBlockedTotal,
		ordersApprovedTotal, ordersRejectedTotal,
	)
}

// IncRequestEvaluated increments the evaluated requests counter.
func IncRequestEvaluated() { requestsEvaluatedTotal.Inc() }

// IncRequestBlocked increments the blocked requests counter.
func IncRequestBlocked() { requestsBlockedTotal.Inc() }

// IncEmailEvaluated increments the evaluated emails counter.
func IncEmailEvaluated() { emailsEvaluatedTotal.Inc() }

// IncEmailBlocked increments the rejected emails counter.
func IncEmailBlocked() { emailsBlockedTotal.Inc() }

// IncOrderApproved increments the approved orders counter.
func IncOrderApproved() { ordersApprovedTotal.Inc() }

// IncOrderRejected increments the rejected orders counter.
func IncOrderRejected() { ordersRejectedTotal.Inc() }
