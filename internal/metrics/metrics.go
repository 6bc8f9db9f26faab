// Package metrics exposes Prometheus instrumentation for group membership and
// payment settlement.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the party coordination core.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Membership transitions: created, joined, left, disbanded, deleted
	GroupEvents *prometheus.CounterVec

	// Orders accepted into the ledger and orders evicted by the janitor
	OrdersPlaced  prometheus.Counter
	OrdersEvicted prometheus.Counter

	// Payment outcomes by result (settled, declined, not_found, transport)
	Payments *prometheus.CounterVec

	// Time spent at the payment barrier by completion mode
	BarrierWait *prometheus.HistogramVec

	// Loyalty points returned to payers
	Rewards prometheus.Counter
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GroupEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dinnerparty_group_events_total",
			Help: "Group membership transitions by event",
		}, []string{"event"}),

		OrdersPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "dinnerparty_orders_placed_total",
			Help: "Orders accepted into the order ledger",
		}),

		OrdersEvicted: factory.NewCounter(prometheus.CounterOpts{
			Name: "dinnerparty_orders_evicted_total",
			Help: "Orders evicted from the ledger after their TTL",
		}),

		Payments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dinnerparty_payments_total",
			Help: "Payments by outcome",
		}, []string{"outcome"}),

		BarrierWait: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dinnerparty_barrier_wait_seconds",
			Help:    "Time payers spend waiting for the rest of the party",
			Buckets: []float64{0.01, 0.1, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"mode"}), // mode: "complete", "timeout"

		Rewards: factory.NewCounter(prometheus.CounterOpts{
			Name: "dinnerparty_rewards_points_total",
			Help: "Loyalty points computed for settled payments",
		}),
	}
}

// IncGroupEvent records a membership transition.
func (m *Metrics) IncGroupEvent(event string) {
	if m != nil {
		m.GroupEvents.WithLabelValues(event).Inc()
	}
}

// IncOrdersPlaced records an accepted order.
func (m *Metrics) IncOrdersPlaced() {
	if m != nil {
		m.OrdersPlaced.Inc()
	}
}

// AddOrdersEvicted records orders dropped by the janitor.
func (m *Metrics) AddOrdersEvicted(n int) {
	if m != nil {
		m.OrdersEvicted.Add(float64(n))
	}
}

// IncPayment records a payment outcome.
func (m *Metrics) IncPayment(outcome string) {
	if m != nil {
		m.Payments.WithLabelValues(outcome).Inc()
	}
}

// ObserveBarrierWait records how long a payer waited and how the wait ended.
func (m *Metrics) ObserveBarrierWait(mode string, d time.Duration) {
	if m != nil {
		m.BarrierWait.WithLabelValues(mode).Observe(d.Seconds())
	}
}

// AddRewards records points handed out.
func (m *Metrics) AddRewards(points float64) {
	if m != nil && points > 0 {
		m.Rewards.Add(points)
	}
}
