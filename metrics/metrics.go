// Package metrics exposes Prometheus counters for the order and money paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

const namespace = "greennest"

var (
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Orders created, by payment method.",
	}, []string{"method"})

	PaymentsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_failed_total",
		Help:      "Payment attempts that ended failed, by payment method.",
	}, []string{"method"})

	RefundsCredited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refunds_credited_total",
		Help:      "Refunds credited to customer wallets.",
	})

	RefundedRupees = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refunded_rupees_total",
		Help:      "Sum of refunds credited to customer wallets.",
	})

	StockConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_conflicts_total",
		Help:      "Checkouts aborted because a variant ran out of stock.",
	})
)

// ObserveRefund counts one refund of amount.
func ObserveRefund(amount decimal.Decimal) {
	RefundsCredited.Inc()
	f, _ := amount.Float64()
	RefundedRupees.Add(f)
}
