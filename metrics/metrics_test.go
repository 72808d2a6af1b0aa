package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestObserveRefund(t *testing.T) {
	count := testutil.ToFloat64(RefundsCredited)
	sum := testutil.ToFloat64(RefundedRupees)

	ObserveRefund(decimal.RequireFromString("183.33"))

	assert.Equal(t, count+1, testutil.ToFloat64(RefundsCredited))
	assert.InDelta(t, sum+183.33, testutil.ToFloat64(RefundedRupees), 0.001)
}

func TestOrdersPlacedByMethod(t *testing.T) {
	before := testutil.ToFloat64(OrdersPlaced.WithLabelValues("cod"))
	OrdersPlaced.WithLabelValues("cod").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(OrdersPlaced.WithLabelValues("cod")))
}
