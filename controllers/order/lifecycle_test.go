package orderControllers

import (
	"testing"

	"github.com/amarsreevishnu/greennestPlants/database/dbtest"
	"github.com/amarsreevishnu/greennestPlants/events"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRecalcTotalsIsIdempotent(t *testing.T) {
	coupon := dbtest.Money("10")
	order := models.Order{
		ShippingCharge: dbtest.Money("50"),
		Coupon: &models.Coupon{
			DiscountPercentage: coupon,
			MaxDiscountAmount:  decimal.NewNullDecimal(dbtest.Money("50")),
			Active:             true,
		},
		Items: []models.OrderItem{
			{TotalPrice: dbtest.Money("200"), Status: models.ItemStatusActive},
			{TotalPrice: dbtest.Money("100"), Status: models.ItemStatusCancelled},
			{TotalPrice: dbtest.Money("50"), Status: models.ItemStatusReturnRejected},
		},
	}

	RecalcTotals(rules, &order)
	dbtest.RequireMoney(t, "250", order.TotalAmount)
	dbtest.RequireMoney(t, "25", order.Discount)
	dbtest.RequireMoney(t, "275", order.FinalAmount)

	once := order
	RecalcTotals(rules, &order)
	assert.Equal(t, once.TotalAmount.String(), order.TotalAmount.String())
	assert.Equal(t, once.Discount.String(), order.Discount.String())
	assert.Equal(t, once.FinalAmount.String(), order.FinalAmount.String())
	assert.Equal(t, once.ShippingCharge.String(), order.ShippingCharge.String())
}

func TestRecalcTotalsWithNothingBillable(t *testing.T) {
	order := models.Order{
		ShippingCharge: dbtest.Money("50"),
		Items:          []models.OrderItem{{TotalPrice: dbtest.Money("100"), Status: models.ItemStatusCancelled}},
	}
	RecalcTotals(rules, &order)
	dbtest.RequireMoney(t, "0", order.ShippingCharge)
	dbtest.RequireMoney(t, "0", order.FinalAmount)
}

func TestRecalcTotalsUsesRecordedTaxRate(t *testing.T) {
	current := pricing.DefaultRules()
	current.TaxRate = dbtest.Money("18")

	order := models.Order{
		TaxRate: decimal.NewNullDecimal(dbtest.Money("10")),
		Items:   []models.OrderItem{{TotalPrice: dbtest.Money("200"), Status: models.ItemStatusActive}},
	}
	RecalcTotals(current, &order)
	dbtest.RequireMoney(t, "20", order.Tax)
	dbtest.RequireMoney(t, "220", order.FinalAmount)

	// orders without a recorded rate fall back to the configured one
	legacy := models.Order{Items: order.Items}
	RecalcTotals(current, &legacy)
	dbtest.RequireMoney(t, "36", legacy.Tax)
}

func TestCancelItemKeepsCheckoutTaxRate(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	dbtest.FillCart(t, db, "u1", map[uint]int{cat.Monstera.ID: 1, cat.Fern.ID: 2})

	taxed := pricing.DefaultRules()
	taxed.TaxRate = dbtest.Money("5")
	var order models.Order
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, _, err = CreateOrderFromCart(tx, taxed, PlaceParams{UserID: "u1", Method: models.PaymentMethodCOD, Now: dbtest.Now})
		return err
	}))
	require.True(t, order.TaxRate.Valid)
	dbtest.RequireMoney(t, "20", order.Tax)
	dbtest.RequireMoney(t, "470", order.FinalAmount)

	// the storefront rate has since dropped to zero
	out, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelItem(tx, rules, "u1", order.ID, itemFor(t, order, cat.Fern.ID), "", dbtest.Now)
	})
	require.NoError(t, err)
	dbtest.RequireMoney(t, "10", out.Order.Tax)
	dbtest.RequireMoney(t, "260", out.Order.FinalAmount)

	var saved models.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	dbtest.RequireMoney(t, "5", saved.TaxRate.Decimal)
	dbtest.RequireMoney(t, "10", saved.Tax)
}

func TestLoadOrderReportsMissingAsNotFound(t *testing.T) {
	db := dbtest.Open(t)
	_, err := loadOrder(db, 42, "u1")
	require.ErrorIs(t, err, models.ErrNotFound)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = loadOrder(db, 42, "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestAggregateStatus(t *testing.T) {
	items := func(statuses ...models.ItemStatus) []models.OrderItem {
		out := make([]models.OrderItem, len(statuses))
		for i, s := range statuses {
			out[i].Status = s
		}
		return out
	}

	tests := []struct {
		name  string
		order models.OrderStatus
		items []models.OrderItem
		want  models.OrderStatus
	}{
		{"all cancelled", models.OrderStatusProcessing, items(models.ItemStatusCancelled, models.ItemStatusCancelled), models.OrderStatusCancelled},
		{"some cancelled before shipping", models.OrderStatusProcessing, items(models.ItemStatusCancelled, models.ItemStatusActive), models.OrderStatusPartiallyCancelled},
		{"still partially cancelled", models.OrderStatusPartiallyCancelled, items(models.ItemStatusCancelled, models.ItemStatusActive), models.OrderStatusPartiallyCancelled},
		{"shipped keeps its status", models.OrderStatusShipped, items(models.ItemStatusCancelled, models.ItemStatusActive), models.OrderStatusShipped},
		{"nothing cancelled", models.OrderStatusProcessing, items(models.ItemStatusActive, models.ItemStatusActive), models.OrderStatusProcessing},
		{"return pending", models.OrderStatusDelivered, items(models.ItemStatusReturnRequested, models.ItemStatusDelivered), models.OrderStatusReturnRequested},
		{"one returned", models.OrderStatusReturnRequested, items(models.ItemStatusReturned, models.ItemStatusDelivered), models.OrderStatusPartiallyReturned},
		{"returned and cancelled", models.OrderStatusPartiallyReturned, items(models.ItemStatusReturned, models.ItemStatusCancelled), models.OrderStatusReturned},
		{"return rejected", models.OrderStatusReturnRequested, items(models.ItemStatusReturnRejected, models.ItemStatusDelivered), models.OrderStatusDelivered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateStatus(models.Order{Status: tt.order}, tt.items)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.OrderStatusProcessing, models.OrderStatusShipped))
	assert.True(t, CanTransition(models.OrderStatusPartiallyCancelled, models.OrderStatusShipped))
	assert.True(t, CanTransition(models.OrderStatusShipped, models.OrderStatusDelivered))
	assert.False(t, CanTransition(models.OrderStatusShipped, models.OrderStatusProcessing))
	assert.False(t, CanTransition(models.OrderStatusShipped, models.OrderStatusCancelled))
	assert.False(t, CanTransition(models.OrderStatusDelivered, models.OrderStatusCancelled))
	assert.False(t, CanTransition(models.OrderStatusCancelled, models.OrderStatusProcessing))
}

func TestCancelWholePrepaidOrder(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	order := place(t, db, "u1", models.PaymentMethodWallet, map[uint]int{cat.Monstera.ID: 1, cat.Fern.ID: 2}, nil)
	dbtest.RequireMoney(t, "450", order.AmountCaptured)

	out, rec, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelOrder(tx, rules, "u1", order.ID, "ordered twice", dbtest.Now)
	})
	require.NoError(t, err)
	dbtest.RequireMoney(t, "450", out.Refund)
	assert.Equal(t, models.OrderStatusCancelled, out.Order.Status)
	assert.Equal(t, []events.Type{events.OrderCancelled}, rec.Types())

	var saved models.Order
	require.NoError(t, db.Preload("Items").First(&saved, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, saved.Status)
	dbtest.RequireMoney(t, "0", saved.FinalAmount)
	dbtest.RequireMoney(t, "450", saved.RefundedAmount)
	for _, it := range saved.Items {
		assert.Equal(t, models.ItemStatusCancelled, it.Status)
		assert.Equal(t, "ordered twice", it.CancelReason)
	}
	assert.Equal(t, 10, dbtest.Stock(t, db, cat.Monstera.ID))
	assert.Equal(t, 10, dbtest.Stock(t, db, cat.Fern.ID))
	assert.Equal(t, "450.00", walletBalance(t, db, "u1"))

	var entry models.WalletTransaction
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&entry).Error)
	assert.Equal(t, "Refund for full order in Order #OID1-07032025", entry.Description)

	_, _, err = run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelOrder(tx, rules, "u1", order.ID, "", dbtest.Now)
	})
	require.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Equal(t, "450.00", walletBalance(t, db, "u1"))
}

func TestCancelOnlyItemIsRefundedAsFullOrder(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	order := place(t, db, "u1", models.PaymentMethodWallet, map[uint]int{cat.Fern.ID: 2}, nil)
	dbtest.RequireMoney(t, "250", order.AmountCaptured)

	out, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelItem(tx, rules, "u1", order.ID, itemFor(t, order, cat.Fern.ID), "", dbtest.Now)
	})
	require.NoError(t, err)
	dbtest.RequireMoney(t, "250", out.Refund)
	assert.Equal(t, models.OrderStatusCancelled, out.Order.Status)

	var entry models.WalletTransaction
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&entry).Error)
	assert.Equal(t, "Refund for full order in Order #OID1-07032025", entry.Description)
}

func TestCancelItemsOneByOneWithCoupon(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	coupon := dbtest.SeedCoupon(t, db, "GREEN10", "10", "", "0")
	order := place(t, db, "u1", models.PaymentMethodWallet,
		map[uint]int{cat.Monstera.ID: 1, cat.Fern.ID: 1, cat.Cactus.ID: 1}, &coupon)
	dbtest.RequireMoney(t, "540", order.FinalAmount)

	cancel := func(variantID uint) Outcome {
		out, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
			return CancelItem(tx, rules, "u1", order.ID, itemFor(t, order, variantID), "", dbtest.Now)
		})
		require.NoError(t, err)
		return out
	}

	// 200 less its tenth of the 60 discount
	out := cancel(cat.Monstera.ID)
	dbtest.RequireMoney(t, "180", out.Refund)
	assert.Equal(t, models.OrderStatusPartiallyCancelled, out.Order.Status)
	dbtest.RequireMoney(t, "400", out.Order.TotalAmount)
	dbtest.RequireMoney(t, "40", out.Order.Discount)
	dbtest.RequireMoney(t, "360", out.Order.FinalAmount)
	assert.Equal(t, 10, dbtest.Stock(t, db, cat.Monstera.ID))

	out = cancel(cat.Fern.ID)
	dbtest.RequireMoney(t, "90", out.Refund)
	dbtest.RequireMoney(t, "270", out.Order.FinalAmount)
	assert.Equal(t, models.OrderStatusPartiallyCancelled, out.Order.Status)

	out = cancel(cat.Cactus.ID)
	dbtest.RequireMoney(t, "270", out.Refund)
	assert.Equal(t, models.OrderStatusCancelled, out.Order.Status)
	dbtest.RequireMoney(t, "0", out.Order.FinalAmount)
	dbtest.RequireMoney(t, "540", out.Order.RefundedAmount)
	assert.Equal(t, "540.00", walletBalance(t, db, "u1"))
}

func TestLastItemRefundsShipping(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	order := place(t, db, "u1", models.PaymentMethodWallet, map[uint]int{cat.Monstera.ID: 1, cat.Fern.ID: 1}, nil)
	dbtest.RequireMoney(t, "350", order.FinalAmount)

	out, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelItem(tx, rules, "u1", order.ID, itemFor(t, order, cat.Fern.ID), "", dbtest.Now)
	})
	require.NoError(t, err)
	dbtest.RequireMoney(t, "100", out.Refund)
	dbtest.RequireMoney(t, "50", out.Order.ShippingCharge)
	dbtest.RequireMoney(t, "250", out.Order.FinalAmount)

	out, _, err = run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelItem(tx, rules, "u1", order.ID, itemFor(t, order, cat.Monstera.ID), "", dbtest.Now)
	})
	require.NoError(t, err)
	dbtest.RequireMoney(t, "250", out.Refund)
	assert.Equal(t, "350.00", walletBalance(t, db, "u1"))
}

func TestCancelCODOrderRefundsNothing(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	order := place(t, db, "u1", models.PaymentMethodCOD, map[uint]int{cat.Fern.ID: 1}, nil)

	out, rec, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelOrder(tx, rules, "u1", order.ID, "", dbtest.Now)
	})
	require.NoError(t, err)
	assert.True(t, out.Refund.IsZero())
	assert.Equal(t, models.OrderStatusCancelled, out.Order.Status)
	assert.Len(t, rec.Events(), 1)

	var entries int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).Count(&entries).Error)
	assert.Zero(t, entries)
}

func TestCancelOtherUsersOrder(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	order := place(t, db, "u1", models.PaymentMethodCOD, map[uint]int{cat.Fern.ID: 1}, nil)

	_, rec, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelOrder(tx, rules, "u2", order.ID, "", dbtest.Now)
	})
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, rec.Events())
}

func TestShippedCancellationNeedsApproval(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	order := place(t, db, "u1", models.PaymentMethodCOD, map[uint]int{cat.Monstera.ID: 1, cat.Fern.ID: 1}, nil)
	fern := itemFor(t, order, cat.Fern.ID)

	_, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return UpdateStatus(tx, rules, order.ID, models.OrderStatusShipped, dbtest.Now)
	})
	require.NoError(t, err)

	_, _, err = run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelOrder(tx, rules, "u1", order.ID, "  ", dbtest.Now)
	})
	require.ErrorIs(t, err, models.ErrReasonRequired)

	out, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelItem(tx, rules, "u1", order.ID, fern, "found it cheaper", dbtest.Now)
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, out.Order.Status)
	assert.Equal(t, 9, dbtest.Stock(t, db, cat.Fern.ID))

	out, rec, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return ReviewCancelItem(tx, rules, order.ID, fern, true, dbtest.Now)
	})
	require.NoError(t, err)
	assert.Equal(t, []events.Type{events.OrderItemCancelled}, rec.Types())
	assert.Equal(t, models.OrderStatusShipped, out.Order.Status)
	dbtest.RequireMoney(t, "250", out.Order.FinalAmount)
	assert.True(t, out.Refund.IsZero())
	assert.Equal(t, 10, dbtest.Stock(t, db, cat.Fern.ID))

	out, _, err = run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return UpdateStatus(tx, rules, order.ID, models.OrderStatusDelivered, dbtest.Now)
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, out.Order.Status)
	dbtest.RequireMoney(t, "250", out.Order.AmountCaptured)

	var monstera models.OrderItem
	require.NoError(t, db.First(&monstera, itemFor(t, order, cat.Monstera.ID)).Error)
	assert.Equal(t, models.ItemStatusDelivered, monstera.Status)
}

func TestRejectedCancellationReactivatesItem(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	order := place(t, db, "u1", models.PaymentMethodCOD, map[uint]int{cat.Fern.ID: 1}, nil)
	fern := itemFor(t, order, cat.Fern.ID)

	_, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return UpdateStatus(tx, rules, order.ID, models.OrderStatusShipped, dbtest.Now)
	})
	require.NoError(t, err)
	_, _, err = run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelOrder(tx, rules, "u1", order.ID, "too slow", dbtest.Now)
	})
	require.NoError(t, err)

	out, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return ReviewCancelItem(tx, rules, order.ID, fern, false, dbtest.Now)
	})
	require.NoError(t, err)
	assert.False(t, out.Order.CancelRequested)

	var item models.OrderItem
	require.NoError(t, db.First(&item, fern).Error)
	assert.Equal(t, models.ItemStatusActive, item.Status)
}

func deliver(t *testing.T, db *gorm.DB, orderID uint) {
	t.Helper()
	for _, to := range []models.OrderStatus{models.OrderStatusShipped, models.OrderStatusDelivered} {
		_, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
			return UpdateStatus(tx, rules, orderID, to, dbtest.Now)
		})
		require.NoError(t, err)
	}
}

func TestReturnItemFlow(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	order := place(t, db, "u1", models.PaymentMethodWallet, map[uint]int{cat.Monstera.ID: 1, cat.Fern.ID: 1}, nil)
	monstera, fern := itemFor(t, order, cat.Monstera.ID), itemFor(t, order, cat.Fern.ID)

	_, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return RequestReturnItem(tx, "u1", order.ID, monstera, "leaves yellow", dbtest.Now)
	})
	require.ErrorIs(t, err, models.ErrInvalidTransition)

	deliver(t, db, order.ID)

	_, _, err = run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return RequestReturnItem(tx, "u1", order.ID, monstera, "", dbtest.Now)
	})
	require.ErrorIs(t, err, models.ErrReasonRequired)

	out, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return RequestReturnItem(tx, "u1", order.ID, monstera, "leaves yellow", dbtest.Now)
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReturnRequested, out.Order.Status)

	out, rec, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return ReviewReturnItem(tx, rules, order.ID, monstera, true, "", dbtest.Now)
	})
	require.NoError(t, err)
	assert.Equal(t, []events.Type{events.OrderReturned}, rec.Types())
	dbtest.RequireMoney(t, "200", out.Refund)
	assert.Equal(t, models.OrderStatusPartiallyReturned, out.Order.Status)
	dbtest.RequireMoney(t, "150", out.Order.FinalAmount)
	assert.Equal(t, 10, dbtest.Stock(t, db, cat.Monstera.ID))
	assert.Equal(t, "200.00", walletBalance(t, db, "u1"))

	var entry models.WalletTransaction
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&entry).Error)
	assert.Equal(t, "Refund for returned item in Order #"+order.DisplayID(), entry.Description)

	_, _, err = run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return RequestReturnItem(tx, "u1", order.ID, fern, "wrong size", dbtest.Now)
	})
	require.NoError(t, err)

	_, _, err = run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return ReviewReturnItem(tx, rules, order.ID, fern, false, "", dbtest.Now)
	})
	require.ErrorIs(t, err, models.ErrReasonRequired)

	out, _, err = run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return ReviewReturnItem(tx, rules, order.ID, fern, false, "plant was repotted", dbtest.Now)
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPartiallyReturned, out.Order.Status)
	assert.Equal(t, "plant was repotted", out.Order.ReturnRejectReason)
	assert.Equal(t, "200.00", walletBalance(t, db, "u1"))
}

func TestReturnWholeOrder(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	order := place(t, db, "u1", models.PaymentMethodWallet, map[uint]int{cat.Monstera.ID: 1, cat.Fern.ID: 1}, nil)
	deliver(t, db, order.ID)

	_, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return RequestReturn(tx, "u1", order.ID, "arrived damaged", dbtest.Now)
	})
	require.NoError(t, err)

	out, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return ReviewReturn(tx, rules, order.ID, true, "", dbtest.Now)
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReturned, out.Order.Status)
	assert.True(t, out.Order.ReturnApproved)
	dbtest.RequireMoney(t, "350", out.Refund)
	assert.True(t, out.Order.RefundableBalance().IsZero())
	assert.Equal(t, "350.00", walletBalance(t, db, "u1"))
}

func TestCODDeliveryCapturesCash(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	order := place(t, db, "u1", models.PaymentMethodCOD, map[uint]int{cat.Fern.ID: 1}, nil)
	dbtest.RequireMoney(t, "0", order.AmountCaptured)

	deliver(t, db, order.ID)

	var saved models.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	dbtest.RequireMoney(t, "150", saved.AmountCaptured)

	_, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return UpdateStatus(tx, rules, order.ID, models.OrderStatusCancelled, dbtest.Now)
	})
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestAdminCancelRefundsPrepaidOrder(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	order := place(t, db, "u1", models.PaymentMethodRazorpay, map[uint]int{cat.Cactus.ID: 1}, nil)

	out, rec, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return UpdateStatus(tx, rules, order.ID, models.OrderStatusCancelled, dbtest.Now)
	})
	require.NoError(t, err)
	assert.Equal(t, []events.Type{events.OrderCancelled}, rec.Types())
	dbtest.RequireMoney(t, "350", out.Refund)
	assert.Equal(t, 2, dbtest.Stock(t, db, cat.Cactus.ID))
	assert.Equal(t, "350.00", walletBalance(t, db, "u1"))
}
