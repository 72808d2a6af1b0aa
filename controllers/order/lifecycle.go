package orderControllers

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	walletControllers "github.com/amarsreevishnu/greennestPlants/controllers/wallet"
	"github.com/amarsreevishnu/greennestPlants/events"
	"github.com/amarsreevishnu/greennestPlants/metrics"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecalcTotals re-derives the order totals from its billable items.
// Order.Items and Order.Coupon must be loaded. Calling it twice is a no-op.
// Tax uses the rate recorded on the order; rules only supply it for orders
// placed before the rate was recorded.
func RecalcTotals(rules pricing.Rules, order *models.Order) {
	subtotal := decimal.Zero
	for _, it := range order.Items {
		if it.Billable() {
			subtotal = subtotal.Add(it.TotalPrice)
		}
	}
	subtotal = pricing.Round(subtotal)

	discount := decimal.Zero
	if order.Coupon != nil {
		discount = order.Coupon.Terms().Discount(subtotal)
	}

	if billableCount(*order) == 0 {
		order.ShippingCharge = decimal.Zero
		order.Tax = decimal.Zero
	} else {
		if order.TaxRate.Valid {
			rules.TaxRate = order.TaxRate.Decimal
		}
		order.Tax = rules.Tax(subtotal, discount)
	}

	order.TotalAmount = subtotal
	order.Discount = discount
	order.FinalAmount = pricing.FinalAmount(subtotal, order.ShippingCharge, order.Tax, discount)
}

// fulfilment is the shipping stage of an order, ignoring item outcomes.
func fulfilment(order models.Order, items []models.OrderItem) models.OrderStatus {
	switch order.Status {
	case models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCompleted:
		return order.Status
	}
	for _, it := range items {
		switch it.Status {
		case models.ItemStatusDelivered, models.ItemStatusReturnRequested,
			models.ItemStatusReturned, models.ItemStatusReturnRejected:
			return models.OrderStatusDelivered
		}
	}
	return models.OrderStatusProcessing
}

// AggregateStatus derives the order status from its item statuses.
func AggregateStatus(order models.Order, items []models.OrderItem) models.OrderStatus {
	if len(items) == 0 {
		return order.Status
	}

	var cancelled, returned, returnRequested int
	for _, it := range items {
		switch it.Status {
		case models.ItemStatusCancelled:
			cancelled++
		case models.ItemStatusReturned:
			returned++
		case models.ItemStatusReturnRequested:
			returnRequested++
		}
	}

	base := fulfilment(order, items)
	switch {
	case cancelled == len(items):
		return models.OrderStatusCancelled
	case cancelled+returned == len(items):
		return models.OrderStatusReturned
	case returnRequested > 0:
		return models.OrderStatusReturnRequested
	case returned > 0:
		return models.OrderStatusPartiallyReturned
	case cancelled > 0 && (base == models.OrderStatusPending || base == models.OrderStatusProcessing):
		return models.OrderStatusPartiallyCancelled
	}
	return base
}

// Outcome is the result of a lifecycle change. Events are meant to be
// published once the surrounding transaction has committed.
type Outcome struct {
	Order  models.Order
	Refund decimal.Decimal
	Events []events.OrderEvent
}

// refund labels used in wallet descriptions
const (
	labelCancelledItem = "cancelled item"
	labelFullOrder     = "full order"
	labelReturnedItem  = "returned item"
)

func loadOrder(tx *gorm.DB, orderID uint, userID string) (models.Order, error) {
	var order models.Order
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Coupon")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order, fmt.Errorf("order %d: %w", orderID, models.ErrNotFound)
		}
		return order, fmt.Errorf("load order %d: %w", orderID, err)
	}
	return order, nil
}

func findItem(order *models.Order, itemID uint) (*models.OrderItem, error) {
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			return &order.Items[i], nil
		}
	}
	return nil, fmt.Errorf("item %d: %w", itemID, models.ErrNotFound)
}

// settle takes items out of the billable set: stock goes back, totals are
// recalculated and whatever was captured for them is credited to the wallet.
// Each item gets its share of the order discount deducted; when nothing
// billable is left the whole remaining captured amount is refunded.
func settle(tx *gorm.DB, rules pricing.Rules, order *models.Order, targets []*models.OrderItem, to models.ItemStatus, label string, now time.Time) (decimal.Decimal, error) {
	billableBefore := billableCount(*order)

	subtotal, discount := order.TotalAmount, order.Discount
	shares := make([]decimal.Decimal, len(targets))
	refund := decimal.Zero
	for i, it := range targets {
		if !it.Billable() {
			return decimal.Zero, fmt.Errorf("%w: item %d is %s", models.ErrInvalidTransition, it.ID, it.Status)
		}
		if err := restoreStock(tx, *it); err != nil {
			return decimal.Zero, fmt.Errorf("restore stock: %w", err)
		}
		it.Status = to
		shares[i] = pricing.RefundShare(it.TotalPrice, subtotal, discount)
		refund = refund.Add(shares[i])
	}

	if len(targets) == billableBefore {
		refund = order.RefundableBalance()
	}
	if refund.GreaterThan(order.RefundableBalance()) {
		refund = order.RefundableBalance()
	}
	spreadRefund(targets, shares, refund)

	for _, it := range targets {
		if err := tx.Omit(clause.Associations).Save(it).Error; err != nil {
			return decimal.Zero, fmt.Errorf("save item: %w", err)
		}
	}

	order.RefundedAmount = order.RefundedAmount.Add(refund)
	RecalcTotals(rules, order)
	order.Status = AggregateStatus(*order, order.Items)

	if refund.IsPositive() {
		desc := fmt.Sprintf("Refund for %s in Order #%s", label, order.DisplayID())
		if _, err := walletControllers.Credit(tx, order.UserID, refund, desc, &order.ID); err != nil {
			return decimal.Zero, fmt.Errorf("credit refund: %w", err)
		}
		metrics.ObserveRefund(refund)
		slog.Info("refund credited", "order_id", order.ID, "user_id", order.UserID, "amount", refund.StringFixed(2), "reason", label)
	}
	return refund, nil
}

// spreadRefund records each item's part of refund. Earlier items get their
// share, the last one takes what is left.
func spreadRefund(targets []*models.OrderItem, shares []decimal.Decimal, refund decimal.Decimal) {
	left := refund
	for i, it := range targets {
		part := shares[i]
		if i == len(targets)-1 || part.GreaterThan(left) {
			part = left
		}
		it.RefundAmount = part
		left = left.Sub(part)
	}
}

func saveOrder(tx *gorm.DB, order *models.Order) error {
	if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func event(t events.Type, order models.Order, now time.Time) events.OrderEvent {
	return events.OrderEvent{
		Type:      t,
		OrderID:   order.ID,
		DisplayID: order.DisplayID(),
		UserID:    order.UserID,
		Status:    string(order.Status),
		Method:    string(order.PaymentMethod),
		Amount:    order.FinalAmount,
		At:        now,
	}
}

func preShipment(s models.OrderStatus) bool {
	return s == models.OrderStatusPending || s == models.OrderStatusProcessing || s == models.OrderStatusPartiallyCancelled
}

func itemsWith(order *models.Order, statuses ...models.ItemStatus) []*models.OrderItem {
	var out []*models.OrderItem
	for i := range order.Items {
		for _, s := range statuses {
			if order.Items[i].Status == s {
				out = append(out, &order.Items[i])
				break
			}
		}
	}
	return out
}

func billableCount(order models.Order) int {
	n := 0
	for _, it := range order.Items {
		if it.Billable() {
			n++
		}
	}
	return n
}
