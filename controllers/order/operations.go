package orderControllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/amarsreevishnu/greennestPlants/events"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CancelOrder cancels every active item of a not yet shipped order.
// A shipped order gets a cancellation request for the admin instead.
func CancelOrder(tx *gorm.DB, rules pricing.Rules, userID string, orderID uint, reason string, now time.Time) (Outcome, error) {
	order, err := loadOrder(tx, orderID, userID)
	if err != nil {
		return Outcome{}, err
	}
	reason = strings.TrimSpace(reason)

	switch {
	case preShipment(order.Status):
		targets := itemsWith(&order, models.ItemStatusActive, models.ItemStatusCancelRequested)
		if len(targets) == 0 {
			return Outcome{}, fmt.Errorf("%w: nothing left to cancel", models.ErrInvalidTransition)
		}
		for _, it := range targets {
			it.CancelReason = reason
			it.CancelApproved = true
		}
		refund, err := settle(tx, rules, &order, targets, models.ItemStatusCancelled, labelFullOrder, now)
		if err != nil {
			return Outcome{}, err
		}
		order.CancelReason = reason
		order.CancelApproved = true
		order.CancelApprovedAt = &now
		if err := saveOrder(tx, &order); err != nil {
			return Outcome{}, err
		}
		ev := event(events.OrderCancelled, order, now)
		ev.Amount, ev.Reason = refund, reason
		return Outcome{Order: order, Refund: refund, Events: []events.OrderEvent{ev}}, nil

	case order.Status == models.OrderStatusShipped:
		if reason == "" {
			return Outcome{}, models.ErrReasonRequired
		}
		targets := itemsWith(&order, models.ItemStatusActive)
		if len(targets) == 0 {
			return Outcome{}, fmt.Errorf("%w: nothing left to cancel", models.ErrInvalidTransition)
		}
		if err := requestCancel(tx, targets, reason, now); err != nil {
			return Outcome{}, err
		}
		order.CancelRequested = true
		order.CancelReason = reason
		order.CancelRequestedAt = &now
		if err := saveOrder(tx, &order); err != nil {
			return Outcome{}, err
		}
		return Outcome{Order: order}, nil
	}
	return Outcome{}, fmt.Errorf("%w: order is %s", models.ErrInvalidTransition, order.Status)
}

// CancelItem cancels one active item, or requests it once the order has shipped.
func CancelItem(tx *gorm.DB, rules pricing.Rules, userID string, orderID, itemID uint, reason string, now time.Time) (Outcome, error) {
	order, err := loadOrder(tx, orderID, userID)
	if err != nil {
		return Outcome{}, err
	}
	item, err := findItem(&order, itemID)
	if err != nil {
		return Outcome{}, err
	}
	if item.Status != models.ItemStatusActive {
		return Outcome{}, fmt.Errorf("%w: item is %s", models.ErrInvalidTransition, item.Status)
	}
	reason = strings.TrimSpace(reason)

	switch {
	case preShipment(order.Status):
		item.CancelReason = reason
		item.CancelApproved = true
		label := labelCancelledItem
		if billableCount(order) == 1 {
			label = labelFullOrder
		}
		refund, err := settle(tx, rules, &order, []*models.OrderItem{item}, models.ItemStatusCancelled, label, now)
		if err != nil {
			return Outcome{}, err
		}
		if err := saveOrder(tx, &order); err != nil {
			return Outcome{}, err
		}
		ev := event(events.OrderItemCancelled, order, now)
		ev.ItemID, ev.Amount, ev.Reason = item.ID, refund, reason
		return Outcome{Order: order, Refund: refund, Events: []events.OrderEvent{ev}}, nil

	case order.Status == models.OrderStatusShipped:
		if reason == "" {
			return Outcome{}, models.ErrReasonRequired
		}
		if err := requestCancel(tx, []*models.OrderItem{item}, reason, now); err != nil {
			return Outcome{}, err
		}
		return Outcome{Order: order}, nil
	}
	return Outcome{}, fmt.Errorf("%w: order is %s", models.ErrInvalidTransition, order.Status)
}

func requestCancel(tx *gorm.DB, targets []*models.OrderItem, reason string, now time.Time) error {
	for _, it := range targets {
		it.Status = models.ItemStatusCancelRequested
		it.CancelReason = reason
		it.CancelRequestedAt = &now
		if err := tx.Model(&models.OrderItem{}).Where("id = ?", it.ID).Updates(map[string]any{
			"status":              it.Status,
			"cancel_reason":       reason,
			"cancel_requested_at": now,
		}).Error; err != nil {
			return fmt.Errorf("request cancel: %w", err)
		}
	}
	return nil
}

// RequestReturn asks for every delivered item of a delivered order to be returned.
func RequestReturn(tx *gorm.DB, userID string, orderID uint, reason string, now time.Time) (Outcome, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Outcome{}, models.ErrReasonRequired
	}
	order, err := loadOrder(tx, orderID, userID)
	if err != nil {
		return Outcome{}, err
	}
	if order.Status != models.OrderStatusDelivered {
		return Outcome{}, fmt.Errorf("%w: only delivered orders can be returned", models.ErrInvalidTransition)
	}
	targets := itemsWith(&order, models.ItemStatusDelivered)
	if len(targets) == 0 {
		return Outcome{}, fmt.Errorf("%w: nothing to return", models.ErrInvalidTransition)
	}
	if err := requestReturn(tx, targets, reason, now); err != nil {
		return Outcome{}, err
	}

	order.ReturnRequested = true
	order.ReturnReason = reason
	order.ReturnRequestedAt = &now
	order.Status = AggregateStatus(order, order.Items)
	if err := saveOrder(tx, &order); err != nil {
		return Outcome{}, err
	}
	ev := event(events.OrderReturnRequested, order, now)
	ev.Reason = reason
	return Outcome{Order: order, Events: []events.OrderEvent{ev}}, nil
}

// RequestReturnItem asks for one delivered item to be returned.
func RequestReturnItem(tx *gorm.DB, userID string, orderID, itemID uint, reason string, now time.Time) (Outcome, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Outcome{}, models.ErrReasonRequired
	}
	order, err := loadOrder(tx, orderID, userID)
	if err != nil {
		return Outcome{}, err
	}
	switch order.Status {
	case models.OrderStatusDelivered, models.OrderStatusPartiallyReturned, models.OrderStatusReturnRequested:
	default:
		return Outcome{}, fmt.Errorf("%w: order is %s", models.ErrInvalidTransition, order.Status)
	}
	item, err := findItem(&order, itemID)
	if err != nil {
		return Outcome{}, err
	}
	if item.Status != models.ItemStatusDelivered {
		return Outcome{}, fmt.Errorf("%w: item is %s", models.ErrInvalidTransition, item.Status)
	}
	if err := requestReturn(tx, []*models.OrderItem{item}, reason, now); err != nil {
		return Outcome{}, err
	}

	order.Status = AggregateStatus(order, order.Items)
	if err := saveOrder(tx, &order); err != nil {
		return Outcome{}, err
	}
	ev := event(events.OrderReturnRequested, order, now)
	ev.ItemID, ev.Reason = item.ID, reason
	return Outcome{Order: order, Events: []events.OrderEvent{ev}}, nil
}

func requestReturn(tx *gorm.DB, targets []*models.OrderItem, reason string, now time.Time) error {
	for _, it := range targets {
		it.Status = models.ItemStatusReturnRequested
		it.ReturnReason = reason
		it.ReturnRequestedAt = &now
		if err := tx.Model(&models.OrderItem{}).Where("id = ?", it.ID).Updates(map[string]any{
			"status":              it.Status,
			"return_reason":       reason,
			"return_requested_at": now,
		}).Error; err != nil {
			return fmt.Errorf("request return: %w", err)
		}
	}
	return nil
}

// ReviewCancelItem approves or rejects a pending item cancellation.
func ReviewCancelItem(tx *gorm.DB, rules pricing.Rules, orderID, itemID uint, approve bool, now time.Time) (Outcome, error) {
	order, err := loadOrder(tx, orderID, "")
	if err != nil {
		return Outcome{}, err
	}
	item, err := findItem(&order, itemID)
	if err != nil {
		return Outcome{}, err
	}
	if item.Status != models.ItemStatusCancelRequested {
		return Outcome{}, fmt.Errorf("%w: item is %s", models.ErrInvalidTransition, item.Status)
	}

	if !approve {
		item.Status = models.ItemStatusActive
		if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).Update("status", item.Status).Error; err != nil {
			return Outcome{}, err
		}
		if len(itemsWith(&order, models.ItemStatusCancelRequested)) == 0 {
			order.CancelRequested = false
			if err := saveOrder(tx, &order); err != nil {
				return Outcome{}, err
			}
		}
		return Outcome{Order: order}, nil
	}

	item.CancelApproved = true
	label := labelCancelledItem
	if billableCount(order) == 1 {
		label = labelFullOrder
	}
	refund, err := settle(tx, rules, &order, []*models.OrderItem{item}, models.ItemStatusCancelled, label, now)
	if err != nil {
		return Outcome{}, err
	}
	if order.Status == models.OrderStatusCancelled {
		order.CancelApproved = true
		order.CancelApprovedAt = &now
	}
	if err := saveOrder(tx, &order); err != nil {
		return Outcome{}, err
	}
	ev := event(events.OrderItemCancelled, order, now)
	ev.ItemID, ev.Amount = item.ID, refund
	return Outcome{Order: order, Refund: refund, Events: []events.OrderEvent{ev}}, nil
}

// ReviewReturnItem approves or rejects a pending item return.
func ReviewReturnItem(tx *gorm.DB, rules pricing.Rules, orderID, itemID uint, approve bool, rejectReason string, now time.Time) (Outcome, error) {
	order, err := loadOrder(tx, orderID, "")
	if err != nil {
		return Outcome{}, err
	}
	item, err := findItem(&order, itemID)
	if err != nil {
		return Outcome{}, err
	}
	if item.Status != models.ItemStatusReturnRequested {
		return Outcome{}, fmt.Errorf("%w: item is %s", models.ErrInvalidTransition, item.Status)
	}

	return reviewReturns(tx, rules, &order, []*models.OrderItem{item}, approve, rejectReason, labelReturnedItem, now)
}

// ReviewReturn approves or rejects every pending return of the order.
func ReviewReturn(tx *gorm.DB, rules pricing.Rules, orderID uint, approve bool, rejectReason string, now time.Time) (Outcome, error) {
	order, err := loadOrder(tx, orderID, "")
	if err != nil {
		return Outcome{}, err
	}
	targets := itemsWith(&order, models.ItemStatusReturnRequested)
	if len(targets) == 0 {
		return Outcome{}, fmt.Errorf("%w: no return is pending", models.ErrInvalidTransition)
	}
	return reviewReturns(tx, rules, &order, targets, approve, rejectReason, labelFullOrder, now)
}

func reviewReturns(tx *gorm.DB, rules pricing.Rules, order *models.Order, targets []*models.OrderItem, approve bool, rejectReason, label string, now time.Time) (Outcome, error) {
	if !approve {
		rejectReason = strings.TrimSpace(rejectReason)
		if rejectReason == "" {
			return Outcome{}, models.ErrReasonRequired
		}
		for _, it := range targets {
			it.Status = models.ItemStatusReturnRejected
			if err := tx.Model(&models.OrderItem{}).Where("id = ?", it.ID).Update("status", it.Status).Error; err != nil {
				return Outcome{}, err
			}
		}
		order.ReturnRejectReason = rejectReason
		order.Status = AggregateStatus(*order, order.Items)
		if err := saveOrder(tx, order); err != nil {
			return Outcome{}, err
		}
		return Outcome{Order: *order, Events: []events.OrderEvent{event(events.OrderStatusChanged, *order, now)}}, nil
	}

	for _, it := range targets {
		it.ReturnApproved = true
	}
	refund, err := settle(tx, rules, order, targets, models.ItemStatusReturned, label, now)
	if err != nil {
		return Outcome{}, err
	}
	if order.Status == models.OrderStatusReturned {
		order.ReturnApproved = true
		order.ReturnApprovedAt = &now
	}
	if err := saveOrder(tx, order); err != nil {
		return Outcome{}, err
	}
	ev := event(events.OrderReturned, *order, now)
	ev.Amount = refund
	if len(targets) == 1 {
		ev.ItemID = targets[0].ID
	}
	return Outcome{Order: *order, Refund: refund, Events: []events.OrderEvent{ev}}, nil
}

var adminTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:            {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing:         {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusPartiallyCancelled: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:            {models.OrderStatusDelivered},
	models.OrderStatusDelivered:          {models.OrderStatusCompleted},
}

// CanTransition reports whether an admin may move an order from one status to another.
func CanTransition(from, to models.OrderStatus) bool {
	for _, s := range adminTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// UpdateStatus applies an admin status change. Delivery marks the remaining
// items delivered and, for cash on delivery, records the cash as captured.
func UpdateStatus(tx *gorm.DB, rules pricing.Rules, orderID uint, to models.OrderStatus, now time.Time) (Outcome, error) {
	order, err := loadOrder(tx, orderID, "")
	if err != nil {
		return Outcome{}, err
	}
	if !CanTransition(order.Status, to) {
		return Outcome{}, fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, order.Status, to)
	}

	refund := decimal.Zero
	evType := events.OrderStatusChanged

	switch to {
	case models.OrderStatusCancelled:
		targets := itemsWith(&order, models.ItemStatusActive, models.ItemStatusCancelRequested)
		if len(targets) == 0 {
			return Outcome{}, fmt.Errorf("%w: nothing left to cancel", models.ErrInvalidTransition)
		}
		for _, it := range targets {
			it.CancelApproved = true
		}
		refund, err = settle(tx, rules, &order, targets, models.ItemStatusCancelled, labelFullOrder, now)
		if err != nil {
			return Outcome{}, err
		}
		order.CancelApproved = true
		order.CancelApprovedAt = &now
		evType = events.OrderCancelled

	case models.OrderStatusDelivered:
		for _, it := range itemsWith(&order, models.ItemStatusActive, models.ItemStatusCancelRequested) {
			it.Status = models.ItemStatusDelivered
			if err := tx.Model(&models.OrderItem{}).Where("id = ?", it.ID).Update("status", it.Status).Error; err != nil {
				return Outcome{}, err
			}
		}
		order.CancelRequested = false
		order.Status = to
		if order.PaymentMethod == models.PaymentMethodCOD {
			order.AmountCaptured = order.FinalAmount
		}

	default:
		order.Status = to
	}

	if err := saveOrder(tx, &order); err != nil {
		return Outcome{}, err
	}
	ev := event(evType, order, now)
	if refund.IsPositive() {
		ev.Amount = refund
	}
	return Outcome{Order: order, Refund: refund, Events: []events.OrderEvent{ev}}, nil
}
