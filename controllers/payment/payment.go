package paymentControllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	orderControllers "github.com/amarsreevishnu/greennestPlants/controllers/order"
	walletControllers "github.com/amarsreevishnu/greennestPlants/controllers/wallet"
	"github.com/amarsreevishnu/greennestPlants/gateway"
	"github.com/amarsreevishnu/greennestPlants/metrics"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaceCODOrder creates the order and a successful cash payment. No money is
// captured until the order is delivered.
func PlaceCODOrder(db *gorm.DB, rules pricing.Rules, userID string, now time.Time) (models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, _, err = orderControllers.CreateOrderFromCart(tx, rules, orderControllers.PlaceParams{
			UserID: userID, Method: models.PaymentMethodCOD, Now: now,
		})
		if err != nil {
			return err
		}

		orderID := order.ID
		payment := models.Payment{
			OrderID:       &orderID,
			UserID:        userID,
			Method:        models.PaymentMethodCOD,
			Amount:        order.FinalAmount,
			Status:        models.PaymentStatusSuccess,
			TransactionID: fmt.Sprintf("COD-%d", order.ID),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		order.Payments = []models.Payment{payment}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	metrics.OrdersPlaced.WithLabelValues(string(models.PaymentMethodCOD)).Inc()
	slog.Info("order placed", "order_id", order.ID, "user_id", userID, "method", models.PaymentMethodCOD, "amount", order.FinalAmount.StringFixed(2))
	return order, nil
}

// PlaceWalletOrder creates the order and pays it from the wallet in one
// transaction. A short balance rolls everything back.
func PlaceWalletOrder(db *gorm.DB, rules pricing.Rules, userID string, now time.Time) (models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, _, err = orderControllers.CreateOrderFromCart(tx, rules, orderControllers.PlaceParams{
			UserID: userID, Method: models.PaymentMethodWallet, Now: now,
		})
		if err != nil {
			return err
		}

		orderID := order.ID
		payment := models.Payment{
			OrderID: &orderID,
			UserID:  userID,
			Method:  models.PaymentMethodWallet,
			Amount:  order.FinalAmount,
			Status:  models.PaymentStatusSuccess,
		}
		if order.FinalAmount.IsPositive() {
			entry, err := walletControllers.Debit(tx, userID, order.FinalAmount, "Payment for Order #"+order.DisplayID(), &orderID)
			if err != nil {
				return err
			}
			payment.TransactionID = fmt.Sprintf("WALLET-%d", entry.ID)
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		order.AmountCaptured = order.FinalAmount
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("amount_captured", order.AmountCaptured).Error; err != nil {
			return err
		}
		order.Payments = []models.Payment{payment}
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrInsufficientBalance) {
			metrics.PaymentsFailed.WithLabelValues(string(models.PaymentMethodWallet)).Inc()
		}
		return models.Order{}, err
	}
	metrics.OrdersPlaced.WithLabelValues(string(models.PaymentMethodWallet)).Inc()
	slog.Info("order placed", "order_id", order.ID, "user_id", userID, "method", models.PaymentMethodWallet, "amount", order.FinalAmount.StringFixed(2))
	return order, nil
}

// GatewayStart is what the client needs to open the Razorpay checkout.
type GatewayStart struct {
	PaymentID      uint   `json:"payment_id"`
	KeyID          string `json:"key_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

// StartGatewayPayment quotes the cart and opens a gateway order for it.
// Stock is checked but not reserved; no order exists until the payment is verified.
func StartGatewayPayment(ctx context.Context, db *gorm.DB, gw gateway.Gateway, rules pricing.Rules, userID string, now time.Time) (GatewayStart, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil || !user.Address.IsComplete() {
		return GatewayStart{}, models.ErrAddressRequired
	}

	q, err := orderControllers.BuildQuote(db, rules, userID, now)
	if err != nil {
		return GatewayStart{}, err
	}
	if !q.Final.IsPositive() {
		return GatewayStart{}, fmt.Errorf("%w: nothing to pay online", models.ErrInvalidAmount)
	}

	receipt := "rcpt_" + uuid.NewString()[:8]
	gwOrder, err := gw.CreateOrder(ctx, pricing.ToPaise(q.Final), receipt)
	if err != nil {
		return GatewayStart{}, fmt.Errorf("create gateway order: %w", err)
	}

	payment := models.Payment{
		UserID:         userID,
		Method:         models.PaymentMethodRazorpay,
		Amount:         q.Final,
		Status:         models.PaymentStatusPending,
		TransactionID:  receipt,
		GatewayOrderID: &gwOrder.ID,
	}
	if err := db.Create(&payment).Error; err != nil {
		return GatewayStart{}, fmt.Errorf("record payment: %w", err)
	}

	return GatewayStart{
		PaymentID:      payment.ID,
		KeyID:          gw.KeyID(),
		GatewayOrderID: gwOrder.ID,
		Amount:         gwOrder.Amount,
		Currency:       gwOrder.Currency,
	}, nil
}

// Callback is what the Razorpay checkout posts back after payment.
type Callback struct {
	GatewayOrderID string `json:"razorpay_order_id" binding:"required"`
	PaymentID      string `json:"razorpay_payment_id" binding:"required"`
	Signature      string `json:"razorpay_signature" binding:"required"`
}

// CompleteGatewayPayment verifies the callback and turns the cart into an
// order. A bad signature marks the payment failed. A verified payment whose
// order cannot be placed is credited to the wallet and marked refunded.
// Either way the cart is left alone. Repeating a successful callback returns
// the order it created.
func CompleteGatewayPayment(db *gorm.DB, gw gateway.Gateway, rules pricing.Rules, userID string, cb Callback, now time.Time) (models.Order, error) {
	var payment models.Payment
	if err := db.Where("gateway_order_id = ? AND user_id = ?", cb.GatewayOrderID, userID).First(&payment).Error; err != nil {
		return models.Order{}, fmt.Errorf("payment for %s: %w", cb.GatewayOrderID, models.ErrNotFound)
	}

	switch payment.Status {
	case models.PaymentStatusSuccess:
		var order models.Order
		if payment.OrderID == nil {
			return order, models.ErrPaymentClosed
		}
		err := db.Preload("Items").First(&order, *payment.OrderID).Error
		return order, err
	case models.PaymentStatusPending:
	default:
		return models.Order{}, models.ErrPaymentClosed
	}

	if !gw.VerifyPayment(cb.GatewayOrderID, cb.PaymentID, cb.Signature) {
		if err := MarkFailed(db, payment.ID, cb.PaymentID, models.ErrSignatureMismatch.Error()); err != nil {
			return models.Order{}, err
		}
		return models.Order{}, models.ErrSignatureMismatch
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var locked models.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, payment.ID).Error; err != nil {
			return err
		}
		if locked.Status != models.PaymentStatusPending {
			return models.ErrPaymentClosed
		}

		var (
			q   orderControllers.Quote
			err error
		)
		order, q, err = orderControllers.CreateOrderFromCart(tx, rules, orderControllers.PlaceParams{
			UserID: userID, Method: models.PaymentMethodRazorpay, Now: now,
		})
		if err != nil {
			return err
		}
		if !q.Final.Equal(locked.Amount) {
			return fmt.Errorf("%w: paid %s, cart now %s", models.ErrAmountMismatch, locked.Amount.StringFixed(2), q.Final.StringFixed(2))
		}

		order.AmountCaptured = order.FinalAmount
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("amount_captured", order.AmountCaptured).Error; err != nil {
			return err
		}
		orderID := order.ID
		return tx.Model(&models.Payment{}).Where("id = ?", locked.ID).Updates(map[string]any{
			"status":             models.PaymentStatusSuccess,
			"order_id":           orderID,
			"gateway_payment_id": cb.PaymentID,
			"gateway_signature":  cb.Signature,
			"failure_reason":     "",
		}).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrPaymentClosed) {
			return models.Order{}, err
		}
		// the gateway has captured the money; it goes back through the wallet
		if refundErr := refundUnfulfilled(db, payment.ID, cb, err.Error()); refundErr != nil {
			slog.Error("could not refund unfulfilled payment", "payment_id", payment.ID, "error", refundErr)
		}
		return models.Order{}, err
	}

	metrics.OrdersPlaced.WithLabelValues(string(models.PaymentMethodRazorpay)).Inc()
	slog.Info("order placed", "order_id", order.ID, "user_id", userID, "method", models.PaymentMethodRazorpay, "amount", order.FinalAmount.StringFixed(2))
	return order, nil
}

// refundUnfulfilled credits a captured payment that produced no order to the
// customer's wallet and closes it as refunded.
func refundUnfulfilled(db *gorm.DB, paymentID uint, cb Callback, reason string) error {
	var refunded models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&refunded, paymentID).Error; err != nil {
			return err
		}
		if refunded.Status != models.PaymentStatusPending {
			return models.ErrPaymentClosed
		}
		if refunded.Amount.IsPositive() {
			desc := fmt.Sprintf("Refund for failed payment %s", cb.GatewayOrderID)
			if _, err := walletControllers.Credit(tx, refunded.UserID, refunded.Amount, desc, nil); err != nil {
				return fmt.Errorf("credit refund: %w", err)
			}
		}
		return tx.Model(&models.Payment{}).Where("id = ?", refunded.ID).Updates(map[string]any{
			"status":             models.PaymentStatusRefunded,
			"gateway_payment_id": cb.PaymentID,
			"gateway_signature":  cb.Signature,
			"failure_reason":     reason,
		}).Error
	})
	if err != nil {
		return err
	}
	metrics.PaymentsFailed.WithLabelValues(string(models.PaymentMethodRazorpay)).Inc()
	metrics.ObserveRefund(refunded.Amount)
	slog.Warn("payment refunded to wallet", "payment_id", paymentID, "user_id", refunded.UserID,
		"amount", refunded.Amount.StringFixed(2), "reason", reason)
	return nil
}

// RecordFailedAttempt notes a failed attempt reported by the gateway on a
// pending payment without closing it. It reports false when the payment is
// no longer pending.
func RecordFailedAttempt(db *gorm.DB, paymentID uint, gatewayPaymentID, reason string) (bool, error) {
	result := db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, models.PaymentStatusPending).
		Updates(map[string]any{
			"gateway_payment_id": gatewayPaymentID,
			"failure_reason":     reason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	metrics.PaymentsFailed.WithLabelValues(string(models.PaymentMethodRazorpay)).Inc()
	slog.Warn("payment attempt failed", "payment_id", paymentID, "gateway_payment_id", gatewayPaymentID, "reason", reason)
	return true, nil
}

// MarkFailed closes a pending payment as failed. Payments that already
// succeeded are left alone.
func MarkFailed(db *gorm.DB, paymentID uint, gatewayPaymentID, reason string) error {
	result := db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, models.PaymentStatusPending).
		Updates(map[string]any{
			"status":             models.PaymentStatusFailed,
			"gateway_payment_id": gatewayPaymentID,
			"failure_reason":     reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		metrics.PaymentsFailed.WithLabelValues(string(models.PaymentMethodRazorpay)).Inc()
		slog.Warn("payment failed", "payment_id", paymentID, "reason", reason)
	}
	return nil
}
