package paymentControllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/events"
	"github.com/amarsreevishnu/greennestPlants/gateway"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func placed(ctx context.Context, pub events.Publisher, order models.Order) {
	pub.Publish(ctx, events.OrderEvent{
		Type:      events.OrderPlaced,
		OrderID:   order.ID,
		DisplayID: order.DisplayID(),
		UserID:    order.UserID,
		Status:    string(order.Status),
		Method:    string(order.PaymentMethod),
		Amount:    order.FinalAmount,
		At:        time.Now(),
	})
}

// POST /user/checkout/cod
func PlaceCODOrderHandler(db *gorm.DB, rules pricing.Rules, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		order, err := PlaceCODOrder(db, rules, userID, time.Now())
		if err != nil {
			respond.Error(c, err)
			return
		}
		placed(c.Request.Context(), pub, order)
		c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order, "display_id": order.DisplayID()})
	}
}

// POST /user/checkout/wallet
func PlaceWalletOrderHandler(db *gorm.DB, rules pricing.Rules, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		order, err := PlaceWalletOrder(db, rules, userID, time.Now())
		if err != nil {
			respond.Error(c, err)
			return
		}
		placed(c.Request.Context(), pub, order)
		c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order, "display_id": order.DisplayID()})
	}
}

// POST /user/checkout/razorpay
func StartRazorpayHandler(db *gorm.DB, gw gateway.Gateway, rules pricing.Rules) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gw == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Online payment is not configured"})
			return
		}
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		start, err := StartGatewayPayment(c.Request.Context(), db, gw, rules, userID, time.Now())
		if err != nil {
			if errors.Is(err, models.ErrEmptyCart) || errors.Is(err, models.ErrAddressRequired) ||
				errors.Is(err, models.ErrInsufficientStock) || errors.Is(err, models.ErrInvalidAmount) ||
				errors.Is(err, models.ErrValidation) {
				respond.Error(c, err)
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, start)
	}
}

// POST /user/checkout/razorpay/verify
func VerifyRazorpayHandler(db *gorm.DB, gw gateway.Gateway, rules pricing.Rules, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gw == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Online payment is not configured"})
			return
		}
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		var cb Callback
		if err := c.ShouldBindJSON(&cb); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := CompleteGatewayPayment(db, gw, rules, userID, cb, time.Now())
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) && !errors.Is(err, models.ErrPaymentClosed) {
				pub.Publish(c.Request.Context(), events.OrderEvent{
					Type:   events.PaymentFailed,
					UserID: userID,
					Method: string(models.PaymentMethodRazorpay),
					Reason: err.Error(),
					At:     time.Now(),
				})
			}
			respond.Error(c, err)
			return
		}
		placed(c.Request.Context(), pub, order)
		c.JSON(http.StatusOK, gin.H{"message": "Payment verified", "order": order, "display_id": order.DisplayID()})
	}
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// POST /webhooks/razorpay
// Only payment.failed is acted on. The attempt is recorded on the pending
// payment, which stays open: the customer may retry against the same gateway
// order and the signed callback of that retry still places the order.
func RazorpayWebhookHandler(db *gorm.DB, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		var hook webhookPayload
		if err := json.Unmarshal(body, &hook); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		if hook.Event != "payment.failed" {
			c.JSON(http.StatusOK, gin.H{"message": "ignored"})
			return
		}

		entity := hook.Payload.Payment.Entity
		var payment models.Payment
		if err := db.Where("gateway_order_id = ?", entity.OrderID).First(&payment).Error; err != nil {
			c.JSON(http.StatusOK, gin.H{"message": "unknown order"})
			return
		}
		reason := entity.ErrorDescription
		if reason == "" {
			reason = "payment failed at gateway"
		}
		recorded, err := RecordFailedAttempt(db, payment.ID, entity.ID, reason)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if !recorded {
			c.JSON(http.StatusOK, gin.H{"message": "payment already closed"})
			return
		}
		pub.Publish(c.Request.Context(), events.OrderEvent{
			Type:   events.PaymentFailed,
			UserID: payment.UserID,
			Method: string(payment.Method),
			Amount: payment.Amount,
			Reason: reason,
			At:     time.Now(),
		})
		c.JSON(http.StatusOK, gin.H{"message": "failed attempt recorded"})
	}
}
