package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"  // Payment not completed yet
	PaymentStatusSuccess  PaymentStatus = "success"  // Payment completed successfully
	PaymentStatusFailed   PaymentStatus = "failed"   // Payment attempt failed
	PaymentStatusRefunded PaymentStatus = "refunded" // Money returned to customer
)

type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       *uint           `gorm:"index" json:"order_id"` // nil until a gateway payment is verified
	UserID        string          `gorm:"index;not null" json:"user_id"`
	Method        PaymentMethod   `gorm:"type:VARCHAR(20)" json:"method"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Status        PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`

	// Gateway specific fields
	GatewayOrderID   *string `gorm:"uniqueIndex" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string  `json:"gateway_payment_id,omitempty"`
	GatewaySignature string  `json:"-"`
	FailureReason    string  `json:"failure_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
