package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type ItemStatus string
type PaymentMethod string

const (
	// Order statuses. The first five follow fulfilment; the rest are derived from item states.
	OrderStatusPending            OrderStatus = "pending"
	OrderStatusProcessing         OrderStatus = "processing"
	OrderStatusShipped            OrderStatus = "shipped"
	OrderStatusDelivered          OrderStatus = "delivered"
	OrderStatusCompleted          OrderStatus = "completed"
	OrderStatusCancelled          OrderStatus = "cancelled"
	OrderStatusPartiallyCancelled OrderStatus = "partially_cancelled"
	OrderStatusReturnRequested    OrderStatus = "return_requested"
	OrderStatusReturned           OrderStatus = "returned"
	OrderStatusPartiallyReturned  OrderStatus = "partially_returned"

	// Item statuses
	ItemStatusActive          ItemStatus = "active"
	ItemStatusCancelRequested ItemStatus = "cancel_requested"
	ItemStatusCancelled       ItemStatus = "cancelled"
	ItemStatusDelivered       ItemStatus = "delivered"
	ItemStatusReturnRequested ItemStatus = "return_requested"
	ItemStatusReturned        ItemStatus = "returned"
	ItemStatusReturnRejected  ItemStatus = "return_rejected"

	PaymentMethodCOD      PaymentMethod = "cod"
	PaymentMethodWallet   PaymentMethod = "wallet"
	PaymentMethodRazorpay PaymentMethod = "razorpay"
)

// ParseOrderStatus maps a request string onto a known order status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusPartiallyCancelled,
		OrderStatusReturnRequested, OrderStatusReturned, OrderStatusPartiallyReturned:
		return st, true
	}
	return "", false
}

// Prepaid reports whether money is taken before the order ships.
func (m PaymentMethod) Prepaid() bool {
	return m == PaymentMethodWallet || m == PaymentMethodRazorpay
}

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          string          `gorm:"index;not null" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID" json:"user"`
	ShippingAddress Address         `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Payments        []Payment       `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"` // billable subtotal
	Tax             decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"tax"`
	Discount        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount"`
	ShippingCharge  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"shipping_charge"`
	FinalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"final_amount"`
	CouponID        *uint           `json:"coupon_id"`
	Coupon          *Coupon         `json:"coupon,omitempty"`
	PaymentMethod   PaymentMethod   `gorm:"type:VARCHAR(20)" json:"payment_method"`
	Status          OrderStatus     `gorm:"type:VARCHAR(30);default:'pending';index" json:"status"`

	// Tax percent in force at checkout; recalculation keeps using it.
	TaxRate decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"tax_rate"`

	// Money actually taken and handed back; refunds never exceed the difference.
	AmountCaptured decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"amount_captured"`
	RefundedAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"refunded_amount"`

	// Cancellation / return request info
	CancelRequested    bool       `json:"cancel_requested"`
	CancelReason       string     `json:"cancel_reason,omitempty"`
	CancelRequestedAt  *time.Time `json:"cancel_requested_at,omitempty"`
	CancelApproved     bool       `json:"cancel_approved"`
	CancelApprovedAt   *time.Time `json:"cancel_approved_at,omitempty"`
	ReturnRequested    bool       `json:"return_requested"`
	ReturnReason       string     `json:"return_reason,omitempty"`
	ReturnRequestedAt  *time.Time `json:"return_requested_at,omitempty"`
	ReturnApproved     bool       `json:"return_approved"`
	ReturnApprovedAt   *time.Time `json:"return_approved_at,omitempty"`
	ReturnRejectReason string     `json:"return_reject_reason,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayID is the human-facing id, e.g. OID42-07032025.
func (o Order) DisplayID() string {
	return fmt.Sprintf("OID%d-%s", o.ID, o.CreatedAt.Format("02012006"))
}

// RefundableBalance is what is still owed back to the customer at most.
func (o Order) RefundableBalance() decimal.Decimal {
	left := o.AmountCaptured.Sub(o.RefundedAmount)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

type OrderItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"index" json:"order_id"`
	VariantID     *uint           `json:"variant_id"`
	Variant       *ProductVariant `json:"-"`
	ProductName   string          `json:"product_name"`
	VariantType   string          `json:"variant_type"`
	Quantity      int             `json:"quantity"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"original_price"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"` // unit price after best offer
	OfferKind     string          `gorm:"type:VARCHAR(20)" json:"offer_kind"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_price"`
	Status        ItemStatus      `gorm:"type:VARCHAR(20);default:'active'" json:"status"`
	RefundAmount  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"refund_amount"`

	CancelReason      string     `json:"cancel_reason,omitempty"`
	CancelRequestedAt *time.Time `json:"cancel_requested_at,omitempty"`
	CancelApproved    bool       `json:"cancel_approved"`
	ReturnReason      string     `json:"return_reason,omitempty"`
	ReturnRequestedAt *time.Time `json:"return_requested_at,omitempty"`
	ReturnApproved    bool       `json:"return_approved"`
}

// Billable reports whether the item still counts toward the order total.
func (i OrderItem) Billable() bool {
	return i.Status != ItemStatusCancelled && i.Status != ItemStatusReturned
}
