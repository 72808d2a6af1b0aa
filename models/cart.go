package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"` // Enforces ONE cart per user
	CouponID  *uint      `json:"coupon_id"`                  // coupon applied at checkout
	Coupon    *Coupon    `json:"coupon,omitempty"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"` // Cascade delete items if cart is deleted
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CartID    uint           `gorm:"uniqueIndex:idx_cart_variant" json:"cart_id"`
	VariantID uint           `gorm:"uniqueIndex:idx_cart_variant" json:"variant_id"`
	Variant   ProductVariant `json:"-"`
	Quantity  int            `json:"quantity"`
	AddedAt   time.Time      `json:"added_at"`
}
