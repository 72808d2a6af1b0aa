package models

import (
	"time"

	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/shopspring/decimal"
)

type Coupon struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	Code               string              `gorm:"uniqueIndex;not null" json:"code"`
	DiscountPercentage decimal.Decimal     `gorm:"type:decimal(5,2);not null" json:"discount_percentage"`
	MaxDiscountAmount  decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"max_discount_amount"`
	MinOrderValue      decimal.Decimal     `gorm:"type:decimal(10,2);default:0" json:"min_order_value"`
	Active             bool                `json:"active"`
	ValidFrom          time.Time           `json:"valid_from"`
	ValidTo            time.Time           `json:"valid_to"`
	CreatedAt          time.Time           `json:"created_at"`
}

// Terms is the arithmetic view used for discount calculation.
func (c Coupon) Terms() pricing.CouponTerms {
	return pricing.CouponTerms{
		Percentage:    c.DiscountPercentage,
		MaxDiscount:   c.MaxDiscountAmount,
		MinOrderValue: c.MinOrderValue,
		Active:        c.Active,
		ValidFrom:     c.ValidFrom,
		ValidTo:       c.ValidTo,
	}
}

// CouponUsage enforces at-most-once redemption per user.
type CouponUsage struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	UserID   string     `gorm:"uniqueIndex:idx_coupon_usage_user_coupon;not null" json:"user_id"`
	CouponID uint       `gorm:"uniqueIndex:idx_coupon_usage_user_coupon;not null" json:"coupon_id"`
	Coupon   Coupon     `json:"-"`
	Used     bool       `json:"used"`
	UsedAt   *time.Time `json:"used_at"`
}
