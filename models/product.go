package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  uint             `gorm:"index;not null" json:"category_id"`
	Category    Category         `json:"category"`
	Name        string           `gorm:"not null" json:"name"`
	Description string           `json:"description"`
	IsActive    bool             `json:"is_active"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// ProductVariant carries price and stock. The offer price is derived at read time.
type ProductVariant struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   uint            `gorm:"index;not null" json:"product_id"`
	Product     Product         `json:"-"`
	VariantType string          `gorm:"not null" json:"variant_type"` // e.g. "Small pot", "Hanging basket"
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	IsActive    bool            `json:"is_active"`
}

// Sellable reports whether the variant and everything above it is switched on.
func (v ProductVariant) Sellable() bool {
	return v.IsActive && v.Product.IsActive && v.Product.Category.IsActive
}
