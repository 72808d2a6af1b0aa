package models

import "time"

type ProductOffer struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ProductID          uint      `gorm:"uniqueIndex;not null" json:"product_id"` // one offer per product
	Product            Product   `json:"-"`
	DiscountPercentage int       `gorm:"not null" json:"discount_percentage"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	IsActive           bool      `json:"is_active"`
}

type CategoryOffer struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CategoryID         uint      `gorm:"uniqueIndex;not null" json:"category_id"` // one offer per category
	Category           Category  `json:"-"`
	DiscountPercentage int       `gorm:"not null" json:"discount_percentage"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	IsActive           bool      `json:"is_active"`
}
