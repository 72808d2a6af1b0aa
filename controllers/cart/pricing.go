package cartControllers

import (
	"errors"
	"fmt"
	"time"

	offerControllers "github.com/amarsreevishnu/greennestPlants/controllers/offer"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Line is one cart item priced at its best offer.
type Line struct {
	ItemID      uint              `json:"item_id"`
	VariantID   uint              `json:"variant_id"`
	ProductID   uint              `json:"product_id"`
	ProductName string            `json:"product_name"`
	VariantType string            `json:"variant_type"`
	Quantity    int               `json:"quantity"`
	Stock       int               `json:"stock"`
	Offer       pricing.BestOffer `json:"offer"`
	LineTotal   decimal.Decimal   `json:"line_total"`
	Available   bool              `json:"available"`
}

// PricedCart is the cart as the customer would pay for it now.
// Subtotal only counts available lines.
type PricedCart struct {
	Cart     models.Cart     `json:"-"`
	Lines    []Line          `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Unavailable returns the lines that can no longer be bought.
func (p PricedCart) Unavailable() []Line {
	var out []Line
	for _, l := range p.Lines {
		if !l.Available {
			out = append(out, l)
		}
	}
	return out
}

// PriceCart loads the user's cart with variants and prices every line.
// A user without a cart gets an empty PricedCart.
func PriceCart(tx *gorm.DB, userID string, now time.Time) (PricedCart, error) {
	priced := PricedCart{Subtotal: decimal.Zero}

	var cart models.Cart
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Variant.Product.Category").
		Preload("Coupon").
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return priced, nil
	}
	if err != nil {
		return priced, fmt.Errorf("load cart: %w", err)
	}
	priced.Cart = cart

	resolver := offerControllers.NewResolver(tx, now)
	for _, item := range cart.Items {
		v := item.Variant
		line := Line{
			ItemID:      item.ID,
			VariantID:   item.VariantID,
			ProductID:   v.ProductID,
			ProductName: v.Product.Name,
			VariantType: v.VariantType,
			Quantity:    item.Quantity,
			Stock:       v.Stock,
			Available:   v.ID != 0 && v.Sellable() && v.Stock > 0,
		}
		if v.ID != 0 {
			best, err := resolver.Resolve(v)
			if err != nil {
				return priced, err
			}
			line.Offer = best
			line.LineTotal = pricing.Round(best.FinalPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if line.Available {
			priced.Subtotal = priced.Subtotal.Add(line.LineTotal)
		}
		priced.Lines = append(priced.Lines, line)
	}
	priced.Subtotal = pricing.Round(priced.Subtotal)
	return priced, nil
}
