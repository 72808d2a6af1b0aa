package orderControllers

import (
	"errors"
	"fmt"
	"time"

	cartControllers "github.com/amarsreevishnu/greennestPlants/controllers/cart"
	couponControllers "github.com/amarsreevishnu/greennestPlants/controllers/coupon"
	"github.com/amarsreevishnu/greennestPlants/metrics"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Quote is what the customer will be charged for the current cart.
type Quote struct {
	Cart     cartControllers.PricedCart `json:"-"`
	Lines    []cartControllers.Line     `json:"items"`
	Coupon   *models.Coupon             `json:"coupon,omitempty"`
	Subtotal decimal.Decimal            `json:"subtotal"`
	Discount decimal.Decimal            `json:"discount"`
	Shipping decimal.Decimal            `json:"shipping_charge"`
	Tax      decimal.Decimal            `json:"tax"`
	Final    decimal.Decimal            `json:"final_amount"`
}

// BuildQuote prices the user's cart. The attached coupon counts only while
// it is live, unused by this user and the subtotal meets its minimum;
// otherwise the quote carries no coupon and no discount.
func BuildQuote(tx *gorm.DB, rules pricing.Rules, userID string, now time.Time) (Quote, error) {
	priced, err := cartControllers.PriceCart(tx, userID, now)
	if err != nil {
		return Quote{}, err
	}
	if len(priced.Lines) == 0 {
		return Quote{}, models.ErrEmptyCart
	}
	for _, l := range priced.Lines {
		switch {
		case l.Stock <= 0 || l.Quantity > l.Stock:
			return Quote{}, fmt.Errorf("%w: %s %s", models.ErrInsufficientStock, l.ProductName, l.VariantType)
		case !l.Available:
			return Quote{}, fmt.Errorf("%w: %s %s is no longer available", models.ErrValidation, l.ProductName, l.VariantType)
		}
	}

	q := Quote{
		Cart:     priced,
		Lines:    priced.Lines,
		Subtotal: priced.Subtotal,
		Discount: decimal.Zero,
	}

	if cp := priced.Cart.Coupon; cp != nil && cp.Terms().LiveAt(now) && !priced.Subtotal.LessThan(cp.MinOrderValue) {
		used, err := couponControllers.Used(tx, userID, cp.ID)
		if err != nil {
			return Quote{}, err
		}
		if !used {
			q.Coupon = cp
			q.Discount = cp.Terms().Discount(priced.Subtotal)
		}
	}

	q.Shipping = rules.Shipping(q.Subtotal)
	q.Tax = rules.Tax(q.Subtotal, q.Discount)
	q.Final = pricing.FinalAmount(q.Subtotal, q.Shipping, q.Tax, q.Discount)
	return q, nil
}

// PlaceParams describes an order about to be created from a cart.
type PlaceParams struct {
	UserID string
	Method models.PaymentMethod
	Now    time.Time
}

// CreateOrderFromCart turns the user's cart into an order inside tx.
// Each variant row is locked and its stock decremented only while enough
// remains, so two checkouts can never sell the same unit. Any error must
// abort tx; nothing is left half written.
func CreateOrderFromCart(tx *gorm.DB, rules pricing.Rules, p PlaceParams) (models.Order, Quote, error) {
	var user models.User
	if err := tx.First(&user, "id = ?", p.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, Quote{}, models.ErrAddressRequired
		}
		return models.Order{}, Quote{}, err
	}
	if !user.Address.IsComplete() {
		return models.Order{}, Quote{}, models.ErrAddressRequired
	}

	q, err := BuildQuote(tx, rules, p.UserID, p.Now)
	if err != nil {
		return models.Order{}, Quote{}, err
	}

	for _, l := range q.Lines {
		if err := reserveStock(tx, l); err != nil {
			return models.Order{}, Quote{}, err
		}
	}

	order := models.Order{
		UserID:          p.UserID,
		ShippingAddress: user.Address,
		TotalAmount:     q.Subtotal,
		Tax:             q.Tax,
		TaxRate:         decimal.NewNullDecimal(rules.TaxRate),
		Discount:        q.Discount,
		ShippingCharge:  q.Shipping,
		FinalAmount:     q.Final,
		PaymentMethod:   p.Method,
		Status:          models.OrderStatusProcessing,
		AmountCaptured:  decimal.Zero,
		RefundedAmount:  decimal.Zero,
		CreatedAt:       p.Now,
	}
	if q.Coupon != nil {
		order.CouponID = &q.Coupon.ID
	}
	if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
		return models.Order{}, Quote{}, fmt.Errorf("create order: %w", err)
	}

	items := make([]models.OrderItem, 0, len(q.Lines))
	for _, l := range q.Lines {
		variantID := l.VariantID
		items = append(items, models.OrderItem{
			OrderID:       order.ID,
			VariantID:     &variantID,
			ProductName:   l.ProductName,
			VariantType:   l.VariantType,
			Quantity:      l.Quantity,
			OriginalPrice: l.Offer.OriginalPrice,
			Price:         l.Offer.FinalPrice,
			OfferKind:     string(l.Offer.Kind),
			TotalPrice:    l.LineTotal,
			Status:        models.ItemStatusActive,
			RefundAmount:  decimal.Zero,
		})
	}
	if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
		return models.Order{}, Quote{}, fmt.Errorf("create order items: %w", err)
	}
	order.Items = items

	if q.Coupon != nil {
		if err := couponControllers.RecordUsage(tx, p.UserID, q.Coupon.ID, p.Now); err != nil {
			return models.Order{}, Quote{}, err
		}
		order.Coupon = q.Coupon
	}

	if err := cartControllers.Clear(tx, q.Cart.Cart.CartID); err != nil {
		return models.Order{}, Quote{}, err
	}
	return order, q, nil
}

func reserveStock(tx *gorm.DB, l cartControllers.Line) error {
	var v models.ProductVariant
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, l.VariantID).Error; err != nil {
		return fmt.Errorf("lock variant %d: %w", l.VariantID, err)
	}
	result := tx.Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", l.VariantID, l.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", l.Quantity))
	if result.Error != nil {
		return fmt.Errorf("decrement stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		metrics.StockConflicts.Inc()
		return fmt.Errorf("%w: %s %s", models.ErrInsufficientStock, l.ProductName, l.VariantType)
	}
	return nil
}

func restoreStock(tx *gorm.DB, item models.OrderItem) error {
	if item.VariantID == nil {
		return nil
	}
	return tx.Model(&models.ProductVariant{}).
		Where("id = ?", *item.VariantID).
		UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error
}
