package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemInput struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// SetItem puts quantity of the variant in the user's cart, replacing any
// previous quantity. The cart is created on first use.
func SetItem(db *gorm.DB, rules pricing.Rules, userID string, input CartItemInput, now time.Time) (models.CartItem, error) {
	var item models.CartItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var variant models.ProductVariant
		if err := tx.Preload("Product.Category").First(&variant, input.VariantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("variant %d: %w", input.VariantID, models.ErrNotFound)
			}
			return err
		}
		if !variant.Sellable() {
			return fmt.Errorf("%w: %s is not available", models.ErrValidation, variant.VariantType)
		}
		if variant.Stock <= 0 {
			return fmt.Errorf("%w: %s is out of stock", models.ErrInsufficientStock, variant.VariantType)
		}
		limit := min(variant.Stock, rules.MaxQtyPerVariant)
		if input.Quantity > limit {
			return fmt.Errorf("%w: at most %d of %s can be added", models.ErrValidation, limit, variant.VariantType)
		}

		cart := models.Cart{UserID: userID}
		if err := tx.Where("user_id = ?", userID).FirstOrCreate(&cart).Error; err != nil {
			return err
		}

		err := tx.Where("cart_id = ? AND variant_id = ?", cart.CartID, variant.ID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.CartItem{CartID: cart.CartID, VariantID: variant.ID, Quantity: input.Quantity, AddedAt: now}
			return tx.Create(&item).Error
		}
		if err != nil {
			return err
		}
		item.Quantity = input.Quantity
		item.AddedAt = now
		return tx.Omit(clause.Associations).Save(&item).Error
	})
	return item, err
}

// POST /user/cart
func UpdateCartItem(db *gorm.DB, rules pricing.Rules) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := SetItem(db, rules, userID, input, time.Now())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /user/cart/:variant_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		variantID, ok := respond.ParamID(c, "variant_id")
		if !ok {
			return
		}

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User cart not found"})
			return
		}

		result := db.Where("cart_id = ? AND variant_id = ?", cart.CartID, variantID).Delete(&models.CartItem{})
		if result.Error != nil {
			respond.Error(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// Clear empties the cart and detaches any applied coupon.
func Clear(tx *gorm.DB, cartID uint) error {
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	if err := tx.Model(&models.Cart{}).Where("cart_id = ?", cartID).Update("coupon_id", nil).Error; err != nil {
		return fmt.Errorf("detach coupon: %w", err)
	}
	return nil
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
				return
			}
			respond.Error(c, err)
			return
		}

		if err := Clear(db, cart.CartID); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /user/cart
func GetUserCart(db *gorm.DB, rules pricing.Rules) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}

		now := time.Now()
		priced, err := PriceCart(db, userID, now)
		if err != nil {
			respond.Error(c, err)
			return
		}

		discount := decimal.Zero
		var coupon any
		if cp := priced.Cart.Coupon; cp != nil {
			if cp.Terms().LiveAt(now) {
				discount = cp.Terms().Discount(priced.Subtotal)
			}
			coupon = gin.H{"code": cp.Code, "discount_percentage": cp.DiscountPercentage}
		}
		shipping := rules.Shipping(priced.Subtotal)
		tax := rules.Tax(priced.Subtotal, discount)

		lines := priced.Lines
		if lines == nil {
			lines = []Line{}
		}
		c.JSON(http.StatusOK, gin.H{
			"items":           lines,
			"subtotal":        priced.Subtotal,
			"coupon":          coupon,
			"discount":        discount,
			"shipping_charge": shipping,
			"tax":             tax,
			"final_amount":    pricing.FinalAmount(priced.Subtotal, shipping, tax, discount),
		})
	}
}

// GET /admin/users/:user_id/cart
func GetAdminUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		priced, err := PriceCart(db, userID, time.Now())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, priced)
	}
}
