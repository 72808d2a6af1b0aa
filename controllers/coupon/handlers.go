package couponControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	cartControllers "github.com/amarsreevishnu/greennestPlants/controllers/cart"
	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CouponInput struct {
	Code               string              `json:"code" binding:"required"`
	DiscountPercentage decimal.Decimal     `json:"discount_percentage"`
	MaxDiscountAmount  decimal.NullDecimal `json:"max_discount_amount"`
	MinOrderValue      decimal.Decimal     `json:"min_order_value"`
	ValidFrom          time.Time           `json:"valid_from"`
	ValidTo            time.Time           `json:"valid_to"`
}

func (in CouponInput) Validate() error {
	hundred := decimal.NewFromInt(100)
	if !in.DiscountPercentage.IsPositive() || in.DiscountPercentage.GreaterThan(hundred) {
		return fmt.Errorf("%w: discount_percentage must be between 1 and 100", models.ErrValidation)
	}
	if in.MaxDiscountAmount.Valid && !in.MaxDiscountAmount.Decimal.IsPositive() {
		return fmt.Errorf("%w: max_discount_amount must be positive", models.ErrValidation)
	}
	if in.MinOrderValue.IsNegative() {
		return fmt.Errorf("%w: min_order_value cannot be negative", models.ErrValidation)
	}
	if in.ValidFrom.IsZero() || in.ValidTo.IsZero() || !in.ValidFrom.Before(in.ValidTo) {
		return fmt.Errorf("%w: valid_from must be before valid_to", models.ErrValidation)
	}
	return nil
}

// POST /admin/coupons
func CreateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CouponInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := input.Validate(); err != nil {
			respond.Error(c, err)
			return
		}

		coupon := models.Coupon{
			Code:               NormalizeCode(input.Code),
			DiscountPercentage: input.DiscountPercentage,
			MaxDiscountAmount:  input.MaxDiscountAmount,
			MinOrderValue:      input.MinOrderValue,
			Active:             true,
			ValidFrom:          input.ValidFrom,
			ValidTo:            input.ValidTo,
		}
		if err := db.Create(&coupon).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
				return
			}
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, coupon)
	}
}

// GET /admin/coupons
func ListCoupons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupons []models.Coupon
		if err := db.Order("created_at desc").Find(&coupons).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, coupons)
	}
}

// PATCH /admin/coupons/:id/toggle
func ToggleCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		var coupon models.Coupon
		if err := db.First(&coupon, id).Error; err != nil {
			respond.Error(c, err)
			return
		}
		coupon.Active = !coupon.Active
		if err := db.Model(&coupon).Update("active", coupon.Active).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, coupon)
	}
}

// DELETE /admin/coupons/:id
func DeleteCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}

		// Orders keep their coupon reference for recalculation; retire those instead.
		var orders int64
		db.Model(&models.Order{}).Where("coupon_id = ?", id).Count(&orders)
		if orders > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon is referenced by orders; deactivate it instead"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Cart{}).Where("coupon_id = ?", id).Update("coupon_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("coupon_id = ?", id).Delete(&models.CouponUsage{}).Error; err != nil {
				return err
			}
			result := tx.Delete(&models.Coupon{}, id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return models.ErrNotFound
			}
			return nil
		})
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
	}
}

// GET /user/coupons lists live coupons the user has not used yet.
func ListAvailableCoupons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}

		now := time.Now()
		used := db.Model(&models.CouponUsage{}).Select("coupon_id").Where("user_id = ? AND used = ?", userID, true)

		var coupons []models.Coupon
		if err := db.Where("active = ? AND valid_from <= ? AND valid_to >= ?", true, now, now).
			Where("id NOT IN (?)", used).
			Order("valid_to").
			Find(&coupons).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, coupons)
	}
}

type ApplyInput struct {
	Code string `json:"code" binding:"required"`
}

// Apply attaches the coupon to the user's cart after checking eligibility.
func Apply(db *gorm.DB, userID, code string, now time.Time) (models.Coupon, decimal.Decimal, error) {
	var (
		coupon   models.Coupon
		discount decimal.Decimal
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		priced, err := cartControllers.PriceCart(tx, userID, now)
		if err != nil {
			return err
		}
		if priced.Cart.CartID == 0 || len(priced.Lines) == 0 {
			return models.ErrEmptyCart
		}

		coupon, err = Eligible(tx, userID, code, priced.Subtotal, now)
		if err != nil {
			return err
		}
		discount = coupon.Terms().Discount(priced.Subtotal)

		return tx.Model(&models.Cart{}).Where("cart_id = ?", priced.Cart.CartID).Update("coupon_id", coupon.ID).Error
	})
	return coupon, discount, err
}

// POST /user/cart/coupon
func ApplyCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}

		var input ApplyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		coupon, discount, err := Apply(db, userID, input.Code, time.Now())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "Coupon applied",
			"code":     coupon.Code,
			"discount": discount,
		})
	}
}

// DELETE /user/cart/coupon
func RemoveCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		if err := db.Model(&models.Cart{}).Where("user_id = ?", userID).Update("coupon_id", nil).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Coupon removed"})
	}
}
