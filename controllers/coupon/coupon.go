package couponControllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NormalizeCode is how codes are stored and compared.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Used reports whether the user has already redeemed the coupon.
func Used(tx *gorm.DB, userID string, couponID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.CouponUsage{}).
		Where("user_id = ? AND coupon_id = ? AND used = ?", userID, couponID, true).
		Count(&count).Error
	return count > 0, err
}

// Eligible looks the code up and checks it can be applied to a cart of subtotal.
func Eligible(tx *gorm.DB, userID, code string, subtotal decimal.Decimal, now time.Time) (models.Coupon, error) {
	var coupon models.Coupon
	if err := tx.Where("code = ?", NormalizeCode(code)).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return coupon, fmt.Errorf("coupon %q: %w", code, models.ErrNotFound)
		}
		return coupon, err
	}
	if !coupon.Terms().LiveAt(now) {
		return coupon, models.ErrCouponInvalid
	}
	used, err := Used(tx, userID, coupon.ID)
	if err != nil {
		return coupon, err
	}
	if used {
		return coupon, models.ErrCouponUsed
	}
	if subtotal.LessThan(coupon.MinOrderValue) {
		return coupon, fmt.Errorf("%w: minimum is %s", models.ErrCouponMinOrder, coupon.MinOrderValue.StringFixed(2))
	}
	return coupon, nil
}

// RecordUsage marks the coupon used by userID. A pre-assigned unused row
// is flipped; an already used row fails with ErrCouponUsed. The unique
// (user_id, coupon_id) index backs this up under concurrency.
func RecordUsage(tx *gorm.DB, userID string, couponID uint, now time.Time) error {
	var usage models.CouponUsage
	err := tx.Where("user_id = ? AND coupon_id = ?", userID, couponID).First(&usage).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		usage = models.CouponUsage{UserID: userID, CouponID: couponID, Used: true, UsedAt: &now}
		if err := tx.Create(&usage).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrCouponUsed
			}
			return fmt.Errorf("record coupon usage: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("load coupon usage: %w", err)
	case usage.Used:
		return models.ErrCouponUsed
	}

	result := tx.Model(&models.CouponUsage{}).
		Where("id = ? AND used = ?", usage.ID, false).
		Updates(map[string]any{"used": true, "used_at": now})
	if result.Error != nil {
		return fmt.Errorf("record coupon usage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrCouponUsed
	}
	return nil
}
