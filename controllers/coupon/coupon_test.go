package couponControllers

import (
	"testing"
	"time"

	"github.com/amarsreevishnu/greennestPlants/database/dbtest"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligible(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.SeedCoupon(t, db, "GREEN10", "10", "50", "300")
	expired := dbtest.SeedCoupon(t, db, "OLD", "10", "", "0")
	require.NoError(t, db.Model(&expired).Update("valid_to", dbtest.Now.Add(-time.Hour)).Error)
	off := dbtest.SeedCoupon(t, db, "OFF", "10", "", "0")
	require.NoError(t, db.Model(&off).Update("active", false).Error)

	tests := []struct {
		name     string
		code     string
		subtotal string
		wantErr  error
	}{
		{"lower case code", "green10", "600", nil},
		{"below minimum", "GREEN10", "299.99", models.ErrCouponMinOrder},
		{"unknown", "NOPE", "600", models.ErrNotFound},
		{"expired", "OLD", "600", models.ErrCouponInvalid},
		{"inactive", "OFF", "600", models.ErrCouponInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Eligible(db, "u1", tt.code, dbtest.Money(tt.subtotal), dbtest.Now)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecordUsageAtMostOnce(t *testing.T) {
	db := dbtest.Open(t)
	coupon := dbtest.SeedCoupon(t, db, "GREEN10", "10", "", "0")

	require.NoError(t, RecordUsage(db, "u1", coupon.ID, dbtest.Now))
	require.ErrorIs(t, RecordUsage(db, "u1", coupon.ID, dbtest.Now), models.ErrCouponUsed)
	require.NoError(t, RecordUsage(db, "u2", coupon.ID, dbtest.Now))

	var count int64
	db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&count)
	assert.Equal(t, int64(2), count)

	_, err := Eligible(db, "u1", "GREEN10", dbtest.Money("100"), dbtest.Now)
	require.ErrorIs(t, err, models.ErrCouponUsed)
}

func TestRecordUsageFlipsPreassignedRow(t *testing.T) {
	db := dbtest.Open(t)
	coupon := dbtest.SeedCoupon(t, db, "WELCOME", "5", "", "0")
	require.NoError(t, db.Create(&models.CouponUsage{UserID: "u1", CouponID: coupon.ID}).Error)

	used, err := Used(db, "u1", coupon.ID)
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, RecordUsage(db, "u1", coupon.ID, dbtest.Now))

	var usage models.CouponUsage
	require.NoError(t, db.Where("user_id = ? AND coupon_id = ?", "u1", coupon.ID).First(&usage).Error)
	assert.True(t, usage.Used)
	require.NotNil(t, usage.UsedAt)
}

func TestApplyStoresCouponOnCart(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	coupon := dbtest.SeedCoupon(t, db, "GREEN10", "10", "50", "0")
	cart := dbtest.FillCart(t, db, "u1", map[uint]int{cat.Monstera.ID: 3})

	applied, discount, err := Apply(db, "u1", "green10", dbtest.Now)
	require.NoError(t, err)
	assert.Equal(t, coupon.ID, applied.ID)
	// 10% of 600 is 60, capped at 50
	dbtest.RequireMoney(t, "50", discount)

	var reloaded models.Cart
	require.NoError(t, db.First(&reloaded, cart.CartID).Error)
	require.NotNil(t, reloaded.CouponID)
	assert.Equal(t, coupon.ID, *reloaded.CouponID)
}

func TestApplyOnEmptyCart(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.SeedCoupon(t, db, "GREEN10", "10", "", "0")

	_, _, err := Apply(db, "u1", "GREEN10", dbtest.Now)
	require.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestCouponInputValidate(t *testing.T) {
	base := CouponInput{
		Code:               "SPRING",
		DiscountPercentage: dbtest.Money("15"),
		ValidFrom:          dbtest.Now,
		ValidTo:            dbtest.Now.Add(time.Hour),
	}
	require.NoError(t, base.Validate())

	over := base
	over.DiscountPercentage = dbtest.Money("100.5")
	assert.ErrorIs(t, over.Validate(), models.ErrValidation)

	reversed := base
	reversed.ValidFrom, reversed.ValidTo = base.ValidTo, base.ValidFrom
	assert.ErrorIs(t, reversed.Validate(), models.ErrValidation)
}
