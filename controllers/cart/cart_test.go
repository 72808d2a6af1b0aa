package cartControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amarsreevishnu/greennestPlants/database/dbtest"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetItemRules(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	rules := pricing.DefaultRules()

	inactive := models.ProductVariant{ProductID: cat.Product.ID, VariantType: "Retired", Price: dbtest.Money("50"), Stock: 5}
	require.NoError(t, db.Create(&inactive).Error)
	empty := models.ProductVariant{ProductID: cat.Product.ID, VariantType: "Sold out", Price: dbtest.Money("50"), Stock: 0, IsActive: true}
	require.NoError(t, db.Create(&empty).Error)

	tests := []struct {
		name    string
		input   CartItemInput
		wantErr error
	}{
		{"unknown variant", CartItemInput{VariantID: 999, Quantity: 1}, models.ErrNotFound},
		{"inactive variant", CartItemInput{VariantID: inactive.ID, Quantity: 1}, models.ErrValidation},
		{"out of stock", CartItemInput{VariantID: empty.ID, Quantity: 1}, models.ErrInsufficientStock},
		{"above per-variant limit", CartItemInput{VariantID: cat.Monstera.ID, Quantity: 6}, models.ErrValidation},
		{"above stock", CartItemInput{VariantID: cat.Cactus.ID, Quantity: 3}, models.ErrValidation},
		{"ok", CartItemInput{VariantID: cat.Cactus.ID, Quantity: 2}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SetItem(db, rules, "u1", tt.input, dbtest.Now)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSetItemReplacesQuantity(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	rules := pricing.DefaultRules()

	_, err := SetItem(db, rules, "u1", CartItemInput{VariantID: cat.Fern.ID, Quantity: 4}, dbtest.Now)
	require.NoError(t, err)
	_, err = SetItem(db, rules, "u1", CartItemInput{VariantID: cat.Fern.ID, Quantity: 1}, dbtest.Now)
	require.NoError(t, err)

	var items []models.CartItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestSetItemRejectsInactiveCategory(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	require.NoError(t, db.Model(&cat.Category).Update("is_active", false).Error)

	_, err := SetItem(db, pricing.DefaultRules(), "u1", CartItemInput{VariantID: cat.Fern.ID, Quantity: 1}, dbtest.Now)
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestPriceCartUsesBestOffer(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	require.NoError(t, db.Create(&models.ProductOffer{
		ProductID: cat.Product.ID, DiscountPercentage: 10,
		StartDate: dbtest.Now.Add(-time.Hour), EndDate: dbtest.Now.Add(time.Hour), IsActive: true,
	}).Error)
	dbtest.FillCart(t, db, "u1", map[uint]int{cat.Monstera.ID: 2, cat.Fern.ID: 1})

	priced, err := PriceCart(db, "u1", dbtest.Now)
	require.NoError(t, err)
	require.Len(t, priced.Lines, 2)
	// 2 x 180 + 1 x 90
	dbtest.RequireMoney(t, "450", priced.Subtotal)
	assert.Empty(t, priced.Unavailable())
	assert.Equal(t, pricing.OfferProduct, priced.Lines[0].Offer.Kind)
}

func TestPriceCartExcludesUnavailableLines(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.FillCart(t, db, "u1", map[uint]int{cat.Monstera.ID: 1, cat.Fern.ID: 1})
	require.NoError(t, db.Model(&models.ProductVariant{}).Where("id = ?", cat.Fern.ID).Update("is_active", false).Error)

	priced, err := PriceCart(db, "u1", dbtest.Now)
	require.NoError(t, err)
	dbtest.RequireMoney(t, "200", priced.Subtotal)
	require.Len(t, priced.Unavailable(), 1)
	assert.Equal(t, cat.Fern.ID, priced.Unavailable()[0].VariantID)
}

func TestPriceCartWithoutCart(t *testing.T) {
	db := dbtest.Open(t)
	priced, err := PriceCart(db, "nobody", dbtest.Now)
	require.NoError(t, err)
	assert.Empty(t, priced.Lines)
	assert.True(t, priced.Subtotal.IsZero())
}

func TestGetUserCartTotals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.FillCart(t, db, "u1", map[uint]int{cat.Fern.ID: 2})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/user/cart", nil)
	c.Set("user_id", "u1")
	GetUserCart(db, pricing.DefaultRules())(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Subtotal string `json:"subtotal"`
		Shipping string `json:"shipping_charge"`
		Final    string `json:"final_amount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "200", body.Subtotal)
	assert.Equal(t, "50", body.Shipping)
	assert.Equal(t, "250", body.Final)
}

func TestClearDetachesCoupon(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	coupon := dbtest.SeedCoupon(t, db, "GREEN10", "10", "", "0")
	cart := dbtest.FillCart(t, db, "u1", map[uint]int{cat.Fern.ID: 1})
	require.NoError(t, db.Model(&cart).Update("coupon_id", coupon.ID).Error)

	require.NoError(t, Clear(db, cart.CartID))

	var reloaded models.Cart
	require.NoError(t, db.Preload("Items").First(&reloaded, cart.CartID).Error)
	assert.Empty(t, reloaded.Items)
	assert.Nil(t, reloaded.CouponID)
}
