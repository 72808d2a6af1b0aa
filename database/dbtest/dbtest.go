// Package dbtest provides an in-memory database and catalog fixtures for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/amarsreevishnu/greennestPlants/config"
	"github.com/amarsreevishnu/greennestPlants/database"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Now is the fixed clock used by fixtures.
var Now = time.Date(2025, 3, 7, 10, 30, 0, 0, time.UTC)

// Open returns a migrated, isolated in-memory sqlite database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		URL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Money parses a decimal literal.
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Catalog is the fixture set most order tests start from.
type Catalog struct {
	Category models.Category
	Product  models.Product
	Monstera models.ProductVariant // 200.00, stock 10
	Fern     models.ProductVariant // 100.00, stock 10
	Cactus   models.ProductVariant // 300.00, stock 2
}

// SeedCatalog creates one active category and product with three variants.
func SeedCatalog(t testing.TB, db *gorm.DB) Catalog {
	t.Helper()
	c := Catalog{Category: models.Category{Name: "Indoor", IsActive: true}}
	require.NoError(t, db.Create(&c.Category).Error)

	c.Product = models.Product{CategoryID: c.Category.ID, Name: "Green Pack", IsActive: true}
	require.NoError(t, db.Create(&c.Product).Error)

	c.Monstera = variant(t, db, c.Product.ID, "Monstera", "200", 10)
	c.Fern = variant(t, db, c.Product.ID, "Fern", "100", 10)
	c.Cactus = variant(t, db, c.Product.ID, "Cactus", "300", 2)
	return c
}

func variant(t testing.TB, db *gorm.DB, productID uint, kind, price string, stock int) models.ProductVariant {
	t.Helper()
	v := models.ProductVariant{ProductID: productID, VariantType: kind, Price: Money(price), Stock: stock, IsActive: true}
	require.NoError(t, db.Create(&v).Error)
	return v
}

// SeedUser creates a user with a complete shipping address.
func SeedUser(t testing.TB, db *gorm.DB, id string) models.User {
	t.Helper()
	u := models.User{
		ID:    id,
		Email: id + "@greennest.test",
		Name:  "Test " + id,
		Address: models.Address{
			FullName:   "Test " + id,
			Phone:      "9999999999",
			Line1:      "12 Fern Street",
			City:       "Kochi",
			State:      "Kerala",
			PostalCode: "682001",
			Country:    "India",
		},
		CreatedAt: Now,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// FillCart puts the given variant quantities into the user's cart.
func FillCart(t testing.TB, db *gorm.DB, userID string, lines map[uint]int) models.Cart {
	t.Helper()
	cart := models.Cart{UserID: userID}
	require.NoError(t, db.Where("user_id = ?", userID).FirstOrCreate(&cart).Error)
	for variantID, qty := range lines {
		require.NoError(t, db.Create(&models.CartItem{
			CartID: cart.CartID, VariantID: variantID, Quantity: qty, AddedAt: Now,
		}).Error)
	}
	return cart
}

// SeedCoupon creates a live percentage coupon.
func SeedCoupon(t testing.TB, db *gorm.DB, code, pct, maxDiscount, minOrder string) models.Coupon {
	t.Helper()
	c := models.Coupon{
		Code:               code,
		DiscountPercentage: Money(pct),
		MinOrderValue:      Money(minOrder),
		Active:             true,
		ValidFrom:          Now.Add(-24 * time.Hour),
		ValidTo:            Now.Add(30 * 24 * time.Hour),
	}
	if maxDiscount != "" {
		c.MaxDiscountAmount = decimal.NewNullDecimal(Money(maxDiscount))
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// Stock reloads a variant's stock.
func Stock(t testing.TB, db *gorm.DB, variantID uint) int {
	t.Helper()
	var v models.ProductVariant
	require.NoError(t, db.First(&v, variantID).Error)
	return v.Stock
}

// RequireMoney compares a decimal against a literal at two places.
func RequireMoney(t testing.TB, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Equal(t, Money(want).StringFixed(2), got.StringFixed(2), msgAndArgs...)
}
