package offerControllers

import (
	"testing"
	"time"

	"github.com/amarsreevishnu/greennestPlants/database/dbtest"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverPicksCheaperOffer(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	now := dbtest.Now

	require.NoError(t, db.Create(&models.ProductOffer{
		ProductID: cat.Product.ID, DiscountPercentage: 10,
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour), IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.CategoryOffer{
		CategoryID: cat.Category.ID, DiscountPercentage: 25,
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour), IsActive: true,
	}).Error)

	r := NewResolver(db, now)
	best, err := r.Resolve(cat.Monstera)
	require.NoError(t, err)
	assert.Equal(t, pricing.OfferCategory, best.Kind)
	assert.Equal(t, 25, best.Discount)
	dbtest.RequireMoney(t, "150", best.FinalPrice)
	dbtest.RequireMoney(t, "200", best.OriginalPrice)
}

func TestResolverIgnoresExpiredAndInactive(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	now := dbtest.Now

	require.NoError(t, db.Create(&models.ProductOffer{
		ProductID: cat.Product.ID, DiscountPercentage: 40,
		StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-24 * time.Hour), IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.CategoryOffer{
		CategoryID: cat.Category.ID, DiscountPercentage: 30,
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour), IsActive: false,
	}).Error)

	best, err := NewResolver(db, now).Resolve(cat.Fern)
	require.NoError(t, err)
	assert.Equal(t, pricing.OfferNone, best.Kind)
	assert.Equal(t, 0, best.Discount)
	dbtest.RequireMoney(t, "100", best.FinalPrice)
}

func TestResolverCachesPerProduct(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	now := dbtest.Now

	r := NewResolver(db, now)
	_, err := r.Resolve(cat.Monstera)
	require.NoError(t, err)

	// offers created after the first lookup are not seen by the same resolver
	require.NoError(t, db.Create(&models.ProductOffer{
		ProductID: cat.Product.ID, DiscountPercentage: 50,
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour), IsActive: true,
	}).Error)

	best, err := r.Resolve(cat.Fern)
	require.NoError(t, err)
	assert.Equal(t, pricing.OfferNone, best.Kind)

	best, err = NewResolver(db, now).Resolve(cat.Fern)
	require.NoError(t, err)
	assert.Equal(t, pricing.OfferProduct, best.Kind)
	dbtest.RequireMoney(t, "50", best.FinalPrice)
}
