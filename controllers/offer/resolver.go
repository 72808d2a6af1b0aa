package offerControllers

import (
	"fmt"
	"time"

	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"gorm.io/gorm"
)

// Resolver prices variants against the offers live at a fixed instant.
// It caches offers per product and category, so create one per request.
type Resolver struct {
	db         *gorm.DB
	now        time.Time
	byProduct  map[uint][]pricing.Offer
	byCategory map[uint][]pricing.Offer
	categoryOf map[uint]uint
}

func NewResolver(db *gorm.DB, now time.Time) *Resolver {
	return &Resolver{
		db:         db,
		now:        now,
		byProduct:  make(map[uint][]pricing.Offer),
		byCategory: make(map[uint][]pricing.Offer),
		categoryOf: make(map[uint]uint),
	}
}

// Resolve returns the best offer for a variant. The variant's Product is used
// when preloaded, otherwise its category is looked up.
func (r *Resolver) Resolve(v models.ProductVariant) (pricing.BestOffer, error) {
	categoryID := v.Product.CategoryID
	if v.Product.ID == 0 {
		id, err := r.lookupCategory(v.ProductID)
		if err != nil {
			return pricing.BestOffer{}, err
		}
		categoryID = id
	}

	productOffers, err := r.productOffers(v.ProductID)
	if err != nil {
		return pricing.BestOffer{}, err
	}
	categoryOffers, err := r.categoryOffers(categoryID)
	if err != nil {
		return pricing.BestOffer{}, err
	}
	return pricing.ResolveBestOffer(v.Price, productOffers, categoryOffers, r.now), nil
}

func (r *Resolver) lookupCategory(productID uint) (uint, error) {
	if id, ok := r.categoryOf[productID]; ok {
		return id, nil
	}
	var p models.Product
	if err := r.db.Unscoped().Select("id", "category_id").First(&p, productID).Error; err != nil {
		return 0, fmt.Errorf("load product %d: %w", productID, err)
	}
	r.categoryOf[productID] = p.CategoryID
	return p.CategoryID, nil
}

func (r *Resolver) productOffers(productID uint) ([]pricing.Offer, error) {
	if offers, ok := r.byProduct[productID]; ok {
		return offers, nil
	}
	var rows []models.ProductOffer
	if err := r.db.Where("product_id = ? AND is_active = ?", productID, true).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load product offers: %w", err)
	}
	offers := make([]pricing.Offer, 0, len(rows))
	for _, o := range rows {
		offers = append(offers, pricing.Offer{ID: o.ID, Percentage: o.DiscountPercentage, StartsAt: o.StartDate, EndsAt: o.EndDate, Active: o.IsActive})
	}
	r.byProduct[productID] = offers
	return offers, nil
}

func (r *Resolver) categoryOffers(categoryID uint) ([]pricing.Offer, error) {
	if offers, ok := r.byCategory[categoryID]; ok {
		return offers, nil
	}
	var rows []models.CategoryOffer
	if err := r.db.Where("category_id = ? AND is_active = ?", categoryID, true).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load category offers: %w", err)
	}
	offers := make([]pricing.Offer, 0, len(rows))
	for _, o := range rows {
		offers = append(offers, pricing.Offer{ID: o.ID, Percentage: o.DiscountPercentage, StartsAt: o.StartDate, EndsAt: o.EndDate, Active: o.IsActive})
	}
	r.byCategory[categoryID] = offers
	return offers, nil
}
