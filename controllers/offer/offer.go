package offerControllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OfferInput struct {
	TargetID           uint      `json:"target_id"`
	DiscountPercentage int       `json:"discount_percentage"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	IsActive           *bool     `json:"is_active"`
}

// Validate enforces the 1..90 percent range and an ordered date window.
func (in OfferInput) Validate() error {
	if in.DiscountPercentage < pricing.MinOfferPercent || in.DiscountPercentage > pricing.MaxOfferPercent {
		return fmt.Errorf("%w: discount must be between %d and %d percent", models.ErrValidation, pricing.MinOfferPercent, pricing.MaxOfferPercent)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() || !in.StartDate.Before(in.EndDate) {
		return fmt.Errorf("%w: start_date must be before end_date", models.ErrValidation)
	}
	return nil
}

func (in OfferInput) active() bool {
	return in.IsActive == nil || *in.IsActive
}

func bindOffer(c *gin.Context) (OfferInput, bool) {
	var input OfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return input, false
	}
	if err := input.Validate(); err != nil {
		respond.Error(c, err)
		return input, false
	}
	return input, true
}

// POST /admin/offers/products
func CreateProductOffer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, ok := bindOffer(c)
		if !ok {
			return
		}

		var product models.Product
		if err := db.First(&product, input.TargetID).Error; err != nil {
			respond.Error(c, fmt.Errorf("product %d: %w", input.TargetID, models.ErrNotFound))
			return
		}

		var count int64
		db.Model(&models.ProductOffer{}).Where("product_id = ?", product.ID).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "An offer already exists for this product"})
			return
		}

		offer := models.ProductOffer{
			ProductID:          product.ID,
			DiscountPercentage: input.DiscountPercentage,
			StartDate:          input.StartDate,
			EndDate:            input.EndDate,
			IsActive:           input.active(),
		}
		if err := db.Create(&offer).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, offer)
	}
}

// PUT /admin/offers/products/:id
func UpdateProductOffer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		input, ok := bindOffer(c)
		if !ok {
			return
		}

		var offer models.ProductOffer
		if err := db.First(&offer, id).Error; err != nil {
			respond.Error(c, err)
			return
		}
		offer.DiscountPercentage = input.DiscountPercentage
		offer.StartDate = input.StartDate
		offer.EndDate = input.EndDate
		if input.IsActive != nil {
			offer.IsActive = *input.IsActive
		}
		if err := db.Save(&offer).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, offer)
	}
}

// PATCH /admin/offers/products/:id/toggle
func ToggleProductOffer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		var offer models.ProductOffer
		if err := db.First(&offer, id).Error; err != nil {
			respond.Error(c, err)
			return
		}
		offer.IsActive = !offer.IsActive
		if err := db.Model(&offer).Update("is_active", offer.IsActive).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, offer)
	}
}

// DELETE /admin/offers/products/:id
func DeleteProductOffer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		result := db.Delete(&models.ProductOffer{}, id)
		if result.Error != nil {
			respond.Error(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Offer deleted"})
	}
}

// GET /admin/offers/products
func ListProductOffers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var offers []models.ProductOffer
		if err := db.Order("id desc").Find(&offers).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, offers)
	}
}

// POST /admin/offers/categories
func CreateCategoryOffer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, ok := bindOffer(c)
		if !ok {
			return
		}

		var category models.Category
		if err := db.First(&category, input.TargetID).Error; err != nil {
			respond.Error(c, fmt.Errorf("category %d: %w", input.TargetID, models.ErrNotFound))
			return
		}

		var count int64
		db.Model(&models.CategoryOffer{}).Where("category_id = ?", category.ID).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "An offer already exists for this category"})
			return
		}

		offer := models.CategoryOffer{
			CategoryID:         category.ID,
			DiscountPercentage: input.DiscountPercentage,
			StartDate:          input.StartDate,
			EndDate:            input.EndDate,
			IsActive:           input.active(),
		}
		if err := db.Create(&offer).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, offer)
	}
}

// PUT /admin/offers/categories/:id
func UpdateCategoryOffer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		input, ok := bindOffer(c)
		if !ok {
			return
		}

		var offer models.CategoryOffer
		if err := db.First(&offer, id).Error; err != nil {
			respond.Error(c, err)
			return
		}
		offer.DiscountPercentage = input.DiscountPercentage
		offer.StartDate = input.StartDate
		offer.EndDate = input.EndDate
		if input.IsActive != nil {
			offer.IsActive = *input.IsActive
		}
		if err := db.Save(&offer).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, offer)
	}
}

// PATCH /admin/offers/categories/:id/toggle
func ToggleCategoryOffer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		var offer models.CategoryOffer
		if err := db.First(&offer, id).Error; err != nil {
			respond.Error(c, err)
			return
		}
		offer.IsActive = !offer.IsActive
		if err := db.Model(&offer).Update("is_active", offer.IsActive).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, offer)
	}
}

// DELETE /admin/offers/categories/:id
func DeleteCategoryOffer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		result := db.Delete(&models.CategoryOffer{}, id)
		if result.Error != nil {
			respond.Error(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Offer deleted"})
	}
}

// GET /admin/offers/categories
func ListCategoryOffers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var offers []models.CategoryOffer
		if err := db.Order("id desc").Find(&offers).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, offers)
	}
}
