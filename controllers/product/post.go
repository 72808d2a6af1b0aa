package productcontroller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VariantInput struct {
	VariantType string          `json:"variant_type" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsActive    *bool           `json:"is_active"`
}

func (v VariantInput) Validate() error {
	if strings.TrimSpace(v.VariantType) == "" {
		return fmt.Errorf("%w: variant_type is required", models.ErrValidation)
	}
	if !v.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", models.ErrValidation)
	}
	if v.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", models.ErrValidation)
	}
	return nil
}

type ProductInput struct {
	CategoryID  uint           `json:"category_id" binding:"required"`
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	IsActive    *bool          `json:"is_active"`
	Variants    []VariantInput `json:"variants" binding:"required,min=1,dive"`
}

// POST /admin/products creates a product together with its variants.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		for _, v := range input.Variants {
			if err := v.Validate(); err != nil {
				respond.Error(c, err)
				return
			}
		}

		product := models.Product{
			CategoryID:  input.CategoryID,
			Name:        strings.TrimSpace(input.Name),
			Description: strings.TrimSpace(input.Description),
			IsActive:    input.IsActive == nil || *input.IsActive,
		}
		for _, v := range input.Variants {
			product.Variants = append(product.Variants, models.ProductVariant{
				VariantType: strings.TrimSpace(v.VariantType),
				Price:       pricing.Round(v.Price),
				Stock:       v.Stock,
				IsActive:    v.IsActive == nil || *v.IsActive,
			})
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var category models.Category
			if err := tx.First(&category, input.CategoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("category %d: %w", input.CategoryID, models.ErrNotFound)
				}
				return err
			}
			return tx.Omit("Category").Create(&product).Error
		})
		if err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

// POST /admin/products/:id/variants
func AddVariant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}

		var input VariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := input.Validate(); err != nil {
			respond.Error(c, err)
			return
		}

		var product models.Product
		if err := db.First(&product, productID).Error; err != nil {
			respond.Error(c, err)
			return
		}

		variant := models.ProductVariant{
			ProductID:   product.ID,
			VariantType: strings.TrimSpace(input.VariantType),
			Price:       pricing.Round(input.Price),
			Stock:       input.Stock,
			IsActive:    input.IsActive == nil || *input.IsActive,
		}
		if err := db.Create(&variant).Error; err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusCreated, variant)
	}
}
