package productcontroller

import (
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

type UpdateProductInput struct {
	CategoryID  *uint   `json:"category_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			respond.Error(c, err)
			return
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
				return
			}
			product.Name = name
		}
		if input.Description != nil {
			product.Description = strings.TrimSpace(*input.Description)
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}
		if input.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, *input.CategoryID).Error; err != nil {
				respond.Error(c, fmt.Errorf("category %d: %w", *input.CategoryID, models.ErrNotFound))
				return
			}
			product.CategoryID = category.ID
		}

		if err := db.Omit("Category", "Variants").Save(&product).Error; err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

type UpdateVariantInput struct {
	VariantType *string          `json:"variant_type"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	IsActive    *bool            `json:"is_active"`
}

// PATCH /admin/variants/:id changes price, stock or availability.
// Orders already placed keep their snapshotted prices.
func UpdateVariant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}

		var input UpdateVariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.VariantType != nil {
			vt := strings.TrimSpace(*input.VariantType)
			if vt == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "variant_type cannot be empty"})
				return
			}
			updates["variant_type"] = vt
		}
		if input.Price != nil {
			if !input.Price.IsPositive() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
				return
			}
			updates["price"] = pricing.Round(*input.Price)
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot be negative"})
				return
			}
			updates["stock"] = *input.Stock
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
			return
		}

		var variant models.ProductVariant
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&variant, id).Error; err != nil {
				return err
			}
			if err := tx.Model(&variant).Updates(updates).Error; err != nil {
				return err
			}
			return tx.First(&variant, id).Error
		})
		if err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, variant)
	}
}
