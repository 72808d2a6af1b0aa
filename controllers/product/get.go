package productcontroller

import (
	"fmt"
	"net/http"
	"time"

	offerControllers "github.com/amarsreevishnu/greennestPlants/controllers/offer"
	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// VariantView is a variant as shoppers see it, priced by its best offer.
type VariantView struct {
	ID          uint   `json:"id"`
	VariantType string `json:"variant_type"`
	Stock       int    `json:"stock"`
	InStock     bool   `json:"in_stock"`
	pricing.BestOffer
}

type ProductView struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CategoryID  uint          `json:"category_id"`
	Category    string        `json:"category"`
	Variants    []VariantView `json:"variants"`
}

// view prices the active variants of p. p.Category must be loaded.
func view(r *offerControllers.Resolver, p models.Product) (ProductView, error) {
	out := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Category:    p.Category.Name,
		Variants:    make([]VariantView, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		if !v.IsActive {
			continue
		}
		v.Product = p
		best, err := r.Resolve(v)
		if err != nil {
			return out, err
		}
		out.Variants = append(out.Variants, VariantView{
			ID:          v.ID,
			VariantType: v.VariantType,
			Stock:       v.Stock,
			InStock:     v.Stock > 0,
			BestOffer:   best,
		})
	}
	return out, nil
}

func sellable(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Product{}).
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.is_active = ? AND categories.is_active = ?", true, true)
}

func withVariants(query *gorm.DB) *gorm.DB {
	return query.Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

// GET /products/:id
func GetProduct(db *gorm.DB, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}

		var product models.Product
		if err := withVariants(sellable(db)).First(&product, "products.id = ?", id).Error; err != nil {
			respond.Error(c, fmt.Errorf("product %d: %w", id, models.ErrNotFound))
			return
		}

		out, err := view(offerControllers.NewResolver(db, now()), product)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
