package productcontroller

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	offerControllers "github.com/amarsreevishnu/greennestPlants/controllers/offer"
	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const pageSize = 12

var productSorts = map[string]string{
	"created_at": "products.created_at",
	"name":       "products.name",
}

func filter(c *gin.Context, query *gorm.DB) (*gorm.DB, bool) {
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		cid, err := strconv.ParseUint(categoryID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return nil, false
		}
		query = query.Where("products.category_id = ?", uint(cid))
	}

	sortBy, ok := productSorts[c.DefaultQuery("sort_by", "created_at")]
	if !ok {
		sortBy = productSorts["created_at"]
	}
	sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	return query.Order(sortBy + " " + sortOrder), true
}

func page(c *gin.Context) int {
	p, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// GET /products lists sellable products with offer prices.
func GetProducts(db *gorm.DB, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		query, ok := filter(c, sellable(db))
		if !ok {
			return
		}

		var total int64
		if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			respond.Error(c, err)
			return
		}

		p := page(c)
		var products []models.Product
		if err := withVariants(query).Offset((p - 1) * pageSize).Limit(pageSize).Find(&products).Error; err != nil {
			respond.Error(c, err)
			return
		}

		resolver := offerControllers.NewResolver(db, now())
		views := make([]ProductView, 0, len(products))
		for _, product := range products {
			v, err := view(resolver, product)
			if err != nil {
				respond.Error(c, err)
				return
			}
			views = append(views, v)
		}

		c.JSON(http.StatusOK, gin.H{
			"products": views,
			"page":     p,
			"total":    total,
		})
	}
}

// GET /admin/products lists every product, active or not, with raw variant rows.
func GetAdminProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query, ok := filter(c, withVariants(db.Model(&models.Product{})))
		if !ok {
			return
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
