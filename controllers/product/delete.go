package productcontroller

import (
	"net/http"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DELETE /admin/products/:id soft deletes the product. Its variants stay so
// that past order items and carts still resolve; they stop being sellable.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var product models.Product
			if err := tx.First(&product, id).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.ProductVariant{}).Where("product_id = ?", product.ID).Update("is_active", false).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
