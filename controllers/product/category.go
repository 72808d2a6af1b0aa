package productcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

// POST /admin/categories
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		name := strings.TrimSpace(input.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		category := models.Category{Name: name, IsActive: true}
		if input.IsActive != nil {
			category.IsActive = *input.IsActive
		}

		if err := db.Create(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
				return
			}
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusCreated, category)
	}
}

// GET /admin/categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Order("name").Find(&categories).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /categories lists what shoppers can browse.
func GetActiveCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Where("is_active = ?", true).Order("name").Find(&categories).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}
