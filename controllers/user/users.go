package userControllers

import (
	"net/http"
	"strings"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddressInput struct {
	FullName   string `json:"full_name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country"`
}

type UpdateUserInput struct {
	Name    *string       `json:"name"`
	Phone   *string       `json:"phone"`
	Address *AddressInput `json:"address"`
}

// GET /user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			respond.Error(c, err)
			return
		}

		var orders int64
		db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&orders)

		c.JSON(http.StatusOK, gin.H{
			"user":             user,
			"address_complete": user.Address.IsComplete(),
			"orders":           orders,
		})
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.User{})
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
		}

		var users []models.User
		if err := query.
			Select("id", "email", "name", "phone", "created_at"). // Select only public fields
			Order("created_at desc").
			Find(&users).Error; err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// PUT /user
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			respond.Error(c, err)
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Name != nil {
			user.Name = strings.TrimSpace(*input.Name)
		}
		if input.Phone != nil {
			user.Phone = strings.TrimSpace(*input.Phone)
		}
		if a := input.Address; a != nil {
			country := strings.TrimSpace(a.Country)
			if country == "" {
				country = "India"
			}
			user.Address = models.Address{
				FullName:   strings.TrimSpace(a.FullName),
				Phone:      strings.TrimSpace(a.Phone),
				Line1:      strings.TrimSpace(a.Line1),
				Line2:      strings.TrimSpace(a.Line2),
				City:       strings.TrimSpace(a.City),
				State:      strings.TrimSpace(a.State),
				PostalCode: strings.TrimSpace(a.PostalCode),
				Country:    country,
			}
		}

		if err := db.Save(&user).Error; err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
