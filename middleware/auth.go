package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// ValidateToken checks the bearer JWT and sets user_id. The user row is
// created the first time a subject is seen.
func ValidateToken(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the token from the header
		tokenString := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer"))
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid token signing method")
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			userID, _ = claims.GetSubject()
		}
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		user := models.User{ID: userID}
		if email, ok := claims["email"].(string); ok {
			user.Email = email
		}
		if name, ok := claims["name"].(string); ok {
			user.Name = name
		}
		if err := db.Where(models.User{ID: userID}).Attrs(user).FirstOrCreate(&user).Error; err != nil {
			slog.Error("load user", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Next()
	}
}
