// Package respond holds the JSON error mapping shared by all handlers.
package respond

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Status maps a business error onto an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrCouponUsed), errors.Is(err, models.ErrPaymentClosed),
		errors.Is(err, models.ErrAmountMismatch), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, models.ErrSignatureMismatch):
		return http.StatusPaymentRequired
	case errors.Is(err, models.ErrEmptyCart), errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInsufficientBalance), errors.Is(err, models.ErrAddressRequired),
		errors.Is(err, models.ErrCouponInvalid), errors.Is(err, models.ErrCouponMinOrder),
		errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrReasonRequired),
		errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error writes {"error": ...}. Internal errors are logged and not echoed.
func Error(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// UserID returns the authenticated user id set by the token middleware.
func UserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// ParamID parses a numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
