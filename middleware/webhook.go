package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/amarsreevishnu/greennestPlants/gateway"
	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

// RazorpayWebhookAuth verifies X-Razorpay-Signature, the hex HMAC-SHA256 of
// the raw body. The body is put back for the handler.
func RazorpayWebhookAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "webhook secret is not configured"})
			c.Abort()
			return
		}

		provided := c.GetHeader("X-Razorpay-Signature")
		if provided == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing webhook signature"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body for signature verification"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !gateway.Verify(secret, string(body), provided) {
			slog.Warn("rejected webhook", "path", c.FullPath(), "remote", c.ClientIP())
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
