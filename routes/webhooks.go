package routes

import (
	paymentControllers "github.com/amarsreevishnu/greennestPlants/controllers/payment"
	"github.com/amarsreevishnu/greennestPlants/middleware"
	"github.com/gin-gonic/gin"
)

// SetupWebhookRoutes registers the Razorpay server-to-server callback.
func SetupWebhookRoutes(r *gin.Engine, d Deps) {
	r.POST("/webhooks/razorpay",
		middleware.RazorpayWebhookAuth(d.Config.Razorpay.WebhookSecret),
		paymentControllers.RazorpayWebhookHandler(d.DB, d.Events),
	)
}
