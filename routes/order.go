package routes

import (
	"net/http"

	orderControllers "github.com/amarsreevishnu/greennestPlants/controllers/order"
	paymentControllers "github.com/amarsreevishnu/greennestPlants/controllers/payment"
	"github.com/amarsreevishnu/greennestPlants/middleware"
	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes registers checkout and the shopper's order endpoints. Requires JWT middleware.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.DB, d.Config.Auth.JWTSecret))

	checkout := userGroup.Group("/checkout")
	{
		checkout.GET("", orderControllers.GetCheckoutQuote(d.DB, d.Rules))
		checkout.POST("/cod", paymentControllers.PlaceCODOrderHandler(d.DB, d.Rules, d.Events))
		checkout.POST("/wallet", paymentControllers.PlaceWalletOrderHandler(d.DB, d.Rules, d.Events))
		if d.Gateway != nil {
			checkout.POST("/razorpay", paymentControllers.StartRazorpayHandler(d.DB, d.Gateway, d.Rules))
			checkout.POST("/razorpay/verify", paymentControllers.VerifyRazorpayHandler(d.DB, d.Gateway, d.Rules, d.Events))
		} else {
			unavailable := func(c *gin.Context) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "online payment is not available"})
			}
			checkout.POST("/razorpay", unavailable)
			checkout.POST("/razorpay/verify", unavailable)
		}
	}

	orders := userGroup.Group("/orders")
	{
		orders.GET("", orderControllers.GetUserOrdersHandler(d.DB))
		orders.GET("/:id", orderControllers.GetUserOrderHandler(d.DB))
		orders.GET("/:id/invoice", orderControllers.DownloadInvoiceHandler(d.DB))
		orders.POST("/:id/cancel", orderControllers.CancelOrderHandler(d.DB, d.Rules, d.Events))
		orders.POST("/:id/return", orderControllers.ReturnOrderHandler(d.DB, d.Events))
		orders.POST("/:id/items/:item_id/cancel", orderControllers.CancelItemHandler(d.DB, d.Rules, d.Events))
		orders.POST("/:id/items/:item_id/return", orderControllers.ReturnItemHandler(d.DB, d.Events))
	}
}
