package routes

import (
	cartControllers "github.com/amarsreevishnu/greennestPlants/controllers/cart"
	couponControllers "github.com/amarsreevishnu/greennestPlants/controllers/coupon"
	userControllers "github.com/amarsreevishnu/greennestPlants/controllers/user"
	walletControllers "github.com/amarsreevishnu/greennestPlants/controllers/wallet"
	"github.com/amarsreevishnu/greennestPlants/middleware"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.DB, d.Config.Auth.JWTSecret))
	{
		// User profile
		userGroup.GET("", userControllers.GetUser(d.DB))
		userGroup.PUT("", userControllers.UpdateUser(d.DB))

		// Shopping cart
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(d.DB, d.Rules))
			cartGroup.POST("", cartControllers.UpdateCartItem(d.DB, d.Rules))
			cartGroup.DELETE("", cartControllers.ClearUserCart(d.DB))
			cartGroup.POST("/coupon", couponControllers.ApplyCoupon(d.DB))
			cartGroup.DELETE("/coupon", couponControllers.RemoveCoupon(d.DB))
			cartGroup.DELETE("/:variant_id", cartControllers.DeleteCartItem(d.DB))
		}

		userGroup.GET("/coupons", couponControllers.ListAvailableCoupons(d.DB))
		userGroup.GET("/wallet", walletControllers.GetUserWallet(d.DB))
	}
}
