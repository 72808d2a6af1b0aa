package routes

import (
	adminController "github.com/amarsreevishnu/greennestPlants/controllers/admin"
	cartControllers "github.com/amarsreevishnu/greennestPlants/controllers/cart"
	couponControllers "github.com/amarsreevishnu/greennestPlants/controllers/coupon"
	offerControllers "github.com/amarsreevishnu/greennestPlants/controllers/offer"
	orderControllers "github.com/amarsreevishnu/greennestPlants/controllers/order"
	productcontroller "github.com/amarsreevishnu/greennestPlants/controllers/product"
	userControllers "github.com/amarsreevishnu/greennestPlants/controllers/user"
	walletControllers "github.com/amarsreevishnu/greennestPlants/controllers/wallet"
	"github.com/amarsreevishnu/greennestPlants/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.Config.Auth.AdminAPIKey))
	{
		adminGroup.GET("/dashboard", adminController.Dashboard(d.DB))
		adminGroup.GET("/reports/sales", adminController.SalesReport(d.DB, d.Now))

		// Users
		adminGroup.GET("/users", userControllers.GetAllUsers(d.DB))
		adminGroup.GET("/users/:user_id/cart", cartControllers.GetAdminUserCart(d.DB))

		// Catalog
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", productcontroller.GetAdminProducts(d.DB))
			productAdmin.POST("", productcontroller.CreateProduct(d.DB))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.DB))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.DB))
			productAdmin.POST("/:id/variants", productcontroller.AddVariant(d.DB))
			productAdmin.GET("/export", productcontroller.ExportInventoryToExcel(d.DB))
			productAdmin.POST("/import", productcontroller.ImportInventoryFromExcel(d.DB))
		}
		adminGroup.PATCH("/variants/:id", productcontroller.UpdateVariant(d.DB))

		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.GET("", productcontroller.GetAllCategories(d.DB))
			categoryAdmin.POST("", productcontroller.CreateCategory(d.DB))
		}

		// Offers
		productOffers := adminGroup.Group("/offers/products")
		{
			productOffers.GET("", offerControllers.ListProductOffers(d.DB))
			productOffers.POST("", offerControllers.CreateProductOffer(d.DB))
			productOffers.PUT("/:id", offerControllers.UpdateProductOffer(d.DB))
			productOffers.PATCH("/:id/toggle", offerControllers.ToggleProductOffer(d.DB))
			productOffers.DELETE("/:id", offerControllers.DeleteProductOffer(d.DB))
		}
		categoryOffers := adminGroup.Group("/offers/categories")
		{
			categoryOffers.GET("", offerControllers.ListCategoryOffers(d.DB))
			categoryOffers.POST("", offerControllers.CreateCategoryOffer(d.DB))
			categoryOffers.PUT("/:id", offerControllers.UpdateCategoryOffer(d.DB))
			categoryOffers.PATCH("/:id/toggle", offerControllers.ToggleCategoryOffer(d.DB))
			categoryOffers.DELETE("/:id", offerControllers.DeleteCategoryOffer(d.DB))
		}

		// Coupons
		coupons := adminGroup.Group("/coupons")
		{
			coupons.GET("", couponControllers.ListCoupons(d.DB))
			coupons.POST("", couponControllers.CreateCoupon(d.DB))
			coupons.PATCH("/:id/toggle", couponControllers.ToggleCoupon(d.DB))
			coupons.DELETE("/:id", couponControllers.DeleteCoupon(d.DB))
		}

		// Orders
		orders := adminGroup.Group("/orders")
		{
			orders.GET("", orderControllers.GetAllOrdersHandler(d.DB))
			orders.GET("/:id", orderControllers.GetOrderByIDHandler(d.DB))
			orders.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(d.DB, d.Rules, d.Events))
			orders.POST("/:id/return-review", orderControllers.ReviewReturnHandler(d.DB, d.Rules, d.Events))
			orders.POST("/:id/items/:item_id/cancel-review", orderControllers.ReviewCancelItemHandler(d.DB, d.Rules, d.Events))
			orders.POST("/:id/items/:item_id/return-review", orderControllers.ReviewReturnItemHandler(d.DB, d.Rules, d.Events))
		}
		if d.Hub != nil {
			adminGroup.GET("/ws/orders", d.Hub.Handler)
		}

		// Wallet
		wallet := adminGroup.Group("/wallet")
		{
			wallet.GET("/transactions", walletControllers.ListTransactions(d.DB))
			wallet.GET("/transactions/:id", walletControllers.GetTransaction(d.DB))
			wallet.POST("/credit", walletControllers.AdminCredit(d.DB))
		}
	}
}
