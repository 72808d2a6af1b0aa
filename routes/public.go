package routes

import (
	"net/http"

	productcontroller "github.com/amarsreevishnu/greennestPlants/controllers/product"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupPublicRoutes registers the storefront catalog and operational endpoints.
func SetupPublicRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/products", productcontroller.GetProducts(d.DB, d.Now))
	r.GET("/products/:id", productcontroller.GetProduct(d.DB, d.Now))
	r.GET("/categories", productcontroller.GetActiveCategories(d.DB))
}
