package routes

import (
	"time"

	"github.com/amarsreevishnu/greennestPlants/config"
	"github.com/amarsreevishnu/greennestPlants/events"
	"github.com/amarsreevishnu/greennestPlants/gateway"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is everything the handlers close over.
type Deps struct {
	DB     *gorm.DB
	Config config.Config
	Rules  pricing.Rules
	Events events.Publisher
	// Hub streams events to the admin console. May be nil.
	Hub *events.Hub
	// Gateway is nil when Razorpay is not configured.
	Gateway gateway.Gateway
	Now     func() time.Time
}

// SetupRoutes is the single entry point that wires up the public, user, order, admin and webhook groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	// Catalog, health and metrics (no middleware)
	SetupPublicRoutes(r, d)

	// Profile, cart, coupons and wallet (JWT protected)
	SetupUserRoutes(r, d)

	// Checkout and orders (JWT protected)
	SetupOrderRoutes(r, d)

	// Admin console (API key protected)
	SetupAdminRoutes(r, d)

	// Gateway callbacks
	SetupWebhookRoutes(r, d)
}
