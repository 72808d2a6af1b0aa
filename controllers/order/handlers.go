package orderControllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/events"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/amarsreevishnu/greennestPlants/reports"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const pageSize = 10

// Run executes op in a transaction and publishes its events after commit.
func Run(ctx context.Context, db *gorm.DB, pub events.Publisher, op func(tx *gorm.DB) (Outcome, error)) (Outcome, error) {
	var out Outcome
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = op(tx)
		return err
	})
	if err != nil {
		return Outcome{}, err
	}
	for _, ev := range out.Events {
		pub.Publish(ctx, ev)
	}
	return out, nil
}

func respondOutcome(c *gin.Context, db *gorm.DB, pub events.Publisher, op func(tx *gorm.DB) (Outcome, error)) {
	out, err := Run(c.Request.Context(), db, pub, op)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": out.Order, "refund": out.Refund})
}

type ReasonInput struct {
	Reason string `json:"reason"`
}

func bindReason(c *gin.Context) string {
	var input ReasonInput
	// an empty body is fine; operations that need a reason check for it
	_ = c.ShouldBindJSON(&input)
	return input.Reason
}

// -------- User handlers --------

// POST /user/orders/:id/cancel
func CancelOrderHandler(db *gorm.DB, rules pricing.Rules, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		orderID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		reason := bindReason(c)
		respondOutcome(c, db, pub, func(tx *gorm.DB) (Outcome, error) {
			return CancelOrder(tx, rules, userID, orderID, reason, time.Now())
		})
	}
}

// POST /user/orders/:id/items/:item_id/cancel
func CancelItemHandler(db *gorm.DB, rules pricing.Rules, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		orderID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		itemID, ok := respond.ParamID(c, "item_id")
		if !ok {
			return
		}
		reason := bindReason(c)
		respondOutcome(c, db, pub, func(tx *gorm.DB) (Outcome, error) {
			return CancelItem(tx, rules, userID, orderID, itemID, reason, time.Now())
		})
	}
}

// POST /user/orders/:id/return
func ReturnOrderHandler(db *gorm.DB, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		orderID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		reason := bindReason(c)
		respondOutcome(c, db, pub, func(tx *gorm.DB) (Outcome, error) {
			return RequestReturn(tx, userID, orderID, reason, time.Now())
		})
	}
}

// POST /user/orders/:id/items/:item_id/return
func ReturnItemHandler(db *gorm.DB, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		orderID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		itemID, ok := respond.ParamID(c, "item_id")
		if !ok {
			return
		}
		reason := bindReason(c)
		respondOutcome(c, db, pub, func(tx *gorm.DB) (Outcome, error) {
			return RequestReturnItem(tx, userID, orderID, itemID, reason, time.Now())
		})
	}
}

// GET /user/checkout
func GetCheckoutQuote(db *gorm.DB, rules pricing.Rules) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		q, err := BuildQuote(db, rules, userID, time.Now())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// GET /user/orders?q=...
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}

		query := db.Model(&models.Order{}).Where("orders.user_id = ?", userID)
		query = Search(query, c.Query("q"))

		var orders []models.Order
		if err := query.Preload("Items").Order("orders.created_at desc").Find(&orders).Error; err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:id
func GetUserOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		orderID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}

		var order models.Order
		if err := db.Preload("Items").Preload("Payments").Preload("Coupon").
			Where("user_id = ?", userID).First(&order, orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order, "display_id": order.DisplayID()})
	}
}

// GET /user/orders/:id/invoice
func DownloadInvoiceHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}
		orderID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}

		var order models.Order
		if err := db.Preload("Items").Preload("Coupon").
			Where("user_id = ?", userID).First(&order, orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", `attachment; filename="invoice_`+order.DisplayID()+`.pdf"`)
		if err := reports.WriteInvoice(c.Writer, order); err != nil {
			respond.Error(c, err)
			return
		}
	}
}

// -------- Admin handlers --------

var sortColumns = map[string]string{
	"created_at":   "orders.created_at",
	"final_amount": "orders.final_amount",
	"status":       "orders.status",
}

// GET /admin/orders?q=&status=&sort=created_at&dir=desc&page=1
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}

		query := db.Model(&models.Order{}).Joins("LEFT JOIN users ON users.id = orders.user_id")
		if status := c.Query("status"); status != "" {
			st, ok := models.ParseOrderStatus(status)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
				return
			}
			query = query.Where("orders.status = ?", st)
		}
		if term := strings.TrimSpace(c.Query("q")); term != "" {
			like := "%" + strings.ToLower(term) + "%"
			query = Search(query, term, "LOWER(users.email) LIKE ?", like, "LOWER(users.name) LIKE ?", like)
		}
		query = query.Session(&gorm.Session{})

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respond.Error(c, err)
			return
		}

		column, ok := sortColumns[c.DefaultQuery("sort", "created_at")]
		if !ok {
			column = sortColumns["created_at"]
		}
		dir := "desc"
		if strings.EqualFold(c.Query("dir"), "asc") {
			dir = "asc"
		}

		var orders []models.Order
		if err := query.Select("orders.*").Preload("Items").
			Order(column + " " + dir).Order("orders.id " + dir).
			Limit(pageSize).Offset((page - 1) * pageSize).
			Find(&orders).Error; err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders":      orders,
			"page":        page,
			"total":       total,
			"total_pages": (total + pageSize - 1) / pageSize,
		})
	}
}

// GET /admin/orders/:id
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}

		var order models.Order
		if err := db.Preload("User").Preload("Items").Preload("Payments").Preload("Coupon").
			First(&order, orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order, "display_id": order.DisplayID()})
	}
}

type StatusInput struct {
	Status string `json:"status" binding:"required"`
}

// PUT /admin/orders/:id/status
func UpdateOrderStatusHandler(db *gorm.DB, rules pricing.Rules, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		var input StatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		to, ok := models.ParseOrderStatus(input.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		respondOutcome(c, db, pub, func(tx *gorm.DB) (Outcome, error) {
			return UpdateStatus(tx, rules, orderID, to, time.Now())
		})
	}
}

type ReviewInput struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// POST /admin/orders/:id/items/:item_id/cancel-review
func ReviewCancelItemHandler(db *gorm.DB, rules pricing.Rules, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		itemID, ok := respond.ParamID(c, "item_id")
		if !ok {
			return
		}
		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		respondOutcome(c, db, pub, func(tx *gorm.DB) (Outcome, error) {
			return ReviewCancelItem(tx, rules, orderID, itemID, input.Approve, time.Now())
		})
	}
}

// POST /admin/orders/:id/items/:item_id/return-review
func ReviewReturnItemHandler(db *gorm.DB, rules pricing.Rules, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		itemID, ok := respond.ParamID(c, "item_id")
		if !ok {
			return
		}
		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		respondOutcome(c, db, pub, func(tx *gorm.DB) (Outcome, error) {
			return ReviewReturnItem(tx, rules, orderID, itemID, input.Approve, input.Reason, time.Now())
		})
	}
}

// POST /admin/orders/:id/return-review
func ReviewReturnHandler(db *gorm.DB, rules pricing.Rules, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		respondOutcome(c, db, pub, func(tx *gorm.DB) (Outcome, error) {
			return ReviewReturn(tx, rules, orderID, input.Approve, input.Reason, time.Now())
		})
	}
}
