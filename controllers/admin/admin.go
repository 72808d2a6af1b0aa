package adminController

import (
	"bytes"
	"net/http"
	"time"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	walletControllers "github.com/amarsreevishnu/greennestPlants/controllers/wallet"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/reports"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// period reads ?from=&to= when both are set, otherwise ?range= (today, week, month, year).
func period(c *gin.Context, now time.Time) (reports.Period, error) {
	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		return reports.ParseRange(from, to)
	}
	return reports.Preset(c.DefaultQuery("range", "today"), now)
}

// GET /admin/reports/sales?format=json|xlsx|pdf
func SalesReport(db *gorm.DB, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := period(c, now())
		if err != nil {
			respond.Error(c, err)
			return
		}
		report, err := reports.BuildSales(db, p)
		if err != nil {
			respond.Error(c, err)
			return
		}

		var (
			buf         bytes.Buffer
			contentType string
			filename    string
		)
		switch c.DefaultQuery("format", "json") {
		case "json":
			c.JSON(http.StatusOK, report)
			return
		case "xlsx":
			err = reports.WriteSalesXLSX(&buf, report)
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			filename = "sales.xlsx"
		case "pdf":
			err = reports.WriteSalesPDF(&buf, report)
			contentType = "application/pdf"
			filename = "sales.pdf"
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json, xlsx or pdf"})
			return
		}
		if err != nil {
			respond.Error(c, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, contentType, buf.Bytes())
	}
}

// GET /admin/dashboard summarises orders by status and checks wallet drift.
func Dashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		type statusCount struct {
			Status models.OrderStatus `json:"status"`
			Count  int64              `json:"count"`
		}
		var byStatus []statusCount
		if err := db.Model(&models.Order{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Order("status").
			Scan(&byStatus).Error; err != nil {
			respond.Error(c, err)
			return
		}

		var pendingReturns, pendingCancels int64
		db.Model(&models.OrderItem{}).Where("status = ?", models.ItemStatusReturnRequested).Count(&pendingReturns)
		db.Model(&models.OrderItem{}).Where("status = ?", models.ItemStatusCancelRequested).Count(&pendingCancels)

		drift, err := walletControllers.ReconcileAll(db)
		if err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders_by_status":      byStatus,
			"pending_returns":       pendingReturns,
			"pending_cancellations": pendingCancels,
			"wallet_drift":          drift,
		})
	}
}
