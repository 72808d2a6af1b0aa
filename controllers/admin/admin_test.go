package adminController

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amarsreevishnu/greennestPlants/database/dbtest"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func seedDelivered(t *testing.T, db *gorm.DB, at time.Time) {
	t.Helper()
	o := models.Order{
		UserID:         "u1",
		TotalAmount:    dbtest.Money("300"),
		Discount:       dbtest.Money("0"),
		ShippingCharge: dbtest.Money("50"),
		FinalAmount:    dbtest.Money("350"),
		PaymentMethod:  models.PaymentMethodCOD,
		Status:         models.OrderStatusDelivered,
		RefundedAmount: dbtest.Money("0"),
		CreatedAt:      at,
		Items: []models.OrderItem{{
			ProductName: "Fern", VariantType: "Small", Quantity: 3,
			Price: dbtest.Money("100"), TotalPrice: dbtest.Money("300"), Status: models.ItemStatusDelivered,
		}},
	}
	require.NoError(t, db.Create(&o).Error)
}

func get(h gin.HandlerFunc, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	h(c)
	return w
}

func TestSalesReportJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	seedDelivered(t, db, now.Add(-time.Hour))
	seedDelivered(t, db, now.AddDate(0, 0, -30))

	w := get(SalesReport(db, clock), "/admin/reports/sales?range=today")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Rows []struct {
			Day    string `json:"day"`
			Orders int    `json:"orders"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "2025-03-07", body.Rows[0].Day)
	assert.Equal(t, 1, body.Rows[0].Orders)
}

func TestSalesReportFormats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	seedDelivered(t, db, now.Add(-time.Hour))

	w := get(SalesReport(db, clock), "/admin/reports/sales?from=2025-03-01&to=2025-03-07&format=xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sales.xlsx")
	assert.NotZero(t, w.Body.Len())

	w = get(SalesReport(db, clock), "/admin/reports/sales?range=month&format=pdf")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	w = get(SalesReport(db, clock), "/admin/reports/sales?format=csv")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(SalesReport(db, clock), "/admin/reports/sales?range=decade")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(SalesReport(db, clock), "/admin/reports/sales?from=2025-03-07&to=2025-03-01")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	seedDelivered(t, db, now)
	seedDelivered(t, db, now)

	w := get(Dashboard(db), "/admin/dashboard")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		OrdersByStatus []struct {
			Status string `json:"status"`
			Count  int64  `json:"count"`
		} `json:"orders_by_status"`
		PendingReturns int64 `json:"pending_returns"`
		WalletDrift    []any `json:"wallet_drift"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.OrdersByStatus, 1)
	assert.Equal(t, "delivered", body.OrdersByStatus[0].Status)
	assert.EqualValues(t, 2, body.OrdersByStatus[0].Count)
	assert.Zero(t, body.PendingReturns)
	assert.Empty(t, body.WalletDrift)
}
