package walletControllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const pageSize = 10

// GET /user/wallet
func GetUserWallet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			return
		}

		var wallet models.Wallet
		err := db.Preload("Transactions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at desc, id desc")
		}).Where("user_id = ?", userID).First(&wallet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"balance": decimal.Zero, "transactions": []models.WalletTransaction{}})
			return
		}
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": wallet.Balance, "transactions": wallet.Transactions})
	}
}

type transactionRow struct {
	models.WalletTransaction
	UserID string `json:"user_id"`
}

// GET /admin/wallet/transactions?page=1&type=credit&user_id=...
func ListTransactions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}

		query := db.Model(&models.WalletTransaction{}).
			Joins("JOIN wallets ON wallets.id = wallet_transactions.wallet_id")
		if kind := c.Query("type"); kind != "" {
			query = query.Where("wallet_transactions.type = ?", kind)
		}
		if userID := c.Query("user_id"); userID != "" {
			query = query.Where("wallets.user_id = ?", userID)
		}

		query = query.Session(&gorm.Session{})

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respond.Error(c, err)
			return
		}

		var rows []transactionRow
		if err := query.Select("wallet_transactions.*, wallets.user_id").
			Order("wallet_transactions.created_at desc, wallet_transactions.id desc").
			Limit(pageSize).Offset((page - 1) * pageSize).
			Scan(&rows).Error; err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"transactions": rows,
			"page":         page,
			"total":        total,
			"total_pages":  (total + pageSize - 1) / pageSize,
		})
	}
}

// GET /admin/wallet/transactions/:id
func GetTransaction(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}

		var entry models.WalletTransaction
		if err := db.Preload("Wallet").First(&entry, id).Error; err != nil {
			respond.Error(c, err)
			return
		}

		response := gin.H{"transaction": entry, "user_id": entry.Wallet.UserID}
		if entry.OrderID != nil {
			var order models.Order
			if err := db.Select("id", "status", "final_amount", "payment_method", "created_at").
				First(&order, *entry.OrderID).Error; err == nil {
				response["order"] = gin.H{
					"id":             order.ID,
					"display_id":     order.DisplayID(),
					"status":         order.Status,
					"final_amount":   order.FinalAmount,
					"payment_method": order.PaymentMethod,
				}
			}
		}
		c.JSON(http.StatusOK, response)
	}
}

type CreditInput struct {
	UserID      string          `json:"user_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// POST /admin/wallet/credit
func AdminCredit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreditInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Description == "" {
			input.Description = "Wallet adjustment"
		}

		var user models.User
		if err := db.First(&user, "id = ?", input.UserID).Error; err != nil {
			respond.Error(c, err)
			return
		}

		var entry models.WalletTransaction
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			entry, err = Credit(tx, user.ID, input.Amount, input.Description, nil)
			return err
		})
		if err != nil {
			respond.Error(c, err)
			return
		}

		slog.Info("wallet credited by admin", "user_id", user.ID, "amount", entry.Amount.StringFixed(2))
		c.JSON(http.StatusCreated, entry)
	}
}
