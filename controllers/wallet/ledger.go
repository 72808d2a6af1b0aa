package walletControllers

import (
	"errors"
	"fmt"

	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockWallet loads the user's wallet FOR UPDATE, creating it on first use.
func lockWallet(tx *gorm.DB, userID string) (models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{UserID: userID, Balance: decimal.Zero}
		if err := tx.Create(&wallet).Error; err != nil {
			return wallet, fmt.Errorf("create wallet: %w", err)
		}
		return wallet, nil
	}
	if err != nil {
		return wallet, fmt.Errorf("lock wallet: %w", err)
	}
	return wallet, nil
}

// Credit adds amount to the user's wallet and appends a credit row.
// Run it inside the transaction that justifies the credit.
func Credit(tx *gorm.DB, userID string, amount decimal.Decimal, description string, orderID *uint) (models.WalletTransaction, error) {
	return post(tx, userID, models.TransactionCredit, amount, description, orderID)
}

// Debit takes amount from the user's wallet. It fails with
// ErrInsufficientBalance rather than letting the balance go negative.
func Debit(tx *gorm.DB, userID string, amount decimal.Decimal, description string, orderID *uint) (models.WalletTransaction, error) {
	return post(tx, userID, models.TransactionDebit, amount, description, orderID)
}

func post(tx *gorm.DB, userID string, kind models.TransactionType, amount decimal.Decimal, description string, orderID *uint) (models.WalletTransaction, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return models.WalletTransaction{}, models.ErrInvalidAmount
	}

	wallet, err := lockWallet(tx, userID)
	if err != nil {
		return models.WalletTransaction{}, err
	}

	balance := wallet.Balance.Add(amount)
	if kind == models.TransactionDebit {
		if wallet.Balance.LessThan(amount) {
			return models.WalletTransaction{}, models.ErrInsufficientBalance
		}
		balance = wallet.Balance.Sub(amount)
	}

	if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).Update("balance", balance).Error; err != nil {
		return models.WalletTransaction{}, fmt.Errorf("update wallet balance: %w", err)
	}

	entry := models.WalletTransaction{
		WalletID:    wallet.ID,
		Type:        kind,
		Amount:      amount,
		Description: description,
		OrderID:     orderID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return models.WalletTransaction{}, fmt.Errorf("append wallet transaction: %w", err)
	}
	return entry, nil
}

// Drift compares the cached balance with the ledger sum.
type Drift struct {
	UserID  string          `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
	Ledger  decimal.Decimal `json:"ledger"`
}

func (d Drift) Consistent() bool {
	return d.Balance.Equal(d.Ledger)
}

// Reconcile recomputes the ledger sum for one wallet.
func Reconcile(db *gorm.DB, userID string) (Drift, error) {
	var wallet models.Wallet
	if err := db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Drift{UserID: userID, Balance: decimal.Zero, Ledger: decimal.Zero}, nil
		}
		return Drift{}, err
	}

	var entries []models.WalletTransaction
	if err := db.Where("wallet_id = ?", wallet.ID).Find(&entries).Error; err != nil {
		return Drift{}, err
	}
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Signed())
	}
	return Drift{UserID: userID, Balance: wallet.Balance, Ledger: sum}, nil
}

// ReconcileAll reports every wallet whose balance disagrees with its ledger.
func ReconcileAll(db *gorm.DB) ([]Drift, error) {
	var userIDs []string
	if err := db.Model(&models.Wallet{}).Order("user_id").Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	var drifted []Drift
	for _, id := range userIDs {
		d, err := Reconcile(db, id)
		if err != nil {
			return nil, err
		}
		if !d.Consistent() {
			drifted = append(drifted, d)
		}
	}
	return drifted, nil
}
