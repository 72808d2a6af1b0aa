package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Wallet caches the running balance of its ledger.
type Wallet struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	UserID       string              `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance      decimal.Decimal     `gorm:"type:decimal(10,2);default:0" json:"balance"`
	Transactions []WalletTransaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// WalletTransaction rows are append-only.
type WalletTransaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	WalletID    uint            `gorm:"index;not null" json:"wallet_id"`
	Wallet      Wallet          `json:"-"`
	Type        TransactionType `gorm:"type:VARCHAR(10);not null" json:"transaction_type"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description string          `json:"description"`
	OrderID     *uint           `gorm:"index" json:"order_id,omitempty"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// Signed returns the amount with debits negated.
func (t WalletTransaction) Signed() decimal.Decimal {
	if t.Type == TransactionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
