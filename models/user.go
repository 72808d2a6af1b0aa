package models

import "time"

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"index" json:"email"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Address   Address   `gorm:"embedded;embeddedPrefix:addr_" json:"address"` // Embeds address fields directly
	CreatedAt time.Time `json:"created_at"`
}

// Address model embedded in User and snapshotted into Order
type Address struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// IsComplete reports whether the address can be shipped to.
func (a Address) IsComplete() bool {
	return a.FullName != "" && a.Line1 != "" && a.City != "" && a.PostalCode != ""
}
