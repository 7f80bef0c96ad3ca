package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is a single-row table; every terminal reads the same record.
type Settings struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	StoreName     string          `gorm:"type:varchar(255);not null;default:'POS'" json:"store_name"`
	Currency      string          `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(6,5);not null" json:"tax_rate"`
	ReceiptFooter string          `gorm:"type:text" json:"receipt_footer"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}
