package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment types accepted at the terminal.
const (
	PaymentCash = "CASH"
	PaymentCard = "CARD"
	PaymentDue  = "DUE"
)

const OrderStatusCompleted = "completed"

// Order is the durable record created once a cart is submitted.
// Financial fields are written once at creation and never updated;
// corrections happen via new orders.
type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderNumber    string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_number"`
	UserID         uint            `gorm:"not null" json:"user_id"`
	User           User            `gorm:"foreignKey:UserID" json:"-"`
	PaymentType    string          `gorm:"type:varchar(10);not null" json:"payment_type"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	Discount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Notes          string          `gorm:"type:text" json:"notes"`
	Status         string          `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	IdempotencyKey *string         `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	OrderItems     []OrderItem     `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

func ValidPaymentType(t string) bool {
	return t == PaymentCash || t == PaymentCard || t == PaymentDue
}
