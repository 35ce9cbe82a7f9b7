package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice payment statuses, mutated by admin action only
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusCancelled = "cancelled"
)

// IsPaymentStatus reports whether s is a known payment status
func IsPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusCancelled:
		return true
	}
	return false
}

// Invoice is the billing record associated 1:1 with an order
type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	Order         Order           `json:"order,omitempty"`
	Number        string          `gorm:"uniqueIndex;not null" json:"number"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `gorm:"not null;default:'pending'" json:"payment_status"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	IssuedAt      time.Time       `json:"issued_at"`
}

// NewInvoiceNumber generates a timestamp-based invoice number
func NewInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("FAC-%d", now.UnixMilli())
}
