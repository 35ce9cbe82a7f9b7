package models

import (
	"time"
)

// Outbox message kinds
const (
	OutboxKindOrderConfirmation = "order_confirmation"
	OutboxKindInvoiceDelivery   = "invoice_delivery"
)

// Outbox message statuses
const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// OutboxMessage records a pending notification. Rows are written in the same
// transaction as the order they belong to, then delivered at least once by
// the background dispatcher. Failed rows keep their attempt count and last
// error so dispatch state stays observable.
type OutboxMessage struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Kind      string     `gorm:"not null" json:"kind"`
	OrderID   uint       `gorm:"index;not null" json:"order_id"`
	Recipient string     `gorm:"not null" json:"recipient"`
	Status    string     `gorm:"index;not null;default:'pending'" json:"status"`
	Attempts  int        `gorm:"default:0" json:"attempts"`
	LastError string     `json:"last_error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}
