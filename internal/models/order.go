package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Transitions are restricted to the forward sequence,
// with cancellation allowed from any non-terminal state.
const (
	OrderStatusReceived  = "received"
	OrderStatusPreparing = "preparing"
	OrderStatusEnRoute   = "en_route"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

var orderTransitions = map[string][]string{
	OrderStatusReceived:  {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusEnRoute, OrderStatusCancelled},
	OrderStatusEnRoute:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// IsOrderStatus reports whether s is one of the known order statuses
func IsOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionOrder reports whether an order may move from one status to another
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CustomerID      uint            `gorm:"index;not null" json:"customer_id"`
	Customer        Customer        `json:"customer,omitempty"`
	Status          string          `gorm:"not null;default:'received'" json:"status"`
	DeliveryAddress string          `gorm:"not null" json:"delivery_address"`
	ContactPhone    string          `json:"contact_phone"`
	PaymentMethod   string          `gorm:"not null" json:"payment_method"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Items           []OrderLine     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderLine is immutable once created. UnitPrice is the price at the time
// of the order and is never recomputed from the catalog.
type OrderLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	PizzaID   uint            `gorm:"index;not null" json:"pizza_id"`
	Pizza     Pizza           `json:"pizza,omitempty"`
	SizeID    uint            `gorm:"not null" json:"size_id"`
	Size      Size            `json:"size,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}
