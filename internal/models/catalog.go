package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups pizzas for filtering and report grouping
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// Size is immutable reference data. PriceFactor is the multiplier applied
// to a pizza's base price for this size.
type Size struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"uniqueIndex;not null" json:"name"`
	PriceFactor decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_factor"`
}

// Pizza represents a catalog item with its base price before size factors
type Pizza struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	CategoryID  uint            `gorm:"index;not null" json:"category_id"`
	Category    Category        `json:"category,omitempty"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PriceFor returns the unit price of this pizza in the given size
func (p *Pizza) PriceFor(size Size) decimal.Decimal {
	return p.BasePrice.Mul(size.PriceFactor).Round(2)
}
