package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one article position within a pre-order. Price is the unit
// price in euros; the line total is Price * Quantity.
type OrderItem struct {
	ArticleName string          `json:"article_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Order represents a customer pre-order with a future pickup date.
type Order struct {
	ID         string          `json:"id"`
	PickupDate time.Time       `json:"pickup_date"`
	Items      []OrderItem     `json:"sales"`
	Sum        decimal.Decimal `json:"sum"`
}
