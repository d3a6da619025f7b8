package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem represents a single product sold within a journal transaction.
// Price is the line's total amount, not a unit price.
type LineItem struct {
	ArticleNumber  int             `json:"article_number"`
	ArticleName    string          `json:"article_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	Category       string          `json:"category"`
	CategoryNumber int             `json:"category_number"`
	Price          decimal.Decimal `json:"price"`
}

// Transaction represents one complete sale parsed from the journal.
// TotalGross is only ever a non-negative printed total; cancellations and
// refunds never produce a Transaction at all.
type Transaction struct {
	UUID       string          `json:"uuid"`
	Date       time.Time       `json:"date"`
	BillNumber int             `json:"bill_number"`
	Items      []LineItem      `json:"items"`
	TotalGross decimal.Decimal `json:"total_gross"`
}
