package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bullebakery/sales-unifier/constants"
	"github.com/bullebakery/sales-unifier/internal/entity"
)

type orderItemJSON struct {
	ArticleName string          `json:"article_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type orderJSON struct {
	PickupDate string          `json:"pickup_date"`
	Sales      []orderItemJSON `json:"sales"`
	Sum        decimal.Decimal `json:"sum"`
}

// WriteOrdersExtract serializes orders keyed by order id.
func WriteOrdersExtract(orders []entity.Order, path string) error {
	out := make(map[string]orderJSON, len(orders))
	for _, o := range orders {
		rec := orderJSON{
			PickupDate: o.PickupDate.Format(constants.DateLayout),
			Sales:      make([]orderItemJSON, 0, len(o.Items)),
			Sum:        o.Sum,
		}
		for _, item := range o.Items {
			rec.Sales = append(rec.Sales, orderItemJSON{
				ArticleName: item.ArticleName,
				Quantity:    item.Quantity,
				Price:       item.Price,
			})
		}
		out[o.ID] = rec
	}
	return writeJSONFile(path, out)
}

// ReadOrdersExtract loads a monthly orders extract. A missing file is
// reported through os.IsNotExist so callers can treat the source as
// absent.
func ReadOrdersExtract(path string) ([]entity.Order, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]orderJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse orders extract %s: %w", path, err)
	}

	orders := make([]entity.Order, 0, len(doc))
	for id, rec := range doc {
		pickupDate, err := time.Parse(constants.DateLayout, rec.PickupDate)
		if err != nil {
			return nil, fmt.Errorf("orders extract %s order %s: pickup date: %w", path, id, err)
		}
		o := entity.Order{ID: id, PickupDate: pickupDate, Sum: rec.Sum}
		for _, item := range rec.Sales {
			o.Items = append(o.Items, entity.OrderItem{
				ArticleName: item.ArticleName,
				Quantity:    item.Quantity,
				Price:       item.Price,
			})
		}
		orders = append(orders, o)
	}
	return orders, nil
}
