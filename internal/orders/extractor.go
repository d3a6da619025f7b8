// Package orders reads the pre-order CSV export. Each row is one
// article position; rows sharing an order id form one order. Prices in
// the export are integer cents.
package orders

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bullebakery/sales-unifier/constants"
	"github.com/bullebakery/sales-unifier/internal/common"
	"github.com/bullebakery/sales-unifier/internal/entity"
)

// Columns expected in the export header row.
const (
	colOrderID    = "id"
	colPickupDate = "abholdatum"
	colArticle    = "artikelname"
	colQuantity   = "artikelanzahl"
	colPriceCents = "artikelpreis"
)

// Extractor parses the pre-order CSV into Order records.
type Extractor struct {
	logger *slog.Logger

	encodingSampleSize int
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger, encodingSampleSize: 10000}
}

// ReadFile reads and parses the CSV export, auto-detecting its encoding.
// Orders come back in first-appearance order of their id.
func (e *Extractor) ReadFile(path string) ([]entity.Order, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read orders csv")
	}
	e.logger.Info("orders.read.start", "path", path, "bytes", len(raw))

	text := common.DecodeText(raw, e.encodingSampleSize, e.logger)
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, common.WrapError(err, "parse orders csv")
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("orders csv %s: missing header row", path)
	}

	cols, err := headerIndex(records[0])
	if err != nil {
		return nil, fmt.Errorf("orders csv %s: %w", path, err)
	}

	byID := make(map[string]*entity.Order)
	var idsInOrder []string
	for i, row := range records[1:] {
		o, item, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("orders csv %s row %d: %w", path, i+2, err)
		}
		existing, ok := byID[o.ID]
		if !ok {
			byID[o.ID] = o
			idsInOrder = append(idsInOrder, o.ID)
			existing = o
		}
		existing.Items = append(existing.Items, item)
	}

	orders := make([]entity.Order, 0, len(byID))
	for _, id := range idsInOrder {
		o := byID[id]
		o.Sum = orderSum(o.Items)
		orders = append(orders, *o)
	}

	e.logger.Info("orders.read.ok", "path", path, "orders", len(orders))
	return orders, nil
}

// GroupByMonth splits orders into YYYY-MM buckets by pickup date, as the
// monthly extract files are written per month.
func GroupByMonth(orders []entity.Order) map[string][]entity.Order {
	byMonth := make(map[string][]entity.Order)
	for _, o := range orders {
		key := o.PickupDate.Format(constants.MonthLayout)
		byMonth[key] = append(byMonth[key], o)
	}
	return byMonth
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{colOrderID, colPickupDate, colArticle, colQuantity, colPriceCents} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int) (*entity.Order, entity.OrderItem, error) {
	field := func(name string) (string, error) {
		idx := cols[name]
		if idx >= len(row) {
			return "", fmt.Errorf("short row: missing %q", name)
		}
		return strings.TrimSpace(row[idx]), nil
	}

	id, err := field(colOrderID)
	if err != nil {
		return nil, entity.OrderItem{}, err
	}
	dateStr, err := field(colPickupDate)
	if err != nil {
		return nil, entity.OrderItem{}, err
	}
	pickupDate, err := time.Parse(constants.DateLayout, dateStr)
	if err != nil {
		return nil, entity.OrderItem{}, fmt.Errorf("pickup date %q: %w", dateStr, err)
	}
	name, err := field(colArticle)
	if err != nil {
		return nil, entity.OrderItem{}, err
	}
	quantityStr, err := field(colQuantity)
	if err != nil {
		return nil, entity.OrderItem{}, err
	}
	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return nil, entity.OrderItem{}, fmt.Errorf("quantity %q: %w", quantityStr, err)
	}
	centsStr, err := field(colPriceCents)
	if err != nil {
		return nil, entity.OrderItem{}, err
	}
	cents, err := strconv.ParseInt(centsStr, 10, 64)
	if err != nil {
		return nil, entity.OrderItem{}, fmt.Errorf("price %q: %w", centsStr, err)
	}

	item := entity.OrderItem{
		ArticleName: name,
		Quantity:    quantity,
		Price:       centsToEuros(cents),
	}
	return &entity.Order{ID: id, PickupDate: pickupDate}, item, nil
}

// centsToEuros converts the export's integer cent amounts exactly.
func centsToEuros(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func orderSum(items []entity.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Price.Mul(item.Quantity))
	}
	return sum
}
