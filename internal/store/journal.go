// Package store reads and writes the durable artifacts of a run: source
// extracts, consolidated per-date records, QC reports and the optional
// SQLite archive. All numeric values travel as decimal strings so they
// round-trip exactly.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bullebakery/sales-unifier/constants"
	"github.com/bullebakery/sales-unifier/internal/entity"
)

// Wire format of the journal extract, matching what downstream tooling
// already consumes: every numeric field is a string.
type journalArticleJSON struct {
	ArticleName    string `json:"article_name"`
	ArticleNumber  string `json:"article_number"`
	Quantity       string `json:"quantity"`
	Category       string `json:"category"`
	CategoryNumber string `json:"category_number"`
	Price          string `json:"price"`
}

type journalSaleJSON struct {
	Article journalArticleJSON `json:"article"`
}

type journalTransactionJSON struct {
	UUID       string            `json:"UUID"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	BillNumber string            `json:"bill_number"`
	Sales      []journalSaleJSON `json:"sales"`
	Sum        string            `json:"sum"`
}

// WriteJournalExtract serializes transactions to the extract JSON file.
func WriteJournalExtract(transactions []entity.Transaction, path string) error {
	out := make([]journalTransactionJSON, 0, len(transactions))
	for _, txn := range transactions {
		rec := journalTransactionJSON{
			UUID:       txn.UUID,
			Date:       txn.Date.Format(constants.DateLayout),
			Time:       txn.Date.Format(constants.TimeLayout),
			BillNumber: strconv.Itoa(txn.BillNumber),
			Sales:      make([]journalSaleJSON, 0, len(txn.Items)),
			Sum:        txn.TotalGross.String(),
		}
		for _, item := range txn.Items {
			rec.Sales = append(rec.Sales, journalSaleJSON{Article: journalArticleJSON{
				ArticleName:    item.ArticleName,
				ArticleNumber:  strconv.Itoa(item.ArticleNumber),
				Quantity:       item.Quantity.String(),
				Category:       item.Category,
				CategoryNumber: strconv.Itoa(item.CategoryNumber),
				Price:          item.Price.String(),
			}})
		}
		out = append(out, rec)
	}
	return writeJSONFile(path, out)
}

// ReadJournalExtract loads an extract file back into Transaction records.
func ReadJournalExtract(path string) ([]entity.Transaction, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []journalTransactionJSON
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("parse journal extract %s: %w", path, err)
	}

	transactions := make([]entity.Transaction, 0, len(records))
	for i, rec := range records {
		ts, err := time.Parse(constants.DateLayout+" "+constants.TimeLayout, rec.Date+" "+rec.Time)
		if err != nil {
			return nil, fmt.Errorf("journal extract %s record %d: timestamp: %w", path, i, err)
		}
		billNumber, err := strconv.Atoi(rec.BillNumber)
		if err != nil {
			return nil, fmt.Errorf("journal extract %s record %d: bill number: %w", path, i, err)
		}
		sum, err := decimal.NewFromString(rec.Sum)
		if err != nil {
			return nil, fmt.Errorf("journal extract %s record %d: sum: %w", path, i, err)
		}

		txn := entity.Transaction{
			UUID:       rec.UUID,
			Date:       ts,
			BillNumber: billNumber,
			TotalGross: sum,
		}
		for j, sale := range rec.Sales {
			item, err := saleToLineItem(sale.Article)
			if err != nil {
				return nil, fmt.Errorf("journal extract %s record %d sale %d: %w", path, i, j, err)
			}
			txn.Items = append(txn.Items, item)
		}
		transactions = append(transactions, txn)
	}
	return transactions, nil
}

func saleToLineItem(a journalArticleJSON) (entity.LineItem, error) {
	articleNumber, err := strconv.Atoi(a.ArticleNumber)
	if err != nil {
		return entity.LineItem{}, fmt.Errorf("article number: %w", err)
	}
	categoryNumber, err := strconv.Atoi(a.CategoryNumber)
	if err != nil {
		return entity.LineItem{}, fmt.Errorf("category number: %w", err)
	}
	quantity, err := decimal.NewFromString(a.Quantity)
	if err != nil {
		return entity.LineItem{}, fmt.Errorf("quantity: %w", err)
	}
	price, err := decimal.NewFromString(a.Price)
	if err != nil {
		return entity.LineItem{}, fmt.Errorf("price: %w", err)
	}
	return entity.LineItem{
		ArticleNumber:  articleNumber,
		ArticleName:    a.ArticleName,
		Quantity:       quantity,
		Category:       a.Category,
		CategoryNumber: categoryNumber,
		Price:          price,
	}, nil
}
