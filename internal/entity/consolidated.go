package entity

import "github.com/shopspring/decimal"

// MasterArticleData holds the merged per-day figures for one master
// article. TotalSales and TotalQuantity accumulate across sources;
// Leftover and SoldOutTime are overwritten by the latest shift-count
// entry seen, not accumulated.
type MasterArticleData struct {
	MasterName    string          `json:"master_name"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	Leftover      *float64        `json:"leftover"`
	SoldOutTime   *string         `json:"sold_out_time"`
}

// NewMasterArticleData returns a zeroed bucket for a master article.
func NewMasterArticleData(masterName string) *MasterArticleData {
	return &MasterArticleData{
		MasterName:    masterName,
		TotalSales:    decimal.Zero,
		TotalQuantity: decimal.Zero,
	}
}

// ConsolidatedProductData is the finalized per-day aggregate across all
// three sources. Date is a YYYY-MM-DD string.
type ConsolidatedProductData struct {
	Date           string                        `json:"date"`
	TotalRevenue   decimal.Decimal               `json:"total_revenue"`
	MasterArticles map[string]*MasterArticleData `json:"master_articles"`
}

// UnmappedItemsReport lists, per source, the distinct article name
// variants for one date that had no lookup-table entry. Each list is
// deduplicated and keeps first-seen order. The JSON keys match the QC
// artifact format consumed downstream.
type UnmappedItemsReport struct {
	Date                 string   `json:"date"`
	UnmappedJournalItems []string `json:"unmapped_fiskal_items"`
	UnmappedShiftItems   []string `json:"unmapped_mengenlisten_items"`
	UnmappedOrderItems   []string `json:"unmapped_bestellungen_items"`
}

// Empty reports whether no source produced unmapped items for the date.
func (r *UnmappedItemsReport) Empty() bool {
	return len(r.UnmappedJournalItems) == 0 &&
		len(r.UnmappedShiftItems) == 0 &&
		len(r.UnmappedOrderItems) == 0
}
