// Package unify merges journal transactions, shift-count reports and
// pre-orders into one consolidated record per calendar date, resolving
// article identities through the lookup table and tracking everything
// that could not be mapped.
package unify

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/bullebakery/sales-unifier/constants"
	"github.com/bullebakery/sales-unifier/internal/entity"
	"github.com/bullebakery/sales-unifier/internal/lookup"
)

// Unifier folds the three sources into per-date aggregates. The lookup
// table is shared read-only across all dates of a run.
type Unifier struct {
	table  *lookup.Table
	logger *slog.Logger
}

// Result carries one consolidated record per date in the union of all
// source dates, plus an unmapped-items report for every date where at
// least one source produced an unmappable article name.
type Result struct {
	Consolidated map[string]entity.ConsolidatedProductData
	Unmapped     map[string]entity.UnmappedItemsReport
}

func New(table *lookup.Table, logger *slog.Logger) *Unifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Unifier{table: table, logger: logger}
}

// Unify merges the sources for one operating period. Shift-count reports
// are keyed by their YYYY-MM-DD report date. A source with no data for a
// date simply contributes nothing; every date that appears in any source
// yields exactly one consolidated record.
func (u *Unifier) Unify(
	transactions []entity.Transaction,
	shiftReports map[string]entity.ShiftReport,
	orders []entity.Order,
) Result {
	journalByDate := groupTransactionsByDate(transactions)
	ordersByDate := groupOrdersByDate(orders)

	dates := make(map[string]struct{})
	for d := range journalByDate {
		dates[d] = struct{}{}
	}
	for d := range shiftReports {
		dates[d] = struct{}{}
	}
	for d := range ordersByDate {
		dates[d] = struct{}{}
	}

	res := Result{
		Consolidated: make(map[string]entity.ConsolidatedProductData, len(dates)),
		Unmapped:     make(map[string]entity.UnmappedItemsReport),
	}

	for date := range dates {
		buckets := make(map[string]*entity.MasterArticleData)

		// Source precedence: journal, then shift-count, then pre-order.
		// Later sources may create buckets the journal never touched.
		unmappedJournal := u.foldJournal(journalByDate[date], buckets)

		var unmappedShift []string
		if report, ok := shiftReports[date]; ok {
			unmappedShift = u.foldShiftReport(report, buckets)
		}

		unmappedOrders := u.foldOrders(ordersByDate[date], buckets)

		totalRevenue := decimal.Zero
		for _, bucket := range buckets {
			totalRevenue = totalRevenue.Add(bucket.TotalSales)
		}

		res.Consolidated[date] = entity.ConsolidatedProductData{
			Date:           date,
			TotalRevenue:   totalRevenue,
			MasterArticles: buckets,
		}

		report := entity.UnmappedItemsReport{
			Date:                 date,
			UnmappedJournalItems: unmappedJournal,
			UnmappedShiftItems:   unmappedShift,
			UnmappedOrderItems:   unmappedOrders,
		}
		if !report.Empty() {
			res.Unmapped[date] = report
			u.logger.Warn("unify.date.unmapped_items",
				"date", date,
				string(constants.SourceJournal), len(report.UnmappedJournalItems),
				string(constants.SourceShiftCount), len(report.UnmappedShiftItems),
				string(constants.SourcePreOrder), len(report.UnmappedOrderItems),
			)
		}
	}

	u.logger.Info("unify.ok", "dates", len(res.Consolidated), "dates_with_unmapped", len(res.Unmapped))
	return res
}

// foldJournal adds every resolvable journal line item into its master
// bucket: the line price is already a total, so it is added as-is.
func (u *Unifier) foldJournal(transactions []entity.Transaction, buckets map[string]*entity.MasterArticleData) []string {
	var unmapped []string
	for _, txn := range transactions {
		for _, item := range txn.Items {
			master, ok := u.table.Resolve(item.ArticleName)
			if !ok {
				unmapped = appendUnique(unmapped, item.ArticleName)
				continue
			}
			bucket := upsert(buckets, master)
			bucket.TotalSales = bucket.TotalSales.Add(item.Price)
			bucket.TotalQuantity = bucket.TotalQuantity.Add(item.Quantity)
		}
	}
	return unmapped
}

// foldShiftReport overwrites leftover and sold-out signals on existing
// buckets, creating the bucket if the article never sold that day.
func (u *Unifier) foldShiftReport(report entity.ShiftReport, buckets map[string]*entity.MasterArticleData) []string {
	var unmapped []string
	for _, entry := range report.Articles {
		master, ok := u.table.Resolve(entry.ArticleName)
		if !ok {
			unmapped = appendUnique(unmapped, entry.ArticleName)
			continue
		}
		bucket := upsert(buckets, master)
		bucket.Leftover = entry.Leftover
		bucket.SoldOutTime = entry.SoldOut
	}
	return unmapped
}

// foldOrders adds pre-order line items; order prices are unit prices, so
// the line total is price * quantity.
func (u *Unifier) foldOrders(orders []entity.Order, buckets map[string]*entity.MasterArticleData) []string {
	var unmapped []string
	for _, order := range orders {
		for _, item := range order.Items {
			master, ok := u.table.Resolve(item.ArticleName)
			if !ok {
				unmapped = appendUnique(unmapped, item.ArticleName)
				continue
			}
			bucket := upsert(buckets, master)
			bucket.TotalSales = bucket.TotalSales.Add(item.Price.Mul(item.Quantity))
			bucket.TotalQuantity = bucket.TotalQuantity.Add(item.Quantity)
		}
	}
	return unmapped
}

// upsert returns the bucket for a master name, creating a zeroed one on
// first touch.
func upsert(buckets map[string]*entity.MasterArticleData, master string) *entity.MasterArticleData {
	if bucket, ok := buckets[master]; ok {
		return bucket
	}
	bucket := entity.NewMasterArticleData(master)
	buckets[master] = bucket
	return bucket
}

func appendUnique(list []string, name string) []string {
	for _, existing := range list {
		if existing == name {
			return list
		}
	}
	return append(list, name)
}

func groupTransactionsByDate(transactions []entity.Transaction) map[string][]entity.Transaction {
	byDate := make(map[string][]entity.Transaction)
	for _, txn := range transactions {
		date := txn.Date.Format(constants.DateLayout)
		byDate[date] = append(byDate[date], txn)
	}
	return byDate
}

func groupOrdersByDate(orders []entity.Order) map[string][]entity.Order {
	byDate := make(map[string][]entity.Order)
	for _, order := range orders {
		date := order.PickupDate.Format(constants.DateLayout)
		byDate[date] = append(byDate[date], order)
	}
	return byDate
}
