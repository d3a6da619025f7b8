// Package export renders consolidated data as an XLSX workbook for the
// planning spreadsheet crowd.
package export

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/bullebakery/sales-unifier/internal/entity"
)

// WriteMonthlyReport writes one sheet of per-date, per-article rows plus
// a daily revenue summary sheet.
func WriteMonthlyReport(consolidated map[string]entity.ConsolidatedProductData, path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	f := excelize.NewFile()
	const articleSheet = "Articles"
	const daySheet = "Daily Revenue"

	if err := f.SetSheetName("Sheet1", articleSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(daySheet); err != nil {
		return err
	}

	headers := []string{"Date", "Master Article", "Total Sales", "Total Quantity", "Leftover", "Sold Out"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(articleSheet, cell, h)
	}
	for i, h := range []string{"Date", "Total Revenue"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(daySheet, cell, h)
	}

	dates := make([]string, 0, len(consolidated))
	for d := range consolidated {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	articleRow := 2
	for dayRow, date := range dates {
		day := consolidated[date]

		write := func(sheet string, row, col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(daySheet, dayRow+2, 1, date)
		write(daySheet, dayRow+2, 2, day.TotalRevenue.String())

		names := make([]string, 0, len(day.MasterArticles))
		for name := range day.MasterArticles {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			article := day.MasterArticles[name]
			write(articleSheet, articleRow, 1, date)
			write(articleSheet, articleRow, 2, article.MasterName)
			write(articleSheet, articleRow, 3, article.TotalSales.String())
			write(articleSheet, articleRow, 4, article.TotalQuantity.String())
			if article.Leftover != nil {
				write(articleSheet, articleRow, 5, *article.Leftover)
			}
			if article.SoldOutTime != nil {
				write(articleSheet, articleRow, 6, *article.SoldOutTime)
			}
			articleRow++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	logger.Info("export.xlsx.ok", "path", path, "dates", len(dates), "article_rows", articleRow-2)
	return nil
}
