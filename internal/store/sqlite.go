package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/bullebakery/sales-unifier/internal/entity"
)

// Archive keeps consolidated records queryable across runs in a local
// SQLite database. Numeric columns are TEXT holding decimal strings.
type Archive struct {
	db     *sql.DB
	logger *slog.Logger
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS consolidated_day (
	date          TEXT PRIMARY KEY,
	total_revenue TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS master_article (
	date           TEXT NOT NULL,
	master_name    TEXT NOT NULL,
	total_sales    TEXT NOT NULL,
	total_quantity TEXT NOT NULL,
	leftover       REAL,
	sold_out_time  TEXT,
	PRIMARY KEY (date, master_name)
);
`

// OpenArchive opens (and if needed initializes) the archive database.
// Use ":memory:" for an in-memory archive.
func OpenArchive(ctx context.Context, path string, logger *slog.Logger) (*Archive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.ExecContext(ctx, archiveSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init archive schema: %w", err)
	}
	logger.Info("archive.open", "path", path)
	return &Archive{db: db, logger: logger}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveMonth upserts all consolidated records of one month in a single
// transaction. Re-archiving a month replaces its rows.
func (a *Archive) SaveMonth(ctx context.Context, consolidated map[string]entity.ConsolidatedProductData) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for date, day := range consolidated {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO consolidated_day (date, total_revenue) VALUES (?, ?)
			 ON CONFLICT(date) DO UPDATE SET total_revenue = excluded.total_revenue`,
			date, day.TotalRevenue.String(),
		); err != nil {
			return fmt.Errorf("archive day %s: %w", date, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM master_article WHERE date = ?`, date); err != nil {
			return fmt.Errorf("archive day %s: clear articles: %w", date, err)
		}
		for _, article := range day.MasterArticles {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO master_article
				 (date, master_name, total_sales, total_quantity, leftover, sold_out_time)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				date, article.MasterName,
				article.TotalSales.String(), article.TotalQuantity.String(),
				article.Leftover, article.SoldOutTime,
			); err != nil {
				return fmt.Errorf("archive article %s/%s: %w", date, article.MasterName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	a.logger.Info("archive.save_month.ok", "dates", len(consolidated))
	return nil
}

// LoadDay reads one date's consolidated record back. Returns sql.ErrNoRows
// when the date was never archived.
func (a *Archive) LoadDay(ctx context.Context, date string) (entity.ConsolidatedProductData, error) {
	var revenueStr string
	err := a.db.QueryRowContext(ctx,
		`SELECT total_revenue FROM consolidated_day WHERE date = ?`, date,
	).Scan(&revenueStr)
	if err != nil {
		return entity.ConsolidatedProductData{}, err
	}
	revenue, err := decimal.NewFromString(revenueStr)
	if err != nil {
		return entity.ConsolidatedProductData{}, fmt.Errorf("archived revenue for %s: %w", date, err)
	}

	day := entity.ConsolidatedProductData{
		Date:           date,
		TotalRevenue:   revenue,
		MasterArticles: make(map[string]*entity.MasterArticleData),
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT master_name, total_sales, total_quantity, leftover, sold_out_time
		 FROM master_article WHERE date = ?`, date)
	if err != nil {
		return entity.ConsolidatedProductData{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, salesStr, quantityStr string
			leftover                    sql.NullFloat64
			soldOut                     sql.NullString
		)
		if err := rows.Scan(&name, &salesStr, &quantityStr, &leftover, &soldOut); err != nil {
			return entity.ConsolidatedProductData{}, err
		}
		sales, err := decimal.NewFromString(salesStr)
		if err != nil {
			return entity.ConsolidatedProductData{}, fmt.Errorf("archived sales for %s/%s: %w", date, name, err)
		}
		quantity, err := decimal.NewFromString(quantityStr)
		if err != nil {
			return entity.ConsolidatedProductData{}, fmt.Errorf("archived quantity for %s/%s: %w", date, name, err)
		}
		article := &entity.MasterArticleData{
			MasterName:    name,
			TotalSales:    sales,
			TotalQuantity: quantity,
		}
		if leftover.Valid {
			article.Leftover = &leftover.Float64
		}
		if soldOut.Valid {
			article.SoldOutTime = &soldOut.String
		}
		day.MasterArticles[name] = article
	}
	if err := rows.Err(); err != nil {
		return entity.ConsolidatedProductData{}, err
	}
	return day, nil
}

// Dates returns all archived dates in ascending order.
func (a *Archive) Dates(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT date FROM consolidated_day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(dates)
	return dates, nil
}
