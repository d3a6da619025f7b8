package shiftcount

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bullebakery/sales-unifier/constants"
	"github.com/bullebakery/sales-unifier/internal/entity"
)

// LoadDirectory reads all shift-count extract JSON files in dir and
// returns them keyed by report date (YYYY-MM-DD). A missing directory is
// not an error: the source simply contributes nothing. Files that fail
// to load are logged and skipped. If two files carry the same date the
// later one silently wins.
func LoadDirectory(dir string, logger *slog.Logger) (map[string]entity.ShiftReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	byDate := make(map[string]entity.ShiftReport)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("shiftcount.dir.missing", "dir", dir)
			return byDate, nil
		}
		return nil, err
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		reports, err := loadFile(path)
		if err != nil {
			logger.Warn("shiftcount.file.unreadable", "path", path, "error", err)
			continue
		}
		for date, report := range reports {
			byDate[date] = report
		}
	}

	logger.Info("shiftcount.dir.loaded", "dir", dir, "dates", len(byDate))
	return byDate, nil
}

// loadFile parses one extract file: an object keyed by date, each value
// being the day's report without its own report_date field.
func loadFile(path string) (map[string]entity.ShiftReport, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]shiftReportJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	reports := make(map[string]entity.ShiftReport, len(doc))
	for dateStr, day := range doc {
		reportDate, err := time.Parse(constants.DateLayout, dateStr)
		if err != nil {
			return nil, err
		}
		reports[dateStr] = entity.ShiftReport{
			ReportDate:    reportDate,
			ProductionDay: day.ProductionDay,
			SalesDay:      day.SalesDay,
			Articles:      day.Articles,
		}
	}
	return reports, nil
}
