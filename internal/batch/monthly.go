// Package batch drives the monthly unification run: it discovers the
// extract files of all three sources, groups them by month, and feeds
// each month through the unifier. Policy decisions about missing
// sources live here, not in the unifier.
package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bullebakery/sales-unifier/internal/entity"
	"github.com/bullebakery/sales-unifier/internal/shiftcount"
	"github.com/bullebakery/sales-unifier/internal/store"
	"github.com/bullebakery/sales-unifier/internal/unify"
)

// German month names as they appear in journal dump filenames, including
// the misspellings that actually occur in the data.
var germanMonths = map[string]string{
	"Januar": "01", "Februar": "02", "Fabruar": "02",
	"Maerz": "03", "März": "03",
	"April": "04", "Mai": "05", "Juni": "06", "Juli": "07",
	"August": "08", "September": "09", "Oktober": "10",
	"November": "11", "Dezember": "12",
}

var (
	reYear       = regexp.MustCompile(`(20\d{2})`)
	reOrdersFile = regexp.MustCompile(`^bestellungen_(\d{4}-\d{2})\.json$`)
	reDateStem   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// MonthKeyFromJournalFilename derives the YYYY-MM key from a journal
// extract filename like "Birke April 2023.txt.json".
func MonthKeyFromJournalFilename(name string) (string, bool) {
	for monthName, monthNum := range germanMonths {
		if !strings.Contains(name, monthName) {
			continue
		}
		if m := reYear.FindStringSubmatch(name); m != nil {
			return m[1] + "-" + monthNum, true
		}
	}
	return "", false
}

// MonthKeyFromDate truncates a YYYY-MM-DD string to its YYYY-MM key.
func MonthKeyFromDate(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// Dirs names the file layout of one run.
type Dirs struct {
	JournalExtractDir string
	ShiftCountDir     string
	OrdersExtractDir  string
	UnifiedDir        string
	QCDir             string
}

// MonthResult summarizes one processed month.
type MonthResult struct {
	Month        string
	Dates        int
	UnmappedDays int
	OutputPath   string
}

// Runner executes the monthly batch.
type Runner struct {
	unifier *unify.Unifier
	dirs    Dirs
	logger  *slog.Logger
}

func NewRunner(unifier *unify.Unifier, dirs Dirs, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{unifier: unifier, dirs: dirs, logger: logger}
}

// Run processes every month that has any source data. Months without a
// journal extract are skipped with a notice: journal coverage is the
// driver's explicit precondition, even though the unifier itself would
// accept any combination of sources. Per-month failures are logged and
// do not abort the batch. Returns the results of the processed months
// and the keys of skipped months.
func (r *Runner) Run() ([]MonthResult, []string, error) {
	journalByMonth, err := r.discoverJournalExtracts()
	if err != nil {
		return nil, nil, err
	}
	ordersByMonth, err := r.discoverOrdersExtracts()
	if err != nil {
		return nil, nil, err
	}
	shiftByMonth, err := r.discoverShiftReports()
	if err != nil {
		return nil, nil, err
	}

	months := make(map[string]struct{})
	for m := range journalByMonth {
		months[m] = struct{}{}
	}
	for m := range ordersByMonth {
		months[m] = struct{}{}
	}
	for m := range shiftByMonth {
		months[m] = struct{}{}
	}

	sorted := make([]string, 0, len(months))
	for m := range months {
		sorted = append(sorted, m)
	}
	sort.Strings(sorted)

	var results []MonthResult
	var skipped []string
	for _, month := range sorted {
		journalPath, ok := journalByMonth[month]
		if !ok {
			r.logger.Warn("batch.month.skipped", "month", month, "reason", "missing journal data")
			skipped = append(skipped, month)
			continue
		}

		res, err := r.processMonth(month, journalPath, ordersByMonth[month], shiftByMonth[month])
		if err != nil {
			r.logger.Error("batch.month.failed", "month", month, "error", err)
			continue
		}
		results = append(results, res)
	}

	r.logger.Info("batch.run.ok", "processed", len(results), "skipped", len(skipped))
	return results, skipped, nil
}

func (r *Runner) processMonth(month, journalPath, ordersPath string, shiftReports map[string]entity.ShiftReport) (MonthResult, error) {
	transactions, err := store.ReadJournalExtract(journalPath)
	if err != nil {
		return MonthResult{}, fmt.Errorf("journal extract: %w", err)
	}

	var orders []entity.Order
	if ordersPath != "" {
		orders, err = store.ReadOrdersExtract(ordersPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return MonthResult{}, fmt.Errorf("orders extract: %w", err)
			}
			orders = nil
		}
	}

	if shiftReports == nil {
		shiftReports = map[string]entity.ShiftReport{}
	}

	r.logger.Info("batch.month.start",
		"month", month,
		"transactions", len(transactions),
		"orders", len(orders),
		"shift_reports", len(shiftReports),
	)

	result := r.unifier.Unify(transactions, shiftReports, orders)

	outputPath := filepath.Join(r.dirs.UnifiedDir, fmt.Sprintf("consolidated_%s.json", month))
	if err := store.WriteConsolidated(result.Consolidated, outputPath); err != nil {
		return MonthResult{}, fmt.Errorf("write consolidated: %w", err)
	}
	for _, report := range result.Unmapped {
		if err := store.WriteUnmappedReport(report, r.dirs.QCDir); err != nil {
			return MonthResult{}, fmt.Errorf("write qc report: %w", err)
		}
	}

	return MonthResult{
		Month:        month,
		Dates:        len(result.Consolidated),
		UnmappedDays: len(result.Unmapped),
		OutputPath:   outputPath,
	}, nil
}

// discoverJournalExtracts maps month keys to journal extract paths.
func (r *Runner) discoverJournalExtracts() (map[string]string, error) {
	entries, err := os.ReadDir(r.dirs.JournalExtractDir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	byMonth := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if month, ok := MonthKeyFromJournalFilename(e.Name()); ok {
			byMonth[month] = filepath.Join(r.dirs.JournalExtractDir, e.Name())
		}
	}
	return byMonth, nil
}

// discoverOrdersExtracts maps month keys to bestellungen_YYYY-MM.json paths.
func (r *Runner) discoverOrdersExtracts() (map[string]string, error) {
	entries, err := os.ReadDir(r.dirs.OrdersExtractDir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	byMonth := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m := reOrdersFile.FindStringSubmatch(e.Name()); m != nil {
			byMonth[m[1]] = filepath.Join(r.dirs.OrdersExtractDir, e.Name())
		}
	}
	return byMonth, nil
}

// discoverShiftReports loads all shift-count extracts once and groups
// them into per-month maps keyed by date.
func (r *Runner) discoverShiftReports() (map[string]map[string]entity.ShiftReport, error) {
	all, err := shiftcount.LoadDirectory(r.dirs.ShiftCountDir, r.logger)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[string]map[string]entity.ShiftReport)
	for date, report := range all {
		if !reDateStem.MatchString(date) {
			continue
		}
		month := MonthKeyFromDate(date)
		if byMonth[month] == nil {
			byMonth[month] = make(map[string]entity.ShiftReport)
		}
		byMonth[month][date] = report
	}
	return byMonth, nil
}
