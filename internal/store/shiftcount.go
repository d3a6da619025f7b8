package store

import (
	"github.com/bullebakery/sales-unifier/constants"
	"github.com/bullebakery/sales-unifier/internal/entity"
)

type shiftReportJSON struct {
	ProductionDay string                   `json:"production_day"`
	SalesDay      string                   `json:"sales_day"`
	Articles      []entity.ShiftCountEntry `json:"articles"`
}

// WriteShiftReport serializes one shift-count report keyed by its
// report date, the format the loader and the unifier consume.
func WriteShiftReport(report entity.ShiftReport, path string) error {
	out := map[string]shiftReportJSON{
		report.ReportDate.Format(constants.DateLayout): {
			ProductionDay: report.ProductionDay,
			SalesDay:      report.SalesDay,
			Articles:      report.Articles,
		},
	}
	return writeJSONFile(path, out)
}
