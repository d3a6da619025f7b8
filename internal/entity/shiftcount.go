package entity

import "time"

// ShiftCountEntry is a single article row on a transcribed shift-count
// sheet. Missing optional fields stay nil, never empty strings.
type ShiftCountEntry struct {
	ArticleName string   `json:"article_name"`
	Stock       *int     `json:"stock"`
	Leftover    *float64 `json:"leftover"`
	SoldOut     *string  `json:"sold_out"`
}

// ShiftReport is one date's shift-count report. There is at most one
// report per calendar date.
type ShiftReport struct {
	ReportDate    time.Time         `json:"report_date"`
	ProductionDay string            `json:"production_day"`
	SalesDay      string            `json:"sales_day"`
	Articles      []ShiftCountEntry `json:"articles"`
}
