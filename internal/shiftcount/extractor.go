// Package shiftcount turns transcribed shift-count sheets into
// ShiftReport records and loads previously written extracts.
package shiftcount

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/bullebakery/sales-unifier/constants"
	"github.com/bullebakery/sales-unifier/internal/entity"
)

// Transcriber produces the raw JSON text for a shift-count PDF. The
// gemini client implements it; tests substitute a stub.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Extractor drives transcription and response parsing for shift-count
// PDFs. Files whose transcription fails or does not validate are
// recorded as unparsed, never fatal.
type Extractor struct {
	client Transcriber
	logger *slog.Logger

	schema        map[string]any
	unparsedFiles []string
}

func NewExtractor(client Transcriber, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		client: client,
		logger: logger,
		schema: BuildShiftReportSchema(),
	}
}

// ReadFile transcribes one PDF and parses the result. Returns nil (not
// an error) when the file could not be transcribed or validated; the
// file is then listed in UnparsedFiles.
func (e *Extractor) ReadFile(ctx context.Context, path string) (*entity.ShiftReport, error) {
	jsonText, err := e.client.Transcribe(ctx, path)
	if err != nil {
		e.logger.Error("shiftcount.transcribe.failed", "path", path, "error", err)
		e.unparsedFiles = append(e.unparsedFiles, path)
		return nil, nil
	}

	report, err := e.parseResponse([]byte(jsonText))
	if err != nil {
		e.logger.Error("shiftcount.parse.failed", "path", path, "error", err)
		e.unparsedFiles = append(e.unparsedFiles, path)
		return nil, nil
	}

	e.logger.Info("shiftcount.extract.ok",
		"path", path,
		"report_date", report.ReportDate.Format(constants.DateLayout),
		"articles", len(report.Articles),
	)
	return report, nil
}

// UnparsedFiles returns the paths of all files that yielded no report,
// in processing order.
func (e *Extractor) UnparsedFiles() []string {
	return e.unparsedFiles
}

// parseResponse validates the transcription against the schema and
// converts it into a ShiftReport.
func (e *Extractor) parseResponse(data []byte) (*entity.ShiftReport, error) {
	if err := ValidateJSONAgainstSchema(e.schema, data); err != nil {
		return nil, err
	}

	var doc map[string]shiftReportJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal transcription: %w", err)
	}

	// Schema guarantees exactly one date key.
	dates := make([]string, 0, len(doc))
	for d := range doc {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	dateStr := dates[0]

	reportDate, err := time.Parse(constants.DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("report date %q: %w", dateStr, err)
	}

	day := doc[dateStr]
	return &entity.ShiftReport{
		ReportDate:    reportDate,
		ProductionDay: day.ProductionDay,
		SalesDay:      day.SalesDay,
		Articles:      day.Articles,
	}, nil
}

type shiftReportJSON struct {
	ProductionDay string                   `json:"production_day"`
	SalesDay      string                   `json:"sales_day"`
	Articles      []entity.ShiftCountEntry `json:"articles"`
}
