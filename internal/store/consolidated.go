package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bullebakery/sales-unifier/internal/entity"
)

// WriteConsolidated serializes the per-date consolidated records of one
// month, keyed by date. Decimal fields marshal as strings, so values
// round-trip without precision loss.
func WriteConsolidated(consolidated map[string]entity.ConsolidatedProductData, path string) error {
	return writeJSONFile(path, consolidated)
}

// ReadConsolidated loads a consolidated month file.
func ReadConsolidated(path string) (map[string]entity.ConsolidatedProductData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]entity.ConsolidatedProductData
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse consolidated file %s: %w", path, err)
	}
	return doc, nil
}

// WriteUnmappedReport writes one date's QC report into qcDir as
// unmapped_items_<date>.json.
func WriteUnmappedReport(report entity.UnmappedItemsReport, qcDir string) error {
	path := filepath.Join(qcDir, fmt.Sprintf("unmapped_items_%s.json", report.Date))
	return writeJSONFile(path, report)
}
