// Package lookup maps source-specific article name variants to their
// canonical master article. The table is loaded once per run and is
// immutable; resolution is exact string match only.
package lookup

import (
	"encoding/json"
	"fmt"
	"os"
)

// Table is the immutable variant-to-master mapping shared read-only by
// the unifier for the duration of a batch run.
type Table struct {
	variantToMaster map[string]string
}

// New builds a table from an in-memory mapping. The mapping is copied so
// later mutation of the argument cannot leak into the table.
func New(variantToMaster map[string]string) *Table {
	m := make(map[string]string, len(variantToMaster))
	for variant, master := range variantToMaster {
		m[variant] = master
	}
	return &Table{variantToMaster: m}
}

// Load reads the lookup table from its JSON file. The file carries a
// single "variant_to_master_lookup" object.
func Load(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lookup table: %w", err)
	}
	var doc struct {
		VariantToMaster map[string]string `json:"variant_to_master_lookup"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse lookup table %s: %w", path, err)
	}
	if doc.VariantToMaster == nil {
		return nil, fmt.Errorf("lookup table %s: missing variant_to_master_lookup", path)
	}
	return New(doc.VariantToMaster), nil
}

// Resolve returns the master article name for a variant. A miss is an
// expected outcome, not an error: callers feed it into the
// unmapped-items report.
func (t *Table) Resolve(variant string) (string, bool) {
	master, ok := t.variantToMaster[variant]
	return master, ok
}

// Len returns the number of known variants.
func (t *Table) Len() int {
	return len(t.variantToMaster)
}
