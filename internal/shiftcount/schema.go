package shiftcount

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildShiftReportSchema returns the JSON-Schema (draft 2020-12 subset)
// that transcription responses must satisfy: a single object keyed by
// the report date, holding the day labels and the article table.
func BuildShiftReportSchema() map[string]any {
	entry := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"article_name": map[string]any{"type": "string", "minLength": 1},
			"stock":        map[string]any{"type": []string{"integer", "null"}},
			"leftover":     map[string]any{"type": []string{"number", "null"}},
			"sold_out":     map[string]any{"type": []string{"string", "null"}},
		},
		"required": []string{"article_name"},
	}
	day := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"production_day": map[string]any{"type": "string"},
			"sales_day":      map[string]any{"type": "string"},
			"articles":       map[string]any{"type": "array", "items": entry},
		},
		"required": []string{"production_day", "sales_day", "articles"},
	}
	return map[string]any{
		"type":          "object",
		"minProperties": 1,
		"maxProperties": 1,
		"patternProperties": map[string]any{
			`^\d{4}-\d{2}-\d{2}$`: day,
		},
		"additionalProperties": false,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
