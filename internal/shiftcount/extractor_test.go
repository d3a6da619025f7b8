package shiftcount

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTranscriber struct {
	response string
	err      error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	return s.response, s.err
}

const validResponse = `{
  "2024-04-11": {
    "production_day": "Mittwoch",
    "sales_day": "Donnerstag",
    "articles": [
      {"article_name": "Roggenmischbrot", "stock": 12, "leftover": 3.0, "sold_out": null},
      {"article_name": "Brezel", "stock": null, "leftover": null, "sold_out": "14:20"}
    ]
  }
}`

func TestReadFileParsesValidResponse(t *testing.T) {
	e := NewExtractor(&stubTranscriber{response: validResponse}, nil)

	report, err := e.ReadFile(context.Background(), "mengenliste.pdf")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, "2024-04-11", report.ReportDate.Format("2006-01-02"))
	assert.Equal(t, "Mittwoch", report.ProductionDay)
	assert.Equal(t, "Donnerstag", report.SalesDay)
	require.Len(t, report.Articles, 2)

	first := report.Articles[0]
	assert.Equal(t, "Roggenmischbrot", first.ArticleName)
	require.NotNil(t, first.Stock)
	assert.Equal(t, 12, *first.Stock)
	require.NotNil(t, first.Leftover)
	assert.Equal(t, 3.0, *first.Leftover)
	assert.Nil(t, first.SoldOut)

	second := report.Articles[1]
	assert.Nil(t, second.Stock)
	require.NotNil(t, second.SoldOut)
	assert.Equal(t, "14:20", *second.SoldOut)

	assert.Empty(t, e.UnparsedFiles())
}

func TestReadFileTranscriptionErrorIsNotFatal(t *testing.T) {
	e := NewExtractor(&stubTranscriber{err: errors.New("api unavailable")}, nil)

	report, err := e.ReadFile(context.Background(), "broken.pdf")
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Equal(t, []string{"broken.pdf"}, e.UnparsedFiles())
}

func TestReadFileInvalidJSONRecordsUnparsed(t *testing.T) {
	e := NewExtractor(&stubTranscriber{response: "not json at all"}, nil)

	report, err := e.ReadFile(context.Background(), "garbled.pdf")
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Equal(t, []string{"garbled.pdf"}, e.UnparsedFiles())
}

func TestReadFileSchemaViolationRecordsUnparsed(t *testing.T) {
	// Missing required "articles" key.
	bad := `{"2024-04-11": {"production_day": "Mittwoch", "sales_day": "Donnerstag"}}`
	e := NewExtractor(&stubTranscriber{response: bad}, nil)

	report, err := e.ReadFile(context.Background(), "bad.pdf")
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Len(t, e.UnparsedFiles(), 1)
}

func TestValidateShiftReportSchema(t *testing.T) {
	schema := BuildShiftReportSchema()

	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(validResponse)))

	rejected := []struct {
		name string
		body string
	}{
		{"non date key", `{"yesterday": {"production_day": "a", "sales_day": "b", "articles": []}}`},
		{"two date keys", `{"2024-04-11": {"production_day": "a", "sales_day": "b", "articles": []},
			"2024-04-12": {"production_day": "a", "sales_day": "b", "articles": []}}`},
		{"empty object", `{}`},
		{"missing article name", `{"2024-04-11": {"production_day": "a", "sales_day": "b",
			"articles": [{"stock": 1}]}}`},
		{"string leftover", `{"2024-04-11": {"production_day": "a", "sales_day": "b",
			"articles": [{"article_name": "Brezel", "leftover": "drei"}]}}`},
	}
	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(tc.body)))
		})
	}
}
