package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bullebakery/sales-unifier/internal/entity"
)

func sampleConsolidated() map[string]entity.ConsolidatedProductData {
	leftover := 3.0
	soldOut := "14:20"
	return map[string]entity.ConsolidatedProductData{
		"2024-04-11": {
			Date:         "2024-04-11",
			TotalRevenue: dec("5.65"),
			MasterArticles: map[string]*entity.MasterArticleData{
				"Brot Mix": {
					MasterName:    "Brot Mix",
					TotalSales:    dec("2.45"),
					TotalQuantity: dec("0.5"),
					Leftover:      &leftover,
					SoldOutTime:   &soldOut,
				},
				"Brezel": {
					MasterName:    "Brezel",
					TotalSales:    dec("3.20"),
					TotalQuantity: dec("2"),
				},
			},
		},
	}
}

func TestConsolidatedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consolidated_2024-04.json")
	original := sampleConsolidated()

	require.NoError(t, WriteConsolidated(original, path))

	loaded, err := ReadConsolidated(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	day := loaded["2024-04-11"]
	assert.Equal(t, "2024-04-11", day.Date)
	assert.True(t, day.TotalRevenue.Equal(dec("5.65")))
	require.Len(t, day.MasterArticles, 2)

	brot := day.MasterArticles["Brot Mix"]
	require.NotNil(t, brot)
	assert.True(t, brot.TotalSales.Equal(dec("2.45")))
	assert.True(t, brot.TotalQuantity.Equal(dec("0.5")))
	require.NotNil(t, brot.Leftover)
	assert.Equal(t, 3.0, *brot.Leftover)
	require.NotNil(t, brot.SoldOutTime)
	assert.Equal(t, "14:20", *brot.SoldOutTime)

	brezel := day.MasterArticles["Brezel"]
	require.NotNil(t, brezel)
	assert.Nil(t, brezel.Leftover)
	assert.Nil(t, brezel.SoldOutTime)
}

func TestWriteUnmappedReportFilename(t *testing.T) {
	qcDir := t.TempDir()
	report := entity.UnmappedItemsReport{
		Date:                 "2024-04-11",
		UnmappedJournalItems: []string{"Mystery Cake"},
	}

	require.NoError(t, WriteUnmappedReport(report, qcDir))

	b, err := os.ReadFile(filepath.Join(qcDir, "unmapped_items_2024-04-11.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "Mystery Cake")
	assert.Contains(t, string(b), "unmapped_fiskal_items")
}

func TestWriteJSONFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.json")
	require.NoError(t, writeJSONFile(path, map[string]string{"a": "b"}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
