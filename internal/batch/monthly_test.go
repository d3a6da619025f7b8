package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bullebakery/sales-unifier/internal/entity"
	"github.com/bullebakery/sales-unifier/internal/lookup"
	"github.com/bullebakery/sales-unifier/internal/store"
	"github.com/bullebakery/sales-unifier/internal/unify"
)

func TestMonthKeyFromJournalFilename(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		found bool
	}{
		{"Birke April 2023.txt.json", "2023-04", true},
		{"Birke Fabruar 2023.txt.json", "2023-02", true},
		{"Birke Februar 2024.txt.json", "2024-02", true},
		{"Birke Maerz 2023.txt.json", "2023-03", true},
		{"Birke März 2023.txt.json", "2023-03", true},
		{"Birke Dezember 2022.txt.json", "2022-12", true},
		{"kassenbericht.json", "", false},
		{"Birke April.txt.json", "", false},
	}
	for _, tc := range tests {
		got, ok := MonthKeyFromJournalFilename(tc.name)
		assert.Equal(t, tc.found, ok, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestMonthKeyFromDate(t *testing.T) {
	assert.Equal(t, "2024-04", MonthKeyFromDate("2024-04-11"))
	assert.Equal(t, "2024-04", MonthKeyFromDate("2024-04"))
	assert.Equal(t, "x", MonthKeyFromDate("x"))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testDirs(t *testing.T) Dirs {
	t.Helper()
	root := t.TempDir()
	dirs := Dirs{
		JournalExtractDir: filepath.Join(root, "journal"),
		ShiftCountDir:     filepath.Join(root, "shift"),
		OrdersExtractDir:  filepath.Join(root, "orders"),
		UnifiedDir:        filepath.Join(root, "unified"),
		QCDir:             filepath.Join(root, "qc"),
	}
	for _, d := range []string{dirs.JournalExtractDir, dirs.ShiftCountDir, dirs.OrdersExtractDir} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
	return dirs
}

func writeJournalExtract(t *testing.T, dirs Dirs, name string, txns []entity.Transaction) {
	t.Helper()
	require.NoError(t, store.WriteJournalExtract(txns, filepath.Join(dirs.JournalExtractDir, name)))
}

func testRunner(dirs Dirs) *Runner {
	table := lookup.New(map[string]string{
		"Roggenmischbrot": "Brot Mix",
		"Brezel":          "Brezel",
	})
	return NewRunner(unify.New(table, nil), dirs, nil)
}

func TestRunProcessesMonthWithJournalData(t *testing.T) {
	dirs := testDirs(t)
	txn := entity.Transaction{
		UUID:       "u-1",
		Date:       time.Date(2023, 4, 11, 9, 0, 0, 0, time.UTC),
		BillNumber: 1,
		Items: []entity.LineItem{{
			ArticleNumber: 71, ArticleName: "Roggenmischbrot",
			Quantity: dec("1"), Category: "Brot", CategoryNumber: 3, Price: dec("4.90"),
		}},
		TotalGross: dec("4.90"),
	}
	writeJournalExtract(t, dirs, "Birke April 2023.txt.json", []entity.Transaction{txn})

	results, skipped, err := testRunner(dirs).Run()
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "2023-04", res.Month)
	assert.Equal(t, 1, res.Dates)
	assert.Equal(t, 0, res.UnmappedDays)

	consolidated, err := store.ReadConsolidated(res.OutputPath)
	require.NoError(t, err)
	day := consolidated["2023-04-11"]
	assert.True(t, day.TotalRevenue.Equal(dec("4.90")))
	require.Contains(t, day.MasterArticles, "Brot Mix")
}

func TestRunSkipsMonthWithoutJournalData(t *testing.T) {
	dirs := testDirs(t)
	orders := []entity.Order{{
		ID:         "o1",
		PickupDate: time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC),
		Items:      []entity.OrderItem{{ArticleName: "Brezel", Quantity: dec("2"), Price: dec("1.10")}},
		Sum:        dec("2.20"),
	}}
	require.NoError(t, store.WriteOrdersExtract(orders,
		filepath.Join(dirs.OrdersExtractDir, "bestellungen_2023-05.json")))

	results, skipped, err := testRunner(dirs).Run()
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, []string{"2023-05"}, skipped)
}

func TestRunMergesShiftReportsAndWritesQCReports(t *testing.T) {
	dirs := testDirs(t)
	txn := entity.Transaction{
		UUID:       "u-2",
		Date:       time.Date(2023, 4, 11, 9, 0, 0, 0, time.UTC),
		BillNumber: 2,
		Items: []entity.LineItem{{
			ArticleNumber: 99, ArticleName: "Mystery Cake",
			Quantity: dec("1"), Price: dec("3.00"),
		}},
		TotalGross: dec("3.00"),
	}
	writeJournalExtract(t, dirs, "Birke April 2023.txt.json", []entity.Transaction{txn})

	shiftExtract := `{
		"2023-04-11": {
			"production_day": "Montag",
			"sales_day": "Dienstag",
			"articles": [{"article_name": "Brezel", "leftover": 5.0}]
		}
	}`
	require.NoError(t, os.WriteFile(
		filepath.Join(dirs.ShiftCountDir, "2023-04-11.json"), []byte(shiftExtract), 0o644))

	results, skipped, err := testRunner(dirs).Run()
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].UnmappedDays)

	consolidated, err := store.ReadConsolidated(results[0].OutputPath)
	require.NoError(t, err)
	day := consolidated["2023-04-11"]
	brezel := day.MasterArticles["Brezel"]
	require.NotNil(t, brezel)
	require.NotNil(t, brezel.Leftover)
	assert.Equal(t, 5.0, *brezel.Leftover)

	qc, err := os.ReadFile(filepath.Join(dirs.QCDir, "unmapped_items_2023-04-11.json"))
	require.NoError(t, err)
	assert.Contains(t, string(qc), "Mystery Cake")
}
