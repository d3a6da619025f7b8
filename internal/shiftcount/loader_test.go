package shiftcount

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExtract(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir, "2024-04-11.json", `{
		"2024-04-11": {
			"production_day": "Mittwoch",
			"sales_day": "Donnerstag",
			"articles": [{"article_name": "Brezel", "stock": 20}]
		}
	}`)
	writeExtract(t, dir, "2024-04-12.json", `{
		"2024-04-12": {
			"production_day": "Donnerstag",
			"sales_day": "Freitag",
			"articles": []
		}
	}`)
	writeExtract(t, dir, "notes.txt", "ignored")

	byDate, err := LoadDirectory(dir, nil)
	require.NoError(t, err)
	require.Len(t, byDate, 2)

	report := byDate["2024-04-11"]
	assert.Equal(t, "2024-04-11", report.ReportDate.Format("2006-01-02"))
	require.Len(t, report.Articles, 1)
	require.NotNil(t, report.Articles[0].Stock)
	assert.Equal(t, 20, *report.Articles[0].Stock)
}

func TestLoadDirectoryMissingDirIsEmpty(t *testing.T) {
	byDate, err := LoadDirectory(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	require.NoError(t, err)
	assert.Empty(t, byDate)
}

func TestLoadDirectorySkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir, "broken.json", "{ not json")
	writeExtract(t, dir, "2024-04-13.json", `{
		"2024-04-13": {"production_day": "Freitag", "sales_day": "Samstag", "articles": []}
	}`)

	byDate, err := LoadDirectory(dir, nil)
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Contains(t, byDate, "2024-04-13")
}
