package orders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bestellungen.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCSV = `id,abholdatum,artikelname,artikelanzahl,artikelpreis
order-1,2024-04-11,Roggenmischbrot,2,490
order-1,2024-04-11,Brezel,4,110
order-2,2024-05-02,Croissant,1,150
`

func TestReadFileGroupsRowsIntoOrders(t *testing.T) {
	e := NewExtractor(nil)
	orders, err := e.ReadFile(writeCSV(t, sampleCSV))
	require.NoError(t, err)
	require.Len(t, orders, 2)

	first := orders[0]
	assert.Equal(t, "order-1", first.ID)
	assert.Equal(t, "2024-04-11", first.PickupDate.Format("2006-01-02"))
	require.Len(t, first.Items, 2)
	assert.Equal(t, "Roggenmischbrot", first.Items[0].ArticleName)
	assert.True(t, first.Items[0].Quantity.Equal(dec("2")))
	// 490 cents -> 4.90 euros, exactly.
	assert.True(t, first.Items[0].Price.Equal(dec("4.90")), "price %s", first.Items[0].Price)
	// Sum = 2*4.90 + 4*1.10 = 14.20
	assert.True(t, first.Sum.Equal(dec("14.20")), "sum %s", first.Sum)

	second := orders[1]
	assert.Equal(t, "order-2", second.ID)
	assert.True(t, second.Sum.Equal(dec("1.50")))
}

func TestReadFileRejectsMissingColumn(t *testing.T) {
	e := NewExtractor(nil)
	_, err := e.ReadFile(writeCSV(t, "id,abholdatum,artikelname\norder-1,2024-04-11,Brezel\n"))
	assert.Error(t, err)
}

func TestReadFileRejectsBadDate(t *testing.T) {
	e := NewExtractor(nil)
	_, err := e.ReadFile(writeCSV(t, "id,abholdatum,artikelname,artikelanzahl,artikelpreis\no1,11.04.2024,Brezel,1,110\n"))
	assert.Error(t, err)
}

func TestGroupByMonth(t *testing.T) {
	e := NewExtractor(nil)
	orders, err := e.ReadFile(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	byMonth := GroupByMonth(orders)
	require.Len(t, byMonth, 2)
	assert.Len(t, byMonth["2024-04"], 1)
	assert.Len(t, byMonth["2024-05"], 1)
}

func TestCentsToEuros(t *testing.T) {
	assert.True(t, centsToEuros(0).IsZero())
	assert.True(t, centsToEuros(1).Equal(dec("0.01")))
	assert.True(t, centsToEuros(12345).Equal(dec("123.45")))
}
