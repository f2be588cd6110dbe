package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []models.InventoryItem {
	return []models.InventoryItem{
		{ID: "1", SKU: "G-1", Name: "Gula", Category: "Sembako", Quantity: 3, ReorderLevel: 5, Price: 15000, Supplier: "CV Manis"},
		{ID: "2", SKU: "K-1", Name: "Kopi", Category: "Minuman", Quantity: 20, ReorderLevel: 5, Price: 40000, Supplier: "PT Arabika"},
		{ID: "3", SKU: "T-1", Name: "Teh", Category: "Minuman", Quantity: 2, ReorderLevel: 8, Price: 10000, Supplier: "PT Arabika"},
	}
}

func TestExportCSVShape(t *testing.T) {
	items := sampleItems()
	out := ExportCSV(items)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, len(items)+1)
	assert.Equal(t, "Nama Produk,SKU,Kategori,Stok,Harga Satuan,Total Nilai,Pemasok", lines[0])

	for i, item := range items {
		fields := strings.Split(lines[i+1], ",")
		require.Len(t, fields, 7)
		assert.Equal(t, item.Name, fields[0])
		assert.Equal(t, item.SKU, fields[1])
		assert.Equal(t, item.Category, fields[2])

		wantTotal := item.Price * float64(item.Quantity)
		assert.Equal(t, fmt.Sprintf("%v", wantTotal), fields[5])
		assert.Equal(t, item.Supplier, fields[6])
	}
}

func TestExportCSVEmpty(t *testing.T) {
	out := ExportCSV(nil)
	assert.Len(t, strings.Split(out, "\n"), 1)
}

func TestExportFileName(t *testing.T) {
	when := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Laporan_Inventaris_2026-08-31.csv", ExportFileName(when))
}

func TestRestockMailto(t *testing.T) {
	item := sampleItems()[0]
	item.SupplierEmail = "sales@manis.test"

	link := RestockMailto(item, models.RoleManager)

	assert.True(t, strings.HasPrefix(link, "mailto:sales@manis.test?subject="))
	assert.Contains(t, link, "subject=Permintaan+Pesanan%3A+Gula+%28G-1%29")
	assert.Contains(t, link, "body=")
	assert.NotContains(t, link, "\n", "body must be URL-escaped")
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleItems())

	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, 3*15000+20*40000+2*10000.0, s.TotalValue)

	// Gula (3 <= 5) is low; Teh (2 <= 4) is critical and also counted low
	assert.Equal(t, 2, s.LowCount)
	assert.Equal(t, 1, s.CriticalCount)
	require.Len(t, s.LowStockItems, 2)

	// categories sorted by value descending
	require.Len(t, s.Categories, 2)
	assert.Equal(t, "Minuman", s.Categories[0].Name)
	assert.Equal(t, 20*40000+2*10000.0, s.Categories[0].Value)
	assert.Equal(t, 2, s.Categories[0].Count)
	assert.Equal(t, "Sembako", s.Categories[1].Name)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalItems)
	assert.Zero(t, s.TotalValue)
	assert.Empty(t, s.Categories)
}
