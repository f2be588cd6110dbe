package report

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"inventory-service/internal/ledger"
	"inventory-service/internal/models"
)

// CSV export header, fixed column order
var csvHeaders = []string{"Nama Produk", "SKU", "Kategori", "Stok", "Harga Satuan", "Total Nilai", "Pemasok"}

// ExportCSV serializes the item collection to CSV with the fixed column
// order. N items produce exactly N+1 lines; the total value column is
// quantity times unit price.
func ExportCSV(items []models.InventoryItem) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, strings.Join(csvHeaders, ","))

	for _, item := range items {
		row := []string{
			item.Name,
			item.SKU,
			item.Category,
			strconv.Itoa(item.Quantity),
			formatNumber(item.Price),
			formatNumber(item.Price * float64(item.Quantity)),
			item.Supplier,
		}
		lines = append(lines, strings.Join(row, ","))
	}

	return strings.Join(lines, "\n")
}

// ExportFileName names the download with the current date
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("Laporan_Inventaris_%s.csv", now.Format("2006-01-02"))
}

// formatNumber renders a price without trailing zeros
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RestockMailto builds a prefilled mail-compose link for a supplier
// restock request. The link is handed to the platform's default mail
// handler, never sent programmatically.
func RestockMailto(item models.InventoryItem, role models.UserRole) string {
	subject := fmt.Sprintf("Permintaan Pesanan: %s (%s)", item.Name, item.SKU)
	body := fmt.Sprintf(
		"Halo %s,\n\nKami ingin mengajukan permintaan restok untuk %s.\nSKU: %s\nJumlah yang diinginkan: [Isi jumlah]\n\nMohon informasikan tanggal pengiriman tercepat.\n\nSalam,\nTim Gudang %s",
		item.Supplier, item.Name, item.SKU, role)

	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		item.SupplierEmail,
		url.QueryEscape(subject),
		url.QueryEscape(body))
}

// CategoryStat aggregates one category's holdings
type CategoryStat struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// Summary aggregates the whole inventory for dashboards and reports
type Summary struct {
	TotalItems    int                    `json:"totalItems"`
	TotalValue    float64                `json:"totalValue"`
	LowCount      int                    `json:"lowCount"`
	CriticalCount int                    `json:"criticalCount"`
	LowStockItems []models.InventoryItem `json:"lowStockItems"`
	Categories    []CategoryStat         `json:"categories"`
}

// Summarize computes the aggregate view: total value, low/critical
// counts, and per-category value sorted descending.
func Summarize(items []models.InventoryItem) Summary {
	s := Summary{TotalItems: len(items)}

	byCategory := make(map[string]*CategoryStat)
	var order []string

	for _, item := range items {
		value := item.Price * float64(item.Quantity)
		s.TotalValue += value

		switch ledger.Status(item) {
		case models.StockCritical:
			s.CriticalCount++
			s.LowCount++
			s.LowStockItems = append(s.LowStockItems, item)
		case models.StockLow:
			s.LowCount++
			s.LowStockItems = append(s.LowStockItems, item)
		}

		stat, ok := byCategory[item.Category]
		if !ok {
			stat = &CategoryStat{Name: item.Category}
			byCategory[item.Category] = stat
			order = append(order, item.Category)
		}
		stat.Count++
		stat.Value += value
	}

	s.Categories = make([]CategoryStat, 0, len(order))
	for _, name := range order {
		s.Categories = append(s.Categories, *byCategory[name])
	}
	sort.SliceStable(s.Categories, func(i, j int) bool {
		return s.Categories[i].Value > s.Categories[j].Value
	})

	return s
}
