package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"inventory-service/internal/models"

	"go.uber.org/zap"
)

// Parser failure classification
var (
	ErrNotFound     = errors.New("sheet tidak ditemukan, pastikan URL benar")
	ErrNotPublished = errors.New("sheet belum di-publish to web")
	ErrEmptySheet   = errors.New("sheet kosong atau format tidak sesuai")
)

// Row defaults when a mapped column is missing or blank
const (
	defaultName     = "Produk Tanpa Nama"
	defaultCategory = "Umum"
	defaultSupplier = "Pemasok Umum"
	defaultEmail    = "admin@pemasok.com"
)

var editSuffixRe = regexp.MustCompile(`/edit.*$`)
var numberCleanRe = regexp.MustCompile(`[^0-9.,-]`)

// Options control the locale-sensitive parts of parsing.
type Options struct {
	// DecimalComma coerces "," to "." before numeric parsing. The source
	// data uses Indonesian formatting where this is the common case.
	DecimalComma bool
	// DefaultReorderLevel is assigned to every parsed item; the sheet has
	// no reorder column.
	DefaultReorderLevel int
	// Timeout bounds the whole fetch.
	Timeout time.Duration
}

// DefaultOptions mirrors the published-sheet defaults
func DefaultOptions() Options {
	return Options{
		DecimalComma:        true,
		DefaultReorderLevel: 5,
		Timeout:             15 * time.Second,
	}
}

// Parser fetches a published spreadsheet export and converts it to
// inventory items through heuristic column matching. It never partially
// applies anything: the caller gets either the full item slice or an error.
type Parser struct {
	client *http.Client
	opts   Options
	logger *zap.Logger
}

// NewParser creates a parser with the given options
func NewParser(opts Options, logger *zap.Logger) *Parser {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.DefaultReorderLevel <= 0 {
		opts.DefaultReorderLevel = DefaultOptions().DefaultReorderLevel
	}
	return &Parser{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		logger: logger,
	}
}

// NormalizeURL rewrites a Google Sheets edit link to its published CSV
// export form. Links already carrying the export marker pass through
// unchanged; non-sheets URLs are used as-is.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if !strings.Contains(u, "docs.google.com/spreadsheets") {
		return u
	}
	if strings.Contains(u, "/edit") {
		return editSuffixRe.ReplaceAllString(u, "/pub?output=csv")
	}
	if !strings.Contains(u, "output=csv") {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		return u + sep + "output=csv"
	}
	return u
}

// Fetch downloads and parses the sheet at url into inventory items.
func (p *Parser) Fetch(ctx context.Context, url string) ([]models.InventoryItem, error) {
	if url == "" || !strings.HasPrefix(url, "http") {
		return nil, fmt.Errorf("invalid sheet url: %q", url)
	}

	csvURL := NormalizeURL(url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, csvURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet fetch failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrNotPublished
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("sheet fetch error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet body: %w", err)
	}

	items, err := p.Parse(string(body))
	if err != nil {
		return nil, err
	}

	p.logger.Info("Sheet fetched",
		zap.String("url", csvURL),
		zap.Int("items", len(items)))
	return items, nil
}

// Parse converts raw CSV text to inventory items. Exposed separately so
// the heuristics are testable without a live endpoint.
func (p *Parser) Parse(text string) ([]models.InventoryItem, error) {
	// A sheet that was never published redirects to an HTML login page
	// instead of returning CSV.
	if strings.Contains(text, "<!DOCTYPE html>") || strings.Contains(text, "google-signin") {
		return nil, ErrNotPublished
	}

	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		row := parseRow(strings.TrimSpace(line))
		if len(row) > 1 {
			rows = append(rows, row)
		}
	}

	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	idx := columnIndexes(headers)

	items := make([]models.InventoryItem, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := field(row, idx.name)
		sku := field(row, idx.sku)
		if name == "" && sku == "" {
			continue
		}

		// positional id, 1-based over kept rows; not stable across refreshes
		pos := len(items) + 1
		if name == "" {
			name = defaultName
		}
		if sku == "" {
			sku = fmt.Sprintf("SKU-%d", pos)
		}

		items = append(items, models.InventoryItem{
			ID:            strconv.Itoa(pos),
			Name:          name,
			SKU:           sku,
			Category:      fieldOr(row, idx.category, defaultCategory),
			Quantity:      int(p.cleanNumber(field(row, idx.stock))),
			ReorderLevel:  p.opts.DefaultReorderLevel,
			Price:         p.cleanNumber(field(row, idx.price)),
			Supplier:      fieldOr(row, idx.supplier, defaultSupplier),
			SupplierEmail: fieldOr(row, idx.email, defaultEmail),
		})
	}

	return items, nil
}

// parseRow splits one CSV line into fields. A quote character toggles the
// in-quotes flag; commas only separate fields while outside quotes.
func parseRow(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			result = append(result, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	result = append(result, current.String())
	return result
}

type columnIndex struct {
	name, sku, category, stock, price, supplier, email int
}

// columnIndexes maps each internal field to the first header containing
// one of its keywords. Unmatched fields map to -1.
func columnIndexes(headers []string) columnIndex {
	find := func(keywords ...string) int {
		for i, h := range headers {
			for _, k := range keywords {
				if strings.Contains(h, k) {
					return i
				}
			}
		}
		return -1
	}

	return columnIndex{
		name:     find("nama", "produk", "item", "barang"),
		sku:      find("sku", "kode", "id"),
		category: find("kategori", "jenis", "group", "category"),
		stock:    find("stok", "jumlah", "qty", "stock", "kuantitas"),
		price:    find("harga", "price", "nilai", "cost"),
		supplier: find("pemasok", "supplier", "vendor"),
		email:    find("email", "kontak"),
	}
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func fieldOr(row []string, idx int, fallback string) string {
	if v := field(row, idx); v != "" {
		return v
	}
	return fallback
}

// cleanNumber strips everything but digits, separators and sign, then
// parses as a float, defaulting to 0. With DecimalComma set, commas are
// coerced to decimal points first.
func (p *Parser) cleanNumber(raw string) float64 {
	if raw == "" {
		return 0
	}
	cleaned := numberCleanRe.ReplaceAllString(raw, "")
	if p.opts.DecimalComma {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
