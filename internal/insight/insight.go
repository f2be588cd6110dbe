package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/report"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// Fallback is returned verbatim whenever generation fails
const Fallback = "Gagal menghasilkan wawasan AI saat ini. Periksa konfigurasi API Key."

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Client calls a generative-text endpoint with an aggregate inventory
// summary and returns the free-text response. Every failure path yields
// the fixed fallback message instead of an error; insights are decoration,
// not data.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewClient creates an insight client
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   util.GetLogger(),
	}
}

// WithEndpoint overrides the API base URL, used in tests
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = strings.TrimRight(endpoint, "/")
	return c
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// BuildPrompt renders the analysis prompt from the inventory summary
func BuildPrompt(items []models.InventoryItem) string {
	summary := report.Summarize(items)

	type lowItem struct {
		Nama string `json:"nama"`
		Jml  int    `json:"jml"`
		Min  int    `json:"min"`
	}
	low := make([]lowItem, 0, len(summary.LowStockItems))
	for _, item := range summary.LowStockItems {
		low = append(low, lowItem{Nama: item.Name, Jml: item.Quantity, Min: item.ReorderLevel})
	}
	lowJSON, _ := json.Marshal(low)

	return fmt.Sprintf(`Analisis data inventaris berikut ini:
Total item: %d
Total nilai: Rp%.0f
Item stok rendah: %s

Berikan 3 wawasan strategis singkat untuk manajer gudang dalam Bahasa Indonesia:
1. Item mana yang butuh restok segera?
2. Apakah ada risiko stok berlebih (overstock)?
3. Saran tindakan untuk pemasok.
Pastikan respon profesional dan dapat langsung ditindaklanjuti.`,
		summary.TotalItems, summary.TotalValue, lowJSON)
}

// Generate produces an insight for the current inventory
func (c *Client) Generate(ctx context.Context, items []models.InventoryItem) string {
	if c.apiKey == "" {
		c.logger.Warn("Insight API key not configured")
		util.InsightRequestsTotal.WithLabelValues("failure").Inc()
		return Fallback
	}

	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: BuildPrompt(items)}}}},
		GenerationConfig: generationConfig{
			Temperature: 0.7,
			TopP:        0.9,
		},
	})
	if err != nil {
		c.logger.Error("Insight request marshal failed", zap.Error(err))
		util.InsightRequestsTotal.WithLabelValues("failure").Inc()
		return Fallback
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		util.InsightRequestsTotal.WithLabelValues("failure").Inc()
		return Fallback
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("Insight request failed", zap.Error(err))
		util.InsightRequestsTotal.WithLabelValues("failure").Inc()
		return Fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Insight request rejected", zap.String("status", resp.Status))
		util.InsightRequestsTotal.WithLabelValues("failure").Inc()
		return Fallback
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Warn("Insight response decode failed", zap.Error(err))
		util.InsightRequestsTotal.WithLabelValues("failure").Inc()
		return Fallback
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		util.InsightRequestsTotal.WithLabelValues("failure").Inc()
		return Fallback
	}

	util.InsightRequestsTotal.WithLabelValues("success").Inc()
	return out.Candidates[0].Content.Parts[0].Text
}
