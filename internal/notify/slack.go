package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"inventory-service/internal/ledger"
	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// Message is the Slack webhook payload
type Message struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment is a Slack message attachment
type Attachment struct {
	Color  string  `json:"color"`
	Fields []Field `json:"fields"`
	Footer string  `json:"footer"`
}

// Field is an attachment field
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Notifier posts low-stock alerts to a Slack incoming webhook. With no
// webhook configured the alert is logged and dropped, matching the
// original's mocked integration.
type Notifier struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

// NewNotifier creates a Slack notifier
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     util.GetLogger(),
	}
}

// BuildMessage composes the alert payload for an item. Wording escalates
// from RENDAH to KRITIS at half the reorder level.
func BuildMessage(item models.InventoryItem, user string, role models.UserRole) Message {
	critical := ledger.Status(item) == models.StockCritical

	statusLabel := "⚠️ RENDAH"
	color := "#f59e0b"
	if critical {
		statusLabel = "🚨 KRITIS"
		color = "#ef4444"
	}

	return Message{
		Text: fmt.Sprintf("*Peringatan Stok %s*", statusLabel),
		Attachments: []Attachment{
			{
				Color: color,
				Fields: []Field{
					{Title: "Produk", Value: item.Name, Short: true},
					{Title: "SKU", Value: item.SKU, Short: true},
					{Title: "Sisa Stok", Value: fmt.Sprintf("%d unit", item.Quantity), Short: true},
					{Title: "Batas Minimum", Value: fmt.Sprintf("%d unit", item.ReorderLevel), Short: true},
					{Title: "Diperbarui Oleh", Value: fmt.Sprintf("%s (%s)", user, role), Short: false},
				},
				Footer: "Sistem Notifikasi Stok Makmur",
			},
		},
	}
}

// Notify dispatches a low-stock alert. Failures are for the caller to
// log; they never affect the ledger commit that triggered them.
func (n *Notifier) Notify(ctx context.Context, item models.InventoryItem, user string, role models.UserRole) error {
	msg := BuildMessage(item, user, role)

	severity := "low"
	if ledger.Status(item) == models.StockCritical {
		severity = "critical"
	}

	if n.webhookURL == "" {
		n.logger.Info("Slack webhook not configured, dropping alert",
			zap.String("sku", item.SKU),
			zap.String("severity", severity))
		util.LowStockAlertsTotal.WithLabelValues(severity).Inc()
		return nil
	}

	body, err := json.Marshal(msg)
	if err != nil {
		util.AlertDispatchFailedTotal.Inc()
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		util.AlertDispatchFailedTotal.Inc()
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		util.AlertDispatchFailedTotal.Inc()
		return fmt.Errorf("slack dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		util.AlertDispatchFailedTotal.Inc()
		return fmt.Errorf("slack dispatch rejected: %s", resp.Status)
	}

	util.LowStockAlertsTotal.WithLabelValues(severity).Inc()
	n.logger.Info("Low stock alert sent",
		zap.String("sku", item.SKU),
		zap.String("severity", severity))
	return nil
}
