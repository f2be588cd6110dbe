package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Bridge pushes quantity updates to a user-supplied write endpoint
// (typically an Apps Script web app). Delivery is at-most-once and
// unconfirmed: the response is not inspected, and a true return only means
// the request left without a local error.
type Bridge struct {
	client *http.Client
	logger *zap.Logger
}

// NewBridge creates a write bridge
func NewBridge(logger *zap.Logger) *Bridge {
	return &Bridge{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type bridgePayload struct {
	SKU         string `json:"sku"`
	NewQuantity int    `json:"newQuantity"`
}

// Push dispatches {sku, newQuantity} to bridgeURL. Callers must not treat
// a true return as durable confirmation.
func (b *Bridge) Push(ctx context.Context, bridgeURL, sku string, newQuantity int) bool {
	if bridgeURL == "" || !strings.HasPrefix(bridgeURL, "http") {
		return false
	}

	body, err := json.Marshal(bridgePayload{SKU: sku, NewQuantity: newQuantity})
	if err != nil {
		b.logger.Error("Cloud sync marshal failed", zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, bridgeURL, bytes.NewReader(body))
	if err != nil {
		b.logger.Error("Cloud sync request build failed", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		b.logger.Warn("Cloud sync failed",
			zap.String("sku", sku),
			zap.Error(err))
		return false
	}
	// Status deliberately ignored; the endpoint runs in a no-cors-style
	// setup where the response carries no usable signal.
	resp.Body.Close()

	b.logger.Debug("Cloud sync dispatched",
		zap.String("sku", sku),
		zap.Int("new_quantity", newQuantity))
	return true
}
