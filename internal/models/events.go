package models

import (
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypeStockAdjusted = "STOCK_ADJUSTED"
	EventTypeSheetSynced   = "SHEET_SYNCED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBaseEvent stamps a fresh event envelope
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// StockAdjustedEvent is published after every ledger commit. LowStock and
// Critical are computed at publish time so consumers do not need the
// reorder rules.
type StockAdjustedEvent struct {
	BaseEvent
	Item     InventoryItem `json:"item"`
	Log      StockLog      `json:"log"`
	LowStock bool          `json:"low_stock"`
	Critical bool          `json:"critical"`
}

// SheetSyncedEvent is published after a successful remote refresh
type SheetSyncedEvent struct {
	BaseEvent
	ItemCount     int `json:"item_count"`
	CategoryCount int `json:"category_count"`
}
