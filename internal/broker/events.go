package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"inventory-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishStockAdjusted publishes a StockAdjusted event keyed by SKU so
// adjustments to one item stay ordered.
func (ep *EventPublisher) PublishStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error {
	key := fmt.Sprintf("item-%s", event.Item.SKU)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishSheetSynced publishes a SheetSynced event
func (ep *EventPublisher) PublishSheetSynced(ctx context.Context, event *models.SheetSyncedEvent) error {
	return ep.producer.PublishEvent(ctx, "sheet-sync", event)
}

// EventHandler routes consumed events to registered callbacks
type EventHandler struct {
	onStockAdjusted func(context.Context, *models.StockAdjustedEvent) error
	onSheetSynced   func(context.Context, *models.SheetSyncedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnStockAdjusted registers a handler for StockAdjusted events
func (eh *EventHandler) OnStockAdjusted(handler func(context.Context, *models.StockAdjustedEvent) error) {
	eh.onStockAdjusted = handler
}

// OnSheetSynced registers a handler for SheetSynced events
func (eh *EventHandler) OnSheetSynced(handler func(context.Context, *models.SheetSyncedEvent) error) {
	eh.onSheetSynced = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeStockAdjusted:
		if eh.onStockAdjusted != nil {
			var event models.StockAdjustedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StockAdjusted event: %w", err)
			}
			return eh.onStockAdjusted(ctx, &event)
		}

	case models.EventTypeSheetSynced:
		if eh.onSheetSynced != nil {
			var event models.SheetSyncedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal SheetSynced event: %w", err)
			}
			return eh.onSheetSynced(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
