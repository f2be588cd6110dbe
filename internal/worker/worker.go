package worker

import (
	"context"
	"log"

	"inventory-service/internal/broker"
	"inventory-service/internal/models"
	"inventory-service/internal/notify"
)

// AlertWorker consumes stock events and dispatches low-stock alerts. It
// sits off the commit path: adjustments never wait on it, and a dead
// broker only delays alerts.
type AlertWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	notifier     *notify.Notifier
}

// NewAlertWorker creates a new alert worker
func NewAlertWorker(consumer *broker.Consumer, notifier *notify.Notifier) *AlertWorker {
	w := &AlertWorker{
		consumer: consumer,
		notifier: notifier,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnStockAdjusted(w.handleStockAdjusted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *AlertWorker) Start(ctx context.Context) error {
	log.Println("Starting alert worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AlertWorker) Stop() error {
	log.Println("Stopping alert worker...")
	return w.consumer.Close()
}

func (w *AlertWorker) handleStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error {
	if !event.LowStock {
		return nil
	}

	if err := w.notifier.Notify(ctx, event.Item, event.Log.User, event.Log.Role); err != nil {
		// logged and swallowed: alerts are best-effort and the message
		// should not be redelivered forever
		log.Printf("Alert dispatch failed for %s: %v", event.Item.SKU, err)
	}
	return nil
}
