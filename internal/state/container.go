package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inventory-service/internal/ledger"
	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// Store is the persistence port: three independent slots mirrored after
// every committed state change. Implementations must treat each Save as
// independently durable.
type Store interface {
	LoadItems(ctx context.Context) ([]models.InventoryItem, error)
	LoadCategories(ctx context.Context) ([]string, error)
	LoadLogs(ctx context.Context) ([]models.StockLog, error)
	SaveItems(ctx context.Context, items []models.InventoryItem) error
	SaveCategories(ctx context.Context, categories []string) error
	SaveLogs(ctx context.Context, logs []models.StockLog) error
}

// Fetcher produces items from a remote sheet URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]models.InventoryItem, error)
}

// Pusher mirrors a quantity change to the remote write endpoint
type Pusher interface {
	Push(ctx context.Context, bridgeURL, sku string, newQuantity int) bool
}

// Publisher emits domain events after commits
type Publisher interface {
	PublishStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error
	PublishSheetSynced(ctx context.Context, event *models.SheetSyncedEvent) error
}

// Notifier dispatches a low-stock alert directly. Used when no event
// stream is wired; otherwise alerts travel through the Publisher.
type Notifier interface {
	Notify(ctx context.Context, item models.InventoryItem, user string, role models.UserRole) error
}

// Container owns the in-memory collections and serializes every mutation.
// All reads return copies; all commits are mirrored to the store before
// the method returns. Downstream pushes, events and alerts are
// fire-and-forget and never roll back a commit.
type Container struct {
	mu sync.RWMutex

	items      []models.InventoryItem
	categories []string
	logs       []models.StockLog

	sheetURL  string
	bridgeURL string
	lastError string

	store     Store
	fetcher   Fetcher
	pusher    Pusher
	publisher Publisher
	notifier  Notifier
	logger    *zap.Logger
}

// Deps bundles the container collaborators
type Deps struct {
	Store     Store
	Fetcher   Fetcher
	Pusher    Pusher
	Publisher Publisher
	Notifier  Notifier
	SheetURL  string
	BridgeURL string
}

// NewContainer creates the state container. Store and Fetcher are
// required; the rest are optional.
func NewContainer(deps Deps) *Container {
	return &Container{
		store:     deps.Store,
		fetcher:   deps.Fetcher,
		pusher:    deps.Pusher,
		publisher: deps.Publisher,
		notifier:  deps.Notifier,
		sheetURL:  deps.SheetURL,
		bridgeURL: deps.BridgeURL,
		logger:    util.GetLogger(),
	}
}

// Bootstrap loads the cached snapshot, then syncs from the remote sheet
// when one is configured or no cached items exist. Sync failures leave
// the local snapshot untouched.
func (c *Container) Bootstrap(ctx context.Context) error {
	items, err := c.store.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cached items: %w", err)
	}
	categories, err := c.store.LoadCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cached categories: %w", err)
	}
	logs, err := c.store.LoadLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cached logs: %w", err)
	}

	c.mu.Lock()
	c.items = items
	c.categories = categories
	c.logs = logs
	c.mu.Unlock()

	c.logger.Info("State loaded from cache",
		zap.Int("items", len(items)),
		zap.Int("categories", len(categories)),
		zap.Int("logs", len(logs)))

	if c.sheetURL == "" {
		if len(items) == 0 {
			c.seedDefaults(ctx)
		}
		return nil
	}

	if err := c.Sync(ctx); err != nil {
		c.logger.Warn("Initial sheet sync failed, keeping local data", zap.Error(err))
	}
	return nil
}

// seedDefaults installs the demo inventory for first-time users
func (c *Container) seedDefaults(ctx context.Context) {
	items := models.DefaultItems()
	categories := uniqueCategories(items, nil)

	c.mu.Lock()
	c.items = items
	c.categories = categories
	c.mu.Unlock()

	c.persistItems(ctx)
	c.persistCategories(ctx)
	c.logger.Info("Seeded default inventory", zap.Int("items", len(items)))
}

// Sync fetches the remote sheet and replaces the item collection. Newly
// seen categories are unioned in; existing ones are preserved. On failure
// the previous state is kept and the error message is retained for
// display. Overlapping syncs resolve last-writer-wins.
func (c *Container) Sync(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "Container.Sync")
	defer span.End()

	c.mu.RLock()
	url := c.sheetURL
	c.mu.RUnlock()

	if url == "" {
		return nil
	}

	start := time.Now()
	remote, err := c.fetcher.Fetch(ctx, url)
	util.SheetSyncLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.SheetSyncTotal.WithLabelValues("failure").Inc()
		c.mu.Lock()
		c.lastError = err.Error()
		c.mu.Unlock()
		return err
	}

	if len(remote) == 0 {
		util.SheetSyncTotal.WithLabelValues("empty").Inc()
		return nil
	}

	c.mu.Lock()
	c.items = remote
	c.categories = uniqueCategories(remote, c.categories)
	c.lastError = ""
	itemCount := len(c.items)
	categoryCount := len(c.categories)
	c.mu.Unlock()

	c.persistItems(ctx)
	c.persistCategories(ctx)
	util.SheetSyncTotal.WithLabelValues("success").Inc()

	c.publishAsync(func(ctx context.Context) error {
		if c.publisher == nil {
			return nil
		}
		return c.publisher.PublishSheetSynced(ctx, &models.SheetSyncedEvent{
			BaseEvent:     models.NewBaseEvent(models.EventTypeSheetSynced),
			ItemCount:     itemCount,
			CategoryCount: categoryCount,
		})
	})

	return nil
}

// Adjust applies a signed quantity delta to an item through the ledger,
// persists the result, and kicks off the unawaited side effects: remote
// push, event publish, low-stock alert.
func (c *Container) Adjust(ctx context.Context, itemID string, delta int, reason string, role models.UserRole) (ledger.Adjustment, error) {
	ctx, span := util.StartSpan(ctx, "Container.Adjust")
	defer span.End()

	c.mu.Lock()

	pos := -1
	for i := range c.items {
		if c.items[i].ID == itemID {
			pos = i
			break
		}
	}
	if pos == -1 {
		c.mu.Unlock()
		return ledger.Adjustment{}, fmt.Errorf("item not found: %s", itemID)
	}

	adj := ledger.ApplyAdjustment(c.items[pos], delta, reason, role)
	c.items[pos] = adj.Item
	c.logs = append(c.logs, adj.Log)
	bridgeURL := c.bridgeURL
	c.mu.Unlock()

	c.persistItems(ctx)
	c.persistLogs(ctx)
	util.StockAdjustmentsTotal.WithLabelValues(string(role)).Inc()

	c.logger.Info("Stock adjusted",
		zap.String("item_id", adj.Item.ID),
		zap.String("sku", adj.Item.SKU),
		zap.Int("change", delta),
		zap.Int("new_quantity", adj.Item.Quantity),
		zap.Bool("alert", adj.ShouldAlert))

	if bridgeURL != "" && c.pusher != nil {
		item := adj.Item
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if c.pusher.Push(ctx, bridgeURL, item.SKU, item.Quantity) {
				util.BridgePushesTotal.WithLabelValues("dispatched").Inc()
			} else {
				util.BridgePushesTotal.WithLabelValues("failed").Inc()
			}
		}()
	}

	c.publishAsync(func(ctx context.Context) error {
		if c.publisher == nil {
			return nil
		}
		return c.publisher.PublishStockAdjusted(ctx, &models.StockAdjustedEvent{
			BaseEvent: models.NewBaseEvent(models.EventTypeStockAdjusted),
			Item:      adj.Item,
			Log:       adj.Log,
			LowStock:  adj.ShouldAlert,
			Critical:  ledger.Status(adj.Item) == models.StockCritical,
		})
	})

	if adj.ShouldAlert && c.publisher == nil && c.notifier != nil {
		item := adj.Item
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := c.notifier.Notify(ctx, item, role.DisplayName(), role); err != nil {
				c.logger.Warn("Alert dispatch failed", zap.Error(err))
			}
		}()
	}

	return adj, nil
}

// Items returns a copy of the item collection
func (c *Container) Items() []models.InventoryItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.InventoryItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns a single item by id
func (c *Container) Item(id string) (models.InventoryItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.items {
		if c.items[i].ID == id {
			return c.items[i], true
		}
	}
	return models.InventoryItem{}, false
}

// Logs returns a copy of the full audit log in append order
func (c *Container) Logs() []models.StockLog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.StockLog, len(c.logs))
	copy(out, c.logs)
	return out
}

// LogsForItem returns the audit entries referencing itemID, newest first
func (c *Container) LogsForItem(itemID string) []models.StockLog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.StockLog
	for i := len(c.logs) - 1; i >= 0; i-- {
		if c.logs[i].ItemID == itemID {
			out = append(out, c.logs[i])
		}
	}
	return out
}

// Categories returns a copy of the category set in insertion order
func (c *Container) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// AddCategory appends a category if not already present
func (c *Container) AddCategory(ctx context.Context, name string) {
	c.mu.Lock()
	for _, existing := range c.categories {
		if existing == name {
			c.mu.Unlock()
			return
		}
	}
	c.categories = append(c.categories, name)
	c.mu.Unlock()

	c.persistCategories(ctx)
}

// RenameCategory renames a category and cascades the new name to every
// item referencing the old one.
func (c *Container) RenameCategory(ctx context.Context, oldName, newName string) {
	c.mu.Lock()
	for i := range c.categories {
		if c.categories[i] == oldName {
			c.categories[i] = newName
		}
	}
	for i := range c.items {
		if c.items[i].Category == oldName {
			c.items[i].Category = newName
		}
	}
	c.mu.Unlock()

	c.persistCategories(ctx)
	c.persistItems(ctx)
}

// DeleteCategory removes only the category entry. Items keep the now
// orphaned name; the asymmetry with rename is deliberate.
func (c *Container) DeleteCategory(ctx context.Context, name string) {
	c.mu.Lock()
	kept := c.categories[:0]
	for _, existing := range c.categories {
		if existing != name {
			kept = append(kept, existing)
		}
	}
	c.categories = kept
	c.mu.Unlock()

	c.persistCategories(ctx)
}

// SetSheetURL updates the remote source and triggers a sync
func (c *Container) SetSheetURL(ctx context.Context, url string) error {
	c.mu.Lock()
	c.sheetURL = url
	c.mu.Unlock()
	if url == "" {
		return nil
	}
	return c.Sync(ctx)
}

// SetBridgeURL updates the remote write endpoint
func (c *Container) SetBridgeURL(url string) {
	c.mu.Lock()
	c.bridgeURL = url
	c.mu.Unlock()
}

// CloudLinked reports whether a remote sheet source is configured
func (c *Container) CloudLinked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sheetURL != ""
}

// LastError returns the message of the most recent sync failure, empty
// after a successful sync.
func (c *Container) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Container) persistItems(ctx context.Context) {
	if err := c.store.SaveItems(ctx, c.Items()); err != nil {
		c.logger.Error("Failed to persist items", zap.Error(err))
	}
}

func (c *Container) persistCategories(ctx context.Context) {
	if err := c.store.SaveCategories(ctx, c.Categories()); err != nil {
		c.logger.Error("Failed to persist categories", zap.Error(err))
	}
}

func (c *Container) persistLogs(ctx context.Context) {
	if err := c.store.SaveLogs(ctx, c.Logs()); err != nil {
		c.logger.Error("Failed to persist logs", zap.Error(err))
	}
}

// publishAsync runs an event publish in the background with its own
// timeout; failures are logged and dropped.
func (c *Container) publishAsync(publish func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := publish(ctx); err != nil {
			c.logger.Warn("Event publish failed", zap.Error(err))
		}
	}()
}

// uniqueCategories unions the categories of items into existing,
// preserving existing order and first-seen order for new entries.
func uniqueCategories(items []models.InventoryItem, existing []string) []string {
	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing))
	for _, c := range existing {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, item := range items {
		if item.Category != "" && !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}
