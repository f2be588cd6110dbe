package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inventory-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// Snapshot slot keys, carried over from the browser-era local storage
const (
	keyItems      = "stok_makmur_items"
	keyCategories = "stok_makmur_categories"
	keyLogs       = "stok_makmur_logs"
)

// Client is the Redis-backed snapshot store: three independent
// string-keyed slots holding serialized items, categories and logs.
// No versioning or migration scheme.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and verifies the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// LoadItems reads the item slot; a missing slot yields an empty slice
func (c *Client) LoadItems(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := c.load(ctx, keyItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LoadCategories reads the category slot
func (c *Client) LoadCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.load(ctx, keyCategories, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// LoadLogs reads the audit log slot
func (c *Client) LoadLogs(ctx context.Context) ([]models.StockLog, error) {
	var logs []models.StockLog
	if err := c.load(ctx, keyLogs, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// SaveItems overwrites the item slot
func (c *Client) SaveItems(ctx context.Context, items []models.InventoryItem) error {
	return c.save(ctx, keyItems, items)
}

// SaveCategories overwrites the category slot
func (c *Client) SaveCategories(ctx context.Context, categories []string) error {
	return c.save(ctx, keyCategories, categories)
}

// SaveLogs overwrites the audit log slot
func (c *Client) SaveLogs(ctx context.Context, logs []models.StockLog) error {
	return c.save(ctx, keyLogs, logs)
}

func (c *Client) load(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (c *Client) save(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
