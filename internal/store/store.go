package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Snapshot slot names
const (
	slotItems      = "items"
	slotCategories = "categories"
	slotLogs       = "logs"
)

// Store is the Postgres-backed snapshot store. Each slot is a single row
// in the snapshots table holding the serialized collection; semantics
// match the Redis store.
type Store struct {
	db *sqlx.DB
}

// NewStore connects to the database and ensures the snapshots table
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			slot TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure snapshots table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadItems reads the item slot; a missing row yields an empty slice
func (s *Store) LoadItems(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.load(ctx, slotItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LoadCategories reads the category slot
func (s *Store) LoadCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := s.load(ctx, slotCategories, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// LoadLogs reads the audit log slot
func (s *Store) LoadLogs(ctx context.Context) ([]models.StockLog, error) {
	var logs []models.StockLog
	if err := s.load(ctx, slotLogs, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// SaveItems overwrites the item slot
func (s *Store) SaveItems(ctx context.Context, items []models.InventoryItem) error {
	return s.save(ctx, slotItems, items)
}

// SaveCategories overwrites the category slot
func (s *Store) SaveCategories(ctx context.Context, categories []string) error {
	return s.save(ctx, slotCategories, categories)
}

// SaveLogs overwrites the audit log slot
func (s *Store) SaveLogs(ctx context.Context, logs []models.StockLog) error {
	return s.save(ctx, slotLogs, logs)
}

func (s *Store) load(ctx context.Context, slot string, dest interface{}) error {
	var payload []byte
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM snapshots WHERE slot = $1", slot)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", slot, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("failed to decode snapshot %s: %w", slot, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, slot string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", slot, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (slot, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot) DO UPDATE SET payload = $2, updated_at = NOW()`,
		slot, payload)
	if err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", slot, err)
	}
	return nil
}
