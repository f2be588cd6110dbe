package ledger

import (
	"time"

	"inventory-service/internal/models"

	"github.com/google/uuid"
)

// Adjustment is the result of a single ledger commit. Item is a copy of
// the input item with only the quantity replaced; Log records the change.
type Adjustment struct {
	Item        models.InventoryItem
	Log         models.StockLog
	ShouldAlert bool
}

// ApplyAdjustment applies a signed quantity delta to an item and produces
// the audit log entry. Negative resulting stock is representable and
// allowed. The alert flag is set when the new quantity is at or below the
// reorder level; delivery of any alert is the caller's concern and never
// rolls back the commit.
func ApplyAdjustment(item models.InventoryItem, delta int, reason string, role models.UserRole) Adjustment {
	previous := item.Quantity
	updated := item
	updated.Quantity = previous + delta

	entry := models.StockLog{
		ID:               uuid.New().String(),
		ItemID:           item.ID,
		ItemName:         item.Name,
		Change:           delta,
		PreviousQuantity: previous,
		NewQuantity:      updated.Quantity,
		Reason:           reason,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		User:             role.DisplayName(),
		Role:             role,
	}

	return Adjustment{
		Item:        updated,
		Log:         entry,
		ShouldAlert: updated.Quantity <= item.ReorderLevel,
	}
}

// Status classifies stock health. Critical kicks in at half the reorder
// level; the alert trigger itself fires at the looser low threshold.
func Status(item models.InventoryItem) models.StockStatus {
	switch {
	case float64(item.Quantity) <= float64(item.ReorderLevel)*0.5:
		return models.StockCritical
	case item.Quantity <= item.ReorderLevel:
		return models.StockLow
	default:
		return models.StockHealthy
	}
}
