package models

// UserRole identifies who performed an action
type UserRole string

const (
	RoleManager   UserRole = "MANAGER"
	RoleWarehouse UserRole = "WAREHOUSE"
)

// DisplayName returns the human-readable actor name for a role
func (r UserRole) DisplayName() string {
	if r == RoleManager {
		return "Manajer"
	}
	return "Staf Gudang"
}

// StockStatus classifies an item's stock health
type StockStatus string

const (
	StockHealthy  StockStatus = "HEALTHY"
	StockLow      StockStatus = "LOW"
	StockCritical StockStatus = "CRITICAL"
)

// InventoryItem represents a tracked stock item
type InventoryItem struct {
	ID                string  `json:"id"`
	SKU               string  `json:"sku"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	Quantity          int     `json:"quantity"`
	ReorderLevel      int     `json:"reorderLevel"`
	Price             float64 `json:"price"`
	Supplier          string  `json:"supplier"`
	SupplierEmail     string  `json:"supplierEmail"`
	Location          string  `json:"location,omitempty"`
	Condition         string  `json:"condition,omitempty"`
	ResponsiblePerson string  `json:"responsiblePerson,omitempty"`
	LastRestocked     string  `json:"lastRestocked,omitempty"`
}

// StockLog is an append-only audit record for a quantity change.
// Invariant at creation: NewQuantity == PreviousQuantity + Change.
type StockLog struct {
	ID               string   `json:"id"`
	ItemID           string   `json:"itemId"`
	ItemName         string   `json:"itemName"`
	Change           int      `json:"change"`
	PreviousQuantity int      `json:"previousQuantity"`
	NewQuantity      int      `json:"newQuantity"`
	Reason           string   `json:"reason"`
	Timestamp        string   `json:"timestamp"`
	User             string   `json:"user"`
	Role             UserRole `json:"role"`
}

// DefaultItems is the demo inventory seeded when no cache and no remote
// source exist yet.
func DefaultItems() []InventoryItem {
	return []InventoryItem{
		{ID: "1", SKU: "LAP-001", Name: "MacBook Pro 14\"", Category: "Elektronik", Quantity: 12, ReorderLevel: 5, Price: 30000000, Supplier: "Apple Inc.", SupplierEmail: "sales@apple.com", Location: "Rak A1", Condition: "Baru", ResponsiblePerson: "Budi"},
		{ID: "2", SKU: "PHN-002", Name: "iPhone 15 Pro", Category: "Elektronik", Quantity: 3, ReorderLevel: 10, Price: 20000000, Supplier: "Apple Inc.", SupplierEmail: "sales@apple.com", Location: "Rak A2", Condition: "Baru", ResponsiblePerson: "Siti"},
		{ID: "3", SKU: "MON-003", Name: "Studio Display", Category: "Periferal", Quantity: 1, ReorderLevel: 4, Price: 25000000, Supplier: "Apple Inc.", SupplierEmail: "sales@apple.com", Location: "Rak B1", Condition: "Bekas/Display", ResponsiblePerson: "Budi"},
		{ID: "4", SKU: "MOU-004", Name: "Magic Mouse", Category: "Periferal", Quantity: 25, ReorderLevel: 10, Price: 1200000, Supplier: "Logitech", SupplierEmail: "b2b@logitech.com", Location: "Laci C3", Condition: "Baru", ResponsiblePerson: "Agus"},
		{ID: "5", SKU: "KBD-005", Name: "Mechanical Keyboard", Category: "Periferal", Quantity: 8, ReorderLevel: 15, Price: 2000000, Supplier: "Keychron", SupplierEmail: "support@keychron.com", Location: "Rak B2", Condition: "Baru", ResponsiblePerson: "Agus"},
	}
}
