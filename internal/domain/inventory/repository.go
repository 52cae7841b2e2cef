package inventory

import (
	"context"

	"stockpilot/internal/core/id"
)

// ListFilter contains filtering options for item listings.
type ListFilter struct {
	// Search matches name, SKU, or category (case-insensitive substring)
	Search string

	// Category filters by exact category
	Category string

	// LowStockOnly keeps items with 0 < current_stock <= min_stock_level
	LowStockOnly bool

	// OutOfStockOnly keeps items with current_stock = 0
	OutOfStockOnly bool

	// OrderBy specifies sorting (e.g., "name", "-updated_at")
	OrderBy string

	Limit  int
	Offset int
}

// ListResult contains paginated items.
type ListResult struct {
	Items      []InventoryItem `json:"items"`
	TotalCount int64           `json:"totalCount"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}

// Repository defines persistence operations for inventory items.
type Repository interface {
	// Create inserts a new item.
	Create(ctx context.Context, item *InventoryItem) error

	// GetByID retrieves an item by ID.
	GetByID(ctx context.Context, id id.ID) (*InventoryItem, error)

	// GetBySKU retrieves an item by its unique SKU.
	GetBySKU(ctx context.Context, sku string) (*InventoryItem, error)

	// Update modifies an existing item with optimistic locking:
	// the stored version must match item.Version or
	// apperror.CodeConcurrentModification is returned.
	Update(ctx context.Context, item *InventoryItem) error

	// Delete physically removes an item.
	Delete(ctx context.Context, id id.ID) error

	// DeleteAll removes every item (bulk import replace).
	DeleteAll(ctx context.Context) error

	// List retrieves items with filtering and pagination.
	List(ctx context.Context, filter ListFilter) (ListResult, error)

	// Snapshot returns all items without pagination, for aggregation.
	Snapshot(ctx context.Context) ([]InventoryItem, error)

	// ExistsBySKU checks SKU uniqueness.
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
