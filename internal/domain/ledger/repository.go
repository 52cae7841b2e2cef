package ledger

import (
	"context"
	"time"

	"stockpilot/internal/core/id"
)

// ListFilter contains filtering options for transaction listings.
type ListFilter struct {
	// ItemID restricts to one item's history
	ItemID *id.ID

	// Type restricts to one movement kind
	Type *TransactionType

	// FromDate/ToDate bound createdAt (inclusive)
	FromDate *time.Time
	ToDate   *time.Time

	Limit  int
	Offset int
}

// Repository defines persistence operations for the ledger.
// Entries are append-only: there is no update operation.
type Repository interface {
	// Create appends a ledger entry.
	Create(ctx context.Context, txn *StockTransaction) error

	// GetByID retrieves one entry.
	GetByID(ctx context.Context, id id.ID) (*StockTransaction, error)

	// List retrieves entries newest first.
	List(ctx context.Context, filter ListFilter) ([]StockTransaction, error)

	// Snapshot returns all entries with createdAt >= since (all when nil),
	// for aggregation.
	Snapshot(ctx context.Context, since *time.Time) ([]StockTransaction, error)

	// DeleteByItem removes all entries for an item (cascade of item
	// deletion). Returns the number of removed entries.
	DeleteByItem(ctx context.Context, itemID id.ID) (int64, error)

	// DeleteAll removes every entry (bulk import replace).
	DeleteAll(ctx context.Context) error
}
