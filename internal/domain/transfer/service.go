// Package transfer implements bulk JSON export and destructive-replace
// import of the full dataset.
package transfer

import (
	"context"
	"fmt"
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/domain/ledger"
	"stockpilot/pkg/logger"
)

// Data is the wire format for export and import.
type Data struct {
	Inventory    []inventory.InventoryItem `json:"inventory"`
	Transactions []ledger.StockTransaction `json:"transactions"`
	ExportDate   time.Time                 `json:"exportDate"`
}

// ImportResult reports what the import inserted.
type ImportResult struct {
	ItemsImported        int `json:"itemsImported"`
	TransactionsImported int `json:"transactionsImported"`
}

// Auditor records import actions for the audit log. Optional.
type Auditor interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action string, changes any)
}

// Service moves the full dataset in and out as one JSON document.
type Service struct {
	items     inventory.Repository
	txns      ledger.Repository
	txManager tx.Manager
	auditor   Auditor
	clock     func() time.Time
}

// NewService creates a new transfer service.
func NewService(items inventory.Repository, txns ledger.Repository, txManager tx.Manager, auditor Auditor) *Service {
	return &Service{
		items:     items,
		txns:      txns,
		txManager: txManager,
		auditor:   auditor,
		clock:     time.Now,
	}
}

// Export snapshots the full dataset.
func (s *Service) Export(ctx context.Context) (*Data, error) {
	items, err := s.items.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("export items: %w", err)
	}
	txns, err := s.txns.Snapshot(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}
	if items == nil {
		items = []inventory.InventoryItem{}
	}
	if txns == nil {
		txns = []ledger.StockTransaction{}
	}
	return &Data{
		Inventory:    items,
		Transactions: txns,
		ExportDate:   s.clock().UTC(),
	}, nil
}

// Import replaces the full dataset in one database transaction: both
// collections are cleared, then the supplied records are inserted
// verbatim. Client-supplied ids become the new primary keys; there is
// no merge. Empty arrays leave the collections empty.
func (s *Service) Import(ctx context.Context, data Data) (*ImportResult, error) {
	now := s.clock().UTC()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.txns.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear transactions: %w", err)
		}
		if err := s.items.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear items: %w", err)
		}

		for i := range data.Inventory {
			item := &data.Inventory[i]
			if id.IsNil(item.ID) {
				item.ID = id.New()
			}
			if item.CreatedAt.IsZero() {
				item.CreatedAt = now
			}
			if item.UpdatedAt.IsZero() {
				item.UpdatedAt = now
			}
			item.Version = 1
			if err := s.items.Create(ctx, item); err != nil {
				return fmt.Errorf("import item %s: %w", item.ID, err)
			}
		}

		for i := range data.Transactions {
			txn := &data.Transactions[i]
			if id.IsNil(txn.ID) {
				txn.ID = id.New()
			}
			if txn.CreatedAt.IsZero() {
				txn.CreatedAt = now
			}
			if err := s.txns.Create(ctx, txn); err != nil {
				return fmt.Errorf("import transaction %s: %w", txn.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		ItemsImported:        len(data.Inventory),
		TransactionsImported: len(data.Transactions),
	}

	if s.auditor != nil {
		s.auditor.Record(ctx, "dataset", id.Nil(), "import", result)
	}

	logger.Info(ctx, "dataset imported",
		"items", result.ItemsImported,
		"transactions", result.TransactionsImported,
	)

	return result, nil
}
