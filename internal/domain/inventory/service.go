package inventory

import (
	"context"
	"fmt"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/core/types"
	"stockpilot/pkg/logger"
)

// InitialStockRecorder persists the ledger entry that backs starting stock,
// keeping the ledger a complete audit trail: every unit of stock traces to
// a transaction. Implemented by the ledger service.
type InitialStockRecorder interface {
	RecordInitialStock(ctx context.Context, item *InventoryItem) error
}

// TransactionPurger removes ledger entries for a deleted item (cascade).
// Implemented by the ledger repository.
type TransactionPurger interface {
	DeleteByItem(ctx context.Context, itemID id.ID) (int64, error)
}

// Auditor records entity changes for the audit log. Optional.
type Auditor interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action string, changes any)
}

// Service provides business logic for the item catalog.
type Service struct {
	repo         Repository
	txManager    tx.Manager
	initialStock InitialStockRecorder
	purger       TransactionPurger
	auditor      Auditor
}

// NewService creates a new inventory service.
func NewService(repo Repository, txManager tx.Manager, initialStock InitialStockRecorder, purger TransactionPurger, auditor Auditor) *Service {
	return &Service{
		repo:         repo,
		txManager:    txManager,
		initialStock: initialStock,
		purger:       purger,
		auditor:      auditor,
	}
}

// CreateItemInput carries item creation data.
type CreateItemInput struct {
	Name          string
	Description   *string
	Category      string
	SKU           string
	CurrentStock  int64
	MinStockLevel int64
	MaxStockLevel *int64
	BuyPrice      types.Money
	SellPrice     types.Money
	Supplier      *string
	Location      *string
}

// Create validates and persists a new item. When the item starts with
// stock on hand, a stock_in transaction is seeded in the same database
// transaction so the ledger accounts for every unit.
func (s *Service) Create(ctx context.Context, input CreateItemInput) (*InventoryItem, error) {
	item := NewInventoryItem(input.Name, input.Category, input.SKU, input.BuyPrice, input.SellPrice)
	item.Description = input.Description
	item.CurrentStock = input.CurrentStock
	item.MinStockLevel = input.MinStockLevel
	item.MaxStockLevel = input.MaxStockLevel
	item.Supplier = input.Supplier
	item.Location = input.Location

	if err := item.Validate(ctx); err != nil {
		return nil, err
	}

	if exists, err := s.repo.ExistsBySKU(ctx, item.SKU); err != nil {
		return nil, fmt.Errorf("check sku: %w", err)
	} else if exists {
		return nil, apperror.NewDuplicate("item", "sku", item.SKU)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, item); err != nil {
			return err
		}
		if item.CurrentStock > 0 && s.initialStock != nil {
			if err := s.initialStock.RecordInitialStock(ctx, item); err != nil {
				return fmt.Errorf("seed initial stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		s.auditor.Record(ctx, "inventory_item", item.ID, "create", item)
	}

	logger.Info(ctx, "item created",
		"item_id", item.ID,
		"sku", item.SKU,
		"initial_stock", item.CurrentStock,
	)

	return item, nil
}

// UpdateItemInput carries partial item updates. Nil fields are left unchanged.
// CurrentStock is deliberately absent: stock moves only through transactions.
type UpdateItemInput struct {
	Name          *string
	Description   *string
	Category      *string
	SKU           *string
	MinStockLevel *int64
	MaxStockLevel *int64
	BuyPrice      *types.Money
	SellPrice     *types.Money
	Supplier      *string
	Location      *string
}

// Update applies direct edits to non-stock attributes.
func (s *Service) Update(ctx context.Context, itemID id.ID, input UpdateItemInput) (*InventoryItem, error) {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.SKU != nil && *input.SKU != item.SKU {
		if exists, err := s.repo.ExistsBySKU(ctx, *input.SKU); err != nil {
			return nil, fmt.Errorf("check sku: %w", err)
		} else if exists {
			return nil, apperror.NewDuplicate("item", "sku", *input.SKU)
		}
		item.SKU = *input.SKU
	}
	if input.MinStockLevel != nil {
		item.MinStockLevel = *input.MinStockLevel
	}
	if input.MaxStockLevel != nil {
		item.MaxStockLevel = input.MaxStockLevel
	}
	if input.BuyPrice != nil {
		item.BuyPrice = *input.BuyPrice
	}
	if input.SellPrice != nil {
		item.SellPrice = *input.SellPrice
	}
	if input.Supplier != nil {
		item.Supplier = input.Supplier
	}
	if input.Location != nil {
		item.Location = input.Location
	}

	if err := item.ValidateUpdate(ctx); err != nil {
		return nil, err
	}

	item.Touch()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	item.Version++

	if s.auditor != nil {
		s.auditor.Record(ctx, "inventory_item", item.ID, "update", item)
	}

	return item, nil
}

// Delete removes an item and cascades to its ledger entries.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, itemID); err != nil {
			return err
		}
		purged, err := s.purger.DeleteByItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("purge transactions: %w", err)
		}
		logger.Info(ctx, "item deleted", "item_id", itemID, "transactions_purged", purged)
		return nil
	})
	if err != nil {
		return err
	}

	if s.auditor != nil {
		s.auditor.Record(ctx, "inventory_item", itemID, "delete", nil)
	}
	return nil
}

// Get retrieves a single item by ID.
func (s *Service) Get(ctx context.Context, itemID id.ID) (*InventoryItem, error) {
	return s.repo.GetByID(ctx, itemID)
}

// List retrieves items with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}
