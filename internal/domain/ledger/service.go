package ledger

import (
	"context"
	"fmt"

	"stockpilot/internal/core/apperror"
	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/inventory"
	"stockpilot/pkg/logger"
)

// maxRecordAttempts bounds the optimistic-lock retry loop.
const maxRecordAttempts = 3

// Auditor records ledger activity for the audit log. Optional.
type Auditor interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action string, changes any)
}

// Service applies stock transactions to items.
//
// Ledger policy is record-first: the transaction row is persisted even when
// the referenced item cannot be found, in which case the stock mutation is
// skipped and the entry stands alone as an orphan.
type Service struct {
	txns      Repository
	items     inventory.Repository
	txManager tx.Manager
	auditor   Auditor
}

// NewService creates a new ledger service.
func NewService(txns Repository, items inventory.Repository, txManager tx.Manager, auditor Auditor) *Service {
	return &Service{
		txns:      txns,
		items:     items,
		txManager: txManager,
		auditor:   auditor,
	}
}

// RecordInput carries a transaction request.
type RecordInput struct {
	ItemID    id.ID
	Type      TransactionType
	Quantity  int64
	UnitPrice types.Money
	Reference *string
	Notes     *string
}

// Record validates and persists a stock transaction, then applies it to the
// referenced item:
//
//   - stock_in:   current_stock += quantity
//   - stock_out:  current_stock = max(0, current_stock − quantity); the
//     entry keeps the requested quantity (intent, not clamped effect)
//   - adjustment: current_stock = quantity (absolute override)
//   - transfer:   current_stock unchanged
//
// The item update uses optimistic locking; on concurrent modification the
// whole transaction is retried a bounded number of times.
func (s *Service) Record(ctx context.Context, input RecordInput) (*StockTransaction, error) {
	txn := NewStockTransaction(input.ItemID, input.Type, input.Quantity, input.UnitPrice)
	txn.Reference = input.Reference
	txn.Notes = input.Notes
	if userID := appctx.GetUserID(ctx); userID != "" {
		txn.PerformedBy = &userID
	}

	if err := txn.Validate(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxRecordAttempts; attempt++ {
		lastErr = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			// Record first: the entry is persisted unconditionally.
			if err := s.txns.Create(ctx, txn); err != nil {
				return fmt.Errorf("create transaction: %w", err)
			}

			item, err := s.items.GetByID(ctx, txn.ItemID)
			if err != nil {
				if apperror.IsNotFound(err) {
					logger.Warn(ctx, "transaction recorded for unknown item",
						"transaction_id", txn.ID,
						"item_id", txn.ItemID,
					)
					return nil
				}
				return err
			}

			applyToStock(item, txn)
			item.Touch()
			return s.items.Update(ctx, item)
		})
		if lastErr == nil {
			break
		}
		if !apperror.IsConcurrentModification(lastErr) {
			return nil, lastErr
		}
		logger.Warn(ctx, "concurrent stock update, retrying",
			"item_id", txn.ItemID,
			"attempt", attempt,
		)
	}
	if lastErr != nil {
		return nil, lastErr
	}

	if s.auditor != nil {
		s.auditor.Record(ctx, "stock_transaction", txn.ID, "create", txn)
	}

	logger.Info(ctx, "transaction recorded",
		"transaction_id", txn.ID,
		"item_id", txn.ItemID,
		"type", txn.Type,
		"quantity", txn.Quantity,
	)

	return txn, nil
}

// applyToStock mutates the item's stock per transaction type.
// A stock_out that exceeds current stock clamps at zero; the deficit is
// absorbed silently (canonical rule, see DESIGN.md).
func applyToStock(item *inventory.InventoryItem, txn *StockTransaction) {
	switch txn.Type {
	case TypeStockIn:
		item.CurrentStock += txn.Quantity
	case TypeStockOut:
		item.CurrentStock -= txn.Quantity
		if item.CurrentStock < 0 {
			item.CurrentStock = 0
		}
	case TypeAdjustment:
		item.CurrentStock = txn.Quantity
	case TypeTransfer:
		// Location move only.
	}
}

// RecordInitialStock persists the stock_in entry backing an item's starting
// stock. Called by the inventory service inside the creating transaction;
// the item row already carries the stock, so no mutation happens here.
func (s *Service) RecordInitialStock(ctx context.Context, item *inventory.InventoryItem) error {
	txn := NewStockTransaction(item.ID, TypeStockIn, item.CurrentStock, item.BuyPrice)
	notes := "Initial stock via item creation"
	txn.Notes = &notes
	if userID := appctx.GetUserID(ctx); userID != "" {
		txn.PerformedBy = &userID
	}

	if err := txn.Validate(ctx); err != nil {
		return err
	}
	return s.txns.Create(ctx, txn)
}

// Get retrieves a single transaction.
func (s *Service) Get(ctx context.Context, txnID id.ID) (*StockTransaction, error) {
	return s.txns.GetByID(ctx, txnID)
}

// List retrieves transactions newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]StockTransaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.txns.List(ctx, filter)
}
