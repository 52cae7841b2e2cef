package transfer

import (
	"context"
	"testing"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/domain/ledger"
)

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memItemRepo struct {
	items map[id.ID]inventory.InventoryItem
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[id.ID]inventory.InventoryItem)}
}

func (m *memItemRepo) Create(_ context.Context, item *inventory.InventoryItem) error {
	m.items[item.ID] = *item
	return nil
}

func (m *memItemRepo) GetByID(_ context.Context, itemID id.ID) (*inventory.InventoryItem, error) {
	if item, ok := m.items[itemID]; ok {
		return &item, nil
	}
	return nil, apperror.NewNotFound("item", itemID.String())
}

func (m *memItemRepo) GetBySKU(_ context.Context, sku string) (*inventory.InventoryItem, error) {
	return nil, apperror.NewNotFound("item", sku)
}

func (m *memItemRepo) Update(_ context.Context, item *inventory.InventoryItem) error {
	m.items[item.ID] = *item
	return nil
}

func (m *memItemRepo) Delete(_ context.Context, itemID id.ID) error {
	delete(m.items, itemID)
	return nil
}

func (m *memItemRepo) DeleteAll(_ context.Context) error {
	m.items = make(map[id.ID]inventory.InventoryItem)
	return nil
}

func (m *memItemRepo) List(_ context.Context, _ inventory.ListFilter) (inventory.ListResult, error) {
	return inventory.ListResult{}, nil
}

func (m *memItemRepo) Snapshot(_ context.Context) ([]inventory.InventoryItem, error) {
	out := make([]inventory.InventoryItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *memItemRepo) ExistsBySKU(_ context.Context, _ string) (bool, error) {
	return false, nil
}

type memTxnRepo struct {
	txns map[id.ID]ledger.StockTransaction
}

func newMemTxnRepo() *memTxnRepo {
	return &memTxnRepo{txns: make(map[id.ID]ledger.StockTransaction)}
}

func (m *memTxnRepo) Create(_ context.Context, txn *ledger.StockTransaction) error {
	m.txns[txn.ID] = *txn
	return nil
}

func (m *memTxnRepo) GetByID(_ context.Context, txnID id.ID) (*ledger.StockTransaction, error) {
	if txn, ok := m.txns[txnID]; ok {
		return &txn, nil
	}
	return nil, apperror.NewNotFound("transaction", txnID.String())
}

func (m *memTxnRepo) List(_ context.Context, _ ledger.ListFilter) ([]ledger.StockTransaction, error) {
	return nil, nil
}

func (m *memTxnRepo) Snapshot(_ context.Context, _ *time.Time) ([]ledger.StockTransaction, error) {
	out := make([]ledger.StockTransaction, 0, len(m.txns))
	for _, txn := range m.txns {
		out = append(out, txn)
	}
	return out, nil
}

func (m *memTxnRepo) DeleteByItem(_ context.Context, itemID id.ID) (int64, error) {
	var n int64
	for txnID, txn := range m.txns {
		if txn.ItemID == itemID {
			delete(m.txns, txnID)
			n++
		}
	}
	return n, nil
}

func (m *memTxnRepo) DeleteAll(_ context.Context) error {
	m.txns = make(map[id.ID]ledger.StockTransaction)
	return nil
}

func seedDataset(items *memItemRepo, txns *memTxnRepo) {
	item := inventory.NewInventoryItem("Widget", "tools", "WID-001", types.NewMoney(10), types.NewMoney(15))
	item.CurrentStock = 5
	items.items[item.ID] = *item
	txn := ledger.NewStockTransaction(item.ID, ledger.TypeStockIn, 5, types.NewMoney(10))
	txns.txns[txn.ID] = *txn
}

func TestImport_EmptyArraysClearEverything(t *testing.T) {
	ctx := context.Background()
	items := newMemItemRepo()
	txns := newMemTxnRepo()
	seedDataset(items, txns)
	svc := NewService(items, txns, passthroughTxManager{}, nil)

	result, err := svc.Import(ctx, Data{Inventory: []inventory.InventoryItem{}, Transactions: []ledger.StockTransaction{}})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.ItemsImported != 0 || result.TransactionsImported != 0 {
		t.Errorf("result = %+v, want zero counts", result)
	}
	if len(items.items) != 0 {
		t.Errorf("items remaining after empty import: %d", len(items.items))
	}
	if len(txns.txns) != 0 {
		t.Errorf("transactions remaining after empty import: %d", len(txns.txns))
	}
}

func TestImport_PreservesClientIDs(t *testing.T) {
	ctx := context.Background()
	items := newMemItemRepo()
	txns := newMemTxnRepo()
	seedDataset(items, txns)
	svc := NewService(items, txns, passthroughTxManager{}, nil)

	itemID := id.New()
	txnID := id.New()
	item := inventory.NewInventoryItem("Gadget", "tools", "GAD-001", types.NewMoney(5), types.NewMoney(9))
	item.ID = itemID
	txn := ledger.NewStockTransaction(itemID, ledger.TypeStockIn, 3, types.NewMoney(5))
	txn.ID = txnID

	result, err := svc.Import(ctx, Data{
		Inventory:    []inventory.InventoryItem{*item},
		Transactions: []ledger.StockTransaction{*txn},
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.ItemsImported != 1 || result.TransactionsImported != 1 {
		t.Errorf("result = %+v, want 1/1", result)
	}
	if _, ok := items.items[itemID]; !ok {
		t.Error("imported item lost its client-supplied id")
	}
	if _, ok := txns.txns[txnID]; !ok {
		t.Error("imported transaction lost its client-supplied id")
	}
	if len(items.items) != 1 {
		t.Errorf("pre-existing items must be replaced, have %d", len(items.items))
	}
}

func TestImport_DefaultsMissingFields(t *testing.T) {
	ctx := context.Background()
	items := newMemItemRepo()
	txns := newMemTxnRepo()
	svc := NewService(items, txns, passthroughTxManager{}, nil)

	_, err := svc.Import(ctx, Data{
		Inventory: []inventory.InventoryItem{{
			Name:     "Bare",
			Category: "misc",
			SKU:      "BARE-1",
		}},
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	var imported inventory.InventoryItem
	for _, item := range items.items {
		imported = item
	}
	if id.IsNil(imported.ID) {
		t.Error("missing id must be generated")
	}
	if imported.CreatedAt.IsZero() || imported.UpdatedAt.IsZero() {
		t.Error("missing timestamps must be defaulted")
	}
	if imported.Version != 1 {
		t.Errorf("version = %d, want 1", imported.Version)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	items := newMemItemRepo()
	txns := newMemTxnRepo()
	seedDataset(items, txns)
	svc := NewService(items, txns, passthroughTxManager{}, nil)

	data, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(data.Inventory) != 1 || len(data.Transactions) != 1 {
		t.Fatalf("export = %d items, %d transactions, want 1/1", len(data.Inventory), len(data.Transactions))
	}
	if data.ExportDate.IsZero() {
		t.Error("export date must be set")
	}

	// Feeding an export back in reproduces the dataset.
	other := NewService(newMemItemRepo(), newMemTxnRepo(), passthroughTxManager{}, nil)
	result, err := other.Import(ctx, *data)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if result.ItemsImported != 1 || result.TransactionsImported != 1 {
		t.Errorf("re-import = %+v, want 1/1", result)
	}
}

func TestExport_EmptyDatasetYieldsEmptyArrays(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemItemRepo(), newMemTxnRepo(), passthroughTxManager{}, nil)

	data, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if data.Inventory == nil || data.Transactions == nil {
		t.Error("export must serialize as [] rather than null")
	}
}
