package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

// Mock objects

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct {
	items map[id.ID]*InventoryItem
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[id.ID]*InventoryItem)}
}

func (m *mockRepo) Create(_ context.Context, item *InventoryItem) error {
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, itemID id.ID) (*InventoryItem, error) {
	if item, ok := m.items[itemID]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, apperror.NewNotFound("item", itemID.String())
}

func (m *mockRepo) GetBySKU(_ context.Context, sku string) (*InventoryItem, error) {
	for _, item := range m.items {
		if item.SKU == sku {
			copied := *item
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("item", sku)
}

func (m *mockRepo) Update(_ context.Context, item *InventoryItem) error {
	stored, ok := m.items[item.ID]
	if !ok {
		return apperror.NewNotFound("item", item.ID.String())
	}
	if stored.Version != item.Version {
		return apperror.NewConcurrentModification("item", item.ID.String())
	}
	copied := *item
	copied.Version++
	m.items[item.ID] = &copied
	return nil
}

func (m *mockRepo) Delete(_ context.Context, itemID id.ID) error {
	if _, ok := m.items[itemID]; !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockRepo) DeleteAll(_ context.Context) error {
	m.items = make(map[id.ID]*InventoryItem)
	return nil
}

func (m *mockRepo) List(_ context.Context, filter ListFilter) (ListResult, error) {
	out := []InventoryItem{}
	for _, item := range m.items {
		out = append(out, *item)
	}
	return ListResult{Items: out, TotalCount: int64(len(out)), Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (m *mockRepo) Snapshot(_ context.Context) ([]InventoryItem, error) {
	out := make([]InventoryItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, *item)
	}
	return out, nil
}

func (m *mockRepo) ExistsBySKU(_ context.Context, sku string) (bool, error) {
	for _, item := range m.items {
		if item.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

type mockSeeder struct {
	seeded []*InventoryItem
}

func (m *mockSeeder) RecordInitialStock(_ context.Context, item *InventoryItem) error {
	m.seeded = append(m.seeded, item)
	return nil
}

type mockPurger struct {
	purged []id.ID
}

func (m *mockPurger) DeleteByItem(_ context.Context, itemID id.ID) (int64, error) {
	m.purged = append(m.purged, itemID)
	return 3, nil
}

func validInput() CreateItemInput {
	return CreateItemInput{
		Name:          "Widget",
		Category:      "tools",
		SKU:           "WID-001",
		CurrentStock:  0,
		MinStockLevel: 5,
		BuyPrice:      types.NewMoney(10),
		SellPrice:     types.NewMoney(15),
	}
}

func TestCreate_SeedsInitialStockTransaction(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	seeder := &mockSeeder{}
	svc := NewService(repo, passthroughTxManager{}, seeder, &mockPurger{}, nil)

	input := validInput()
	input.CurrentStock = 20
	item, err := svc.Create(ctx, input)
	require.NoError(t, err)

	require.Len(t, seeder.seeded, 1)
	assert.Equal(t, item.ID, seeder.seeded[0].ID)
	assert.Equal(t, int64(20), item.CurrentStock)
}

func TestCreate_ZeroStockSkipsSeed(t *testing.T) {
	ctx := context.Background()
	seeder := &mockSeeder{}
	svc := NewService(newMockRepo(), passthroughTxManager{}, seeder, &mockPurger{}, nil)

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Empty(t, seeder.seeded)
}

func TestCreate_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockRepo(), passthroughTxManager{}, &mockSeeder{}, &mockPurger{}, nil)

	tests := []struct {
		name      string
		mutate    func(*CreateItemInput)
		wantField string
	}{
		{"missing name", func(i *CreateItemInput) { i.Name = "" }, "name"},
		{"missing category", func(i *CreateItemInput) { i.Category = "" }, "category"},
		{"missing sku", func(i *CreateItemInput) { i.SKU = "" }, "sku"},
		{"zero buy price", func(i *CreateItemInput) { i.BuyPrice = types.Zero() }, "buyPrice"},
		{"sell not above buy", func(i *CreateItemInput) { i.SellPrice = types.NewMoney(10) }, "sellPrice"},
		{"negative stock", func(i *CreateItemInput) { i.CurrentStock = -1 }, "currentStock"},
		{"negative min level", func(i *CreateItemInput) { i.MinStockLevel = -1 }, "minStockLevel"},
		{"max below min", func(i *CreateItemInput) {
			max := int64(2)
			i.MinStockLevel = 5
			i.MaxStockLevel = &max
		}, "maxStockLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			_, err := svc.Create(ctx, input)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)

			fields, ok := appErr.Details["fields"].(map[string]any)
			require.True(t, ok, "validation error must carry a field map")
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestCreate_DuplicateSKU(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockRepo(), passthroughTxManager{}, &mockSeeder{}, &mockPurger{}, nil)

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validInput())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestUpdate_AppliesPartialPatch(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	svc := NewService(repo, passthroughTxManager{}, &mockSeeder{}, &mockPurger{}, nil)

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	newName := "Improved Widget"
	newSell := 18.0
	updated, err := svc.Update(ctx, created.ID, UpdateItemInput{
		Name:      &newName,
		SellPrice: func() *types.Money { p := types.NewMoney(newSell); return &p }(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Improved Widget", updated.Name)
	assert.True(t, updated.SellPrice.Equal(types.NewMoney(18)))
	// Untouched fields survive.
	assert.Equal(t, "tools", updated.Category)
	assert.Equal(t, "WID-001", updated.SKU)
	assert.Greater(t, updated.Version, created.Version)
}

func TestUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockRepo(), passthroughTxManager{}, &mockSeeder{}, &mockPurger{}, nil)

	_, err := svc.Update(ctx, id.New(), UpdateItemInput{})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_CascadesTransactions(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	purger := &mockPurger{}
	svc := NewService(repo, passthroughTxManager{}, &mockSeeder{}, purger, nil)

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.Len(t, purger.purged, 1)
	assert.Equal(t, created.ID, purger.purged[0])

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestList_DefaultsAndCapsLimit(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	svc := NewService(repo, passthroughTxManager{}, &mockSeeder{}, &mockPurger{}, nil)

	result, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Limit)

	result, err = svc.List(ctx, ListFilter{Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, 500, result.Limit)
}
