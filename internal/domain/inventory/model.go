// Package inventory provides the item catalog: stocked products with
// pricing, stock levels, and alert thresholds.
package inventory

import (
	"context"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

// InventoryItem represents a stocked product.
// CurrentStock is mutated only through stock transactions; all other
// attributes may be edited directly.
type InventoryItem struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// Description is an optional detailed description
	Description *string `db:"description" json:"description,omitempty"`

	// Category is a free-text grouping
	Category string `db:"category" json:"category"`

	// SKU is the unique stock keeping unit
	SKU string `db:"sku" json:"sku"`

	// CurrentStock is the on-hand quantity, never negative
	CurrentStock int64 `db:"current_stock" json:"currentStock"`

	// MinStockLevel triggers low-stock alerts
	MinStockLevel int64 `db:"min_stock_level" json:"minStockLevel"`

	// MaxStockLevel triggers overstock alerts (optional)
	MaxStockLevel *int64 `db:"max_stock_level" json:"maxStockLevel,omitempty"`

	// BuyPrice is the unit cost
	BuyPrice types.Money `db:"buy_price" json:"buyPrice"`

	// SellPrice is the unit price; must exceed BuyPrice at creation time
	SellPrice types.Money `db:"sell_price" json:"sellPrice"`

	// Supplier is an optional supplier reference
	Supplier *string `db:"supplier" json:"supplier,omitempty"`

	// Location is an optional storage location
	Location *string `db:"location" json:"location,omitempty"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewInventoryItem creates a new item with generated ID and timestamps.
func NewInventoryItem(name, category, sku string, buyPrice, sellPrice types.Money) *InventoryItem {
	now := time.Now().UTC()
	return &InventoryItem{
		ID:        id.New(),
		Name:      name,
		Category:  category,
		SKU:       sku,
		BuyPrice:  buyPrice,
		SellPrice: sellPrice,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (i *InventoryItem) Touch() {
	i.UpdatedAt = time.Now().UTC()
}

// IsLowStock reports whether the item is above zero but at or below its minimum.
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock > 0 && i.CurrentStock <= i.MinStockLevel
}

// IsOutOfStock reports whether the item has no stock at all.
func (i *InventoryItem) IsOutOfStock() bool {
	return i.CurrentStock == 0
}

// StockValue returns current stock valued at buy price.
func (i *InventoryItem) StockValue() types.Money {
	return i.BuyPrice.Mul(types.NewMoneyFromInt(i.CurrentStock))
}

// Validate checks creation-time invariants.
// Returns an AppError carrying a field→message map on failure.
func (i *InventoryItem) Validate(ctx context.Context) error {
	fields := i.validateAttributes()

	// Sell price must exceed buy price at creation time only;
	// later price edits are not re-validated against each other.
	if i.SellPrice.Sign() > 0 && i.BuyPrice.Sign() > 0 && i.SellPrice.Cmp(i.BuyPrice) <= 0 {
		fields["sellPrice"] = "sell price must be greater than buy price"
	}

	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	return nil
}

// ValidateUpdate checks invariants that apply to direct field edits.
func (i *InventoryItem) ValidateUpdate(ctx context.Context) error {
	fields := i.validateAttributes()
	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	return nil
}

func (i *InventoryItem) validateAttributes() map[string]string {
	fields := make(map[string]string)

	if i.Name == "" {
		fields["name"] = "product name is required"
	}
	if i.Category == "" {
		fields["category"] = "category is required"
	}
	if i.SKU == "" {
		fields["sku"] = "SKU is required"
	}
	if i.BuyPrice.Sign() <= 0 {
		fields["buyPrice"] = "buy price must be greater than 0"
	}
	if i.SellPrice.Sign() <= 0 {
		fields["sellPrice"] = "sell price must be greater than 0"
	}
	if i.CurrentStock < 0 {
		fields["currentStock"] = "current stock must be 0 or greater"
	}
	if i.MinStockLevel < 0 {
		fields["minStockLevel"] = "minimum stock level must be 0 or greater"
	}
	if i.MaxStockLevel != nil {
		if *i.MaxStockLevel < 0 {
			fields["maxStockLevel"] = "maximum stock level must be 0 or greater"
		} else if *i.MaxStockLevel < i.MinStockLevel {
			fields["maxStockLevel"] = "maximum stock level must not be below minimum"
		}
	}

	return fields
}
