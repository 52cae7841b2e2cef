package dto

import (
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/inventory"
)

// CreateItemRequest for creating inventory items.
type CreateItemRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	Category      string  `json:"category"`
	SKU           string  `json:"sku"`
	CurrentStock  int64   `json:"currentStock"`
	MinStockLevel int64   `json:"minStockLevel"`
	MaxStockLevel *int64  `json:"maxStockLevel"`
	BuyPrice      float64 `json:"buyPrice"`
	SellPrice     float64 `json:"sellPrice"`
	Supplier      *string `json:"supplier"`
	Location      *string `json:"location"`
}

// ToInput converts the request into a service input.
func (r CreateItemRequest) ToInput() inventory.CreateItemInput {
	return inventory.CreateItemInput{
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		SKU:           r.SKU,
		CurrentStock:  r.CurrentStock,
		MinStockLevel: r.MinStockLevel,
		MaxStockLevel: r.MaxStockLevel,
		BuyPrice:      types.NewMoney(r.BuyPrice),
		SellPrice:     types.NewMoney(r.SellPrice),
		Supplier:      r.Supplier,
		Location:      r.Location,
	}
}

// UpdateItemRequest for partial item updates. Absent fields stay
// unchanged; current stock is never editable here.
type UpdateItemRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	SKU           *string  `json:"sku"`
	MinStockLevel *int64   `json:"minStockLevel"`
	MaxStockLevel *int64   `json:"maxStockLevel"`
	BuyPrice      *float64 `json:"buyPrice"`
	SellPrice     *float64 `json:"sellPrice"`
	Supplier      *string  `json:"supplier"`
	Location      *string  `json:"location"`
}

// ToInput converts the request into a service input.
func (r UpdateItemRequest) ToInput() inventory.UpdateItemInput {
	input := inventory.UpdateItemInput{
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		SKU:           r.SKU,
		MinStockLevel: r.MinStockLevel,
		MaxStockLevel: r.MaxStockLevel,
		Supplier:      r.Supplier,
		Location:      r.Location,
	}
	if r.BuyPrice != nil {
		price := types.NewMoney(*r.BuyPrice)
		input.BuyPrice = &price
	}
	if r.SellPrice != nil {
		price := types.NewMoney(*r.SellPrice)
		input.SellPrice = &price
	}
	return input
}

// ListItemsQuery for item listing filters.
type ListItemsQuery struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	LowStock   bool   `form:"lowStock"`
	OutOfStock bool   `form:"outOfStock"`
	OrderBy    string `form:"orderBy"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// ToFilter converts the query into a repository filter.
func (q ListItemsQuery) ToFilter() inventory.ListFilter {
	return inventory.ListFilter{
		Search:         q.Search,
		Category:       q.Category,
		LowStockOnly:   q.LowStock,
		OutOfStockOnly: q.OutOfStock,
		OrderBy:        q.OrderBy,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}
}
