// Package ledger provides the stock ledger: immutable transaction records
// and the rules for applying them to item stock levels.
package ledger

import (
	"context"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
)

// TransactionType defines the stock movement kind.
type TransactionType string

const (
	// TypeStockIn increases current stock
	TypeStockIn TransactionType = "stock_in"
	// TypeStockOut decreases current stock, clamped at zero
	TypeStockOut TransactionType = "stock_out"
	// TypeAdjustment sets current stock to an absolute value
	TypeAdjustment TransactionType = "adjustment"
	// TypeTransfer records a location move; stock level is unchanged
	TypeTransfer TransactionType = "transfer"
)

// ValidTransactionType reports whether t is one of the recognized types.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TypeStockIn, TypeStockOut, TypeAdjustment, TypeTransfer:
		return true
	}
	return false
}

// StockTransaction is an immutable ledger entry. Once created it is never
// updated; it is deleted only as a cascade of item deletion or bulk import.
type StockTransaction struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// ItemID references the inventory item. No FK is enforced: a
	// transaction whose item was deleted becomes orphaned and is
	// skipped during aggregation.
	ItemID id.ID `db:"item_id" json:"itemId"`

	// Type is the movement kind
	Type TransactionType `db:"type" json:"type"`

	// Quantity is the requested quantity (always positive). For
	// stock_out it records intent, not the clamped effect.
	Quantity int64 `db:"quantity" json:"quantity"`

	// UnitPrice is the price per unit at transaction time
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// TotalAmount equals Quantity × UnitPrice at creation, stored
	// redundantly and never recomputed.
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Reference is an optional free-text reference (invoice no, etc.)
	Reference *string `db:"reference" json:"reference,omitempty"`

	// Notes is an optional free-text note
	Notes *string `db:"notes" json:"notes,omitempty"`

	// PerformedBy is the acting user, when known
	PerformedBy *string `db:"performed_by" json:"performedBy,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockTransaction creates a ledger entry with computed total amount.
func NewStockTransaction(itemID id.ID, txType TransactionType, quantity int64, unitPrice types.Money) *StockTransaction {
	return &StockTransaction{
		ID:          id.New(),
		ItemID:      itemID,
		Type:        txType,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalAmount: unitPrice.Mul(types.NewMoneyFromInt(quantity)),
		CreatedAt:   time.Now().UTC(),
	}
}

// Validate checks creation invariants. Invalid transactions are rejected
// before anything is persisted.
func (t *StockTransaction) Validate(ctx context.Context) error {
	fields := make(map[string]string)

	if id.IsNil(t.ItemID) {
		fields["itemId"] = "item is required"
	}
	if !ValidTransactionType(t.Type) {
		fields["type"] = "transaction type must be one of stock_in, stock_out, adjustment, transfer"
	}
	if t.Quantity <= 0 {
		fields["quantity"] = "quantity must be greater than 0"
	}
	if t.UnitPrice.Sign() <= 0 {
		fields["unitPrice"] = "unit price must be greater than 0"
	}

	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	return nil
}
