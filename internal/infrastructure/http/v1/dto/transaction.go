package dto

import (
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/ledger"
)

// CreateTransactionRequest for recording stock transactions.
type CreateTransactionRequest struct {
	ItemID    string  `json:"itemId"`
	Type      string  `json:"type"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Reference *string `json:"reference"`
	Notes     *string `json:"notes"`
}

// ToInput converts the request into a service input.
func (r CreateTransactionRequest) ToInput() (ledger.RecordInput, error) {
	itemID, err := id.Parse(r.ItemID)
	if err != nil {
		return ledger.RecordInput{}, apperror.NewFieldValidation(map[string]string{
			"itemId": "item id must be a valid UUID",
		})
	}
	return ledger.RecordInput{
		ItemID:    itemID,
		Type:      ledger.TransactionType(r.Type),
		Quantity:  r.Quantity,
		UnitPrice: types.NewMoney(r.UnitPrice),
		Reference: r.Reference,
		Notes:     r.Notes,
	}, nil
}

// ListTransactionsQuery for transaction listing filters.
type ListTransactionsQuery struct {
	ItemID string `form:"itemId"`
	Type   string `form:"type"`
	From   string `form:"from"`
	To     string `form:"to"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// ToFilter converts the query into a repository filter.
func (q ListTransactionsQuery) ToFilter() (ledger.ListFilter, error) {
	filter := ledger.ListFilter{Limit: q.Limit, Offset: q.Offset}

	if q.ItemID != "" {
		itemID, err := id.Parse(q.ItemID)
		if err != nil {
			return filter, apperror.NewValidation("invalid itemId format")
		}
		filter.ItemID = &itemID
	}
	if q.Type != "" {
		txType := ledger.TransactionType(q.Type)
		if !ledger.ValidTransactionType(txType) {
			return filter, apperror.NewValidation("invalid transaction type")
		}
		filter.Type = &txType
	}
	if q.From != "" {
		from, err := time.Parse(time.RFC3339, q.From)
		if err != nil {
			return filter, apperror.NewValidation("from must be RFC3339")
		}
		filter.FromDate = &from
	}
	if q.To != "" {
		to, err := time.Parse(time.RFC3339, q.To)
		if err != nil {
			return filter, apperror.NewValidation("to must be RFC3339")
		}
		filter.ToDate = &to
	}

	return filter, nil
}
