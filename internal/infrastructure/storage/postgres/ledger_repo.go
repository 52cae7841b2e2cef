package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/ledger"
)

var _ ledger.Repository = (*LedgerRepo)(nil)

var ledgerColumns = []string{
	"id", "item_id", "type", "quantity", "unit_price", "total_amount",
	"reference", "notes", "performed_by", "created_at",
}

// LedgerRepo is the PostgreSQL ledger.Repository implementation.
type LedgerRepo struct {
	txm *TxManager
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *TxManager) *LedgerRepo {
	return &LedgerRepo{txm: txm}
}

func (r *LedgerRepo) Create(ctx context.Context, txn *ledger.StockTransaction) error {
	sql, args, err := builder().
		Insert("stock_transactions").
		Columns(ledgerColumns...).
		Values(
			txn.ID, txn.ItemID, txn.Type, txn.Quantity, txn.UnitPrice, txn.TotalAmount,
			txn.Reference, txn.Notes, txn.PerformedBy, txn.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *LedgerRepo) GetByID(ctx context.Context, txnID id.ID) (*ledger.StockTransaction, error) {
	sql, args, err := builder().
		Select(ledgerColumns...).
		From("stock_transactions").
		Where(squirrel.Eq{"id": txnID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var txn ledger.StockTransaction
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &txn, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("transaction", txnID.String())
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &txn, nil
}

func (r *LedgerRepo) List(ctx context.Context, filter ledger.ListFilter) ([]ledger.StockTransaction, error) {
	q := builder().
		Select(ledgerColumns...).
		From("stock_transactions").
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	txns := []ledger.StockTransaction{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &txns, sql, args...); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

func (r *LedgerRepo) Snapshot(ctx context.Context, since *time.Time) ([]ledger.StockTransaction, error) {
	q := builder().
		Select(ledgerColumns...).
		From("stock_transactions")
	if since != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *since})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	txns := []ledger.StockTransaction{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &txns, sql, args...); err != nil {
		return nil, fmt.Errorf("snapshot transactions: %w", err)
	}
	return txns, nil
}

func (r *LedgerRepo) DeleteByItem(ctx context.Context, itemID id.ID) (int64, error) {
	sql, args, err := builder().
		Delete("stock_transactions").
		Where(squirrel.Eq{"item_id": itemID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *LedgerRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, "DELETE FROM stock_transactions"); err != nil {
		return fmt.Errorf("delete all transactions: %w", err)
	}
	return nil
}
