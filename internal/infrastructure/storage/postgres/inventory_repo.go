package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/inventory"
)

var _ inventory.Repository = (*InventoryRepo)(nil)

var inventoryColumns = []string{
	"id", "name", "description", "category", "sku",
	"current_stock", "min_stock_level", "max_stock_level",
	"buy_price", "sell_price", "supplier", "location",
	"version", "created_at", "updated_at",
}

// InventoryRepo is the PostgreSQL inventory.Repository implementation.
type InventoryRepo struct {
	txm *TxManager
}

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(txm *TxManager) *InventoryRepo {
	return &InventoryRepo{txm: txm}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *InventoryRepo) Create(ctx context.Context, item *inventory.InventoryItem) error {
	sql, args, err := builder().
		Insert("inventory_items").
		Columns(inventoryColumns...).
		Values(
			item.ID, item.Name, item.Description, item.Category, item.SKU,
			item.CurrentStock, item.MinStockLevel, item.MaxStockLevel,
			item.BuyPrice, item.SellPrice, item.Supplier, item.Location,
			item.Version, item.CreatedAt, item.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("item", "sku", item.SKU)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, itemID id.ID) (*inventory.InventoryItem, error) {
	return r.getOne(ctx, squirrel.Eq{"id": itemID}, itemID.String())
}

func (r *InventoryRepo) GetBySKU(ctx context.Context, sku string) (*inventory.InventoryItem, error) {
	return r.getOne(ctx, squirrel.Eq{"sku": sku}, sku)
}

func (r *InventoryRepo) getOne(ctx context.Context, pred any, ref string) (*inventory.InventoryItem, error) {
	sql, args, err := builder().
		Select(inventoryColumns...).
		From("inventory_items").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var item inventory.InventoryItem
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("item", ref)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &item, nil
}

// Update writes all mutable columns with optimistic locking. The stored
// version must match item.Version; the write bumps it by one.
func (r *InventoryRepo) Update(ctx context.Context, item *inventory.InventoryItem) error {
	sql, args, err := builder().
		Update("inventory_items").
		SetMap(map[string]any{
			"name":            item.Name,
			"description":     item.Description,
			"category":        item.Category,
			"sku":             item.SKU,
			"current_stock":   item.CurrentStock,
			"min_stock_level": item.MinStockLevel,
			"max_stock_level": item.MaxStockLevel,
			"buy_price":       item.BuyPrice,
			"sell_price":      item.SellPrice,
			"supplier":        item.Supplier,
			"location":        item.Location,
			"updated_at":      item.UpdatedAt,
		}).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": item.ID, "version": item.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("item", "sku", item.SKU)
		}
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or someone else bumped the version.
		if _, err := r.GetByID(ctx, item.ID); err != nil {
			return err
		}
		return apperror.NewConcurrentModification("item", item.ID.String())
	}
	return nil
}

func (r *InventoryRepo) Delete(ctx context.Context, itemID id.ID) error {
	sql, args, err := builder().
		Delete("inventory_items").
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}
	return nil
}

func (r *InventoryRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, "DELETE FROM inventory_items"); err != nil {
		return fmt.Errorf("delete all items: %w", err)
	}
	return nil
}

func (r *InventoryRepo) List(ctx context.Context, filter inventory.ListFilter) (inventory.ListResult, error) {
	where := r.buildWhere(filter)

	countSQL, countArgs, err := builder().
		Select("COUNT(*)").
		From("inventory_items").
		Where(where).
		ToSql()
	if err != nil {
		return inventory.ListResult{}, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return inventory.ListResult{}, fmt.Errorf("count items: %w", err)
	}

	q := builder().
		Select(inventoryColumns...).
		From("inventory_items").
		Where(where).
		OrderBy(orderClause(filter.OrderBy)).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return inventory.ListResult{}, fmt.Errorf("build select: %w", err)
	}

	items := []inventory.InventoryItem{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return inventory.ListResult{}, fmt.Errorf("list items: %w", err)
	}

	return inventory.ListResult{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *InventoryRepo) buildWhere(filter inventory.ListFilter) squirrel.And {
	where := squirrel.And{}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
			squirrel.ILike{"category": pattern},
		})
	}
	if filter.Category != "" {
		where = append(where, squirrel.Eq{"category": filter.Category})
	}
	if filter.LowStockOnly {
		where = append(where, squirrel.Expr("current_stock > 0 AND current_stock <= min_stock_level"))
	}
	if filter.OutOfStockOnly {
		where = append(where, squirrel.Eq{"current_stock": 0})
	}
	return where
}

// allowed sort columns; anything else falls back to name.
var sortableColumns = map[string]string{
	"name":       "name",
	"sku":        "sku",
	"category":   "category",
	"stock":      "current_stock",
	"updated_at": "updated_at",
	"created_at": "created_at",
}

func orderClause(orderBy string) string {
	dir := "ASC"
	if len(orderBy) > 0 && orderBy[0] == '-' {
		dir = "DESC"
		orderBy = orderBy[1:]
	}
	col, ok := sortableColumns[orderBy]
	if !ok {
		return "name ASC"
	}
	return col + " " + dir
}

func (r *InventoryRepo) Snapshot(ctx context.Context) ([]inventory.InventoryItem, error) {
	sql, args, err := builder().
		Select(inventoryColumns...).
		From("inventory_items").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	items := []inventory.InventoryItem{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("snapshot items: %w", err)
	}
	return items, nil
}

func (r *InventoryRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := r.txm.GetQuerier(ctx).
		QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM inventory_items WHERE sku = $1)", sku).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check sku: %w", err)
	}
	return exists, nil
}

// isUniqueViolation reports a PostgreSQL unique constraint error (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
