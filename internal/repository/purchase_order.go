package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

type PurchaseOrderRepository interface {
	Exists(ctx context.Context, poNumber string) (bool, error)
	CreateWithItems(ctx context.Context, po *entity.PurchaseOrder) error
	GetByNumber(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error)
	List(ctx context.Context) ([]*entity.PurchaseOrder, error)
	Search(ctx context.Context, substr string) ([]*entity.PurchaseOrder, error)
	Delete(ctx context.Context, poNumber string) error
	UpdateItem(ctx context.Context, item entity.Item) (*entity.PurchaseOrder, error)
	UpdateOrder(ctx context.Context, poNumber string, orderDate time.Time) (*entity.PurchaseOrder, error)
}

type purchaseOrderRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewPurchaseOrderRepository(db *DB, logger *slog.Logger) PurchaseOrderRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &purchaseOrderRepo{db: db, logger: logger}
}

func (r *purchaseOrderRepo) Exists(ctx context.Context, poNumber string) (bool, error) {
	b := r.db.builder()
	query, args := b.Select(entsql.Count("*")).
		From(b.Table(tablePurchaseOrders)).
		Where(entsql.EQ("po_number", poNumber)).
		Query()
	var n int
	if err := r.db.SQL.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		r.logger.Error("failed to check purchase order", "po_number", poNumber, "error", err)
		return false, common.NewAppError("DB_ERROR", "check purchase order", errors.Join(common.ErrDatabase, err))
	}
	return n > 0, nil
}

// CreateWithItems stores the order and its items in one transaction. An
// existing order number yields ErrDuplicate and nothing is written.
func (r *purchaseOrderRepo) CreateWithItems(ctx context.Context, po *entity.PurchaseOrder) error {
	if po.CreatedAt.IsZero() {
		po.CreatedAt = time.Now().UTC()
	}
	if po.OrderDate.IsZero() {
		po.OrderDate = po.CreatedAt
	}
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		b := r.db.builder()
		query, args := b.Select(entsql.Count("*")).
			From(b.Table(tablePurchaseOrders)).
			Where(entsql.EQ("po_number", po.PONumber)).
			Query()
		var n int
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return errors.Join(common.ErrDatabase, err)
		}
		if n > 0 {
			return common.NewAppError("DUPLICATE_PO", fmt.Sprintf("purchase order %s already exists", po.PONumber), common.ErrDuplicate)
		}

		query, args = b.Insert(tablePurchaseOrders).
			Columns(purchaseOrderColumns...).
			Values(po.ID, po.PONumber, po.OrderDate, po.TotalQty, po.TotalAmount, po.CreatedAt).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Join(common.ErrDatabase, err)
		}
		if len(po.Items) == 0 {
			return nil
		}
		ins := b.Insert(tableItems).Columns(itemColumns...)
		for i := range po.Items {
			it := &po.Items[i]
			if it.ID == uuid.Nil {
				it.ID = uuid.New()
			}
			it.PurchaseOrderID = po.ID
			ins = ins.Values(it.ID, po.ID, i, it.CartPartNo, deref(it.CountryOfOrigin), deref(it.Unit),
				deref(it.Quantity), deref(it.Rate), deref(it.TotalCost), it.Nomenclature)
		}
		query, args = ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Join(common.ErrDatabase, err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to create purchase order", "po_number", po.PONumber, "items", len(po.Items), "error", err)
		return err
	}
	r.logger.Info("purchase order created", "po_number", po.PONumber, "items", len(po.Items), "total_amount", po.TotalAmount)
	return nil
}

func (r *purchaseOrderRepo) GetByNumber(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error) {
	b := r.db.builder()
	query, args := b.Select(purchaseOrderColumns...).
		From(b.Table(tablePurchaseOrders)).
		Where(entsql.EQ("po_number", poNumber)).
		Query()
	po, err := scanPurchaseOrder(r.db.SQL.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("PO_NOT_FOUND", fmt.Sprintf("purchase order %s not found", poNumber), common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get purchase order", "po_number", poNumber, "error", err)
		return nil, errors.Join(common.ErrDatabase, err)
	}
	items, err := r.items(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return po, nil
}

func (r *purchaseOrderRepo) List(ctx context.Context) ([]*entity.PurchaseOrder, error) {
	b := r.db.builder()
	return r.list(ctx, b.Select(purchaseOrderColumns...).
		From(b.Table(tablePurchaseOrders)).
		OrderBy(entsql.Desc("created_at"), "po_number"))
}

// Search matches order numbers containing substr, case-insensitively.
func (r *purchaseOrderRepo) Search(ctx context.Context, substr string) ([]*entity.PurchaseOrder, error) {
	b := r.db.builder()
	return r.list(ctx, b.Select(purchaseOrderColumns...).
		From(b.Table(tablePurchaseOrders)).
		Where(entsql.ContainsFold("po_number", substr)).
		OrderBy("po_number"))
}

func (r *purchaseOrderRepo) list(ctx context.Context, sel *entsql.Selector) ([]*entity.PurchaseOrder, error) {
	query, args := sel.Query()
	rows, err := r.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list purchase orders", "error", err)
		return nil, errors.Join(common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, errors.Join(common.ErrDatabase, err)
		}
		out = append(out, po)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(common.ErrDatabase, err)
	}
	return out, nil
}

// Delete removes an order and its items.
func (r *purchaseOrderRepo) Delete(ctx context.Context, poNumber string) error {
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		b := r.db.builder()
		var id uuid.UUID
		query, args := b.Select("id").From(b.Table(tablePurchaseOrders)).Where(entsql.EQ("po_number", poNumber)).Query()
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.NewAppError("PO_NOT_FOUND", fmt.Sprintf("purchase order %s not found", poNumber), common.ErrNotFound)
			}
			return errors.Join(common.ErrDatabase, err)
		}
		query, args = b.Delete(tableItems).Where(entsql.EQ("purchase_order_id", id)).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Join(common.ErrDatabase, err)
		}
		query, args = b.Delete(tablePurchaseOrders).Where(entsql.EQ("id", id)).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Join(common.ErrDatabase, err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to delete purchase order", "po_number", poNumber, "error", err)
		return err
	}
	r.logger.Info("purchase order deleted", "po_number", poNumber)
	return nil
}

// UpdateItem rewrites one stored item and refreshes the order totals.
func (r *purchaseOrderRepo) UpdateItem(ctx context.Context, item entity.Item) (*entity.PurchaseOrder, error) {
	var po *entity.PurchaseOrder
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		b := r.db.builder()
		query, args := b.Update(tableItems).
			Set("cart_part_no", item.CartPartNo).
			Set("country_of_origin", deref(item.CountryOfOrigin)).
			Set("a_unit", deref(item.Unit)).
			Set("qty", deref(item.Quantity)).
			Set("rate_include_gst", deref(item.Rate)).
			Set("total_cost", deref(item.TotalCost)).
			Set("nomenclature", item.Nomenclature).
			Where(entsql.EQ("id", item.ID)).
			Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return errors.Join(common.ErrDatabase, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return common.NewAppError("ITEM_NOT_FOUND", fmt.Sprintf("item %s not found", item.ID), common.ErrNotFound)
		}

		var poID uuid.UUID
		query, args = b.Select("purchase_order_id").From(b.Table(tableItems)).Where(entsql.EQ("id", item.ID)).Query()
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&poID); err != nil {
			return errors.Join(common.ErrDatabase, err)
		}
		query, args = b.Select(purchaseOrderColumns...).From(b.Table(tablePurchaseOrders)).Where(entsql.EQ("id", poID)).Query()
		po, err = scanPurchaseOrder(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			return errors.Join(common.ErrDatabase, err)
		}
		if po.Items, err = queryItems(ctx, tx, b, poID); err != nil {
			return err
		}
		po.Recalculate()

		query, args = b.Update(tablePurchaseOrders).
			Set("total_qty", po.TotalQty).
			Set("total_amount", po.TotalAmount).
			Where(entsql.EQ("id", poID)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Join(common.ErrDatabase, err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to update item", "item_id", item.ID, "error", err)
		return nil, err
	}
	return po, nil
}

// UpdateOrder changes the order date and rewrites the totals from the stored
// items.
func (r *purchaseOrderRepo) UpdateOrder(ctx context.Context, poNumber string, orderDate time.Time) (*entity.PurchaseOrder, error) {
	if orderDate.IsZero() {
		return nil, common.NewAppError("INVALID_ORDER_DATE", "order_date is required", common.ErrInvalidInput)
	}
	var po *entity.PurchaseOrder
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		b := r.db.builder()
		query, args := b.Select(purchaseOrderColumns...).
			From(b.Table(tablePurchaseOrders)).
			Where(entsql.EQ("po_number", poNumber)).
			Query()
		var err error
		po, err = scanPurchaseOrder(tx.QueryRowContext(ctx, query, args...))
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError("PO_NOT_FOUND", fmt.Sprintf("purchase order %s not found", poNumber), common.ErrNotFound)
		}
		if err != nil {
			return errors.Join(common.ErrDatabase, err)
		}
		if po.Items, err = queryItems(ctx, tx, b, po.ID); err != nil {
			return err
		}
		po.OrderDate = orderDate
		po.Recalculate()

		query, args = b.Update(tablePurchaseOrders).
			Set("order_date", po.OrderDate).
			Set("total_qty", po.TotalQty).
			Set("total_amount", po.TotalAmount).
			Where(entsql.EQ("id", po.ID)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Join(common.ErrDatabase, err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to update purchase order", "po_number", poNumber, "error", err)
		return nil, err
	}
	r.logger.Info("purchase order updated", "po_number", poNumber, "total_qty", po.TotalQty, "total_amount", po.TotalAmount)
	return po, nil
}

func (r *purchaseOrderRepo) items(ctx context.Context, poID uuid.UUID) ([]entity.Item, error) {
	items, err := queryItems(ctx, r.db.SQL, r.db.builder(), poID)
	if err != nil {
		r.logger.Error("failed to load items", "purchase_order_id", poID, "error", err)
	}
	return items, err
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryItems(ctx context.Context, q queryer, b *entsql.DialectBuilder, poID uuid.UUID) ([]entity.Item, error) {
	query, args := b.Select(itemColumns...).
		From(b.Table(tableItems)).
		Where(entsql.EQ("purchase_order_id", poID)).
		OrderBy("position").
		Query()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(common.ErrDatabase, err)
	}
	defer rows.Close()

	items := []entity.Item{}
	for rows.Next() {
		var (
			it       entity.Item
			position int
			country  sql.NullString
			unit     sql.NullString
			qty      sql.NullInt64
			rate     sql.NullFloat64
			cost     sql.NullFloat64
		)
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &position, &it.CartPartNo, &country, &unit,
			&qty, &rate, &cost, &it.Nomenclature); err != nil {
			return nil, errors.Join(common.ErrDatabase, err)
		}
		it.CountryOfOrigin = nullString(country)
		it.Unit = nullString(unit)
		if qty.Valid {
			v := int(qty.Int64)
			it.Quantity = &v
		}
		it.Rate = nullFloat(rate)
		it.TotalCost = nullFloat(cost)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(common.ErrDatabase, err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPurchaseOrder(row rowScanner) (*entity.PurchaseOrder, error) {
	po := &entity.PurchaseOrder{}
	if err := row.Scan(&po.ID, &po.PONumber, &po.OrderDate, &po.TotalQty, &po.TotalAmount, &po.CreatedAt); err != nil {
		return nil, err
	}
	return po, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}

// deref turns a nil pointer into a SQL NULL.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
