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

// DeliveryRepository tracks what was delivered and accepted per order item.
type DeliveryRepository interface {
	RecordDelivery(ctx context.Context, d *entity.Delivery) error
	DeliveriesByItem(ctx context.Context, itemID uuid.UUID) ([]entity.Delivery, error)
	SetItemStatus(ctx context.Context, st *entity.ItemStatus) error
	ItemStatus(ctx context.Context, itemID uuid.UUID) (*entity.ItemStatus, error)
}

type deliveryRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewDeliveryRepository(db *DB, logger *slog.Logger) DeliveryRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &deliveryRepo{db: db, logger: logger}
}

func validateDelivery(d *entity.Delivery) error {
	v := common.NewValidator().
		Field("challan_no", d.ChallanNo, common.Required, common.MaxLength(64)).
		Field("delivered_qty", d.DeliveredQty, common.NonNegative).
		Field("rejected_qty", d.RejectedQty, common.NonNegative).
		Field("approved_qty", d.ApprovedQty, common.NonNegative)
	if d.DeliveryDate.IsZero() {
		v.Field("delivery_date", nil, common.Required)
	}
	if d.ApprovedQty+d.RejectedQty > d.DeliveredQty {
		v.Field("approved_qty", d.ApprovedQty, func(name string, value interface{}) *common.ValidationError {
			return &common.ValidationError{Field: name, Value: value, Message: "approved and rejected exceed delivered"}
		})
	}
	return v.Error()
}

// RecordDelivery appends a delivery to its item. A missing item yields
// ErrNotFound, inconsistent quantities ErrValidation.
func (r *deliveryRepo) RecordDelivery(ctx context.Context, d *entity.Delivery) error {
	if err := validateDelivery(d); err != nil {
		return err
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.RecordedAt.IsZero() {
		d.RecordedAt = time.Now().UTC()
	}
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		b := r.db.builder()
		if err := itemExists(ctx, tx, b, d.ItemID); err != nil {
			return err
		}
		query, args := b.Insert(tableDeliveryTrackings).
			Columns(deliveryTrackingColumns...).
			Values(d.ID, d.ItemID, d.ChallanNo, d.DeliveryDate, d.DeliveredQty, d.RejectedQty, d.ApprovedQty, d.RecordedAt).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Join(common.ErrDatabase, fmt.Errorf("insert delivery: %w", err))
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to record delivery", "item_id", d.ItemID, "challan_no", d.ChallanNo, "error", err)
		return err
	}
	r.logger.Info("delivery recorded", "item_id", d.ItemID, "challan_no", d.ChallanNo, "delivered_qty", d.DeliveredQty)
	return nil
}

// DeliveriesByItem lists deliveries oldest first; an unknown item has none.
func (r *deliveryRepo) DeliveriesByItem(ctx context.Context, itemID uuid.UUID) ([]entity.Delivery, error) {
	b := r.db.builder()
	query, args := b.Select(deliveryTrackingColumns...).
		From(b.Table(tableDeliveryTrackings)).
		Where(entsql.EQ("item_id", itemID)).
		OrderBy("delivery_date", "recorded_at").
		Query()
	rows, err := r.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list deliveries", "item_id", itemID, "error", err)
		return nil, errors.Join(common.ErrDatabase, err)
	}
	defer rows.Close()

	out := []entity.Delivery{}
	for rows.Next() {
		var d entity.Delivery
		if err := rows.Scan(&d.ID, &d.ItemID, &d.ChallanNo, &d.DeliveryDate, &d.DeliveredQty,
			&d.RejectedQty, &d.ApprovedQty, &d.RecordedAt); err != nil {
			return nil, errors.Join(common.ErrDatabase, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(common.ErrDatabase, err)
	}
	return out, nil
}

// SetItemStatus creates or replaces the status of st.ItemID.
func (r *deliveryRepo) SetItemStatus(ctx context.Context, st *entity.ItemStatus) error {
	v := common.NewValidator().
		Field("remaining_qty", st.RemainingQty, common.NonNegative).
		Field("approved_qty", st.ApprovedQty, common.NonNegative).
		Field("rejected_qty", st.RejectedQty, common.NonNegative)
	if err := v.Error(); err != nil {
		return err
	}
	st.UpdatedAt = time.Now().UTC()

	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		b := r.db.builder()
		if err := itemExists(ctx, tx, b, st.ItemID); err != nil {
			return err
		}
		var id uuid.UUID
		query, args := b.Select("id").From(b.Table(tableItemStatuses)).Where(entsql.EQ("item_id", st.ItemID)).Query()
		switch err := tx.QueryRowContext(ctx, query, args...).Scan(&id); {
		case errors.Is(err, sql.ErrNoRows):
			if st.ID == uuid.Nil {
				st.ID = uuid.New()
			}
			query, args = b.Insert(tableItemStatuses).
				Columns(itemStatusColumns...).
				Values(st.ID, st.ItemID, st.RemainingQty, st.ApprovedQty, st.RejectedQty, st.UpdatedAt).
				Query()
		case err != nil:
			return errors.Join(common.ErrDatabase, err)
		default:
			st.ID = id
			query, args = b.Update(tableItemStatuses).
				Set("remaining_qty", st.RemainingQty).
				Set("approved_qty", st.ApprovedQty).
				Set("rejected_qty", st.RejectedQty).
				Set("updated_at", st.UpdatedAt).
				Where(entsql.EQ("id", id)).
				Query()
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Join(common.ErrDatabase, fmt.Errorf("save item status: %w", err))
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to set item status", "item_id", st.ItemID, "error", err)
		return err
	}
	r.logger.Info("item status saved", "item_id", st.ItemID, "remaining_qty", st.RemainingQty)
	return nil
}

func (r *deliveryRepo) ItemStatus(ctx context.Context, itemID uuid.UUID) (*entity.ItemStatus, error) {
	b := r.db.builder()
	query, args := b.Select(itemStatusColumns...).
		From(b.Table(tableItemStatuses)).
		Where(entsql.EQ("item_id", itemID)).
		Query()
	st := &entity.ItemStatus{}
	err := r.db.SQL.QueryRowContext(ctx, query, args...).
		Scan(&st.ID, &st.ItemID, &st.RemainingQty, &st.ApprovedQty, &st.RejectedQty, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("STATUS_NOT_FOUND", fmt.Sprintf("no status for item %s", itemID), common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get item status", "item_id", itemID, "error", err)
		return nil, errors.Join(common.ErrDatabase, err)
	}
	return st, nil
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func itemExists(ctx context.Context, q rowQueryer, b *entsql.DialectBuilder, itemID uuid.UUID) error {
	query, args := b.Select(entsql.Count("*")).
		From(b.Table(tableItems)).
		Where(entsql.EQ("id", itemID)).
		Query()
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return errors.Join(common.ErrDatabase, err)
	}
	if n == 0 {
		return common.NewAppError("ITEM_NOT_FOUND", fmt.Sprintf("item %s not found", itemID), common.ErrNotFound)
	}
	return nil
}
