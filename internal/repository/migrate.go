package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names; db/ent/schema declares the same tables for codegen.
const (
	tablePurchaseOrders    = "purchase_orders"
	tableItems             = "items"
	tableFiles             = "po_files"
	tableExtractJobs       = "extract_jobs"
	tableDeliveryTrackings = "delivery_trackings"
	tableItemStatuses      = "item_statuses"
)

var (
	purchaseOrderColumns    = []string{"id", "po_number", "order_date", "total_qty", "total_amount", "created_at"}
	itemColumns             = []string{"id", "purchase_order_id", "position", "cart_part_no", "country_of_origin", "a_unit", "qty", "rate_include_gst", "total_cost", "nomenclature"}
	fileColumns             = []string{"id", "source_path", "content_hash", "filename", "file_ext", "file_size", "uploaded_at"}
	extractJobColumns       = []string{"id", "file_id", "po_number", "format", "status", "started_at", "finished_at", "error_message", "ocr_text", "ocr_method", "confidence", "item_count", "needs_review"}
	deliveryTrackingColumns = []string{"id", "item_id", "challan_no", "delivery_date", "delivered_qty", "rejected_qty", "approved_qty", "recorded_at"}
	itemStatusColumns       = []string{"id", "item_id", "remaining_qty", "approved_qty", "rejected_qty", "updated_at"}
)

var (
	money = map[string]string{dialect.Postgres: "numeric(12,2)"}
	text  = map[string]string{dialect.Postgres: "text"}
)

// Tables returns the migration schema, in the layout ent's generated migrate
// package uses. Each call builds fresh tables because Create annotates them.
func Tables() []*schema.Table {
	purchaseOrdersColumns := []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "po_number", Type: field.TypeString, Unique: true, SchemaType: text},
		{Name: "order_date", Type: field.TypeTime},
		{Name: "total_qty", Type: field.TypeInt, Default: 0},
		{Name: "total_amount", Type: field.TypeFloat64, Default: 0, SchemaType: money},
		{Name: "created_at", Type: field.TypeTime},
	}
	purchaseOrders := &schema.Table{
		Name:       tablePurchaseOrders,
		Columns:    purchaseOrdersColumns,
		PrimaryKey: []*schema.Column{purchaseOrdersColumns[0]},
	}

	itemsColumns := []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "purchase_order_id", Type: field.TypeUUID},
		{Name: "position", Type: field.TypeInt},
		{Name: "cart_part_no", Type: field.TypeString, SchemaType: text},
		{Name: "country_of_origin", Type: field.TypeString, Nullable: true, SchemaType: text},
		{Name: "a_unit", Type: field.TypeString, Nullable: true, SchemaType: text},
		{Name: "qty", Type: field.TypeInt, Nullable: true},
		{Name: "rate_include_gst", Type: field.TypeFloat64, Nullable: true, SchemaType: money},
		{Name: "total_cost", Type: field.TypeFloat64, Nullable: true, SchemaType: money},
		{Name: "nomenclature", Type: field.TypeString, Default: "", SchemaType: text},
	}
	items := &schema.Table{
		Name:       tableItems,
		Columns:    itemsColumns,
		PrimaryKey: []*schema.Column{itemsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "items_purchase_orders_items",
			Columns:    []*schema.Column{itemsColumns[1]},
			RefTable:   purchaseOrders,
			RefColumns: []*schema.Column{purchaseOrdersColumns[0]},
			OnDelete:   schema.Cascade,
		}},
		Indexes: []*schema.Index{
			{Name: "item_purchase_order_id_position", Columns: []*schema.Column{itemsColumns[1], itemsColumns[2]}},
			{Name: "item_cart_part_no", Columns: []*schema.Column{itemsColumns[3]}},
		},
	}

	filesColumns := []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "source_path", Type: field.TypeString, SchemaType: text},
		{Name: "content_hash", Type: field.TypeBytes, Unique: true},
		{Name: "filename", Type: field.TypeString, SchemaType: text},
		{Name: "file_ext", Type: field.TypeString, SchemaType: text},
		{Name: "file_size", Type: field.TypeInt},
		{Name: "uploaded_at", Type: field.TypeTime},
	}
	files := &schema.Table{
		Name:       tableFiles,
		Columns:    filesColumns,
		PrimaryKey: []*schema.Column{filesColumns[0]},
	}

	jobsColumns := []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "file_id", Type: field.TypeUUID},
		{Name: "po_number", Type: field.TypeString, SchemaType: text},
		{Name: "format", Type: field.TypeString, SchemaType: text},
		{Name: "status", Type: field.TypeString, SchemaType: text},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "finished_at", Type: field.TypeTime, Nullable: true},
		{Name: "error_message", Type: field.TypeString, Nullable: true, SchemaType: text},
		{Name: "ocr_text", Type: field.TypeString, Nullable: true, SchemaType: text},
		{Name: "ocr_method", Type: field.TypeString, Nullable: true, SchemaType: text},
		{Name: "confidence", Type: field.TypeFloat32, Nullable: true},
		{Name: "item_count", Type: field.TypeInt, Default: 0},
		{Name: "needs_review", Type: field.TypeBool, Default: false},
	}
	jobs := &schema.Table{
		Name:       tableExtractJobs,
		Columns:    jobsColumns,
		PrimaryKey: []*schema.Column{jobsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "extract_jobs_po_files_jobs",
			Columns:    []*schema.Column{jobsColumns[1]},
			RefTable:   files,
			RefColumns: []*schema.Column{filesColumns[0]},
			OnDelete:   schema.Cascade,
		}},
		Indexes: []*schema.Index{
			{Name: "extractjob_po_number_status_started_at", Columns: []*schema.Column{jobsColumns[2], jobsColumns[4], jobsColumns[5]}},
			{Name: "extractjob_file_id", Columns: []*schema.Column{jobsColumns[1]}},
		},
	}

	deliveriesColumns := []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "item_id", Type: field.TypeUUID},
		{Name: "challan_no", Type: field.TypeString, SchemaType: text},
		{Name: "delivery_date", Type: field.TypeTime, SchemaType: map[string]string{dialect.Postgres: "date"}},
		{Name: "delivered_qty", Type: field.TypeInt},
		{Name: "rejected_qty", Type: field.TypeInt, Default: 0},
		{Name: "approved_qty", Type: field.TypeInt, Default: 0},
		{Name: "recorded_at", Type: field.TypeTime},
	}
	deliveries := &schema.Table{
		Name:       tableDeliveryTrackings,
		Columns:    deliveriesColumns,
		PrimaryKey: []*schema.Column{deliveriesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "delivery_trackings_items_deliveries",
			Columns:    []*schema.Column{deliveriesColumns[1]},
			RefTable:   items,
			RefColumns: []*schema.Column{itemsColumns[0]},
			OnDelete:   schema.Cascade,
		}},
		Indexes: []*schema.Index{
			{Name: "deliverytracking_item_id_delivery_date", Columns: []*schema.Column{deliveriesColumns[1], deliveriesColumns[3]}},
		},
	}

	statusesColumns := []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "item_id", Type: field.TypeUUID, Unique: true},
		{Name: "remaining_qty", Type: field.TypeInt},
		{Name: "approved_qty", Type: field.TypeInt, Default: 0},
		{Name: "rejected_qty", Type: field.TypeInt, Default: 0},
		{Name: "updated_at", Type: field.TypeTime},
	}
	statuses := &schema.Table{
		Name:       tableItemStatuses,
		Columns:    statusesColumns,
		PrimaryKey: []*schema.Column{statusesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "item_statuses_items_status",
			Columns:    []*schema.Column{statusesColumns[1]},
			RefTable:   items,
			RefColumns: []*schema.Column{itemsColumns[0]},
			OnDelete:   schema.Cascade,
		}},
	}

	return []*schema.Table{purchaseOrders, items, files, jobs, deliveries, statuses}
}

// Migrate creates missing tables, columns and indexes. Existing data is never
// dropped.
func Migrate(ctx context.Context, db *DB) error {
	tables := Tables()
	m, err := schema.NewMigrate(entsql.OpenDB(db.Dialect, db.SQL),
		schema.WithForeignKeys(true),
		schema.WithDropColumn(false),
		schema.WithDropIndex(false),
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		db.logger.Error("migration failed", "dialect", db.Dialect, "error", err)
		return fmt.Errorf("migrate: %w", err)
	}
	db.logger.Debug("migrations applied", "dialect", db.Dialect, "tables", len(tables))
	return nil
}
