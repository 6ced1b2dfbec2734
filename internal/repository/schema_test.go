package repository

import (
	"slices"
	"testing"

	"entgo.io/ent"

	"github.com/joseph-ayodele/po-tracker/db/ent/schema"
)

// The hand-built queries, the migration tables and the ent schema must agree.
func TestColumnsMatchSchema(t *testing.T) {
	tests := []struct {
		table   string
		fields  []ent.Field
		columns []string
	}{
		{tablePurchaseOrders, schema.PurchaseOrder{}.Fields(), purchaseOrderColumns},
		{tableItems, schema.Item{}.Fields(), itemColumns},
		{tableFiles, schema.POFile{}.Fields(), fileColumns},
		{tableExtractJobs, schema.ExtractJob{}.Fields(), extractJobColumns},
		{tableDeliveryTrackings, schema.DeliveryTracking{}.Fields(), deliveryTrackingColumns},
		{tableItemStatuses, schema.ItemStatus{}.Fields(), itemStatusColumns},
	}

	migrated := map[string][]string{}
	for _, tbl := range Tables() {
		for _, c := range tbl.Columns {
			migrated[tbl.Name] = append(migrated[tbl.Name], c.Name)
		}
	}
	if len(migrated) != len(tests) {
		t.Errorf("Tables() = %d tables, want %d", len(migrated), len(tests))
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			var names []string
			for _, f := range tt.fields {
				names = append(names, f.Descriptor().Name)
			}
			slices.Sort(names)
			cols := slices.Clone(tt.columns)
			slices.Sort(cols)
			if !slices.Equal(names, cols) {
				t.Errorf("schema fields = %v, columns = %v", names, cols)
			}
			if got := migrated[tt.table]; !slices.Equal(got, tt.columns) {
				t.Errorf("migration columns = %v, want %v", got, tt.columns)
			}
		})
	}
}

func TestTablesForeignKeys(t *testing.T) {
	refs := map[string]string{}
	for _, tbl := range Tables() {
		for _, fk := range tbl.ForeignKeys {
			refs[tbl.Name+"."+fk.Columns[0].Name] = fk.RefTable.Name + "." + fk.RefColumns[0].Name
		}
	}
	want := map[string]string{
		"items.purchase_order_id":    "purchase_orders.id",
		"extract_jobs.file_id":       "po_files.id",
		"delivery_trackings.item_id": "items.id",
		"item_statuses.item_id":      "items.id",
	}
	for from, to := range want {
		if refs[from] != to {
			t.Errorf("foreign key %s -> %q, want %q", from, refs[from], to)
		}
	}
}
