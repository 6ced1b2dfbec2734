package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/internal/extract"
)

// PurchaseOrder represents a stored purchase order with its line items.
type PurchaseOrder struct {
	ID          uuid.UUID `json:"id"`
	PONumber    string    `json:"po_number"`
	OrderDate   time.Time `json:"order_date"`
	TotalQty    int       `json:"total_qty"`
	TotalAmount float64   `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
	Items       []Item    `json:"items"`
}

// Item is one persisted order line.
type Item struct {
	ID              uuid.UUID `json:"id"`
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	extract.ItemRecord
}

// NewPurchaseOrder builds an order from extracted records and computes its
// totals. Only lines carrying both a quantity and a rate count towards them.
func NewPurchaseOrder(poNumber string, orderDate time.Time, records []extract.ItemRecord) *PurchaseOrder {
	po := &PurchaseOrder{
		ID:        uuid.New(),
		PONumber:  poNumber,
		OrderDate: orderDate,
		Items:     make([]Item, 0, len(records)),
	}
	for _, r := range records {
		po.Items = append(po.Items, Item{ID: uuid.New(), PurchaseOrderID: po.ID, ItemRecord: r})
	}
	po.Recalculate()
	return po
}

// Recalculate refreshes TotalQty and TotalAmount from Items.
func (po *PurchaseOrder) Recalculate() {
	po.TotalQty, po.TotalAmount = 0, 0
	for _, it := range po.Items {
		if it.Quantity == nil || it.Rate == nil {
			continue
		}
		po.TotalQty += *it.Quantity
		po.TotalAmount += float64(*it.Quantity) * *it.Rate
	}
}

// Records returns the items without their storage identity.
func (po *PurchaseOrder) Records() []extract.ItemRecord {
	out := make([]extract.ItemRecord, len(po.Items))
	for i, it := range po.Items {
		out[i] = it.ItemRecord
	}
	return out
}
