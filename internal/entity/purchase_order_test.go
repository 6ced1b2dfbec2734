package entity

import (
	"math"
	"testing"
	"time"

	"github.com/joseph-ayodele/po-tracker/internal/extract"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestNewPurchaseOrderTotals(t *testing.T) {
	records := []extract.ItemRecord{
		{CartPartNo: "ABC-123", Quantity: intp(10), Rate: floatp(25.50)},
		{CartPartNo: "DEF-456", Quantity: intp(4), Rate: floatp(1234.56)},
		{CartPartNo: "GHI-789", Quantity: intp(3)},
		{CartPartNo: "JKL-000"},
	}
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	po := NewPurchaseOrder("4471/2024", day, records)

	if po.TotalQty != 14 {
		t.Errorf("TotalQty = %d, want 14", po.TotalQty)
	}
	if want := 10*25.50 + 4*1234.56; math.Abs(po.TotalAmount-want) > 1e-9 {
		t.Errorf("TotalAmount = %v, want %v", po.TotalAmount, want)
	}
	if len(po.Items) != 4 {
		t.Fatalf("Items = %d, want 4", len(po.Items))
	}
	for i, it := range po.Items {
		if it.PurchaseOrderID != po.ID {
			t.Errorf("item %d PurchaseOrderID = %s, want %s", i, it.PurchaseOrderID, po.ID)
		}
		if it.CartPartNo != records[i].CartPartNo {
			t.Errorf("item %d = %s, want %s", i, it.CartPartNo, records[i].CartPartNo)
		}
	}
	if got := po.Records(); len(got) != 4 || got[3].CartPartNo != "JKL-000" {
		t.Errorf("Records() = %+v", got)
	}
}

func TestNewPurchaseOrderEmpty(t *testing.T) {
	po := NewPurchaseOrder("PO-1", time.Time{}, nil)
	if po.TotalQty != 0 || po.TotalAmount != 0 || po.Items == nil {
		t.Errorf("empty PO = %+v", po)
	}
}

func TestDeliverySummaryAndRemaining(t *testing.T) {
	deliveries := []Delivery{
		{ChallanNo: "CH-1", DeliveredQty: 6, ApprovedQty: 5, RejectedQty: 1},
		{ChallanNo: "CH-2", DeliveredQty: 3, ApprovedQty: 3},
	}
	s := Summarize(deliveries)
	if s != (DeliverySummary{Delivered: 9, Approved: 8, Rejected: 1}) {
		t.Fatalf("Summarize() = %+v", s)
	}

	tests := []struct {
		name string
		qty  *int
		want int
	}{
		{"outstanding", intp(10), 2},
		{"fully approved", intp(8), 0},
		{"over delivered", intp(5), 0},
		{"no quantity", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Item{ItemRecord: extract.ItemRecord{CartPartNo: "ABC-123", Quantity: tt.qty}}
			if got := it.Remaining(s); got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}
		})
	}
}
