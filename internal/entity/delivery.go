package entity

import (
	"time"

	"github.com/google/uuid"
)

// Delivery is one challan received against an order item.
type Delivery struct {
	ID           uuid.UUID `json:"id"`
	ItemID       uuid.UUID `json:"item_id"`
	ChallanNo    string    `json:"challan_no"`
	DeliveryDate time.Time `json:"delivery_date"`
	DeliveredQty int       `json:"delivered_qty"`
	RejectedQty  int       `json:"rejected_qty"`
	ApprovedQty  int       `json:"approved_qty"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// ItemStatus is the current acceptance state of an item.
type ItemStatus struct {
	ID           uuid.UUID `json:"id"`
	ItemID       uuid.UUID `json:"item_id"`
	RemainingQty int       `json:"remaining_qty"`
	ApprovedQty  int       `json:"approved_qty"`
	RejectedQty  int       `json:"rejected_qty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DeliverySummary totals the deliveries of one item.
type DeliverySummary struct {
	Delivered int `json:"delivered"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
}

// Summarize adds up deliveries.
func Summarize(deliveries []Delivery) DeliverySummary {
	var s DeliverySummary
	for _, d := range deliveries {
		s.Delivered += d.DeliveredQty
		s.Approved += d.ApprovedQty
		s.Rejected += d.RejectedQty
	}
	return s
}

// Remaining is the ordered quantity not yet approved, never below zero. An
// item without a quantity has nothing outstanding.
func (it Item) Remaining(s DeliverySummary) int {
	if it.Quantity == nil || *it.Quantity <= s.Approved {
		return 0
	}
	return *it.Quantity - s.Approved
}
