package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

type deliveryRequest struct {
	ChallanNo    string `json:"challan_no"`
	DeliveryDate string `json:"delivery_date"`
	DeliveredQty int    `json:"delivered_qty"`
	RejectedQty  int    `json:"rejected_qty"`
	ApprovedQty  int    `json:"approved_qty"`
}

type itemStatusRequest struct {
	RemainingQty int `json:"remaining_qty"`
	ApprovedQty  int `json:"approved_qty"`
	RejectedQty  int `json:"rejected_qty"`
}

func itemID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}

// ListDeliveries returns the item's deliveries with their running totals.
func (h *Handler) ListDeliveries(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	deliveries, err := h.Deliveries.DeliveriesByItem(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deliveries": deliveries, "summary": entity.Summarize(deliveries)})
}

func (h *Handler) RecordDelivery(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d := &entity.Delivery{
		ItemID:       id,
		ChallanNo:    req.ChallanNo,
		DeliveredQty: req.DeliveredQty,
		RejectedQty:  req.RejectedQty,
		ApprovedQty:  req.ApprovedQty,
	}
	if req.DeliveryDate != "" {
		day, err := time.Parse(time.DateOnly, req.DeliveryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_date must be YYYY-MM-DD"})
			return
		}
		d.DeliveryDate = day
	}
	if err := h.Deliveries.RecordDelivery(c.Request.Context(), d); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetItemStatus(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	st, err := h.Deliveries.ItemStatus(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) SetItemStatus(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var req itemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st := &entity.ItemStatus{
		ItemID:       id,
		RemainingQty: req.RemainingQty,
		ApprovedQty:  req.ApprovedQty,
		RejectedQty:  req.RejectedQty,
	}
	if err := h.Deliveries.SetItemStatus(c.Request.Context(), st); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
