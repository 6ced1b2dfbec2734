package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
	"github.com/joseph-ayodele/po-tracker/internal/export"
	"github.com/joseph-ayodele/po-tracker/internal/extract"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

const maxUploadBytes = 32 << 20

// TextProcessor is satisfied by *pipeline.Processor.
type TextProcessor interface {
	ProcessText(ctx context.Context, text, poNumber string) (*entity.PurchaseOrder, error)
}

// Pinger is satisfied by *repository.DB.
type Pinger interface {
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

type Handler struct {
	Extractor     extract.ItemExtractor
	TextExtractor extract.TextExtractor
	Processor     TextProcessor
	Orders        repository.PurchaseOrderRepository
	Deliveries    repository.DeliveryRepository
	Exporter      *export.Service
	DB            Pinger
	Logger        *slog.Logger
}

type extractRequest struct {
	Text     string `json:"text"`
	PONumber string `json:"po_number" binding:"required"`
	Persist  bool   `json:"persist"`
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func (h *Handler) Health(c *gin.Context) {
	if h.DB != nil {
		if err := h.DB.HealthCheck(c.Request.Context(), 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Extract runs the line-item heuristics over already recognised text.
func (h *Handler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	po, err := h.extract(c.Request.Context(), req.Text, req.PONumber, req.Persist)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, export.NewDocument(po))
}

// ExtractUpload OCRs a multipart "file" and extracts its line items.
func (h *Handler) ExtractUpload(c *gin.Context) {
	poNumber := strings.TrimSpace(c.PostForm("po_number"))
	if poNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "po_number is required"})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
	if constants.MapExtToFormat(ext) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type " + ext})
		return
	}

	tmp, err := saveUpload(c, ext)
	if err != nil {
		h.logger().Error("failed to save upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}
	defer os.Remove(tmp)

	res, err := h.TextExtractor.Extract(c.Request.Context(), tmp)
	if err != nil {
		h.logger().Error("upload ocr failed", "filename", fh.Filename, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	po, err := h.extract(c.Request.Context(), res.Text, poNumber, c.PostForm("persist") == "true")
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ocr_method":     res.Method,
		"confidence":     res.Confidence,
		"purchase_order": export.NewDocument(po),
	})
}

func saveUpload(c *gin.Context, ext string) (string, error) {
	fh, _ := c.FormFile("file")
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "po-upload-*."+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), dst.Close()
}

func (h *Handler) extract(ctx context.Context, text, poNumber string, persist bool) (*entity.PurchaseOrder, error) {
	if persist {
		return h.Processor.ProcessText(ctx, text, poNumber)
	}
	res, err := h.Extractor.Run(text, poNumber)
	if err != nil {
		return nil, err
	}
	return entity.NewPurchaseOrder(res.PONumber, time.Now().UTC(), res.Items), nil
}

// ListPurchaseOrders returns order headers, filtered by ?q= when given.
func (h *Handler) ListPurchaseOrders(c *gin.Context) {
	var (
		orders []*entity.PurchaseOrder
		err    error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		orders, err = h.Orders.Search(c.Request.Context(), q)
	} else {
		orders, err = h.Orders.List(c.Request.Context())
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	if orders == nil {
		orders = []*entity.PurchaseOrder{}
	}
	c.JSON(http.StatusOK, gin.H{"purchase_orders": orders})
}

// GetPurchaseOrder returns the stored order, or its export with ?format=xlsx|json.
func (h *Handler) GetPurchaseOrder(c *gin.Context) {
	poNumber := strings.Trim(c.Param("po"), "/")
	if poNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "po_number is required"})
		return
	}
	ctx := c.Request.Context()

	switch format := c.Query("format"); format {
	case "":
		po, err := h.Orders.GetByNumber(ctx, poNumber)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, po)
	case "json":
		b, err := h.Exporter.ExportJSON(ctx, poNumber)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", b)
	case "xlsx":
		b, err := h.Exporter.ExportXLSX(ctx, poNumber)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(poNumber, "/", "_")+`.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format " + format})
	}
}

func (h *Handler) DeletePurchaseOrder(c *gin.Context) {
	poNumber := strings.Trim(c.Param("po"), "/")
	if err := h.Orders.Delete(c.Request.Context(), poNumber); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateOrderRequest struct {
	OrderDate string `json:"order_date" binding:"required"`
}

// UpdatePurchaseOrder sets the order date (YYYY-MM-DD) and refreshes the totals.
func (h *Handler) UpdatePurchaseOrder(c *gin.Context) {
	poNumber := strings.Trim(c.Param("po"), "/")
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := time.Parse(time.DateOnly, req.OrderDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_date must be YYYY-MM-DD"})
		return
	}
	po, err := h.Orders.UpdateOrder(c.Request.Context(), poNumber, day)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

// UpdateItem replaces one item's fields and returns the recalculated order.
func (h *Handler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}
	var rec extract.ItemRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v := common.NewValidator().
		Field("cart_part_no", rec.CartPartNo, common.Required, common.MaxLength(64)).
		Field("qty", rec.Quantity, common.NonNegative).
		Field("rate_include_gst", rec.Rate, common.NonNegative).
		Field("total_cost", rec.TotalCost, common.NonNegative)
	if err := v.Error(); err != nil {
		abortWithError(c, err)
		return
	}

	po, err := h.Orders.UpdateItem(c.Request.Context(), entity.Item{ID: id, ItemRecord: rec})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}
