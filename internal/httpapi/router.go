package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/internal/common"
)

const requestIDHeader = "X-Request-ID"

// NewRouter wires the JSON API onto a gin engine.
func NewRouter(h *Handler, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", h.Health)

	v1 := r.Group("/v1")
	v1.POST("/extract", h.Extract)
	v1.POST("/extract/upload", h.ExtractUpload)
	v1.GET("/purchase-orders", h.ListPurchaseOrders)
	// order numbers may contain '/', e.g. 4471/2024
	v1.GET("/purchase-orders/*po", h.GetPurchaseOrder)
	v1.PATCH("/purchase-orders/*po", h.UpdatePurchaseOrder)
	v1.DELETE("/purchase-orders/*po", h.DeletePurchaseOrder)
	v1.PUT("/items/:id", h.UpdateItem)
	v1.GET("/items/:id/deliveries", h.ListDeliveries)
	v1.POST("/items/:id/deliveries", h.RecordDelivery)
	v1.GET("/items/:id/status", h.GetItemStatus)
	v1.PUT("/items/:id/status", h.SetItemStatus)
	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), requestID))

		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"request_id", requestID,
			"elapsed_ms", time.Since(start).Milliseconds(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("http.request.failed", attrs...)
			return
		}
		logger.Debug("http.request.ok", attrs...)
	}
}

// httpStatus maps the application sentinels onto HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(httpStatus(err), gin.H{"error": err.Error()})
}
