package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/po-tracker/internal/entity"
	"github.com/joseph-ayodele/po-tracker/internal/extract"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

const (
	itemsSheet  = "Items"
	ordersSheet = "Orders"
)

var itemHeaders = []string{
	"PO Number",
	"Cart Part No",
	"Nomenclature",
	"Country of Origin",
	"A/Unit",
	"Qty",
	"Rate (incl. GST)",
	"Total Cost",
}

// Document is the JSON shape of an exported purchase order.
type Document struct {
	PONumber    string               `json:"po_number"`
	OrderDate   string               `json:"order_date"`
	TotalQty    int                  `json:"total_qty"`
	TotalAmount float64              `json:"total_amount"`
	Items       []extract.ItemRecord `json:"items"`
}

// Service is a tiny façade over the order repository that produces export bytes.
type Service struct {
	ordersRepo repository.PurchaseOrderRepository
	logger     *slog.Logger
}

func NewService(repo repository.PurchaseOrderRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ordersRepo: repo, logger: logger}
}

// ExportXLSX loads the given orders (all of them when none are named) and
// returns them as one workbook.
func (s *Service) ExportXLSX(ctx context.Context, poNumbers ...string) ([]byte, error) {
	start := time.Now()
	var orders []*entity.PurchaseOrder
	if len(poNumbers) == 0 {
		list, err := s.ordersRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("query orders: %w", err)
		}
		// List carries headers only
		for _, po := range list {
			full, err := s.ordersRepo.GetByNumber(ctx, po.PONumber)
			if err != nil {
				return nil, fmt.Errorf("query order %s: %w", po.PONumber, err)
			}
			orders = append(orders, full)
		}
	}
	for _, n := range poNumbers {
		po, err := s.ordersRepo.GetByNumber(ctx, n)
		if err != nil {
			return nil, err
		}
		orders = append(orders, po)
	}

	b, err := XLSX(orders...)
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.xlsx.ok",
		"orders", len(orders),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// ExportJSON returns the validated JSON document for one stored order.
func (s *Service) ExportJSON(ctx context.Context, poNumber string) ([]byte, error) {
	po, err := s.ordersRepo.GetByNumber(ctx, poNumber)
	if err != nil {
		return nil, err
	}
	b, err := JSON(po)
	if err != nil {
		s.logger.Error("export.json.invalid", "po_number", poNumber, "error", err)
		return nil, err
	}
	s.logger.Info("export.json.ok", "po_number", poNumber, "items", len(po.Items))
	return b, nil
}

// NewDocument flattens po into its export shape.
func NewDocument(po *entity.PurchaseOrder) Document {
	return Document{
		PONumber:    po.PONumber,
		OrderDate:   po.OrderDate.UTC().Format(time.DateOnly),
		TotalQty:    po.TotalQty,
		TotalAmount: po.TotalAmount,
		Items:       po.Records(),
	}
}

// JSON encodes po and validates the result against PurchaseOrderJSONSchema.
func JSON(po *entity.PurchaseOrder) ([]byte, error) {
	b, err := json.MarshalIndent(NewDocument(po), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	if err := ValidateJSONAgainstSchema(PurchaseOrderJSONSchema(), b); err != nil {
		return nil, err
	}
	return b, nil
}

// XLSX renders one Items row per line item and one Orders row per order.
func XLSX(orders ...*entity.PurchaseOrder) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ordersSheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(itemsSheet)
	f.SetActiveSheet(activeIndex)

	writeRow := func(sheet string, row int, values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	headers := make([]any, len(itemHeaders))
	for i, h := range itemHeaders {
		headers[i] = h
	}
	if err := writeRow(itemsSheet, 1, headers...); err != nil {
		return nil, err
	}
	if err := writeRow(ordersSheet, 1, "PO Number", "Order Date", "Items", "Total Qty", "Total Amount"); err != nil {
		return nil, err
	}

	row := 2
	for i, po := range orders {
		for _, it := range po.Items {
			err := writeRow(itemsSheet, row,
				po.PONumber,
				it.CartPartNo,
				it.Nomenclature,
				orEmpty(it.CountryOfOrigin),
				orEmpty(it.Unit),
				orEmpty(it.Quantity),
				orEmpty(it.Rate),
				orEmpty(it.TotalCost),
			)
			if err != nil {
				return nil, err
			}
			row++
		}
		err := writeRow(ordersSheet, i+2,
			po.PONumber,
			po.OrderDate.UTC().Format(time.DateOnly),
			len(po.Items),
			po.TotalQty,
			po.TotalAmount,
		)
		if err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(itemsSheet, "A", "B", 16) // ids
	_ = f.SetColWidth(itemsSheet, "C", "C", 48) // nomenclature
	_ = f.SetColWidth(itemsSheet, "D", "H", 14)
	_ = f.SetColWidth(ordersSheet, "A", "E", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// orEmpty leaves a blank cell for missing optional fields.
func orEmpty[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}
