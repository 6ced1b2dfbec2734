package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/po-tracker/internal/async"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
	"github.com/joseph-ayodele/po-tracker/internal/export"
	"github.com/joseph-ayodele/po-tracker/internal/extract"
	"github.com/joseph-ayodele/po-tracker/internal/ingest"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

// Processor is satisfied by *pipeline.Processor.
type Processor interface {
	ProcessFile(ctx context.Context, fileID uuid.UUID, poNumber string) (uuid.UUID, *entity.PurchaseOrder, error)
	ProcessText(ctx context.Context, text, poNumber string) (*entity.PurchaseOrder, error)
}

// Deps are the collaborators of PurchaseOrderService. Queue is optional; without
// it ingest requests asking for async processing are rejected.
type Deps struct {
	Extractor extract.ItemExtractor
	Processor Processor
	Orders    repository.PurchaseOrderRepository
	Ingestor  ingest.Ingestor
	Queue     async.Queue
	Exporter  *export.Service
}

type PurchaseOrderService struct {
	deps   Deps
	logger *slog.Logger
}

var _ PurchaseOrdersServer = (*PurchaseOrderService)(nil)

func NewPurchaseOrderService(deps Deps, logger *slog.Logger) *PurchaseOrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PurchaseOrderService{deps: deps, logger: logger}
}

// ExtractItems runs the heuristics over {"text", "po_number"}. With
// "persist": true the order is stored as well.
func (s *PurchaseOrderService) ExtractItems(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text := req.GetFields()["text"].GetStringValue()
	poNumber := stringField(req, "po_number")
	if poNumber == "" {
		return nil, common.InvalidArgumentError("po_number is required")
	}

	var po *entity.PurchaseOrder
	if boolField(req, "persist", false) {
		var err error
		if po, err = s.deps.Processor.ProcessText(ctx, text, poNumber); err != nil {
			s.logger.Error("extract items failed", "po_number", poNumber, "error", err)
			return nil, common.ToStatus(err)
		}
	} else {
		res, err := s.deps.Extractor.Run(text, poNumber)
		if err != nil {
			return nil, common.ToStatus(err)
		}
		po = entity.NewPurchaseOrder(res.PONumber, time.Now().UTC(), res.Items)
	}
	s.logger.Info("extract items succeeded", "po_number", poNumber, "items", len(po.Items))
	return toStruct(export.NewDocument(po))
}

func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	poNumber := stringField(req, "po_number")
	if poNumber == "" {
		return nil, common.InvalidArgumentError("po_number is required")
	}
	po, err := s.deps.Orders.GetByNumber(ctx, poNumber)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return toStruct(export.NewDocument(po))
}

// ExportPurchaseOrder returns {"po_number", "format": "xlsx"|"json"} as bytes.
func (s *PurchaseOrderService) ExportPurchaseOrder(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	poNumber := stringField(req, "po_number")
	if poNumber == "" {
		return nil, common.InvalidArgumentError("po_number is required")
	}

	var (
		b   []byte
		err error
	)
	switch format := stringField(req, "format"); format {
	case "", "xlsx":
		b, err = s.deps.Exporter.ExportXLSX(ctx, poNumber)
	case "json":
		b, err = s.deps.Exporter.ExportJSON(ctx, poNumber)
	default:
		return nil, common.InvalidArgumentErrorf("unsupported format %q", format)
	}
	if err != nil {
		s.logger.Error("export.failed", "po_number", poNumber, "error", err)
		return nil, common.ToStatus(err)
	}
	return wrapperspb.Bytes(b), nil
}
