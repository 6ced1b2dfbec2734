package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

// Processor coordinates OCR (text extract) then line-item extraction.
type Processor struct {
	logger  *slog.Logger
	ocr     *OCRStage
	extract *ExtractStage
}

func NewProcessor(logger *slog.Logger, ocr *OCRStage, extract *ExtractStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, ocr: ocr, extract: extract}
}

// ProcessFile runs OCR for a fileID (creating/advancing extract_job), then
// extracts the items and stores the purchase order.
// Returns the job ID started by the OCR stage.
func (p *Processor) ProcessFile(ctx context.Context, fileID uuid.UUID, poNumber string) (uuid.UUID, *entity.PurchaseOrder, error) {
	ctx = common.WithPONumber(ctx, poNumber)

	jobID, ocrRes, err := p.ocr.Run(ctx, fileID, poNumber)
	if err != nil {
		p.logger.Error("processor.ocr.failed", "file_id", fileID, "po_number", poNumber, "error", err)
		return jobID, nil, err
	}
	p.logger.Debug("processor.ocr.ok",
		"file_id", fileID,
		"job_id", jobID,
		"method", ocrRes.Method,
		"pages", ocrRes.Pages,
		"confidence", ocrRes.Confidence,
	)

	po, err := p.extract.Run(ctx, jobID, ocrRes.Text, poNumber)
	if err != nil {
		p.logger.Error("processor.extract.failed", "job_id", jobID, "po_number", poNumber, "error", err)
		return jobID, nil, err
	}
	p.logger.Info("processor.extract.ok",
		"job_id", jobID,
		"po_number", po.PONumber,
		"items", len(po.Items),
		"total_qty", po.TotalQty,
		"total_amount", po.TotalAmount,
	)
	return jobID, po, nil
}

// ProcessText skips OCR: the text is extracted and stored directly.
func (p *Processor) ProcessText(ctx context.Context, text, poNumber string) (*entity.PurchaseOrder, error) {
	po, err := p.extract.Run(common.WithPONumber(ctx, poNumber), uuid.Nil, text, poNumber)
	if err != nil {
		p.logger.Error("processor.extract.failed", "po_number", poNumber, "error", err)
		return nil, err
	}
	p.logger.Info("processor.extract.ok", "po_number", po.PONumber, "items", len(po.Items))
	return po, nil
}
