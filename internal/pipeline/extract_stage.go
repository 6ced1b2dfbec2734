package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/internal/entity"
	"github.com/joseph-ayodele/po-tracker/internal/extract"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

type ExtractStage struct {
	Extractor  extract.ItemExtractor
	OrdersRepo repository.PurchaseOrderRepository
	JobsRepo   repository.ExtractJobRepository
	Logger     *slog.Logger
	Now        func() time.Time
}

func NewExtractStage(ex extract.ItemExtractor, orders repository.PurchaseOrderRepository, jobs repository.ExtractJobRepository, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{Extractor: ex, OrdersRepo: orders, JobsRepo: jobs, Logger: logger, Now: time.Now}
}

// Build runs the heuristics over raw text and returns the unsaved order.
func (s *ExtractStage) Build(rawText, poNumber string) (*entity.PurchaseOrder, error) {
	res, err := s.Extractor.Run(rawText, poNumber)
	if err != nil {
		return nil, err
	}
	return entity.NewPurchaseOrder(res.PONumber, s.Now().UTC(), res.Items), nil
}

// Run extracts and stores the order for a job whose OCR stage finished. A
// zero jobID skips job bookkeeping.
func (s *ExtractStage) Run(ctx context.Context, jobID uuid.UUID, rawText, poNumber string) (*entity.PurchaseOrder, error) {
	po, err := s.Build(rawText, poNumber)
	if err == nil {
		err = s.OrdersRepo.CreateWithItems(ctx, po)
	}
	if err != nil {
		if jobID != uuid.Nil {
			if ferr := s.JobsRepo.FinishFailure(context.WithoutCancel(ctx), jobID, err.Error()); ferr != nil {
				s.Logger.Error("failed to record job failure", "job_id", jobID, "error", ferr)
			}
		}
		return nil, fmt.Errorf("extract stage: %w", err)
	}

	if jobID != uuid.Nil {
		if err := s.JobsRepo.FinishExtract(ctx, jobID, len(po.Items), len(po.Items) == 0); err != nil {
			return po, err
		}
	}
	if len(po.Items) == 0 {
		s.Logger.Warn("no items extracted; needs review", "job_id", jobID, "po_number", po.PONumber)
	}
	return po, nil
}
