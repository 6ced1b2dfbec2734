package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/extract"
	"github.com/joseph-ayodele/po-tracker/internal/ocr"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
)

type OCRStage struct {
	FilesRepo     repository.FileRepository
	JobsRepo      repository.ExtractJobRepository
	TextExtractor extract.TextExtractor
	Logger        *slog.Logger
}

func NewOCRStage(files repository.FileRepository, jobs repository.ExtractJobRepository, tx extract.TextExtractor, logger *slog.Logger) *OCRStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRStage{FilesRepo: files, JobsRepo: jobs, TextExtractor: tx, Logger: logger}
}

// Run starts an extract_job for the file, runs OCR and persists the text.
// Returns the job ID and the extraction summary.
func (s *OCRStage) Run(ctx context.Context, fileID uuid.UUID, poNumber string) (uuid.UUID, extract.TextExtractionResult, error) {
	row, err := s.FilesRepo.GetByID(ctx, fileID)
	if err != nil {
		return uuid.Nil, extract.TextExtractionResult{}, fmt.Errorf("get file: %w", err)
	}
	ctx = ocr.WithContentHash(ctx, hex.EncodeToString(row.ContentHash))

	format := constants.MapExtToFormat(row.FileExt)
	if format == "" {
		return uuid.Nil, extract.TextExtractionResult{}, fmt.Errorf("unsupported format: %s", row.FileExt)
	}

	job, err := s.JobsRepo.Start(ctx, row.ID, poNumber, format)
	if err != nil {
		return uuid.Nil, extract.TextExtractionResult{}, err
	}

	res, err := s.TextExtractor.Extract(ctx, row.SourcePath)
	if err != nil {
		s.finishFailure(ctx, job.ID, err)
		return job.ID, res, err
	}

	// scanned sources below the threshold are flagged for review
	needsReview := false
	if format != constants.TXT && res.Method != "pdf-text" &&
		res.Confidence > 0 && res.Confidence < constants.ImageConfidenceThreshold {
		s.Logger.Warn("ocr confidence low; needs review", "file_id", fileID, "job_id", job.ID, "confidence", res.Confidence)
		needsReview = true
	}

	if err := s.JobsRepo.FinishOCR(ctx, job.ID, res.Text, res.Method, res.Confidence, needsReview); err != nil {
		return job.ID, res, err
	}
	return job.ID, res, nil
}

func (s *OCRStage) finishFailure(ctx context.Context, jobID uuid.UUID, cause error) {
	if err := s.JobsRepo.FinishFailure(context.WithoutCancel(ctx), jobID, cause.Error()); err != nil {
		s.Logger.Error("failed to record job failure", "job_id", jobID, "error", err)
	}
}
