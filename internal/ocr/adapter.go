package ocr

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/po-tracker/internal/extract"
)

// Adapter exposes an Extractor as the extract.TextExtractor stage.
type Adapter struct {
	extractor *Extractor
	logger    *slog.Logger
}

var _ extract.TextExtractor = (*Adapter)(nil)

func NewAdapter(e *Extractor, l *slog.Logger) *Adapter {
	if l == nil {
		l = slog.Default()
	}
	return &Adapter{extractor: e, logger: l}
}

func (a *Adapter) Extract(ctx context.Context, path string) (extract.TextExtractionResult, error) {
	r, err := a.extractor.Extract(ctx, path)
	if err != nil {
		a.logger.Warn("ocr.extract.failed", "path", path, "warnings", len(r.Warnings), "error", err)
		return extract.TextExtractionResult{}, err
	}
	return extract.TextExtractionResult{
		Text:       r.Text,
		Pages:      r.Pages,
		SourceType: r.SourceType,
		Method:     r.Method,
		Language:   r.Language,
		Duration:   r.Duration,
		Warnings:   r.Warnings,
		Confidence: r.Confidence,
	}, nil
}
