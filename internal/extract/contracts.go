package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: scanned file -> raw text. The core never calls it;
// the processor feeds its output to an Extractor.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // "PDF" | "IMAGE" | "TXT"
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr" | "plain-text"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// ItemExtractor is Stage 2: raw text -> purchase-order items.
type ItemExtractor interface {
	Run(rawText, poNumber string) (Result, error)
}

var _ ItemExtractor = (*Extractor)(nil)
