package entity

import (
	"time"

	"github.com/google/uuid"
)

// ExtractJob records one OCR + line-item extraction attempt on a file.
type ExtractJob struct {
	ID           uuid.UUID  `json:"id"`
	FileID       uuid.UUID  `json:"file_id"`
	PONumber     string     `json:"po_number"`
	Format       string     `json:"format"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	OCRText      *string    `json:"ocr_text,omitempty"`
	OCRMethod    *string    `json:"ocr_method,omitempty"`
	Confidence   *float32   `json:"confidence,omitempty"`
	ItemCount    int        `json:"item_count"`
	NeedsReview  bool       `json:"needs_review"`
}
