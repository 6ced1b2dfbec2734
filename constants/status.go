package constants

// JobStatus is the canonical status for rows in extract_jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued    JobStatus = "QUEUED"    // queued for processing
	JobStatusRunning   JobStatus = "RUNNING"   // in progress
	JobStatusOCROK     JobStatus = "OCR_OK"    // stage 1 completed (text extracted)
	JobStatusExtracted JobStatus = "EXTRACTED" // stage 2 completed (items persisted)
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure
)

// ImageConfidenceThreshold below which an image OCR result is flagged for review.
const ImageConfidenceThreshold = 0.6
