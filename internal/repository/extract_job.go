package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

type ExtractJobRepository interface {
	Start(ctx context.Context, fileID uuid.UUID, poNumber, format string) (*entity.ExtractJob, error)
	FinishOCR(ctx context.Context, jobID uuid.UUID, ocrText, method string, confidence float32, needsReview bool) error
	FinishExtract(ctx context.Context, jobID uuid.UUID, itemCount int, needsReview bool) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	Get(ctx context.Context, jobID uuid.UUID) (*entity.ExtractJob, error)
}

type extractJobRepo struct {
	db  *DB
	log *slog.Logger
}

func NewExtractJobRepository(db *DB, log *slog.Logger) ExtractJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &extractJobRepo{db: db, log: log}
}

func (r *extractJobRepo) Start(ctx context.Context, fileID uuid.UUID, poNumber, format string) (*entity.ExtractJob, error) {
	job := &entity.ExtractJob{
		ID:        uuid.New(),
		FileID:    fileID,
		PONumber:  poNumber,
		Format:    format,
		Status:    string(constants.JobStatusRunning),
		StartedAt: time.Now().UTC(),
	}
	query, args := r.db.builder().Insert(tableExtractJobs).
		Columns("id", "file_id", "po_number", "format", "status", "started_at", "item_count", "needs_review").
		Values(job.ID, job.FileID, job.PONumber, job.Format, job.Status, job.StartedAt, 0, false).
		Query()
	if _, err := r.db.SQL.ExecContext(ctx, query, args...); err != nil {
		r.log.Error("extract_job start failed", "file_id", fileID, "error", err)
		return nil, errors.Join(common.ErrDatabase, err)
	}
	r.log.Info("extract_job started", "job_id", job.ID, "file_id", fileID, "po_number", poNumber, "format", format)
	return job, nil
}

func (r *extractJobRepo) FinishOCR(ctx context.Context, jobID uuid.UUID, ocrText, method string, confidence float32, needsReview bool) error {
	return r.update(ctx, jobID, "ocr", func(u *entsql.UpdateBuilder) *entsql.UpdateBuilder {
		return u.Set("ocr_text", ocrText).
			Set("ocr_method", method).
			Set("confidence", confidence).
			Set("needs_review", needsReview).
			Set("status", string(constants.JobStatusOCROK))
	})
}

// FinishExtract marks the job EXTRACTED. needsReview can only raise the flag
// set by the OCR stage, never clear it.
func (r *extractJobRepo) FinishExtract(ctx context.Context, jobID uuid.UUID, itemCount int, needsReview bool) error {
	return r.update(ctx, jobID, "extract", func(u *entsql.UpdateBuilder) *entsql.UpdateBuilder {
		u = u.Set("item_count", itemCount).
			Set("finished_at", time.Now().UTC()).
			Set("status", string(constants.JobStatusExtracted))
		if needsReview {
			u = u.Set("needs_review", true)
		}
		return u
	})
}

func (r *extractJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	return r.update(ctx, jobID, "failure", func(u *entsql.UpdateBuilder) *entsql.UpdateBuilder {
		return u.Set("error_message", message).
			Set("finished_at", time.Now().UTC()).
			Set("status", string(constants.JobStatusFailed))
	})
}

func (r *extractJobRepo) update(ctx context.Context, jobID uuid.UUID, stage string, set func(*entsql.UpdateBuilder) *entsql.UpdateBuilder) error {
	query, args := set(r.db.builder().Update(tableExtractJobs)).Where(entsql.EQ("id", jobID)).Query()
	res, err := r.db.SQL.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.Error("extract_job update failed", "job_id", jobID, "stage", stage, "error", err)
		return errors.Join(common.ErrDatabase, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NewAppError("JOB_NOT_FOUND", fmt.Sprintf("extract job %s not found", jobID), common.ErrNotFound)
	}
	r.log.Debug("extract_job updated", "job_id", jobID, "stage", stage)
	return nil
}

func (r *extractJobRepo) Get(ctx context.Context, jobID uuid.UUID) (*entity.ExtractJob, error) {
	b := r.db.builder()
	query, args := b.Select(extractJobColumns...).From(b.Table(tableExtractJobs)).Where(entsql.EQ("id", jobID)).Query()

	var (
		job        entity.ExtractJob
		finishedAt sql.NullTime
		errMsg     sql.NullString
		ocrText    sql.NullString
		ocrMethod  sql.NullString
		confidence sql.NullFloat64
	)
	err := r.db.SQL.QueryRowContext(ctx, query, args...).Scan(
		&job.ID, &job.FileID, &job.PONumber, &job.Format, &job.Status, &job.StartedAt, &finishedAt,
		&errMsg, &ocrText, &ocrMethod, &confidence, &job.ItemCount, &job.NeedsReview,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("JOB_NOT_FOUND", fmt.Sprintf("extract job %s not found", jobID), common.ErrNotFound)
	}
	if err != nil {
		r.log.Error("extract_job get failed", "job_id", jobID, "error", err)
		return nil, errors.Join(common.ErrDatabase, err)
	}
	if finishedAt.Valid {
		job.FinishedAt = &finishedAt.Time
	}
	job.ErrorMessage = nullString(errMsg)
	job.OCRText = nullString(ocrText)
	job.OCRMethod = nullString(ocrMethod)
	if confidence.Valid {
		c := float32(confidence.Float64)
		job.Confidence = &c
	}
	return &job, nil
}
