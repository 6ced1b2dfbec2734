package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/po-tracker/internal/async"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/ingest"
)

type ingestResponse struct {
	FileID         string `json:"file_id,omitempty"`
	PONumber       string `json:"po_number,omitempty"`
	Deduplicated   bool   `json:"deduplicated"`
	ContentHashHex string `json:"content_hash_hex,omitempty"`
	FileExt        string `json:"file_ext,omitempty"`
	UploadedAt     string `json:"uploaded_at,omitempty"`
	SourcePath     string `json:"source_path"`
	JobID          string `json:"job_id,omitempty"`
	ItemCount      int    `json:"item_count"`
	Queued         bool   `json:"queued"`
	Error          string `json:"error,omitempty"`
}

type ingestDirectoryResponse struct {
	Scanned      uint32           `json:"scanned"`
	Matched      uint32           `json:"matched"`
	Succeeded    uint32           `json:"succeeded"`
	Deduplicated uint32           `json:"deduplicated"`
	Failed       uint32           `json:"failed"`
	Results      []ingestResponse `json:"results"`
}

func newIngestResponse(r ingest.IngestionResult) ingestResponse {
	out := ingestResponse{
		PONumber:       r.PONumber,
		Deduplicated:   r.Deduplicated,
		ContentHashHex: r.HashHex,
		FileExt:        r.FileExt,
		SourcePath:     r.SourcePath,
		Error:          r.Err,
	}
	if r.Err == "" {
		out.FileID = r.FileID.String()
		out.UploadedAt = r.UploadedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// IngestFile stores {"path", "po_number"} and processes it, inline or on the
// worker queue when "async" is true. Processing errors are reported in the
// response's "error" field.
func (s *PurchaseOrderService) IngestFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path := stringField(req, "path")
	if path == "" {
		s.logger.Error("ingest request missing path")
		return nil, status.Error(codes.InvalidArgument, "path is required")
	}
	useQueue := boolField(req, "async", false)
	if useQueue && s.deps.Queue == nil {
		return nil, status.Error(codes.FailedPrecondition, "async processing is not enabled")
	}

	s.logger.Info("starting file ingest", "path", path)
	r, err := s.deps.Ingestor.IngestPath(ctx, path, stringField(req, "po_number"))
	if err != nil {
		return nil, common.ToStatus(err)
	}
	s.logger.Info("file ingest succeeded", "file_id", r.FileID, "po_number", r.PONumber, "deduplicated", r.Deduplicated)

	resp := newIngestResponse(r)
	s.process(ctx, r, useQueue, &resp)
	return toStruct(resp)
}

// IngestDirectory ingests {"root_path", "skip_hidden" (default true)} and
// processes every stored file.
func (s *PurchaseOrderService) IngestDirectory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	root := stringField(req, "root_path")
	if root == "" {
		s.logger.Error("ingest directory request missing root_path")
		return nil, status.Error(codes.InvalidArgument, "root_path is required")
	}
	skipHidden := boolField(req, "skip_hidden", true)
	useQueue := boolField(req, "async", false)
	if useQueue && s.deps.Queue == nil {
		return nil, status.Error(codes.FailedPrecondition, "async processing is not enabled")
	}

	s.logger.Info("starting directory ingest", "root", root, "skip_hidden", skipHidden)
	results, stats, err := s.deps.Ingestor.IngestDirectory(ctx, root, skipHidden)
	if err != nil {
		return nil, common.ToStatus(err)
	}

	out := ingestDirectoryResponse{
		Scanned:      stats.Scanned,
		Matched:      stats.Matched,
		Succeeded:    stats.Succeeded,
		Deduplicated: stats.Deduplicated,
		Failed:       stats.Failed,
		Results:      make([]ingestResponse, 0, len(results)),
	}
	for _, r := range results {
		item := newIngestResponse(r)
		if r.Err == "" {
			s.process(ctx, r, useQueue, &item)
		}
		out.Results = append(out.Results, item)
	}
	return toStruct(out)
}

func (s *PurchaseOrderService) process(ctx context.Context, r ingest.IngestionResult, useQueue bool, resp *ingestResponse) {
	if useQueue {
		job := async.Job{
			FileID:      r.FileID,
			PONumber:    r.PONumber,
			SubmittedAt: time.Now(),
			TraceID:     common.RequestIDFromContext(ctx),
		}
		if err := s.deps.Queue.Enqueue(ctx, job); err != nil {
			resp.Error = err.Error()
			return
		}
		resp.Queued = true
		return
	}

	jobID, po, err := s.deps.Processor.ProcessFile(ctx, r.FileID, r.PONumber)
	if jobID != uuid.Nil {
		resp.JobID = jobID.String()
	}
	if err != nil {
		s.logger.Error("pipeline.failed", "file_id", r.FileID, "error", err)
		resp.Error = err.Error()
		return
	}
	resp.ItemCount = len(po.Items)
}
