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

	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

type FileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.POFile, error)
	GetByHash(ctx context.Context, hash []byte) (*entity.POFile, error)
	Create(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.POFile, error)
	UpsertByHash(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.POFile, bool, error)
}

type fileRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewFileRepository(db *DB, logger *slog.Logger) FileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &fileRepo{db: db, logger: logger}
}

func (r *fileRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.POFile, error) {
	f, err := r.get(ctx, entsql.EQ("id", id))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		r.logger.Error("failed to get file", "file_id", id, "error", err)
	}
	return f, err
}

func (r *fileRepo) GetByHash(ctx context.Context, hash []byte) (*entity.POFile, error) {
	return r.get(ctx, entsql.EQ("content_hash", hash))
}

func (r *fileRepo) get(ctx context.Context, where *entsql.Predicate) (*entity.POFile, error) {
	b := r.db.builder()
	query, args := b.Select(fileColumns...).From(b.Table(tableFiles)).Where(where).Query()
	f := &entity.POFile{}
	err := r.db.SQL.QueryRowContext(ctx, query, args...).
		Scan(&f.ID, &f.SourcePath, &f.ContentHash, &f.Filename, &f.FileExt, &f.FileSize, &f.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("FILE_NOT_FOUND", "file not found", common.ErrNotFound)
	}
	if err != nil {
		return nil, errors.Join(common.ErrDatabase, err)
	}
	return f, nil
}

func (r *fileRepo) Create(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.POFile, error) {
	f := &entity.POFile{
		ID:          uuid.New(),
		SourcePath:  sourcePath,
		ContentHash: hash,
		Filename:    filename,
		FileExt:     ext,
		FileSize:    size,
		UploadedAt:  uploadedAt,
	}
	query, args := r.db.builder().Insert(tableFiles).
		Columns(fileColumns...).
		Values(f.ID, f.SourcePath, f.ContentHash, f.Filename, f.FileExt, f.FileSize, f.UploadedAt).
		Query()
	if _, err := r.db.SQL.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to create file", "source_path", sourcePath, "filename", filename, "error", err)
		return nil, errors.Join(common.ErrDatabase, fmt.Errorf("insert file: %w", err))
	}
	return f, nil
}

// UpsertByHash returns the stored file with the same content hash, creating
// it first when absent. The bool reports whether the file already existed.
func (r *fileRepo) UpsertByHash(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.POFile, bool, error) {
	existing, err := r.GetByHash(ctx, hash)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}
	row, err := r.Create(ctx, sourcePath, filename, ext, size, hash, uploadedAt)
	if err != nil {
		return nil, false, err
	}
	return row, false, nil
}
