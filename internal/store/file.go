package store

import (
	"barangay/pkg/types"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

const (
	fileTableName = "stored_files"
	blobTableName = "file_blobs"
)

var fileTableColumns = []string{
	"id",
	"file_name",
	"mime_type",
	"size_bytes",
	"storage_key",
	"created_at",
}

type FileRepository struct {
	db DB
}

func NewFileRepository(db DB) *FileRepository {
	return &FileRepository{db: db}
}

// File retrieves a single file's metadata by ID
func (r *FileRepository) File(ctx context.Context, id string) (*types.StoredFile, error) {
	query, args, _ := r.db.Builder().
		Select(fileTableColumns...).
		From(fileTableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	var file types.StoredFile
	err := r.db.Get(ctx, &file, query, args...)
	if errors.Is(err, ErrNoRows) {
		return nil, types.ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file %s: %w", id, err)
	}
	return &file, nil
}

// CreateFile inserts a new file metadata record
func (r *FileRepository) CreateFile(ctx context.Context, file *types.StoredFile) error {
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}
	file.CreatedAt = file.CreatedAt.UTC()

	query, args, _ := r.db.Builder().
		Insert(fileTableName).
		Columns(fileTableColumns...).
		Values(
			file.ID,
			file.FileName,
			file.MimeType,
			file.SizeBytes,
			file.StorageKey,
			file.CreatedAt,
		).
		ToSql()

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", file.ID, err)
	}
	return nil
}

// PutBlob stores file content under its storage key
func (r *FileRepository) PutBlob(ctx context.Context, storageKey string, content []byte) error {
	query, args, _ := r.db.Builder().
		Insert(blobTableName).
		Columns("storage_key", "content", "created_at").
		Values(storageKey, content, time.Now().UTC()).
		ToSql()

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to store blob %s: %w", storageKey, err)
	}
	return nil
}

// Blob loads the content stored under a storage key
func (r *FileRepository) Blob(ctx context.Context, storageKey string) ([]byte, error) {
	query, args, _ := r.db.Builder().
		Select("storage_key", "content", "created_at").
		From(blobTableName).
		Where(squirrel.Eq{"storage_key": storageKey}).
		ToSql()

	var blob types.FileBlob
	err := r.db.Get(ctx, &blob, query, args...)
	if errors.Is(err, ErrNoRows) {
		return nil, types.ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blob %s: %w", storageKey, err)
	}
	return blob.Content, nil
}
