package storage

import (
	"barangay/internal/utils"
	"barangay/pkg/types"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Blobs stores raw file content by key.
type Blobs interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// FileMetadata persists StoredFile rows.
type FileMetadata interface {
	CreateFile(ctx context.Context, file *types.StoredFile) error
	File(ctx context.Context, id string) (*types.StoredFile, error)
}

// AllowedMimeTypes lists what applicants may upload: scans and photos of
// clearances and IDs.
var AllowedMimeTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/heic",
}

type Service struct {
	files    FileMetadata
	blobs    Blobs
	maxBytes int64
}

func NewService(files FileMetadata, blobs Blobs, maxBytes int64) *Service {
	return &Service{
		files:    files,
		blobs:    blobs,
		maxBytes: maxBytes,
	}
}

// Save stores the upload and returns the new file's ID. Files are never
// updated after this.
func (s *Service) Save(ctx context.Context, upload *types.Upload) (string, error) {
	if len(upload.Data) == 0 {
		return "", fmt.Errorf("empty upload: %w", types.ErrUnsupportedFileType)
	}

	if int64(len(upload.Data)) > s.maxBytes {
		return "", fmt.Errorf("%d bytes exceeds limit of %d: %w", len(upload.Data), s.maxBytes, types.ErrFileTooLarge)
	}

	detected := mimetype.Detect(upload.Data)
	if !mimetype.EqualsAny(detected.String(), AllowedMimeTypes...) {
		return "", fmt.Errorf("detected %s: %w", detected.String(), types.ErrUnsupportedFileType)
	}

	id := utils.NanoID()
	file := &types.StoredFile{
		ID:         id,
		FileName:   cleanFileName(upload.FileName, detected.Extension()),
		MimeType:   detected.String(),
		SizeBytes:  int64(len(upload.Data)),
		StorageKey: fmt.Sprintf("uploads/%s/%s%s", time.Now().UTC().Format("2006/01/02"), id, detected.Extension()),
		CreatedAt:  time.Now(),
	}

	if err := s.blobs.Put(ctx, file.StorageKey, file.MimeType, upload.Data); err != nil {
		return "", fmt.Errorf("failed to store file content: %w", err)
	}

	if err := s.files.CreateFile(ctx, file); err != nil {
		return "", err
	}

	return id, nil
}

// Load returns the file's metadata and content.
func (s *Service) Load(ctx context.Context, id string) (*types.StoredFile, []byte, error) {
	file, err := s.files.File(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.blobs.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load content for file %s: %w", id, err)
	}

	return file, data, nil
}

// Metadata returns the file's metadata without reading its content.
func (s *Service) Metadata(ctx context.Context, id string) (*types.StoredFile, error) {
	return s.files.File(ctx, id)
}

func cleanFileName(name, ext string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "upload" + ext
	}
	return name
}
