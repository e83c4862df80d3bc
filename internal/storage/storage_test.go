package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"barangay/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
)

type fakeS3 struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(params.Key)] = data
	f.contentTypes[aws.ToString(params.Key)] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

type memoryMetadata struct {
	files map[string]*types.StoredFile
}

func (m *memoryMetadata) CreateFile(_ context.Context, file *types.StoredFile) error {
	m.files[file.ID] = file
	return nil
}

func (m *memoryMetadata) File(_ context.Context, id string) (*types.StoredFile, error) {
	file, ok := m.files[id]
	if !ok {
		return nil, types.ErrFileNotFound
	}
	return file, nil
}

func newS3Service(maxBytes int64) (*Service, *fakeS3) {
	client := newFakeS3()
	return NewService(&memoryMetadata{files: map[string]*types.StoredFile{}}, NewS3Blobs(client, "uploads"), maxBytes), client
}

func TestSaveAndLoadThroughS3(t *testing.T) {
	svc, client := newS3Service(1 << 20)
	ctx := context.Background()

	id, err := svc.Save(ctx, &types.Upload{FileName: `C:\scans\clearance.pdf`, Data: pdfBytes})
	require.NoError(t, err)

	file, data, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, data)
	assert.Equal(t, "clearance.pdf", file.FileName)
	assert.Equal(t, "application/pdf", file.MimeType)
	assert.Equal(t, int64(len(pdfBytes)), file.SizeBytes)
	assert.True(t, strings.HasPrefix(file.StorageKey, "uploads/"))
	assert.True(t, strings.HasSuffix(file.StorageKey, id+".pdf"))
	assert.Equal(t, "application/pdf", client.contentTypes[file.StorageKey])
}

func TestSaveDetectsImages(t *testing.T) {
	svc, _ := newS3Service(1 << 20)

	id, err := svc.Save(context.Background(), &types.Upload{FileName: "", Data: pngBytes})
	require.NoError(t, err)

	file, err := svc.Metadata(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "image/png", file.MimeType)
	assert.Equal(t, "upload.png", file.FileName)
}

func TestSaveRejects(t *testing.T) {
	svc, client := newS3Service(16)
	ctx := context.Background()

	_, err := svc.Save(ctx, &types.Upload{FileName: "big.pdf", Data: pdfBytes})
	assert.ErrorIs(t, err, types.ErrFileTooLarge)

	_, err = svc.Save(ctx, &types.Upload{FileName: "empty.pdf"})
	assert.ErrorIs(t, err, types.ErrUnsupportedFileType)

	_, err = svc.Save(ctx, &types.Upload{FileName: "script.sh", Data: []byte("#!/bin/sh\n")})
	assert.ErrorIs(t, err, types.ErrUnsupportedFileType)

	assert.Empty(t, client.objects)
}

func TestLoadMissing(t *testing.T) {
	svc, client := newS3Service(1 << 20)
	ctx := context.Background()

	_, _, err := svc.Load(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrFileNotFound)

	id, err := svc.Save(ctx, &types.Upload{FileName: "a.pdf", Data: pdfBytes})
	require.NoError(t, err)

	// metadata without an object behind it
	client.objects = map[string][]byte{}
	_, _, err = svc.Load(ctx, id)
	assert.ErrorIs(t, err, types.ErrFileNotFound)
}
