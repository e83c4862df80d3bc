package storage

import "context"

type blobRepository interface {
	PutBlob(ctx context.Context, storageKey string, content []byte) error
	Blob(ctx context.Context, storageKey string) ([]byte, error)
}

// DatabaseBlobs keeps file content in the file_blobs table next to the rest
// of the data, for installs without object storage.
type DatabaseBlobs struct {
	repo blobRepository
}

func NewDatabaseBlobs(repo blobRepository) *DatabaseBlobs {
	return &DatabaseBlobs{repo: repo}
}

func (d *DatabaseBlobs) Put(ctx context.Context, key, _ string, data []byte) error {
	return d.repo.PutBlob(ctx, key, data)
}

func (d *DatabaseBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	return d.repo.Blob(ctx, key)
}
