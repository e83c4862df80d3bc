package storage

import (
	"context"
	"testing"

	"barangay/internal/db"
	"barangay/internal/store"
	"barangay/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadThroughDatabase(t *testing.T) {
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	storeDB := store.NewSQLiteDB(conn)
	require.NoError(t, store.Migrate(ctx, storeDB))

	files := store.NewFileRepository(storeDB)
	svc := NewService(files, NewDatabaseBlobs(files), 1<<20)

	id, err := svc.Save(ctx, &types.Upload{FileName: "valid-id.png", Data: pngBytes})
	require.NoError(t, err)

	file, data, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", file.MimeType)
}
