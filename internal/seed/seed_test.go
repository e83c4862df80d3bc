package seed

import (
	"context"
	"testing"

	"barangay/internal/auth"
	"barangay/internal/db"
	"barangay/internal/store"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) store.DB {
	t.Helper()

	conn, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	storeDB := store.NewSQLiteDB(conn)
	require.NoError(t, store.Migrate(context.Background(), storeDB))
	return storeDB
}

func TestSeedZonesIsRepeatable(t *testing.T) {
	storeDB := newTestDB(t)
	repo := store.NewZoneRepository(storeDB)
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	require.NoError(t, SeedZones(ctx, logger, repo))
	require.NoError(t, SeedZones(ctx, logger, repo))

	zones, err := repo.Zones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, len(DefaultZones))
	assert.Equal(t, "zone-1", zones[0].ID)
	assert.Equal(t, "Zone 6 - Purok Seis", zones[5].ZoneName)
}

func TestSeedAdminSkipsExisting(t *testing.T) {
	storeDB := newTestDB(t)
	admins := store.NewAdminRepository(storeDB)
	authService := auth.NewService(admins)
	logger, hook := test.NewNullLogger()
	ctx := context.Background()

	require.NoError(t, SeedAdmin(ctx, logger, authService, DefaultAdminEmail, DefaultAdminFullName, "s3cret-pass"))
	require.NoError(t, SeedAdmin(ctx, logger, authService, DefaultAdminEmail, DefaultAdminFullName, "other-pass"))
	assert.Equal(t, "admin already exists, skipping", hook.LastEntry().Message)

	// the original password still works
	_, err := authService.Login(ctx, DefaultAdminEmail, "s3cret-pass")
	assert.NoError(t, err)

	assert.Error(t, SeedAdmin(ctx, logger, authService, "second@barangay.gov.ph", "Second", "short"))
}
