package store

import (
	"context"
	"testing"

	"barangay/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepository(t *testing.T) {
	repo := NewAdminRepository(newTestDB(t))
	ctx := context.Background()

	admin := &types.AdminUser{Email: "Admin@Barangay.gov.ph", FullName: "Kapitan", PasswordHash: "hash"}
	require.NoError(t, repo.CreateAdmin(ctx, admin))
	require.NotEmpty(t, admin.ID)

	got, err := repo.AdminByEmail(ctx, "admin@barangay.gov.ph")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.Equal(t, "Kapitan", got.FullName)

	err = repo.CreateAdmin(ctx, &types.AdminUser{Email: "ADMIN@barangay.gov.ph", FullName: "Other", PasswordHash: "hash"})
	assert.ErrorIs(t, err, types.ErrAdminExists)

	require.NoError(t, repo.UpdatePassword(ctx, admin.ID, "new-hash"))
	got, err = repo.Admin(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, "missing", "x"), types.ErrAdminNotFound)

	_, err = repo.AdminByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, types.ErrAdminNotFound)
}
