package store

import (
	"barangay/internal/utils"
	"barangay/pkg/types"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const adminTableName = "admin_users"

var adminColumns = utils.StructTagValues(types.AdminUser{})

type AdminRepository struct {
	db DB
}

func NewAdminRepository(db DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Admin(ctx context.Context, adminID string) (*types.AdminUser, error) {
	return r.admin(ctx, sq.Eq{"id": adminID})
}

// AdminByEmail looks the admin up by email, ignoring case.
func (r *AdminRepository) AdminByEmail(ctx context.Context, email string) (*types.AdminUser, error) {
	return r.admin(ctx, sq.Eq{"LOWER(email)": strings.ToLower(strings.TrimSpace(email))})
}

func (r *AdminRepository) admin(ctx context.Context, where sq.Eq) (*types.AdminUser, error) {
	query, args, err := r.db.Builder().
		Select(adminColumns...).
		From(adminTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate admin query: %w", err)
	}

	var admin types.AdminUser
	err = r.db.Get(ctx, &admin, query, args...)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, types.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to fetch admin: %w", err)
	}

	return &admin, nil
}

func (r *AdminRepository) CreateAdmin(ctx context.Context, admin *types.AdminUser) error {
	_, err := r.AdminByEmail(ctx, admin.Email)
	if err == nil {
		return types.ErrAdminExists
	}
	if !errors.Is(err, types.ErrAdminNotFound) {
		return err
	}

	if admin.ID == "" {
		admin.ID = utils.NanoID()
	}
	admin.Email = strings.TrimSpace(admin.Email)
	admin.CreatedAt = time.Now().UTC()

	query, args, err := r.db.Builder().
		Insert(adminTableName).
		SetMap(utils.StructToMap(admin)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create admin query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, adminID, passwordHash string) error {
	query, args, err := r.db.Builder().
		Update(adminTableName).
		Set("password_hash", passwordHash).
		Where(sq.Eq{"id": adminID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update admin password query: %w", err)
	}

	affected, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	if affected == 0 {
		return types.ErrAdminNotFound
	}

	return nil
}
