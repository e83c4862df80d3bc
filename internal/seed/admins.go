package seed

import (
	"barangay/pkg/types"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type adminCreator interface {
	CreateAdmin(ctx context.Context, email, fullName, password string) (*types.AdminUser, error)
}

const (
	DefaultAdminEmail    = "admin@barangay.gov.ph"
	DefaultAdminFullName = "Barangay Administrator"
)

// SeedAdmin creates the first administrator unless that email already exists.
func SeedAdmin(ctx context.Context, logger logrus.FieldLogger, creator adminCreator, email, fullName, password string) error {
	admin, err := creator.CreateAdmin(ctx, email, fullName, password)
	if errors.Is(err, types.ErrAdminExists) {
		logger.WithField("email", email).Info("admin already exists, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seed admin %s: %w", email, err)
	}

	logger.WithField("admin_id", admin.ID).WithField("email", admin.Email).Info("admin seeded")
	return nil
}
