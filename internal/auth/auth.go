// Package auth handles admin credentials and session tokens.
package auth

import (
	"barangay/pkg/types"
	"context"
	"errors"
	"net/mail"
	"strings"
)

type AdminStore interface {
	AdminByEmail(ctx context.Context, email string) (*types.AdminUser, error)
	CreateAdmin(ctx context.Context, admin *types.AdminUser) error
	UpdatePassword(ctx context.Context, adminID, passwordHash string) error
}

type Service struct {
	admins AdminStore
}

func NewService(admins AdminStore) *Service {
	return &Service{admins: admins}
}

// Login returns the admin when email and password match. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*types.AdminUser, error) {
	admin, err := s.admins.AdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrAdminNotFound) {
			return nil, types.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := CheckPassword(admin.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, types.ErrInvalidCredentials
	}

	return admin, nil
}

func (s *Service) CreateAdmin(ctx context.Context, email, fullName, password string) (*types.AdminUser, error) {
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)

	fieldErrs := map[string]string{}
	if _, err := mail.ParseAddress(email); err != nil {
		fieldErrs["email"] = "Enter a valid email address."
	}
	if fullName == "" {
		fieldErrs["full_name"] = "Full name is required."
	}
	if len(password) < minPasswordLength {
		fieldErrs["password"] = "Password must be at least 8 characters."
	}
	if len(fieldErrs) > 0 {
		return nil, &types.ValidationError{Fields: fieldErrs}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &types.AdminUser{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	}
	if err := s.admins.CreateAdmin(ctx, admin); err != nil {
		return nil, err
	}

	return admin, nil
}

// ResetPassword replaces the password of the admin with the given email.
func (s *Service) ResetPassword(ctx context.Context, email, password string) error {
	admin, err := s.admins.AdminByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}

	if len(password) < minPasswordLength {
		return types.NewValidationError("password", "Password must be at least 8 characters.")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	return s.admins.UpdatePassword(ctx, admin.ID, hash)
}
