package types

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrRequestNotFound         = errors.New("request not found")
	ErrZoneNotFound            = errors.New("zone not found")
	ErrZoneClearanceNotFound   = errors.New("no approved zone clearance found")
	ErrZoneClearanceRequired   = errors.New("a verified zone clearance is required")
	ErrInvalidTransition       = errors.New("request is no longer pending")
	ErrRejectionReasonRequired = errors.New("a rejection reason is required")
	ErrAdminNotFound           = errors.New("admin user not found")
	ErrAdminExists             = errors.New("admin user already exists")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrFileNotFound            = errors.New("file not found")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrFileTooLarge            = errors.New("file too large")
)

// ValidationError maps form field names to user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
