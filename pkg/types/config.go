package types

import (
	"encoding/base64"
	"fmt"
	"time"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"

	FileBackendS3       = "s3"
	FileBackendDatabase = "database"
)

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Storage
	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"barangay.db"`

	// Uploaded files
	FileBackend    string `envconfig:"FILE_BACKEND" default:"database"`
	S3BucketName   string `envconfig:"S3_BUCKET_NAME"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"` // 10 MiB

	// Reference numbers carry the local date of submission
	TimeZone string `envconfig:"TIME_ZONE" default:"Asia/Manila"`

	// Admin session
	CookieName        string `envconfig:"SESSION_COOKIE_NAME" default:"barangay_admin"`
	SessionMaxAgeSec  int    `envconfig:"SESSION_MAX_AGE_SEC" default:"28800"` // 8 hours
	SessionSigningKey string `envconfig:"SESSION_SIGNING_KEY"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}

// Validate checks the settings that the server cannot start without.
// Database-only commands call ValidateStore instead.
func (c *Config) Validate() error {
	if err := c.ValidateStore(); err != nil {
		return err
	}

	switch c.FileBackend {
	case FileBackendDatabase:
	case FileBackendS3:
		if c.S3BucketName == "" {
			return fmt.Errorf("set S3_BUCKET_NAME when FILE_BACKEND=%s", FileBackendS3)
		}
	default:
		return fmt.Errorf("unknown FILE_BACKEND %q", c.FileBackend)
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	if c.SessionSigningKey == "" {
		return fmt.Errorf("set SESSION_SIGNING_KEY")
	}

	hashKey, err := base64.StdEncoding.DecodeString(c.CookieHashKey)
	if err != nil {
		return fmt.Errorf("decode COOKIE_HASH_KEY: %w", err)
	}
	if len(hashKey) != 32 && len(hashKey) != 64 {
		return fmt.Errorf("COOKIE_HASH_KEY must decode to 32 or 64 bytes, got %d", len(hashKey))
	}

	blockKey, err := base64.StdEncoding.DecodeString(c.CookieBlockKey)
	if err != nil {
		return fmt.Errorf("decode COOKIE_BLOCK_KEY: %w", err)
	}
	switch len(blockKey) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("COOKIE_BLOCK_KEY must decode to 16, 24 or 32 bytes, got %d", len(blockKey))
	}

	return nil
}

func (c *Config) ValidateStore() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("set DATABASE_URL when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("set SQLITE_PATH when STORE_DRIVER=%s", StoreDriverSQLite)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.SessionMaxAgeSec) * time.Second
}
