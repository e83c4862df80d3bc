package main

import (
	"context"
	"fmt"

	"barangay/internal/auth"
	"barangay/internal/db"
	"barangay/internal/requests"
	"barangay/internal/storage"
	"barangay/internal/store"
	"barangay/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// openStore connects to the configured backend. SQLite databases are
// migrated on open since they are usually local and disposable.
func openStore(ctx context.Context, cfg *types.Config, logger *logrus.Logger) (store.DB, func(), error) {
	switch cfg.StoreDriver {
	case types.StoreDriverPostgres:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.Info("connected to postgres")
		return store.NewPostgresDB(pool), pool.Close, nil

	case types.StoreDriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}

		storeDB := store.NewSQLiteDB(conn)
		if err := store.Migrate(ctx, storeDB); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		logger.WithField("path", cfg.SQLitePath).Info("opened sqlite database")
		return storeDB, func() { _ = conn.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

type repositories struct {
	requests *store.RequestRepository
	events   *store.RequestEventRepository
	zones    *store.ZoneRepository
	admins   *store.AdminRepository
	files    *store.FileRepository
}

func newRepositories(storeDB store.DB) *repositories {
	return &repositories{
		requests: store.NewRequestRepository(storeDB),
		events:   store.NewRequestEventRepository(storeDB),
		zones:    store.NewZoneRepository(storeDB),
		admins:   store.NewAdminRepository(storeDB),
		files:    store.NewFileRepository(storeDB),
	}
}

type services struct {
	requests *requests.Service
	files    *storage.Service
	auth     *auth.Service
	tokens   *auth.Tokens
}

func newServices(ctx context.Context, cfg *types.Config, logger *logrus.Logger, repos *repositories) (*services, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var blobs storage.Blobs
	switch cfg.FileBackend {
	case types.FileBackendS3:
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		blobs = storage.NewS3Blobs(s3.NewFromConfig(awsConfig), cfg.S3BucketName)
		logger.WithField("bucket", cfg.S3BucketName).Info("storing uploads in s3")
	default:
		blobs = storage.NewDatabaseBlobs(repos.files)
	}

	files := storage.NewService(repos.files, blobs, cfg.MaxUploadBytes)

	return &services{
		requests: requests.New(logger, repos.requests, repos.events, repos.zones, files, location),
		files:    files,
		auth:     auth.NewService(repos.admins),
		tokens:   auth.NewTokens(cfg.SessionSigningKey, cfg.SessionMaxAge()),
	}, nil
}
