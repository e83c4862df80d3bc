package main

import (
	"barangay/internal/store"
	"fmt"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create the database schema",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.ValidateStore(); err != nil {
			return err
		}

		logger := newLogger(cfg)
		ctx := c.Context

		storeDB, closeStore, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Migrate(ctx, storeDB); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		logger.WithField("driver", cfg.StoreDriver).Info("schema applied")
		return nil
	},
}
