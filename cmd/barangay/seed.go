package main

import (
	"barangay/internal/auth"
	"barangay/internal/seed"
	"fmt"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with zones and an initial admin",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "admin-email",
			Usage: "Email of the initial admin",
			Value: seed.DefaultAdminEmail,
		},
		&cli.StringFlag{
			Name:  "admin-name",
			Usage: "Full name of the initial admin",
			Value: seed.DefaultAdminFullName,
		},
		&cli.StringFlag{
			Name:    "admin-password",
			Usage:   "Password of the initial admin, no admin is seeded when empty",
			EnvVars: []string{"BARANGAY_SEED_ADMIN_PASSWORD"},
		},
	},
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

		repos := newRepositories(storeDB)

		logger.Info("seeding zones")
		if err := seed.SeedZones(ctx, logger, repos.zones); err != nil {
			return fmt.Errorf("failed to seed zones: %w", err)
		}

		password := c.String("admin-password")
		if password == "" {
			logger.Info("no admin password given, skipping admin seed")
			return nil
		}

		err = seed.SeedAdmin(ctx, logger, auth.NewService(repos.admins), c.String("admin-email"), c.String("admin-name"), password)
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}

		logger.Info("seed complete")
		return nil
	},
}
