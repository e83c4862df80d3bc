package main

import (
	"barangay/internal/auth"
	"fmt"

	"github.com/urfave/cli/v2"
)

var adminCommand = &cli.Command{
	Name:  "admin",
	Usage: "Manage admin accounts",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "Create an admin account",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "name", Usage: "Full name, recorded on processed requests", Required: true},
				&cli.StringFlag{Name: "password", Required: true},
			},
			Action: func(c *cli.Context) error {
				authService, closeStore, err := openAuth(c)
				if err != nil {
					return err
				}
				defer closeStore()

				admin, err := authService.CreateAdmin(c.Context, c.String("email"), c.String("name"), c.String("password"))
				if err != nil {
					return fmt.Errorf("failed to create admin: %w", err)
				}

				fmt.Printf("created admin %s (%s)\n", admin.Email, admin.ID)
				return nil
			},
		},
		{
			Name:  "password",
			Usage: "Reset an admin's password",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", Required: true},
			},
			Action: func(c *cli.Context) error {
				authService, closeStore, err := openAuth(c)
				if err != nil {
					return err
				}
				defer closeStore()

				if err := authService.ResetPassword(c.Context, c.String("email"), c.String("password")); err != nil {
					return fmt.Errorf("failed to reset password: %w", err)
				}

				fmt.Printf("password updated for %s\n", c.String("email"))
				return nil
			},
		},
	},
}

func openAuth(c *cli.Context) (*auth.Service, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateStore(); err != nil {
		return nil, nil, err
	}

	storeDB, closeStore, err := openStore(c.Context, cfg, newLogger(cfg))
	if err != nil {
		return nil, nil, err
	}

	return auth.NewService(newRepositories(storeDB).admins), closeStore, nil
}
