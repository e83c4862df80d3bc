package main

import (
	"fmt"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var requestCommand = &cli.Command{
	Name:  "request",
	Usage: "Inspect document requests",
	Subcommands: []*cli.Command{
		{
			Name:      "show",
			Usage:     "Print every request with the given reference number",
			ArgsUsage: "<reference>",
			Action: func(c *cli.Context) error {
				reference := c.Args().First()
				if reference == "" {
					return fmt.Errorf("reference number is required")
				}

				cfg, err := loadConfig(c)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				if err := cfg.ValidateStore(); err != nil {
					return err
				}

				storeDB, closeStore, err := openStore(c.Context, cfg, newLogger(cfg))
				if err != nil {
					return err
				}
				defer closeStore()

				repos := newRepositories(storeDB)

				requests, err := repos.requests.RequestsByReference(c.Context, reference)
				if err != nil {
					return err
				}
				if len(requests) == 0 {
					return fmt.Errorf("no request with reference number %s", reference)
				}

				for _, request := range requests {
					events, err := repos.events.EventsByRequest(c.Context, request.ID)
					if err != nil {
						return err
					}
					pp.Println(request)
					pp.Println(events)
				}

				return nil
			},
		},
	},
}
