package main

import (
	"encoding/base64"
	"fmt"

	"github.com/gorilla/securecookie"
	"github.com/urfave/cli/v2"
)

var keysCommand = &cli.Command{
	Name:  "keys",
	Usage: "Generate session and cookie keys for the environment",
	Action: func(c *cli.Context) error {
		prefix := c.String("env-prefix")
		if prefix != "" {
			prefix += "_"
		}

		keys := []struct {
			name string
			size int
		}{
			{"SESSION_SIGNING_KEY", 32},
			{"COOKIE_HASH_KEY", 64},
			{"COOKIE_BLOCK_KEY", 32},
		}

		for _, k := range keys {
			key := securecookie.GenerateRandomKey(k.size)
			if key == nil {
				return fmt.Errorf("failed to generate %s", k.name)
			}
			fmt.Printf("%s%s=%s\n", prefix, k.name, base64.StdEncoding.EncodeToString(key))
		}

		return nil
	},
}
