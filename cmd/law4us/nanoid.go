package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Law4Us/Law4Us-sub002/internal/utils"
)

var nanoidCommand = &cli.Command{
	Name:  "nanoid",
	Usage: "Generate submission IDs for seed files and fixtures",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of IDs to generate",
			Value:   1,
		},
		&cli.IntFlag{
			Name:    "size",
			Aliases: []string{"s"},
			Usage:   "ID length",
			Value:   utils.NanoidSize,
		},
	},
	Action: func(c *cli.Context) error {
		if c.Int("count") < 1 {
			return fmt.Errorf("count must be positive")
		}
		for range c.Int("count") {
			fmt.Println(utils.NanoIDSize(c.Int("size")))
		}
		return nil
	},
}
