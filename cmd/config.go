package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pullscout/internal/config"
)

// ConfigCommand returns the config command.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Subcommands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Create a sample configuration file",
				ArgsUsage: "PATH",
				Action: func(c *cli.Context) error {
					path := c.Args().Get(0)
					if path == "" {
						path = "pullscout.toml"
					}
					if err := config.Init(path); err != nil {
						return err
					}
					fmt.Printf("Created configuration file at %s\n", path)
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "Validate the effective configuration",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if err := config.Validate(cfg); err != nil {
						return err
					}
					fmt.Println("Configuration is valid")
					return nil
				},
			},
		},
	}
}
