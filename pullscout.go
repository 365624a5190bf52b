package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pullscout/cmd"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "pullscout",
		Usage:   "AI-powered pull request reviewer for GitHub",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
		},
		Commands: []*cli.Command{
			cmd.RunCommand(),
			cmd.ConfigCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
