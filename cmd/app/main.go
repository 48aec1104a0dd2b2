// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardbook/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "cardbook",
		Usage:   "Personal credit card bookkeeping application",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "export",
				Usage: "Export the local card collection as a versioned JSON document",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "",
						Usage:   "Output file path (defaults to stdout)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunExport(ctx, commands.DefaultIO(), cmd.String("output"))
				},
			},
			{
				Name:  "import",
				Usage: "Import a versioned JSON document into the local card collection",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Value:   "",
						Usage:   "Input file path (defaults to stdin)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunImport(ctx, commands.DefaultIO(), cmd.String("input"))
				},
			},
			{
				Name:  "stats",
				Usage: "Show aggregate statistics for the local card collection",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunStats(ctx, commands.DefaultIO())
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
