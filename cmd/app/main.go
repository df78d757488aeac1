package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/daycal/internal"
	pkgconfig "github.com/starford/daycal/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func render(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if date := cmd.String("date"); date != "" {
		cfg.Calendar.InitialDate = date
		if err := cfg.Calendar.Validate(); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}
	return internal.Render(ctx, internal.WithConfig(cfg), internal.WithYearView(cmd.Bool("year")))
}

func sync(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Sync(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "daycal",
		Usage:  "Calendar date picker with per-day notes, served over HTTP, SSE and MCP",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and event stream (default)",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the calendar tools over MCP stdio",
				Action: mcp,
			},
			{
				Name:   "render",
				Usage:  "Print the month or year around a date",
				Action: render,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "year", Aliases: []string{"y"}, Usage: "Print the whole year"},
					&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Date to show (YYYY-MM-DD), defaults to today"},
				},
			},
			{
				Name:   "sync",
				Usage:  "Import the days directory into the SQLite store",
				Action: sync,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
