package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// DefaultServerURL is the server memberctl talks to when none is configured.
const DefaultServerURL = "http://localhost:8080"

// NewApp builds the memberctl root command with every subcommand registered.
func NewApp(flags *Flags, version string) *cli.Command {
	app := &cli.Command{
		Name:      "memberctl",
		Usage:     "Inspect a memberdesk server from the terminal",
		UsageText: "memberctl [global options] command [command options]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("MEMBERDESK_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "url",
				Usage:       "server base URL",
				Sources:     cli.EnvVars("MEMBERDESK_URL"),
				Value:       DefaultServerURL,
				Destination: &flags.ServerURL,
			},
			&cli.StringFlag{
				Name:        "email",
				Usage:       "admin email",
				Sources:     cli.EnvVars("MEMBERDESK_ADMIN_EMAIL"),
				Destination: &flags.Email,
			},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "admin password",
				Sources:     cli.EnvVars("MEMBERDESK_ADMIN_PASSWORD"),
				Destination: &flags.Password,
			},
			&cli.StringFlag{
				Name:        "tz",
				Usage:       "gym time zone for timestamps",
				Sources:     cli.EnvVars("MEMBERDESK_TZ"),
				Value:       "Asia/Manila",
				Destination: &flags.Timezone,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var level slog.Level
			if err := level.UnmarshalText([]byte(flags.LogLevel)); err != nil {
				return ctx, fmt.Errorf("parse log level: %w", err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return ctx, nil
		},
	}

	app = NewMembersCmd(flags).Register(app)
	app = NewRenewalsCmd(flags).Register(app)
	app = NewStatsCmd(flags).Register(app)
	app = NewLogsCmd(flags).Register(app)
	return app
}
