package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"memberdesk/internal/adapters/console"
	"memberdesk/internal/application/status"
)

// LogsCmd prints the membership log of the past week.
type LogsCmd struct {
	flags *Flags
}

// NewLogsCmd creates the logs command.
func NewLogsCmd(flags *Flags) *LogsCmd {
	return &LogsCmd{flags: flags}
}

// Register adds the logs command to the application.
func (cmd *LogsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "logs",
		Usage:  "Show membership activity of the past 7 days",
		Action: cmd.run,
	})
	return app
}

func (cmd *LogsCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer
	board := status.NewBoard(cmd.flags.Location())

	cl, err := cmd.flags.Client(ctx)
	if err != nil {
		return err
	}
	logs, err := cl.MembershipLogs(ctx)
	entry := board.Report(status.Logs, len(logs), err, time.Now())
	if err != nil || len(logs) == 0 {
		fmt.Fprintln(out, console.StatusLine(entry))
		return err
	}
	fmt.Fprintln(out, console.LogList(logs))
	return nil
}
