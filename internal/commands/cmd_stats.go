package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"memberdesk/internal/adapters/console"
	"memberdesk/internal/application/status"
)

// StatsCmd prints the dashboard summary and revenue figures.
type StatsCmd struct {
	flags *Flags
}

// NewStatsCmd creates the stats command.
func NewStatsCmd(flags *Flags) *StatsCmd {
	return &StatsCmd{flags: flags}
}

// Register adds the stats command to the application.
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "stats",
		Usage:  "Show the dashboard summary and revenue",
		Action: cmd.run,
	})
	return app
}

// run prints each region independently; one failed fetch does not hide the other.
func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer
	board := status.NewBoard(cmd.flags.Location())

	cl, err := cmd.flags.Client(ctx)
	if err != nil {
		return err
	}

	summary, sumErr := cl.DashboardSummary(ctx)
	entry := board.Report(status.Summary, summary.Summary.Total, sumErr, time.Now())
	if sumErr == nil {
		fmt.Fprintln(out, console.SummaryCards(summary.Summary))
	} else {
		fmt.Fprintln(out, console.StatusLine(entry))
	}

	stats, statsErr := cl.MembersStatistics(ctx)
	entry = board.Report(status.Stats, len(stats.Members), statsErr, time.Now())
	if statsErr == nil {
		fmt.Fprintln(out, console.RevenueCards(stats.Stats))
		fmt.Fprintln(out, console.WeeklyRevenue(stats.WeeklyRevenue))
	}
	fmt.Fprintln(out, console.StatusLine(entry))

	if sumErr != nil {
		return sumErr
	}
	return statsErr
}
