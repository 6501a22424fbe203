package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"memberdesk/internal/adapters/console"
	"memberdesk/internal/application/projections"
	"memberdesk/internal/application/status"
	"memberdesk/internal/application/tableview"
	domainRenewal "memberdesk/internal/domain/renewal"
)

var renewalsRegion = status.Region{Name: "renewals", FailMsg: "Failed to load renewal requests."}

// RenewalsCmd lists renewal requests and records desk decisions on them.
type RenewalsCmd struct {
	flags *Flags
	table tableFlags

	// decide flags
	decision string
}

// NewRenewalsCmd creates the renewals command.
func NewRenewalsCmd(flags *Flags) *RenewalsCmd {
	return &RenewalsCmd{flags: flags}
}

// Register adds the renewals command and its decide subcommand to the application.
func (cmd *RenewalsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "renewals",
		Usage:     "List renewal requests, filtered and paginated",
		UsageText: "memberctl renewals [--id CODE] [--type TYPE] [--plan PLAN] [--status STATUS] [--page N]",
		Flags:     cmd.table.cliFlags("member's current plan (Daily, Monthly, Annual)"),
		Action:    cmd.run,
		Commands: []*cli.Command{
			{
				Name:      "decide",
				Usage:     "Approve or deny a pending renewal request",
				UsageText: "memberctl renewals decide --status Approved|Denied REQUEST_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "status",
						Usage:       "Approved or Denied",
						Required:    true,
						Destination: &cmd.decision,
					},
				},
				Action: cmd.decide,
			},
		},
	})
	return app
}

func (cmd *RenewalsCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer
	board := status.NewBoard(cmd.flags.Location())

	cl, err := cmd.flags.Client(ctx)
	if err != nil {
		return err
	}
	rows, err := cl.Renewals(ctx)
	entry := board.Report(renewalsRegion, len(rows), err, time.Now())
	if err != nil {
		fmt.Fprintln(out, console.StatusLine(entry))
		return err
	}

	schema := projections.RenewalsSchema
	tbl := tableview.New(schema, rows)
	tbl.Load(filterQuery(schema.Param, schema.PageParam(), cmd.table.filters(), cmd.table.page))
	view := tbl.View(nil)

	if cmd.table.jsonOutput {
		return writeJSON(out, view)
	}
	pending := 0
	for _, r := range rows {
		if r.IsPending() {
			pending++
		}
	}
	fmt.Fprintln(out, console.RenewalsTable(view))
	fmt.Fprintln(out, console.PageLine(view.PageInfo, view.Controls))
	fmt.Fprintf(out, "%d pending\n", pending)
	return nil
}

func (cmd *RenewalsCmd) decide(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("request ID is required")
	}
	if cmd.decision != domainRenewal.StatusApproved && cmd.decision != domainRenewal.StatusDenied {
		return fmt.Errorf("status must be %s or %s", domainRenewal.StatusApproved, domainRenewal.StatusDenied)
	}
	cl, err := cmd.flags.Client(ctx)
	if err != nil {
		return err
	}
	msg, err := cl.DecideRenewal(ctx, id, cmd.decision)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.Root().Writer, msg)
	return nil
}
