package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"memberdesk/internal/adapters/console"
	"memberdesk/internal/application/projections"
	"memberdesk/internal/application/status"
	"memberdesk/internal/application/tableview"
)

// tableFlags are the filter and page options shared by the members and renewals commands.
type tableFlags struct {
	id, memberType, plan, status string
	page                         int
	jsonOutput                   bool
}

func (tf *tableFlags) cliFlags(planUsage string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "id", Usage: "member ID contains (case-insensitive)", Destination: &tf.id},
		&cli.StringFlag{Name: "type", Usage: "member type (Student, Faculty, Outsider)", Destination: &tf.memberType},
		&cli.StringFlag{Name: "plan", Usage: planUsage, Destination: &tf.plan},
		&cli.StringFlag{Name: "status", Usage: "status, exact match", Destination: &tf.status},
		&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Usage: "page number", Value: 1, Destination: &tf.page},
		&cli.BoolFlag{Name: "json", Usage: "print the page as JSON", Destination: &tf.jsonOutput},
	}
}

func (tf *tableFlags) filters() map[string]string {
	return map[string]string{"id": tf.id, "type": tf.memberType, "plan": tf.plan, "status": tf.status}
}

// MembersCmd lists members from the desk server, filtered and paginated locally.
type MembersCmd struct {
	flags *Flags
	table tableFlags
}

// NewMembersCmd creates the members command.
func NewMembersCmd(flags *Flags) *MembersCmd {
	return &MembersCmd{flags: flags}
}

// Register adds the members command to the application.
func (cmd *MembersCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "members",
		Usage:     "List members, filtered and paginated",
		UsageText: "memberctl members [--id CODE] [--type TYPE] [--plan PLAN] [--status STATUS] [--page N]",
		Flags:     cmd.table.cliFlags("gym plan (Daily, Monthly, Annual)"),
		Action:    cmd.run,
	})
	return app
}

func (cmd *MembersCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer
	board := status.NewBoard(cmd.flags.Location())

	cl, err := cmd.flags.Client(ctx)
	if err != nil {
		return err
	}
	rows, err := cl.Members(ctx)
	entry := board.Report(status.Members, len(rows), err, time.Now())
	if err != nil {
		fmt.Fprintln(out, console.StatusLine(entry))
		return err
	}

	schema := projections.MembersSchema
	tbl := tableview.New(schema, rows)
	tbl.Load(filterQuery(schema.Param, schema.PageParam(), cmd.table.filters(), cmd.table.page))
	view := tbl.View(nil)

	if cmd.table.jsonOutput {
		return writeJSON(out, view)
	}
	fmt.Fprintln(out, console.MembersTable(view))
	fmt.Fprintln(out, console.PageLine(view.PageInfo, view.Controls))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
