package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Config string `help:"Config file path." type:"path" default:"config.toml" env:"DD_CONFIG"`

	Migrate      MigrateCmd      `cmd:"" help:"Apply database migrations."`
	Block        BlockCmd        `cmd:"" help:"Close a date for new bookings."`
	Unblock      UnblockCmd      `cmd:"" help:"Reopen a blocked date."`
	Blocked      BlockedCmd      `cmd:"" help:"List blocked dates."`
	Approve      ApproveCmd      `cmd:"" help:"Approve a pending appointment."`
	Decline      DeclineCmd      `cmd:"" help:"Decline a pending or approved appointment."`
	Complete     CompleteCmd     `cmd:"" help:"Mark an approved appointment as completed."`
	Appointments AppointmentsCmd `cmd:"" help:"List appointments."`
	Availability AvailabilityCmd `cmd:"" help:"Show slot availability for a date range."`
	Token        TokenCmd        `cmd:"" help:"Issue an API access token."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("detailingctl"),
		kong.Description("Operator tool for the detailing booking service"),
		kong.UsageOnError(),
	)

	app, err := newApp(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = ctx.Run(app)
	app.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
