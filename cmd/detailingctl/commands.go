package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/infra/storage"
	"github.com/m04kA/SMC-DetailingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(app *App) error {
	applied, err := storage.Migrate(context.Background(), app.DB, app.Dialect, app.Log)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Applied %d migration(s) to %s database\n", applied, app.Dialect)
	return nil
}

type BlockCmd struct {
	Date   string `arg:"" help:"Date to block (YYYY-MM-DD)."`
	Reason string `help:"Reason shown to administrators." default:""`
}

func (c *BlockCmd) Run(app *App) error {
	date, err := types.ParseDate(c.Date)
	if err != nil {
		return err
	}

	var reason *string
	if c.Reason != "" {
		reason = &c.Reason
	}

	entry, err := app.Blackouts.Block(context.Background(), date, reason)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Blocked %s (%s)\n", entry.Date, entry.Reason)
	return nil
}

type UnblockCmd struct {
	Date string `arg:"" help:"Date to reopen (YYYY-MM-DD)."`
}

func (c *UnblockCmd) Run(app *App) error {
	date, err := types.ParseDate(c.Date)
	if err != nil {
		return err
	}
	if err := app.Blackouts.Unblock(context.Background(), date); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Unblocked %s\n", date)
	return nil
}

type BlockedCmd struct{}

func (c *BlockedCmd) Run(app *App) error {
	result, err := app.Blackouts.ListEntries(context.Background())
	if err != nil {
		return err
	}
	if len(result.Entries) == 0 {
		fmt.Fprintln(app.Out, "No blocked dates")
		return nil
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tREASON\tBLOCKED AT")
	for _, e := range result.Entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Date, e.Reason, e.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

type ApproveCmd struct {
	ID string `arg:"" help:"Appointment ID."`
}

func (c *ApproveCmd) Run(app *App) error {
	return printTransition(app, func(ctx context.Context) (*models.AppointmentResponse, error) {
		return app.Appointments.Approve(ctx, c.ID)
	})
}

type DeclineCmd struct {
	ID     string `arg:"" help:"Appointment ID."`
	Reason string `help:"Reason sent to the client." default:""`
}

func (c *DeclineCmd) Run(app *App) error {
	var reason *string
	if c.Reason != "" {
		reason = &c.Reason
	}
	return printTransition(app, func(ctx context.Context) (*models.AppointmentResponse, error) {
		return app.Appointments.Decline(ctx, c.ID, reason)
	})
}

type CompleteCmd struct {
	ID string `arg:"" help:"Appointment ID."`
}

func (c *CompleteCmd) Run(app *App) error {
	return printTransition(app, func(ctx context.Context) (*models.AppointmentResponse, error) {
		return app.Appointments.Complete(ctx, c.ID)
	})
}

func printTransition(app *App, fn func(ctx context.Context) (*models.AppointmentResponse, error)) error {
	appointment, err := fn(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Appointment %s is now %s\n", appointment.ID, appointment.Status)
	return nil
}

type AppointmentsCmd struct {
	Status string `help:"Filter by status (pending, approved, completed, declined)." optional:""`
	Start  string `help:"First date (YYYY-MM-DD)." optional:""`
	End    string `help:"Last date (YYYY-MM-DD)." optional:""`
	Slot   string `help:"Filter by slot (AM or PM)." optional:""`
}

func (c *AppointmentsCmd) Run(app *App) error {
	req := &models.ListRequest{}
	if c.Status != "" {
		req.Status = &c.Status
	}
	if c.Start != "" {
		req.StartDate = &c.Start
	}
	if c.End != "" {
		req.EndDate = &c.End
	}
	if c.Slot != "" {
		req.Slot = &c.Slot
	}

	result, err := app.Appointments.List(context.Background(), req)
	if err != nil {
		return err
	}
	if len(result.Appointments) == 0 {
		fmt.Fprintln(app.Out, "No appointments")
		return nil
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSLOT\tSTATUS\tCLIENT\tPACKAGE\tTOTAL")
	for _, a := range result.Appointments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t$%d\n",
			a.ID, a.Date, a.SlotLabel, a.Status, a.ClientName, a.PackageID, a.TotalPrice)
	}
	return w.Flush()
}

type AvailabilityCmd struct {
	Start string `help:"First date (YYYY-MM-DD), defaults to today." optional:""`
	Days  int    `help:"Number of days to show." default:"14"`
}

func (c *AvailabilityCmd) Run(app *App) error {
	start := types.DateOf(time.Now().In(app.Config.Booking.Location()))
	if c.Start != "" {
		parsed, err := types.ParseDate(c.Start)
		if err != nil {
			return err
		}
		start = parsed
	}
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", c.Days)
	}

	days, err := app.Availability.Summarize(context.Background(), start, start.AddDays(c.Days-1))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tMORNING\tAFTERNOON\tNOTE")
	for _, d := range days {
		note := ""
		switch {
		case d.BlockedByAdmin:
			note = "blocked"
		case d.FullyBooked():
			note = "fully booked"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Date, openLabel(d.IsOpen(domain.SlotMorning)), openLabel(d.IsOpen(domain.SlotAfternoon)), note)
	}
	return w.Flush()
}

func openLabel(open bool) string {
	if open {
		return "open"
	}
	return "-"
}

type TokenCmd struct {
	AccountID string        `arg:"" help:"Account ID placed in the sub claim."`
	Admin     bool          `help:"Issue an administrator token."`
	TTL       time.Duration `help:"Token lifetime." default:"24h"`
}

func (c *TokenCmd) Run(app *App) error {
	role := ""
	if c.Admin {
		role = middleware.RoleAdmin
	}
	token, err := app.Auth.IssueToken(c.AccountID, role, c.TTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Out, token)
	return nil
}
