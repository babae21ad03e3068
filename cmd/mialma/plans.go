package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/api"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/daily"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/fileutil"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/plans"
)

// PlansGroup contains reading plan operations.
type PlansGroup struct {
	List    PlansListCmd    `cmd:"" help:"List plans with progress"`
	Show    PlansShowCmd    `cmd:"" help:"Show a plan and the readings for a day"`
	Import  PlansImportCmd  `cmd:"" help:"Install custom plans from an XML file"`
	Start   PlansStartCmd   `cmd:"" help:"Start (or restart) a plan"`
	Advance PlansAdvanceCmd `cmd:"" help:"Mark the current day as read"`
	Reset   PlansResetCmd   `cmd:"" help:"Stop a plan and clear its progress"`
}

// tracker builds a tracker over the built-in and custom plans.
func (a *app) tracker() (*plans.Tracker, error) {
	catalog, err := plans.LoadCatalog(a.cfg.PlansFile)
	if err != nil {
		return nil, err
	}
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return plans.NewTracker(catalog, store), nil
}

// picker builds the daily verse picker in the configured time zone.
func (a *app) picker() (*daily.Picker, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}
	return daily.NewPicker(daily.DefaultEntries, daily.WithLocation(loc))
}

// newServer wires the API server from configuration.
func (a *app) newServer() (*api.Server, error) {
	tr, err := a.tracker()
	if err != nil {
		return nil, err
	}
	picker, err := a.picker()
	if err != nil {
		return nil, err
	}
	cfg := api.Config{
		Port:           a.cfg.Port,
		AllowedOrigins: a.cfg.AllowedOrigins,
		Gesture:        a.cfg.GestureConfig(),
		Version:        version,
	}
	return api.New(cfg, a.store, tr, picker), nil
}

func printStatus(w io.Writer, st plans.Status) {
	label := "inactive"
	switch {
	case st.Complete:
		label = "complete"
	case st.Active:
		label = "active"
	}
	fmt.Fprintf(w, "%s\tday %d/%d\t%d%%\t%s\n", st.Plan.ID, st.CurrentDay, st.Plan.TotalDays, st.Percent, label)
	if len(st.Today) > 0 {
		fmt.Fprintf(w, "\ttoday:\t%s\n", strings.Join(st.Today, "; "))
	}
}

type PlansListCmd struct{}

func (c *PlansListCmd) Run(a *app) error {
	tr, err := a.tracker()
	if err != nil {
		return err
	}
	list, err := tr.List(a.ctx)
	if err != nil {
		return err
	}
	return a.print(list, func(w io.Writer) {
		for _, st := range list {
			fmt.Fprintf(w, "%s\t%s\t%d days\t%d%%\n", st.Plan.ID, st.Plan.Title, st.Plan.TotalDays, st.Percent)
		}
	})
}

// planDay is the JSON form of plans show.
type planDay struct {
	Status   plans.Status `json:"status"`
	Day      int          `json:"day"`
	Readings []string     `json:"readings"`
}

type PlansShowCmd struct {
	ID  string `arg:"" help:"Plan ID"`
	Day int    `help:"Day to show (defaults to the next unread day)"`
}

func (c *PlansShowCmd) Run(a *app) error {
	tr, err := a.tracker()
	if err != nil {
		return err
	}
	st, err := tr.Status(a.ctx, c.ID)
	if err != nil {
		return err
	}
	day := c.Day
	if day == 0 {
		day = min(st.CurrentDay+1, st.Plan.TotalDays)
	}
	readings, err := st.Plan.Day(day)
	if err != nil {
		return err
	}

	out := planDay{Status: st, Day: day, Readings: readings}
	return a.print(out, func(w io.Writer) {
		fmt.Fprintf(w, "%s\n", st.Plan.Title)
		if st.Plan.Description != "" {
			fmt.Fprintf(w, "%s\n", st.Plan.Description)
		}
		fmt.Fprintf(w, "Chapters:\t%d over %d days\n", st.Plan.Chapters(), st.Plan.TotalDays)
		fmt.Fprintf(w, "Progress:\t%d%% (%d days read)\n", st.Percent, st.CurrentDay)
		fmt.Fprintf(w, "Day %d:\t%s\n", day, strings.Join(readings, "; "))
	})
}

// PlansImportCmd validates an XML plan file and installs it as the custom
// plans file, replacing any previous one.
type PlansImportCmd struct {
	Path string `arg:"" help:"XML plan file" type:"existingfile"`
}

func (c *PlansImportCmd) Run(a *app) error {
	f, err := os.Open(c.Path)
	if err != nil {
		return errors.NewIO("open", c.Path, err)
	}
	custom, err := plans.LoadXML(f)
	f.Close()
	if err != nil {
		return err
	}
	builtin := plans.Builtin()
	for _, p := range custom {
		if err := builtin.Add(p); err != nil {
			return errors.Wrapf(err, "plan %q", p.ID)
		}
	}

	if err := fileutil.CopyFile(c.Path, a.cfg.PlansFile); err != nil {
		return err
	}
	return a.print(custom, func(w io.Writer) {
		for _, p := range custom {
			fmt.Fprintf(w, "imported\t%s\t%s\t%d days\n", p.ID, p.Title, p.TotalDays)
		}
	})
}

type PlansStartCmd struct {
	ID string `arg:"" help:"Plan ID"`
}

func (c *PlansStartCmd) Run(a *app) error {
	return a.planAction(c.ID, (*plans.Tracker).Start)
}

type PlansAdvanceCmd struct {
	ID string `arg:"" help:"Plan ID"`
}

func (c *PlansAdvanceCmd) Run(a *app) error {
	return a.planAction(c.ID, (*plans.Tracker).Advance)
}

type PlansResetCmd struct {
	ID string `arg:"" help:"Plan ID"`
}

func (c *PlansResetCmd) Run(a *app) error {
	return a.planAction(c.ID, (*plans.Tracker).Reset)
}

type planFunc func(t *plans.Tracker, ctx context.Context, id string) (plans.Status, error)

func (a *app) planAction(id string, fn planFunc) error {
	tr, err := a.tracker()
	if err != nil {
		return err
	}
	st, err := fn(tr, a.ctx, id)
	if err != nil {
		return err
	}
	return a.print(st, func(w io.Writer) { printStatus(w, st) })
}

// DailyCmd prints the verse of the day.
type DailyCmd struct {
	Date string `help:"Date as YYYY-MM-DD (defaults to today)"`
}

func (c *DailyCmd) Run(a *app) error {
	picker, err := a.picker()
	if err != nil {
		return err
	}
	var v daily.Verse
	if c.Date == "" {
		v = picker.Today()
	} else {
		loc, _ := a.cfg.Location()
		t, err := time.ParseInLocation("2006-01-02", c.Date, loc)
		if err != nil {
			return &errors.ValidationError{Field: "date", Value: c.Date, Message: "expected YYYY-MM-DD"}
		}
		v = picker.For(t)
	}
	return a.print(v, func(w io.Writer) {
		fmt.Fprintf(w, "%s (%s)\n", v.Ref, v.Date)
		fmt.Fprintf(w, "%s\n", v.Text)
		fmt.Fprintf(w, "%s\n", v.Theme)
	})
}
