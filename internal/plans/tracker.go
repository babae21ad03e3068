package plans

import (
	"context"
	"math"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/state"
)

// ProgressStore persists plan progress. *state.Store satisfies it.
type ProgressStore interface {
	PlanProgress(ctx context.Context, planID string) (state.PlanProgress, error)
	SavePlanProgress(ctx context.Context, p state.PlanProgress) (state.PlanProgress, error)
}

// Status is a plan joined with the reader's progress in it.
type Status struct {
	Plan       *Plan    `json:"plan"`
	CurrentDay int      `json:"current_day"`
	Active     bool     `json:"active"`
	Complete   bool     `json:"complete"`
	Percent    int      `json:"progress"`
	Today      []string `json:"today,omitempty"`
}

// Tracker moves a reader through the plans of a catalog.
type Tracker struct {
	catalog *Catalog
	store   ProgressStore
}

// NewTracker creates a tracker over catalog backed by store.
func NewTracker(catalog *Catalog, store ProgressStore) *Tracker {
	return &Tracker{catalog: catalog, store: store}
}

// Catalog returns the plans the tracker knows about.
func (t *Tracker) Catalog() *Catalog {
	return t.catalog
}

// Percent is the share of completed days, rounded to the nearest integer.
func Percent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

// Status reports progress in one plan. Plans never started report day 0.
func (t *Tracker) Status(ctx context.Context, id string) (Status, error) {
	p, err := t.catalog.Get(id)
	if err != nil {
		return Status{}, err
	}
	prog, err := t.store.PlanProgress(ctx, id)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return Status{}, err
	}
	return statusOf(p, prog), nil
}

// List reports progress in every plan of the catalog.
func (t *Tracker) List(ctx context.Context) ([]Status, error) {
	var out []Status
	for _, p := range t.catalog.All() {
		s, err := t.Status(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Start activates a plan. Progress from an earlier start is kept.
func (t *Tracker) Start(ctx context.Context, id string) (Status, error) {
	return t.update(ctx, id, func(p *Plan, prog *state.PlanProgress) error {
		if prog.CurrentDay >= p.TotalDays {
			prog.CurrentDay = 0
		}
		prog.Active = true
		return nil
	})
}

// Advance marks the current day as read. The plan must be active;
// finishing the last day deactivates it.
func (t *Tracker) Advance(ctx context.Context, id string) (Status, error) {
	return t.update(ctx, id, func(p *Plan, prog *state.PlanProgress) error {
		if !prog.Active {
			return errors.NewValidation("plan", "plan "+id+" is not active")
		}
		prog.CurrentDay++
		if prog.CurrentDay >= p.TotalDays {
			prog.CurrentDay = p.TotalDays
			prog.Active = false
		}
		return nil
	})
}

// Reset clears progress and deactivates the plan.
func (t *Tracker) Reset(ctx context.Context, id string) (Status, error) {
	return t.update(ctx, id, func(p *Plan, prog *state.PlanProgress) error {
		prog.CurrentDay = 0
		prog.Active = false
		return nil
	})
}

func (t *Tracker) update(ctx context.Context, id string, fn func(*Plan, *state.PlanProgress) error) (Status, error) {
	p, err := t.catalog.Get(id)
	if err != nil {
		return Status{}, err
	}
	prog, err := t.store.PlanProgress(ctx, id)
	switch {
	case errors.Is(err, errors.ErrNotFound):
		prog = state.PlanProgress{PlanID: id}
	case err != nil:
		return Status{}, err
	}

	if err := fn(p, &prog); err != nil {
		return Status{}, err
	}
	saved, err := t.store.SavePlanProgress(ctx, prog)
	if err != nil {
		return Status{}, err
	}
	return statusOf(p, saved), nil
}

func statusOf(p *Plan, prog state.PlanProgress) Status {
	s := Status{
		Plan:       p,
		CurrentDay: prog.CurrentDay,
		Active:     prog.Active,
		Complete:   prog.CurrentDay >= p.TotalDays,
		Percent:    Percent(prog.CurrentDay, p.TotalDays),
	}
	if !s.Complete {
		s.Today, _ = p.Day(prog.CurrentDay + 1)
	}
	return s
}
