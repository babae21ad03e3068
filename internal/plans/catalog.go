package plans

import (
	"fmt"
	"sync"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
)

// Catalog is the set of plans a reader can choose from.
type Catalog struct {
	mu    sync.RWMutex
	plans []*Plan
	byID  map[string]*Plan
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]*Plan)}
}

// Add registers a plan. IDs must be unique.
func (c *Catalog) Add(p *Plan) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[p.ID]; ok {
		return errors.NewValidation("id", fmt.Sprintf("plan %q already exists", p.ID))
	}
	c.plans = append(c.plans, p)
	c.byID[p.ID] = p
	return nil
}

// Get returns a plan by ID.
func (c *Catalog) Get(id string) (*Plan, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.byID[id]
	if !ok {
		return nil, errors.NewNotFound("plan", id)
	}
	return p, nil
}

// All returns the plans in registration order.
func (c *Catalog) All() []*Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Builtin returns a catalog holding the four plans the app ships with.
func Builtin() *Catalog {
	c := NewCatalog()
	for _, p := range builtinPlans() {
		if err := c.Add(p); err != nil {
			panic(err)
		}
	}
	return c
}

func bookNames(t canon.Testament) []string {
	var names []string
	for _, b := range canon.BooksOf(t) {
		names = append(names, b.Name)
	}
	return names
}

func builtinPlans() []*Plan {
	defs := []struct {
		id, title, description string
		days                   int
		tracks                 [][]string
	}{
		{
			"biblia-un-ano", "Biblia en un Año",
			"Lee toda la Biblia siguiendo un plan estructurado de 365 días",
			365, [][]string{bookNames(canon.OldTestament), bookNames(canon.NewTestament)},
		},
		{
			"nuevo-testamento-90", "Nuevo Testamento en 90 días",
			"Enfócate en el Nuevo Testamento con lecturas diarias organizadas",
			90, [][]string{bookNames(canon.NewTestament)},
		},
		{
			"salmos-proverbios", "Salmos y Proverbios",
			"Sabiduría diaria con un salmo y un proverbio cada día",
			31, [][]string{{"Salmos 1-31"}, {"Proverbios"}},
		},
		{
			"evangelios", "Evangelios",
			"Conoce mejor a Jesús leyendo los cuatro evangelios",
			30, [][]string{{"Mateo", "Marcos", "Lucas", "Juan"}},
		},
	}

	out := make([]*Plan, 0, len(defs))
	for _, d := range defs {
		p, err := NewPlan(d.id, d.title, d.description, d.days, d.tracks...)
		if err != nil {
			panic(fmt.Sprintf("plans: builtin %s: %v", d.id, err))
		}
		out = append(out, p)
	}
	return out
}
