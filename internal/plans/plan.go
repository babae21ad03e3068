// Package plans defines reading plans and tracks a reader's progress
// through them.
//
// A plan spreads one or more tracks of chapters evenly over a number of
// days. "Salmos y Proverbios" has two tracks, so each day carries a slice
// of Salmos and a slice of Proverbios.
package plans

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
)

// Plan is an immutable reading schedule.
type Plan struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TotalDays   int        `json:"total_days"`
	Tracks      [][]string `json:"tracks"`

	// days[d] holds the chapters assigned to day d+1.
	days [][]canon.Position
}

// NewPlan parses the track references and builds the daily schedule.
func NewPlan(id, title, description string, totalDays int, tracks ...[]string) (*Plan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NewValidation("id", "plan id must not be empty")
	}
	if totalDays < 1 {
		return nil, errors.NewValidation("total_days", fmt.Sprintf("plan %s needs at least one day", id))
	}
	if len(tracks) == 0 {
		return nil, errors.NewValidation("tracks", fmt.Sprintf("plan %s has no readings", id))
	}

	p := &Plan{
		ID:          id,
		Title:       title,
		Description: description,
		TotalDays:   totalDays,
		Tracks:      tracks,
		days:        make([][]canon.Position, totalDays),
	}

	for i, track := range tracks {
		chapters, err := expandTrack(track)
		if err != nil {
			return nil, errors.Wrapf(err, "plan %s track %d", id, i+1)
		}
		if len(chapters) == 0 {
			return nil, errors.NewValidation("tracks", fmt.Sprintf("plan %s track %d is empty", id, i+1))
		}
		n := len(chapters)
		for d := 0; d < totalDays; d++ {
			lo, hi := d*n/totalDays, (d+1)*n/totalDays
			p.days[d] = append(p.days[d], chapters[lo:hi]...)
		}
	}
	return p, nil
}

// expandTrack resolves references to chapter positions, skipping
// introductions.
func expandTrack(refs []string) ([]canon.Position, error) {
	var out []canon.Position
	for _, s := range refs {
		ref, err := canon.ParseRef(s)
		if err != nil {
			return nil, err
		}
		for _, p := range ref.Chapters() {
			if !p.IsIntroduction() {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// Chapters returns the number of chapters the plan covers.
func (p *Plan) Chapters() int {
	n := 0
	for _, d := range p.days {
		n += len(d)
	}
	return n
}

// Day returns the readings for day n (1-based) as compact references,
// merging consecutive chapters of the same book ("Génesis 1-3").
func (p *Plan) Day(n int) ([]string, error) {
	if n < 1 || n > p.TotalDays {
		return nil, errors.NewValidation("day", fmt.Sprintf("plan %s has days 1..%d", p.ID, p.TotalDays))
	}
	return compact(p.days[n-1]), nil
}

func compact(chapters []canon.Position) []string {
	out := []string{}
	for i := 0; i < len(chapters); {
		start := chapters[i]
		end := start
		j := i + 1
		for j < len(chapters) && chapters[j].Book == start.Book && chapters[j].Chapter == end.Chapter+1 {
			end = chapters[j]
			j++
		}
		r := &canon.Ref{Book: start.Book, ChapterStart: start.Chapter, ChapterEnd: end.Chapter}
		out = append(out, r.String())
		i = j
	}
	return out
}
