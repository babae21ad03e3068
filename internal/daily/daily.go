// Package daily picks the verse of the day.
package daily

import (
	"fmt"
	"time"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/cache"
)

// Verse is one entry of the rotation.
type Verse struct {
	Ref   *canon.Ref `json:"reference"`
	Text  string     `json:"text"`
	Theme string     `json:"theme"`
	Date  string     `json:"date,omitempty"`
}

// Entry is the unparsed form of a verse, as written in the rotation.
type Entry struct {
	Reference string
	Text      string
	Theme     string
}

// DefaultEntries is the built-in rotation.
var DefaultEntries = []Entry{
	{"Juan 3:16", "Porque de tal manera amó Dios al mundo, que ha dado a su Hijo unigénito, para que todo aquel que en él cree, no se pierda, mas tenga vida eterna.", "El Amor de Dios"},
	{"Filipenses 4:13", "Todo lo puedo en Cristo que me fortalece.", "Fortaleza en Cristo"},
	{"Salmos 23:1", "Jehová es mi pastor; nada me faltará.", "Confianza en Dios"},
	{"Proverbios 3:5", "Fíate de Jehová de todo tu corazón, y no te apoyes en tu propia prudencia.", "Confianza en Dios"},
	{"Isaías 41:10", "No temas, porque yo estoy contigo; no desmayes, porque yo soy tu Dios que te esfuerzo; siempre te ayudaré, siempre te sustentaré con la diestra de mi justicia.", "Fortaleza en Dios"},
	{"Romanos 8:28", "Y sabemos que a los que aman a Dios, todas las cosas les ayudan a bien, esto es, a los que conforme a su propósito son llamados.", "El Propósito de Dios"},
	{"Jeremías 29:11", "Porque yo sé los pensamientos que tengo acerca de vosotros, dice Jehová, pensamientos de paz, y no de mal, para daros el fin que esperáis.", "Esperanza"},
}

const dateKey = "2006-01-02"

// Picker chooses a verse by day of the year. Results are cached per date;
// expired dates are pruned whenever a new one is loaded.
type Picker struct {
	verses []Verse
	loc    *time.Location
	now    func() time.Time
	cache  *cache.TTLCache[string, Verse]
}

// Option configures a Picker.
type Option func(*Picker)

// WithLocation sets the time zone that decides where a day starts.
func WithLocation(loc *time.Location) Option {
	return func(p *Picker) { p.loc = loc }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Picker) { p.now = now }
}

// NewPicker validates entries and builds a picker over them.
func NewPicker(entries []Entry, opts ...Option) (*Picker, error) {
	if len(entries) == 0 {
		return nil, errors.NewValidation("verses", "rotation is empty")
	}
	p := &Picker{loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	for _, e := range entries {
		ref, err := canon.ParseRef(e.Reference)
		if err != nil {
			return nil, errors.Wrapf(err, "daily verse %q", e.Reference)
		}
		if ref.VerseStart == 0 {
			return nil, errors.NewValidation("reference", fmt.Sprintf("%s does not name a verse", ref))
		}
		p.verses = append(p.verses, Verse{Ref: ref, Text: e.Text, Theme: e.Theme})
	}
	p.cache = cache.New[string, Verse](48*time.Hour, cache.WithClock[string, Verse](p.now))
	return p, nil
}

// Len returns the size of the rotation.
func (p *Picker) Len() int {
	return len(p.verses)
}

// For returns the verse shown on the day containing t.
func (p *Picker) For(t time.Time) Verse {
	day := t.In(p.loc)
	v, _ := p.cache.GetOrLoad(day.Format(dateKey), func(string) (Verse, error) {
		p.cache.Prune()
		v := p.verses[(day.YearDay()-1)%len(p.verses)]
		v.Date = day.Format("2/1/2006")
		return v, nil
	})
	return v
}

// Today returns the verse for the current day.
func (p *Picker) Today() Verse {
	return p.For(p.now())
}
