package canon

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
)

// Ref is a parsed human reference such as "Juan 3:16" or "Génesis 1-3".
// VerseStart is 0 for whole-chapter references.
type Ref struct {
	Book         *BookEntry
	ChapterStart int
	ChapterEnd   int
	VerseStart   int
	VerseEnd     int
	WholeBook    bool
}

// refGrammar is the participle grammar for Spanish references.
// Examples: "Mateo", "Salmos 23", "Gn 1-3", "1 Juan 3:16-18", "Cnt 2:1-3:4"
type refGrammar struct {
	Prefix  *int     `parser:"@Number?"`
	Words   []string `parser:"@Word+"`
	Chapter *int     `parser:"( @Number"`
	Verse   *int     `parser:"  ( \":\" @Number )?"`
	EndA    *int     `parser:"  ( \"-\" @Number"`
	EndB    *int     `parser:"    ( \":\" @Number )? )? )?"`
}

// refLexer tokenizes references. Words accept any Unicode letter so accented
// names lex as a single token.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `\p{L}+\.?`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses a reference and validates it against the canon.
// Supported forms:
//   - "Mateo" (whole book)
//   - "Salmos 23" (chapter)
//   - "Gn 1-3" (chapter range)
//   - "Juan 3:16" (verse)
//   - "1 Juan 3:16-18" (verse range)
//   - "Cantares 2:1-3:4" (range across chapters)
func ParseRef(s string) (*Ref, error) {
	input := strings.TrimSpace(strings.NewReplacer("–", "-", "—", "-").Replace(s))
	if input == "" {
		return nil, errors.NewParse("reference", s, "empty reference")
	}

	g, err := refParser.ParseString("", input)
	if err != nil {
		return nil, &errors.ParseError{Format: "reference", Input: s, Message: err.Error(), Err: err}
	}

	name := strings.Join(g.Words, " ")
	if g.Prefix != nil {
		name = fmt.Sprintf("%d %s", *g.Prefix, name)
	}
	book, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	ref := &Ref{Book: book}
	if g.Chapter == nil {
		ref.WholeBook = true
		ref.ChapterStart = 1
		ref.ChapterEnd = book.ChapterCount
		return ref, nil
	}

	ref.ChapterStart = *g.Chapter
	ref.ChapterEnd = ref.ChapterStart
	switch {
	case g.Verse == nil && g.EndB != nil:
		return nil, errors.NewParse("reference", s, "verse end without a starting verse")
	case g.Verse == nil:
		if g.EndA != nil {
			ref.ChapterEnd = *g.EndA
		}
	default:
		ref.VerseStart = *g.Verse
		ref.VerseEnd = ref.VerseStart
		if g.EndA != nil && g.EndB == nil {
			ref.VerseEnd = *g.EndA
		} else if g.EndA != nil {
			ref.ChapterEnd = *g.EndA
			ref.VerseEnd = *g.EndB
		}
	}

	if err := ref.validate(); err != nil {
		return nil, err
	}
	return ref, nil
}

func (r *Ref) validate() error {
	count := r.Book.ChapterCount
	if r.ChapterStart < Introduction || r.ChapterStart > count {
		return errors.NewValidation("chapter", fmt.Sprintf("%s has chapters 0..%d, got %d", r.Book.Name, count, r.ChapterStart))
	}
	if r.ChapterEnd < r.ChapterStart || r.ChapterEnd > count {
		return errors.NewValidation("chapter", fmt.Sprintf("range end %d outside %d..%d", r.ChapterEnd, r.ChapterStart, count))
	}
	if r.VerseStart == 0 {
		return nil
	}
	if r.ChapterStart == Introduction {
		return errors.NewValidation("verse", "the introduction has no verses")
	}
	if r.VerseStart < 1 || r.VerseEnd < 1 {
		return errors.NewValidation("verse", "verses start at 1")
	}
	if r.ChapterStart == r.ChapterEnd && r.VerseEnd < r.VerseStart {
		return errors.NewValidation("verse", fmt.Sprintf("range end %d before start %d", r.VerseEnd, r.VerseStart))
	}
	return nil
}

// IsRange reports whether the reference covers more than one chapter or verse.
func (r *Ref) IsRange() bool {
	return r.WholeBook || r.ChapterEnd != r.ChapterStart || r.VerseEnd != r.VerseStart
}

// Start returns the first chapter position covered by the reference.
func (r *Ref) Start() Position {
	return Position{Book: r.Book, Chapter: r.ChapterStart}
}

// Chapters lists every chapter position the reference touches, in order.
func (r *Ref) Chapters() []Position {
	out := make([]Position, 0, r.ChapterEnd-r.ChapterStart+1)
	for c := r.ChapterStart; c <= r.ChapterEnd; c++ {
		out = append(out, Position{Book: r.Book, Chapter: c})
	}
	return out
}

// Contains reports whether chapter position p falls inside the reference.
func (r *Ref) Contains(p Position) bool {
	return p.Book == r.Book && p.Chapter >= r.ChapterStart && p.Chapter <= r.ChapterEnd
}

// String renders the reference with the canonical book name.
func (r *Ref) String() string {
	name := r.Book.Name
	switch {
	case r.WholeBook:
		return name
	case r.VerseStart == 0 && r.ChapterStart == r.ChapterEnd:
		return fmt.Sprintf("%s %d", name, r.ChapterStart)
	case r.VerseStart == 0:
		return fmt.Sprintf("%s %d-%d", name, r.ChapterStart, r.ChapterEnd)
	case r.ChapterStart != r.ChapterEnd:
		return fmt.Sprintf("%s %d:%d-%d:%d", name, r.ChapterStart, r.VerseStart, r.ChapterEnd, r.VerseEnd)
	case r.VerseStart == r.VerseEnd:
		return fmt.Sprintf("%s %d:%d", name, r.ChapterStart, r.VerseStart)
	default:
		return fmt.Sprintf("%s %d:%d-%d", name, r.ChapterStart, r.VerseStart, r.VerseEnd)
	}
}

// MarshalJSON includes the canonical display string alongside the fields.
func (r *Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Book         string    `json:"book"`
		Testament    Testament `json:"testament"`
		ChapterStart int       `json:"chapter_start"`
		ChapterEnd   int       `json:"chapter_end"`
		VerseStart   int       `json:"verse_start,omitempty"`
		VerseEnd     int       `json:"verse_end,omitempty"`
		WholeBook    bool      `json:"whole_book,omitempty"`
		Display      string    `json:"display"`
	}{
		Book:         r.Book.Name,
		Testament:    r.Book.Testament,
		ChapterStart: r.ChapterStart,
		ChapterEnd:   r.ChapterEnd,
		VerseStart:   r.VerseStart,
		VerseEnd:     r.VerseEnd,
		WholeBook:    r.WholeBook,
		Display:      r.String(),
	})
}
