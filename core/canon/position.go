package canon

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
)

// Introduction is the chapter index of a book's introduction pseudo-chapter.
const Introduction = 0

// Direction is one unit of travel through the canon.
type Direction int

// Direction constants.
const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "forward"/"next" and "backward"/"prev"/"previous".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "next", "+1", "1":
		return Forward, nil
	case "backward", "prev", "previous", "-1":
		return Backward, nil
	}
	return 0, errors.NewValidation("direction", fmt.Sprintf("unknown direction %q", s))
}

// Position is a place in the canon. Chapter 0 is the book's introduction.
// The zero Position is invalid; build positions with NewPosition or Start.
type Position struct {
	Book    *BookEntry
	Chapter int
}

// NewPosition resolves the book and checks 0 <= chapter <= chapter count.
func NewPosition(book string, chapter int) (Position, error) {
	b, err := Lookup(book)
	if err != nil {
		return Position{}, err
	}
	if chapter < Introduction || chapter > b.ChapterCount {
		return Position{}, &errors.ValidationError{
			Field:   "chapter",
			Value:   strconv.Itoa(chapter),
			Message: fmt.Sprintf("%s has chapters 0..%d", b.Name, b.ChapterCount),
		}
	}
	return Position{Book: b, Chapter: chapter}, nil
}

// Start returns the introduction of a book.
func Start(b *BookEntry) Position {
	return Position{Book: b, Chapter: Introduction}
}

// IsValid reports whether p points into the canonical table and respects the
// chapter bounds of its book.
func (p Position) IsValid() bool {
	if p.Book == nil {
		return false
	}
	i, err := indexOf(p.Book.Name)
	if err != nil || &books[i] != p.Book {
		return false
	}
	return p.Chapter >= Introduction && p.Chapter <= p.Book.ChapterCount
}

// IsIntroduction reports whether p is a book introduction.
func (p Position) IsIntroduction() bool {
	return p.Chapter == Introduction
}

func (p Position) String() string {
	if p.Book == nil {
		return "<invalid>"
	}
	return fmt.Sprintf("%s %d", p.Book.Name, p.Chapter)
}

// Key builds the verse key used for favorites and highlights,
// e.g. "Juan-3-16".
func (p Position) Key(verse int) string {
	if p.Book == nil {
		return ""
	}
	return fmt.Sprintf("%s-%d-%d", p.Book.Name, p.Chapter, verse)
}

// ParseKey splits a verse key back into a position and verse number.
func ParseKey(key string) (Position, int, error) {
	vi := strings.LastIndex(key, "-")
	if vi <= 0 {
		return Position{}, 0, errors.NewParse("verse key", key, "expected book-chapter-verse")
	}
	ci := strings.LastIndex(key[:vi], "-")
	if ci <= 0 {
		return Position{}, 0, errors.NewParse("verse key", key, "expected book-chapter-verse")
	}
	chapter, err := strconv.Atoi(key[ci+1 : vi])
	if err != nil {
		return Position{}, 0, errors.NewParse("verse key", key, "chapter is not a number")
	}
	verse, err := strconv.Atoi(key[vi+1:])
	if err != nil || verse < 1 {
		return Position{}, 0, errors.NewParse("verse key", key, "verse must be a positive number")
	}
	pos, err := NewPosition(key[:ci], chapter)
	if err != nil {
		return Position{}, 0, err
	}
	return pos, verse, nil
}

// MarshalJSON renders a position as {"book": name, "chapter": n}.
func (p Position) MarshalJSON() ([]byte, error) {
	var name string
	if p.Book != nil {
		name = p.Book.Name
	}
	return json.Marshal(struct {
		Book    string `json:"book"`
		Chapter int    `json:"chapter"`
	}{name, p.Chapter})
}

// Step moves one chapter in the given direction, rolling over book
// boundaries through each book's introduction. At either end of the canon,
// and for positions that are not valid, p is returned unchanged.
func Step(p Position, d Direction) Position {
	if !p.IsValid() {
		return p
	}

	switch d {
	case Forward:
		if p.Chapter < p.Book.ChapterCount {
			return Position{Book: p.Book, Chapter: p.Chapter + 1}
		}
		next, _ := NextBook(p.Book.Name)
		if next == nil {
			return p
		}
		return Start(next)

	case Backward:
		if p.Chapter > Introduction {
			return Position{Book: p.Book, Chapter: p.Chapter - 1}
		}
		prev, _ := PreviousBook(p.Book.Name)
		if prev == nil {
			return p
		}
		return Position{Book: prev, Chapter: prev.ChapterCount}
	}

	return p
}

// StepFrom resolves (book, chapter) and applies Step. Callers that get an
// error should keep their current position.
func StepFrom(book string, chapter int, d Direction) (Position, error) {
	p, err := NewPosition(book, chapter)
	if err != nil {
		return Position{}, err
	}
	return Step(p, d), nil
}

// Walk applies Step up to n times and reports how many steps moved. It stops
// early when a terminal position is reached.
func Walk(p Position, d Direction, n int) (Position, int) {
	moved := 0
	for moved < n {
		next := Step(p, d)
		if next == p {
			break
		}
		p = next
		moved++
	}
	return p, moved
}
