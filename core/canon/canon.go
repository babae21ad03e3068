package canon

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
)

// byKey maps folded names, abbreviations and aliases to table indexes.
var byKey = make(map[string]int, len(books)*3)

func init() {
	for i := range books {
		register(foldKey(books[i].Name), i)
		register(foldKey(books[i].Abbrev), i)
	}
	for alias, name := range aliases {
		i, ok := byKey[foldKey(name)]
		if !ok {
			panic(fmt.Sprintf("canon: alias %q points at unknown book %q", alias, name))
		}
		register(foldKey(alias), i)
	}
}

func register(key string, i int) {
	if prev, ok := byKey[key]; ok && prev != i {
		panic(fmt.Sprintf("canon: key %q is ambiguous between %s and %s", key, books[prev].Name, books[i].Name))
	}
	byKey[key] = i
}

// foldKey reduces a book name to its lookup key: accents stripped, case
// folded, whitespace and dots removed. "1 Crónicas." and "1cronicas" share a key.
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)

	var sb strings.Builder
	sb.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) || r == '.' {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Books returns the canonical table in order. The entries are shared and
// must not be modified.
func Books() []*BookEntry {
	out := make([]*BookEntry, len(books))
	for i := range books {
		out[i] = &books[i]
	}
	return out
}

// BooksOf returns the books of one testament in canonical order.
func BooksOf(t Testament) []*BookEntry {
	var out []*BookEntry
	for i := range books {
		if books[i].Testament == t {
			out = append(out, &books[i])
		}
	}
	return out
}

// First returns Génesis.
func First() *BookEntry { return &books[0] }

// Last returns Apocalipsis.
func Last() *BookEntry { return &books[len(books)-1] }

// Lookup resolves a canonical name, abbreviation or alias to its table entry.
// Matching ignores case, accents, whitespace and dots.
func Lookup(name string) (*BookEntry, error) {
	i, err := indexOf(name)
	if err != nil {
		return nil, err
	}
	return &books[i], nil
}

// Index returns the zero-based canonical position of a book.
func Index(name string) (int, error) {
	return indexOf(name)
}

func indexOf(name string) (int, error) {
	key := foldKey(name)
	if key == "" {
		return 0, errors.NewNotFound("book", name)
	}
	i, ok := byKey[key]
	if !ok {
		return 0, errors.NewNotFound("book", name)
	}
	return i, nil
}

// ChapterCount returns the number of chapters in a book, excluding the
// introduction. Unknown books yield a NotFoundError; there is no fallback count.
func ChapterCount(name string) (int, error) {
	b, err := Lookup(name)
	if err != nil {
		return 0, err
	}
	return b.ChapterCount, nil
}

// TestamentOf classifies a book as OLD or NEW.
func TestamentOf(name string) (Testament, error) {
	b, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return b.Testament, nil
}

// NextBook returns the canonical successor, or nil after Apocalipsis.
func NextBook(name string) (*BookEntry, error) {
	i, err := indexOf(name)
	if err != nil {
		return nil, err
	}
	return bookAt(i + 1), nil
}

// PreviousBook returns the canonical predecessor, or nil before Génesis.
func PreviousBook(name string) (*BookEntry, error) {
	i, err := indexOf(name)
	if err != nil {
		return nil, err
	}
	return bookAt(i - 1), nil
}

func bookAt(i int) *BookEntry {
	if i < 0 || i >= len(books) {
		return nil
	}
	return &books[i]
}
