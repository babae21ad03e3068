package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/logging"
)

// BooksGroup contains book table operations.
type BooksGroup struct {
	List BooksListCmd `cmd:"" help:"List the books of the canon"`
	Show BooksShowCmd `cmd:"" help:"Show one book with its neighbours"`
}

// NavGroup contains navigation operations.
type NavGroup struct {
	Step NavStepCmd `cmd:"" help:"Step from a chapter forward or backward"`
	Next NavNextCmd `cmd:"" help:"Print the book after a book"`
	Prev NavPrevCmd `cmd:"" help:"Print the book before a book"`
}

// RefGroup contains reference operations.
type RefGroup struct {
	Parse RefParseCmd `cmd:"" help:"Parse and validate a reference"`
}

type BooksListCmd struct {
	Testament string `short:"t" help:"Only list OLD or NEW testament books"`
}

func (c *BooksListCmd) Run(a *app) error {
	books := canon.Books()
	if c.Testament != "" {
		t := canon.Testament(strings.ToUpper(c.Testament))
		if !t.IsValid() {
			return errors.NewValidation("testament", "must be OLD or NEW")
		}
		books = canon.BooksOf(t)
	}
	return a.print(books, func(w io.Writer) {
		fmt.Fprintln(w, "#\tBOOK\tABBREV\tCHAPTERS\tTESTAMENT")
		for _, b := range books {
			i, _ := canon.Index(b.Name)
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", i+1, b.Name, b.Abbrev, b.ChapterCount, b.Testament)
		}
	})
}

// bookDetail is the JSON form of books show.
type bookDetail struct {
	*canon.BookEntry
	Index    int    `json:"index"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

type BooksShowCmd struct {
	Name string `arg:"" help:"Book name or abbreviation"`
}

func (c *BooksShowCmd) Run(a *app) error {
	b, err := canon.Lookup(c.Name)
	if err != nil {
		return err
	}
	d := bookDetail{BookEntry: b}
	d.Index, _ = canon.Index(b.Name)
	if prev, _ := canon.PreviousBook(b.Name); prev != nil {
		d.Previous = prev.Name
	}
	if next, _ := canon.NextBook(b.Name); next != nil {
		d.Next = next.Name
	}
	return a.print(d, func(w io.Writer) {
		fmt.Fprintf(w, "Name:\t%s\n", b.Name)
		fmt.Fprintf(w, "Abbreviation:\t%s\n", b.Abbrev)
		fmt.Fprintf(w, "Chapters:\t%d\n", b.ChapterCount)
		fmt.Fprintf(w, "Testament:\t%s\n", b.Testament)
		fmt.Fprintf(w, "Position:\t%d of %d\n", d.Index+1, len(canon.Books()))
		fmt.Fprintf(w, "Previous:\t%s\n", orNone(d.Previous))
		fmt.Fprintf(w, "Next:\t%s\n", orNone(d.Next))
	})
}

// stepResult is the JSON form of nav step.
type stepResult struct {
	From      canon.Position `json:"from"`
	To        canon.Position `json:"to"`
	Direction string         `json:"direction"`
	Steps     int            `json:"steps"`
	Terminal  bool           `json:"terminal"`
}

type NavStepCmd struct {
	Book      string `arg:"" help:"Book name or abbreviation"`
	Chapter   int    `arg:"" help:"Chapter (0 is the introduction)"`
	Direction string `short:"d" help:"forward or backward" default:"forward"`
	Steps     int    `short:"n" help:"Number of steps" default:"1"`
	Save      bool   `help:"Record the destination as the last read chapter"`
}

func (c *NavStepCmd) Run(a *app) error {
	dir, err := canon.ParseDirection(c.Direction)
	if err != nil {
		return err
	}
	if c.Steps < 1 {
		return errors.NewValidation("steps", "must be at least 1")
	}
	from, err := canon.NewPosition(c.Book, c.Chapter)
	if err != nil {
		return err
	}
	to, taken := canon.Walk(from, dir, c.Steps)
	logging.Navigation(a.ctx, from.String(), to.String(), dir.String(), "cli", "steps", taken)

	if c.Save {
		store, err := a.openStore()
		if err != nil {
			return err
		}
		if _, err := store.SetLastRead(a.ctx, to); err != nil {
			return err
		}
	}

	res := stepResult{From: from, To: to, Direction: dir.String(), Steps: taken, Terminal: taken < c.Steps}
	return a.print(res, func(w io.Writer) {
		fmt.Fprintf(w, "%s -> %s\n", from, to)
		if res.Terminal {
			fmt.Fprintf(w, "stopped after %d of %d steps: end of the canon\n", taken, c.Steps)
		}
	})
}

type NavNextCmd struct {
	Book string `arg:"" help:"Book name or abbreviation"`
}

func (c *NavNextCmd) Run(a *app) error {
	next, err := canon.NextBook(c.Book)
	if err != nil {
		return err
	}
	return printNeighbour(a, next)
}

type NavPrevCmd struct {
	Book string `arg:"" help:"Book name or abbreviation"`
}

func (c *NavPrevCmd) Run(a *app) error {
	prev, err := canon.PreviousBook(c.Book)
	if err != nil {
		return err
	}
	return printNeighbour(a, prev)
}

// printNeighbour prints a book or "none" at either end of the canon.
func printNeighbour(a *app, b *canon.BookEntry) error {
	return a.print(b, func(w io.Writer) {
		if b == nil {
			fmt.Fprintln(w, "none")
			return
		}
		fmt.Fprintln(w, b.Name)
	})
}

// RefParseCmd accepts the reference quoted or split by the shell.
type RefParseCmd struct {
	Ref []string `arg:"" help:"Reference, e.g. \"Juan 3:16\" or \"Gn 1-3\""`
}

func (c *RefParseCmd) Run(a *app) error {
	ref, err := canon.ParseRef(strings.Join(c.Ref, " "))
	if err != nil {
		return err
	}
	return a.print(ref, func(w io.Writer) {
		fmt.Fprintf(w, "Reference:\t%s\n", ref)
		fmt.Fprintf(w, "Book:\t%s (%s)\n", ref.Book.Name, ref.Book.Testament)
		if ref.WholeBook {
			fmt.Fprintf(w, "Chapters:\t1-%d\n", ref.Book.ChapterCount)
			return
		}
		if ref.ChapterStart == ref.ChapterEnd {
			fmt.Fprintf(w, "Chapter:\t%d\n", ref.ChapterStart)
		} else {
			fmt.Fprintf(w, "Chapters:\t%d-%d\n", ref.ChapterStart, ref.ChapterEnd)
		}
		if ref.VerseStart > 0 {
			fmt.Fprintf(w, "Verses:\t%d-%d\n", ref.VerseStart, ref.VerseEnd)
		}
	})
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
