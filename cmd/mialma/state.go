package main

import (
	"fmt"
	"io"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/backup"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/state"
)

// StateGroup contains reader state operations.
type StateGroup struct {
	LastRead  LastReadCmd    `cmd:"" name:"last-read" help:"Show or set the last read chapter"`
	Favorite  FavoriteGroup  `cmd:"" help:"Bookmarked verses"`
	Highlight HighlightGroup `cmd:"" help:"Highlighted verses"`
	Settings  SettingsCmd    `cmd:"" help:"Show or change reader settings"`
}

// FavoriteGroup contains favorite operations.
type FavoriteGroup struct {
	Add    FavoriteAddCmd    `cmd:"" help:"Bookmark a verse"`
	Remove FavoriteRemoveCmd `cmd:"" help:"Remove a bookmark by key (Juan-3-16)"`
	List   FavoriteListCmd   `cmd:"" help:"List bookmarks"`
}

// HighlightGroup contains highlight operations.
type HighlightGroup struct {
	Set   HighlightSetCmd   `cmd:"" help:"Highlight a verse"`
	Clear HighlightClearCmd `cmd:"" help:"Remove a highlight by key (Juan-3-16)"`
	List  HighlightListCmd  `cmd:"" help:"List highlights, optionally for one chapter"`
}

// BackupGroup contains backup operations.
type BackupGroup struct {
	Export BackupExportCmd `cmd:"" help:"Write all reader state to an archive"`
	Import BackupImportCmd `cmd:"" help:"Replace reader state from an archive"`
}

// LastReadCmd prints the last read chapter, or records one when a book is
// given.
type LastReadCmd struct {
	Book    string `arg:"" optional:"" help:"Book name or abbreviation"`
	Chapter int    `arg:"" optional:"" help:"Chapter" default:"1"`
}

func (c *LastReadCmd) Run(a *app) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}

	var lr state.LastRead
	if c.Book == "" {
		lr, err = store.LastRead(a.ctx)
	} else {
		var p canon.Position
		if p, err = canon.NewPosition(c.Book, c.Chapter); err != nil {
			return err
		}
		lr, err = store.SetLastRead(a.ctx, p)
	}
	if err != nil {
		return err
	}
	return a.print(lr, func(w io.Writer) {
		fmt.Fprintf(w, "%s %d\t%s\n", lr.Book, lr.Chapter, lr.Timestamp.Local().Format("2006-01-02 15:04"))
	})
}

type FavoriteAddCmd struct {
	Book    string `arg:"" help:"Book name or abbreviation"`
	Chapter int    `arg:"" help:"Chapter"`
	Verse   int    `arg:"" help:"Verse"`
	Note    string `help:"Optional note"`
}

func (c *FavoriteAddCmd) Run(a *app) error {
	p, err := canon.NewPosition(c.Book, c.Chapter)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	fav, err := store.AddFavorite(a.ctx, p, c.Verse, c.Note)
	if err != nil {
		return err
	}
	return a.print(fav, func(w io.Writer) { printFavorite(w, fav) })
}

type FavoriteRemoveCmd struct {
	Key string `arg:"" help:"Verse key"`
}

func (c *FavoriteRemoveCmd) Run(a *app) error {
	p, verse, err := canon.ParseKey(c.Key)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	key := p.Key(verse)
	if err := store.RemoveFavorite(a.ctx, key); err != nil {
		return err
	}
	return a.print(map[string]string{"removed": key}, func(w io.Writer) {
		fmt.Fprintf(w, "removed %s\n", key)
	})
}

type FavoriteListCmd struct{}

func (c *FavoriteListCmd) Run(a *app) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	favs, err := store.Favorites(a.ctx)
	if err != nil {
		return err
	}
	return a.print(favs, func(w io.Writer) {
		for _, f := range favs {
			printFavorite(w, f)
		}
	})
}

func printFavorite(w io.Writer, f state.Favorite) {
	fmt.Fprintf(w, "%s %d:%d\t%s\t%s\n", f.Book, f.Chapter, f.Verse, f.Key, f.Note)
}

type HighlightSetCmd struct {
	Book    string `arg:"" help:"Book name or abbreviation"`
	Chapter int    `arg:"" help:"Chapter"`
	Verse   int    `arg:"" help:"Verse"`
	Color   string `arg:"" help:"yellow, green, blue, pink or purple"`
}

func (c *HighlightSetCmd) Run(a *app) error {
	p, err := canon.NewPosition(c.Book, c.Chapter)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	h, err := store.SetHighlight(a.ctx, p, c.Verse, state.Color(c.Color))
	if err != nil {
		return err
	}
	return a.print(h, func(w io.Writer) { printHighlight(w, h) })
}

type HighlightClearCmd struct {
	Key string `arg:"" help:"Verse key"`
}

func (c *HighlightClearCmd) Run(a *app) error {
	p, verse, err := canon.ParseKey(c.Key)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	key := p.Key(verse)
	if err := store.ClearHighlight(a.ctx, key); err != nil {
		return err
	}
	return a.print(map[string]string{"cleared": key}, func(w io.Writer) {
		fmt.Fprintf(w, "cleared %s\n", key)
	})
}

type HighlightListCmd struct {
	Book    string `arg:"" optional:"" help:"Limit to one book"`
	Chapter int    `arg:"" optional:"" help:"Chapter within the book" default:"1"`
}

func (c *HighlightListCmd) Run(a *app) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	var hs []state.Highlight
	if c.Book == "" {
		hs, err = store.AllHighlights(a.ctx)
	} else {
		var p canon.Position
		if p, err = canon.NewPosition(c.Book, c.Chapter); err != nil {
			return err
		}
		hs, err = store.Highlights(a.ctx, p)
	}
	if err != nil {
		return err
	}
	return a.print(hs, func(w io.Writer) {
		for _, h := range hs {
			printHighlight(w, h)
		}
	})
}

func printHighlight(w io.Writer, h state.Highlight) {
	fmt.Fprintf(w, "%s %d:%d\t%s\t%s\n", h.Book, h.Chapter, h.Verse, h.Key, h.Color)
}

// SettingsCmd prints the settings, applying any flags given first.
type SettingsCmd struct {
	Theme       string `help:"App theme (light, dark, sepia)"`
	ReaderTheme string `name:"reader-theme" help:"Reader theme (light, dark, sepia)"`
	FontSize    int    `name:"font-size" help:"Reader font size in pixels (12-32)"`
}

func (c *SettingsCmd) Run(a *app) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	s, err := store.Settings(a.ctx)
	if err != nil {
		return err
	}

	changed := false
	if c.Theme != "" {
		s.Theme, changed = state.Theme(c.Theme), true
	}
	if c.ReaderTheme != "" {
		s.ReaderTheme, changed = state.Theme(c.ReaderTheme), true
	}
	if c.FontSize != 0 {
		s.FontSize, changed = c.FontSize, true
	}
	if changed {
		if err := store.SaveSettings(a.ctx, s); err != nil {
			return err
		}
	}

	return a.print(s, func(w io.Writer) {
		fmt.Fprintf(w, "Theme:\t%s\n", s.Theme)
		fmt.Fprintf(w, "Reader theme:\t%s\n", s.ReaderTheme)
		fmt.Fprintf(w, "Font size:\t%dpx\n", s.FontSize)
	})
}

type BackupExportCmd struct {
	Path string `arg:"" help:"Archive to write" type:"path"`
}

func (c *BackupExportCmd) Run(a *app) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	snap, err := store.Snapshot(a.ctx)
	if err != nil {
		return err
	}
	if err := backup.WriteFile(c.Path, snap); err != nil {
		return err
	}
	return a.print(snapshotSummary(c.Path, snap), func(w io.Writer) {
		fmt.Fprintf(w, "exported %s: %d favorites, %d highlights, %d plans\n",
			c.Path, len(snap.Favorites), len(snap.Highlights), len(snap.Plans))
	})
}

type BackupImportCmd struct {
	Path string `arg:"" help:"Archive to read" type:"existingfile"`
}

func (c *BackupImportCmd) Run(a *app) error {
	snap, err := backup.ReadFile(c.Path)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	if err := store.Restore(a.ctx, snap); err != nil {
		return err
	}
	return a.print(snapshotSummary(c.Path, snap), func(w io.Writer) {
		fmt.Fprintf(w, "restored %s: %d favorites, %d highlights, %d plans\n",
			c.Path, len(snap.Favorites), len(snap.Highlights), len(snap.Plans))
	})
}

type backupSummary struct {
	Path       string `json:"path"`
	Favorites  int    `json:"favorites"`
	Highlights int    `json:"highlights"`
	Plans      int    `json:"plans"`
}

func snapshotSummary(path string, snap *state.Snapshot) backupSummary {
	return backupSummary{
		Path:       path,
		Favorites:  len(snap.Favorites),
		Highlights: len(snap.Highlights),
		Plans:      len(snap.Plans),
	}
}
