package state

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/logging"
)

// Snapshot reads every table into memory.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{TakenAt: fromMillis(s.stamp())}

	lr, err := s.LastRead(ctx)
	switch {
	case err == nil:
		snap.LastRead = &lr
	case !errors.Is(err, errors.ErrNotFound):
		return nil, err
	}

	if snap.Favorites, err = s.Favorites(ctx); err != nil {
		return nil, err
	}
	if snap.Highlights, err = s.AllHighlights(ctx); err != nil {
		return nil, err
	}
	if snap.Settings, err = s.Settings(ctx); err != nil {
		return nil, err
	}
	if snap.Plans, err = s.AllPlanProgress(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

// Restore replaces all stored state with snap in one transaction. Every
// position and key in the snapshot is checked against the canon first; a
// single bad entry rejects the whole restore.
func (s *Store) Restore(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return errors.NewValidation("snapshot", "missing")
	}
	if err := validateSnapshot(snap); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin restore")
	}
	defer tx.Rollback()

	for _, table := range []string{"last_read", "favorites", "highlights", "settings", "plan_progress"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "clear %s", table)
		}
	}

	if lr := snap.LastRead; lr != nil {
		if _, err := tx.ExecContext(ctx, `INSERT INTO last_read (id, book, chapter, read_at) VALUES (1, ?, ?, ?)`,
			lr.Book, lr.Chapter, lr.Timestamp.UnixMilli()); err != nil {
			return errors.Wrap(err, "restore last read")
		}
	}

	for _, f := range snap.Favorites {
		id := f.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO favorites (id, verse_key, book, chapter, verse, note, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, f.Key, f.Book, f.Chapter, f.Verse, f.Note, f.CreatedAt.UnixMilli()); err != nil {
			return errors.Wrapf(err, "restore favorite %s", f.Key)
		}
	}

	for _, h := range snap.Highlights {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO highlights (verse_key, book, chapter, verse, color, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			h.Key, h.Book, h.Chapter, h.Verse, string(h.Color), h.UpdatedAt.UnixMilli()); err != nil {
			return errors.Wrapf(err, "restore highlight %s", h.Key)
		}
	}

	if err := saveSettingsTx(ctx, tx, snap.Settings); err != nil {
		return err
	}

	for _, p := range snap.Plans {
		if err := savePlanExec(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit restore")
	}
	logging.StateChange(ctx, "snapshot", "restore", "",
		"favorites", len(snap.Favorites), "highlights", len(snap.Highlights), "plans", len(snap.Plans))
	return nil
}

// validateSnapshot normalizes book names to their canonical spelling and
// rebuilds verse keys from the positions.
func validateSnapshot(snap *Snapshot) error {
	if lr := snap.LastRead; lr != nil {
		p, err := canon.NewPosition(lr.Book, lr.Chapter)
		if err != nil {
			return errors.Wrap(err, "last read")
		}
		lr.Book = p.Book.Name
	}

	seen := make(map[string]bool, len(snap.Favorites))
	for i := range snap.Favorites {
		f := &snap.Favorites[i]
		p, err := canon.NewPosition(f.Book, f.Chapter)
		if err != nil {
			return errors.Wrapf(err, "favorite %s", f.Key)
		}
		if err := checkVerse(p, f.Verse); err != nil {
			return errors.Wrapf(err, "favorite %s", f.Key)
		}
		f.Book, f.Key = p.Book.Name, p.Key(f.Verse)
		if seen[f.Key] {
			return errors.NewValidation("favorites", fmt.Sprintf("duplicate verse %s", f.Key))
		}
		seen[f.Key] = true
	}

	seen = make(map[string]bool, len(snap.Highlights))
	for i := range snap.Highlights {
		h := &snap.Highlights[i]
		p, err := canon.NewPosition(h.Book, h.Chapter)
		if err != nil {
			return errors.Wrapf(err, "highlight %s", h.Key)
		}
		if err := checkVerse(p, h.Verse); err != nil {
			return errors.Wrapf(err, "highlight %s", h.Key)
		}
		if !h.Color.IsValid() {
			return errors.NewValidation("color", fmt.Sprintf("unknown highlight color %q", h.Color))
		}
		h.Book, h.Key = p.Book.Name, p.Key(h.Verse)
		if seen[h.Key] {
			return errors.NewValidation("highlights", fmt.Sprintf("duplicate verse %s", h.Key))
		}
		seen[h.Key] = true
	}

	if err := snap.Settings.Validate(); err != nil {
		return err
	}

	for _, p := range snap.Plans {
		if p.PlanID == "" || p.CurrentDay < 0 {
			return errors.NewValidation("plans", fmt.Sprintf("invalid progress for plan %q", p.PlanID))
		}
	}
	return nil
}
