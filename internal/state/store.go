// Package state is the reader's application-state store: last read chapter,
// favorites, highlights, settings and reading-plan progress.
//
// A single Store is created at startup and passed to whatever needs it. All
// methods are safe for concurrent use; SQLite serializes the writes.
package state

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
	"github.com/FocuswithJustin/MiAlmaBiblia/core/sqlite"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/logging"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS last_read (
		id      INTEGER PRIMARY KEY CHECK (id = 1),
		book    TEXT    NOT NULL,
		chapter INTEGER NOT NULL,
		read_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id         TEXT    PRIMARY KEY,
		verse_key  TEXT    NOT NULL UNIQUE,
		book       TEXT    NOT NULL,
		chapter    INTEGER NOT NULL,
		verse      INTEGER NOT NULL,
		note       TEXT    NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS highlights (
		verse_key  TEXT    PRIMARY KEY,
		book       TEXT    NOT NULL,
		chapter    INTEGER NOT NULL,
		verse      INTEGER NOT NULL,
		color      TEXT    NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS highlights_by_chapter ON highlights (book, chapter)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS plan_progress (
		plan_id     TEXT    PRIMARY KEY,
		current_day INTEGER NOT NULL,
		active      INTEGER NOT NULL,
		started_at  INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL
	)`,
}

// Settings keys.
const (
	keyTheme       = "theme-global"
	keyReaderTheme = "theme-lectura"
	keyFontSize    = "font-size"
)

// Store persists reader state in SQLite.
type Store struct {
	db       *sql.DB
	now      func() time.Time
	defaults Settings
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDefaults sets the preferences reported before the reader saves any.
func WithDefaults(settings Settings) Option {
	return func(s *Store) { s.defaults = settings }
}

// Open opens (creating if needed) the state database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sqlite.OpenWritable(ctx, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}

	s := &Store{db: db, now: time.Now, defaults: DefaultSettings()}
	for _, opt := range opts {
		opt(s)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "create state schema")
		}
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) stamp() int64 {
	return s.now().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// SetLastRead records p as the last opened chapter.
func (s *Store) SetLastRead(ctx context.Context, p canon.Position) (LastRead, error) {
	if !p.IsValid() {
		return LastRead{}, errors.NewValidation("position", "not a canonical position")
	}
	at := s.stamp()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO last_read (id, book, chapter, read_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET book = excluded.book, chapter = excluded.chapter, read_at = excluded.read_at`,
		p.Book.Name, p.Chapter, at)
	if err != nil {
		return LastRead{}, errors.Wrap(err, "save last read")
	}
	logging.StateChange(ctx, "last_read", "set", p.String())
	return LastRead{Book: p.Book.Name, Chapter: p.Chapter, Timestamp: fromMillis(at)}, nil
}

// LastRead returns the last opened chapter, or a NotFoundError if none was
// ever recorded.
func (s *Store) LastRead(ctx context.Context) (LastRead, error) {
	var lr LastRead
	var at int64
	err := s.db.QueryRowContext(ctx, `SELECT book, chapter, read_at FROM last_read WHERE id = 1`).
		Scan(&lr.Book, &lr.Chapter, &at)
	if stderrors.Is(err, sql.ErrNoRows) {
		return LastRead{}, errors.NewNotFound("last read position", "")
	}
	if err != nil {
		return LastRead{}, errors.Wrap(err, "load last read")
	}
	lr.Timestamp = fromMillis(at)
	return lr, nil
}

// AddFavorite bookmarks a verse. Adding an already bookmarked verse returns
// the existing favorite unchanged.
func (s *Store) AddFavorite(ctx context.Context, p canon.Position, verse int, note string) (Favorite, error) {
	if err := checkVerse(p, verse); err != nil {
		return Favorite{}, err
	}
	key := p.Key(verse)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (id, verse_key, book, chapter, verse, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(verse_key) DO NOTHING`,
		uuid.NewString(), key, p.Book.Name, p.Chapter, verse, note, s.stamp())
	if err != nil {
		return Favorite{}, errors.Wrap(err, "add favorite")
	}
	logging.StateChange(ctx, "favorite", "add", key)
	return s.favorite(ctx, key)
}

func (s *Store) favorite(ctx context.Context, key string) (Favorite, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, verse_key, book, chapter, verse, note, created_at
		FROM favorites WHERE verse_key = ?`, key)
	f, err := scanFavorite(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Favorite{}, errors.NewNotFound("favorite", key)
	}
	return f, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFavorite(row scanner) (Favorite, error) {
	var f Favorite
	var at int64
	if err := row.Scan(&f.ID, &f.Key, &f.Book, &f.Chapter, &f.Verse, &f.Note, &at); err != nil {
		return Favorite{}, err
	}
	f.CreatedAt = fromMillis(at)
	return f, nil
}

// RemoveFavorite deletes a bookmark by verse key.
func (s *Store) RemoveFavorite(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE verse_key = ?`, key)
	if err != nil {
		return errors.Wrap(err, "remove favorite")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFound("favorite", key)
	}
	logging.StateChange(ctx, "favorite", "remove", key)
	return nil
}

// IsFavorite reports whether a verse key is bookmarked.
func (s *Store) IsFavorite(ctx context.Context, key string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites WHERE verse_key = ?`, key).Scan(&n); err != nil {
		return false, errors.Wrap(err, "check favorite")
	}
	return n > 0, nil
}

// Favorites lists bookmarks, oldest first.
func (s *Store) Favorites(ctx context.Context) ([]Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, verse_key, book, chapter, verse, note, created_at
		FROM favorites ORDER BY created_at, rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "list favorites")
	}
	defer rows.Close()

	favorites := []Favorite{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan favorite")
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

// SetHighlight colors a verse, replacing any previous color.
func (s *Store) SetHighlight(ctx context.Context, p canon.Position, verse int, color Color) (Highlight, error) {
	if err := checkVerse(p, verse); err != nil {
		return Highlight{}, err
	}
	if !color.IsValid() {
		return Highlight{}, errors.NewValidation("color", fmt.Sprintf("unknown highlight color %q", color))
	}
	key := p.Key(verse)
	at := s.stamp()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO highlights (verse_key, book, chapter, verse, color, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(verse_key) DO UPDATE SET color = excluded.color, updated_at = excluded.updated_at`,
		key, p.Book.Name, p.Chapter, verse, string(color), at)
	if err != nil {
		return Highlight{}, errors.Wrap(err, "set highlight")
	}
	logging.StateChange(ctx, "highlight", "set", key, "color", string(color))
	return Highlight{Key: key, Book: p.Book.Name, Chapter: p.Chapter, Verse: verse, Color: color, UpdatedAt: fromMillis(at)}, nil
}

// ClearHighlight removes the color from a verse.
func (s *Store) ClearHighlight(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM highlights WHERE verse_key = ?`, key)
	if err != nil {
		return errors.Wrap(err, "clear highlight")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFound("highlight", key)
	}
	logging.StateChange(ctx, "highlight", "clear", key)
	return nil
}

// Highlights returns the highlighted verses of one chapter in verse order.
func (s *Store) Highlights(ctx context.Context, p canon.Position) ([]Highlight, error) {
	if p.Book == nil {
		return nil, errors.NewValidation("position", "missing book")
	}
	return s.queryHighlights(ctx, `
		SELECT verse_key, book, chapter, verse, color, updated_at
		FROM highlights WHERE book = ? AND chapter = ? ORDER BY verse`, p.Book.Name, p.Chapter)
}

// AllHighlights returns every highlight.
func (s *Store) AllHighlights(ctx context.Context) ([]Highlight, error) {
	return s.queryHighlights(ctx, `
		SELECT verse_key, book, chapter, verse, color, updated_at
		FROM highlights ORDER BY updated_at, verse_key`)
}

func (s *Store) queryHighlights(ctx context.Context, query string, args ...any) ([]Highlight, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list highlights")
	}
	defer rows.Close()

	highlights := []Highlight{}
	for rows.Next() {
		var h Highlight
		var color string
		var at int64
		if err := rows.Scan(&h.Key, &h.Book, &h.Chapter, &h.Verse, &color, &at); err != nil {
			return nil, errors.Wrap(err, "scan highlight")
		}
		h.Color = Color(color)
		h.UpdatedAt = fromMillis(at)
		highlights = append(highlights, h)
	}
	return highlights, rows.Err()
}

// Settings returns the stored preferences, with defaults for unset keys.
func (s *Store) Settings(ctx context.Context) (Settings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return Settings{}, errors.Wrap(err, "load settings")
	}
	defer rows.Close()

	settings := s.defaults
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Settings{}, errors.Wrap(err, "scan setting")
		}
		switch k {
		case keyTheme:
			settings.Theme = Theme(v)
		case keyReaderTheme:
			settings.ReaderTheme = Theme(v)
		case keyFontSize:
			if n, err := strconv.Atoi(v); err == nil {
				settings.FontSize = n
			}
		}
	}
	return settings, rows.Err()
}

// SaveSettings validates and stores all preferences.
func (s *Store) SaveSettings(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin settings")
	}
	defer tx.Rollback()

	if err := saveSettingsTx(ctx, tx, settings); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit settings")
	}
	logging.StateChange(ctx, "settings", "save", "",
		"theme", string(settings.Theme), "reader_theme", string(settings.ReaderTheme), "font_size", settings.FontSize)
	return nil
}

func saveSettingsTx(ctx context.Context, tx *sql.Tx, settings Settings) error {
	values := map[string]string{
		keyTheme:       string(settings.Theme),
		keyReaderTheme: string(settings.ReaderTheme),
		keyFontSize:    strconv.Itoa(settings.FontSize),
	}
	for k, v := range values {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v)
		if err != nil {
			return errors.Wrapf(err, "save setting %s", k)
		}
	}
	return nil
}

// PlanProgress returns progress for one plan, or a NotFoundError if the plan
// was never started.
func (s *Store) PlanProgress(ctx context.Context, planID string) (PlanProgress, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT plan_id, current_day, active, started_at, updated_at
		FROM plan_progress WHERE plan_id = ?`, planID)
	p, err := scanPlan(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return PlanProgress{}, errors.NewNotFound("plan progress", planID)
	}
	return p, err
}

// AllPlanProgress lists progress for every started plan.
func (s *Store) AllPlanProgress(ctx context.Context) ([]PlanProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT plan_id, current_day, active, started_at, updated_at
		FROM plan_progress ORDER BY plan_id`)
	if err != nil {
		return nil, errors.Wrap(err, "list plan progress")
	}
	defer rows.Close()

	plans := []PlanProgress{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan plan progress")
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func scanPlan(row scanner) (PlanProgress, error) {
	var p PlanProgress
	var active int
	var started, updated int64
	if err := row.Scan(&p.PlanID, &p.CurrentDay, &active, &started, &updated); err != nil {
		return PlanProgress{}, err
	}
	p.Active = active != 0
	p.StartedAt = fromMillis(started)
	p.UpdatedAt = fromMillis(updated)
	return p, nil
}

// SavePlanProgress upserts plan progress. UpdatedAt is set to now; a zero
// StartedAt is also set to now.
func (s *Store) SavePlanProgress(ctx context.Context, p PlanProgress) (PlanProgress, error) {
	if p.PlanID == "" {
		return PlanProgress{}, errors.NewValidation("plan_id", "must not be empty")
	}
	if p.CurrentDay < 0 {
		return PlanProgress{}, errors.NewValidation("current_day", "must not be negative")
	}
	now := s.now()
	if p.StartedAt.IsZero() {
		p.StartedAt = now
	}
	p.UpdatedAt = now
	if err := savePlanExec(ctx, s.db, p); err != nil {
		return PlanProgress{}, err
	}
	logging.StateChange(ctx, "plan_progress", "save", p.PlanID, "current_day", p.CurrentDay, "active", p.Active)
	p.StartedAt = fromMillis(p.StartedAt.UnixMilli())
	p.UpdatedAt = fromMillis(p.UpdatedAt.UnixMilli())
	return p, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func savePlanExec(ctx context.Context, db execer, p PlanProgress) error {
	active := 0
	if p.Active {
		active = 1
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO plan_progress (plan_id, current_day, active, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(plan_id) DO UPDATE SET
			current_day = excluded.current_day,
			active = excluded.active,
			started_at = excluded.started_at,
			updated_at = excluded.updated_at`,
		p.PlanID, p.CurrentDay, active, p.StartedAt.UnixMilli(), p.UpdatedAt.UnixMilli())
	if err != nil {
		return errors.Wrapf(err, "save plan progress %s", p.PlanID)
	}
	return nil
}

func checkVerse(p canon.Position, verse int) error {
	if !p.IsValid() {
		return errors.NewValidation("position", "not a canonical position")
	}
	if p.IsIntroduction() {
		return errors.NewValidation("chapter", "the introduction has no verses")
	}
	if verse < 1 {
		return errors.NewValidation("verse", "verses start at 1")
	}
	return nil
}
