package state

import (
	"fmt"
	"time"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
)

// LastRead is the most recently opened chapter.
type LastRead struct {
	Book      string    `json:"book"`
	Chapter   int       `json:"chapter"`
	Timestamp time.Time `json:"timestamp"`
}

// Favorite is a bookmarked verse.
type Favorite struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Book      string    `json:"book"`
	Chapter   int       `json:"chapter"`
	Verse     int       `json:"verse"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Color is a highlight color offered by the verse options panel.
type Color string

// Highlight colors.
const (
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
	Pink   Color = "pink"
	Purple Color = "purple"
)

// Colors lists the highlight palette in display order.
var Colors = []Color{Yellow, Green, Blue, Pink, Purple}

// IsValid returns true if c is in the palette.
func (c Color) IsValid() bool {
	for _, v := range Colors {
		if c == v {
			return true
		}
	}
	return false
}

// Highlight marks one verse with a color.
type Highlight struct {
	Key       string    `json:"key"`
	Book      string    `json:"book"`
	Chapter   int       `json:"chapter"`
	Verse     int       `json:"verse"`
	Color     Color     `json:"color"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Theme is a color scheme for the app shell or the reader.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeSepia Theme = "sepia"
)

// IsValid returns true for light, dark and sepia.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSepia
}

// Font size bounds, in pixels.
const (
	MinFontSize     = 12
	MaxFontSize     = 32
	DefaultFontSize = 16
)

// Settings are the reader preferences.
type Settings struct {
	Theme       Theme `json:"theme"`
	ReaderTheme Theme `json:"reader_theme"`
	FontSize    int   `json:"font_size"`
}

// DefaultSettings returns light themes at 16px.
func DefaultSettings() Settings {
	return Settings{Theme: ThemeLight, ReaderTheme: ThemeLight, FontSize: DefaultFontSize}
}

// Validate checks themes and the font size range.
func (s Settings) Validate() error {
	if !s.Theme.IsValid() {
		return errors.NewValidation("theme", fmt.Sprintf("unknown theme %q", s.Theme))
	}
	if !s.ReaderTheme.IsValid() {
		return errors.NewValidation("reader_theme", fmt.Sprintf("unknown theme %q", s.ReaderTheme))
	}
	if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
		return errors.NewValidation("font_size", fmt.Sprintf("must be between %d and %d", MinFontSize, MaxFontSize))
	}
	return nil
}

// PlanProgress records how far the reader is in a reading plan.
type PlanProgress struct {
	PlanID     string    `json:"plan_id"`
	CurrentDay int       `json:"current_day"`
	Active     bool      `json:"active"`
	StartedAt  time.Time `json:"started_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Snapshot is every piece of stored state, used for backups.
type Snapshot struct {
	LastRead   *LastRead      `json:"last_read,omitempty"`
	Favorites  []Favorite     `json:"favorites"`
	Highlights []Highlight    `json:"highlights"`
	Settings   Settings       `json:"settings"`
	Plans      []PlanProgress `json:"plans"`
	TakenAt    time.Time      `json:"taken_at"`
}
