// Package config loads runtime settings for the mialma binary.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// MIALMA_* environment variables. Command-line flags are applied last by
// the caller.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/gesture"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/state"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "MIALMA_"

// Config holds server and reader configuration.
type Config struct {
	Port           int      `yaml:"port"            env:"PORT"`
	DBPath         string   `yaml:"db_path"         env:"DB_PATH"`
	LogLevel       string   `yaml:"log_level"       env:"LOG_LEVEL"`
	LogFormat      string   `yaml:"log_format"      env:"LOG_FORMAT"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`

	// Timezone decides when the daily verse changes.
	Timezone string `yaml:"timezone" env:"TIMEZONE"`

	// PlansFile holds custom reading plans in XML; it may not exist yet.
	PlansFile string `yaml:"plans_file" env:"PLANS_FILE"`

	Reader  ReaderConfig  `yaml:"reader"  envPrefix:"READER_"`
	Gesture GestureConfig `yaml:"gesture" envPrefix:"GESTURE_"`
}

// ReaderConfig holds the preferences a fresh install starts with.
type ReaderConfig struct {
	Theme       string `yaml:"theme"        env:"THEME"`
	ReaderTheme string `yaml:"reader_theme" env:"READER_THEME"`
	FontSize    int    `yaml:"font_size"    env:"FONT_SIZE"`
}

// GestureConfig tunes swipe recognition.
type GestureConfig struct {
	MinDistance float64 `yaml:"min_distance" env:"MIN_DISTANCE"`
	MaxSlope    float64 `yaml:"max_slope"    env:"MAX_SLOPE"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	s := state.DefaultSettings()
	g := gesture.DefaultConfig()
	return &Config{
		Port:      8080,
		DBPath:    "mialma.db",
		LogLevel:  "info",
		LogFormat: "text",
		Timezone:  "Local",
		PlansFile: "mialma-plans.xml",
		Reader: ReaderConfig{
			Theme:       string(s.Theme),
			ReaderTheme: string(s.ReaderTheme),
			FontSize:    s.FontSize,
		},
		Gesture: GestureConfig{
			MinDistance: g.MinDistance,
			MaxSlope:    g.MaxSlope,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the process environment.
func Load(path string) (*Config, error) {
	return load(path, nil)
}

// load takes an explicit environment so tests need not touch os.Environ.
func load(path string, environ map[string]string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewIO("read", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewParse("config", path, err.Error())
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.NewParse("environment", "", err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return &errors.ValidationError{Field: "port", Value: fmt.Sprint(c.Port), Message: "must be between 1 and 65535"}
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.NewValidation("db_path", "must not be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &errors.ValidationError{Field: "log_level", Value: c.LogLevel, Message: "must be debug, info, warn or error"}
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return &errors.ValidationError{Field: "log_format", Value: c.LogFormat, Message: "must be json or text"}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := c.Settings().Validate(); err != nil {
		return err
	}
	return c.GestureConfig().Validate()
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, &errors.ValidationError{Field: "timezone", Value: c.Timezone, Message: err.Error()}
	}
	return loc, nil
}

// Settings converts the reader section to state preferences.
func (c *Config) Settings() state.Settings {
	return state.Settings{
		Theme:       state.Theme(c.Reader.Theme),
		ReaderTheme: state.Theme(c.Reader.ReaderTheme),
		FontSize:    c.Reader.FontSize,
	}
}

// GestureConfig converts the gesture section.
func (c *Config) GestureConfig() gesture.Config {
	return gesture.Config{MinDistance: c.Gesture.MinDistance, MaxSlope: c.Gesture.MaxSlope}
}
