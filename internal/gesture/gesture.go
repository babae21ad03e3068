// Package gesture maps touch swipes on the chapter reader to canon
// navigation steps.
package gesture

import (
	"math"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
)

// Default thresholds, in CSS pixels.
const (
	DefaultMinDistance = 50
	DefaultMaxSlope    = 0.5
)

// Config controls which touch movements count as a page swipe.
type Config struct {
	// MinDistance is the minimum horizontal travel for a swipe.
	MinDistance float64 `json:"min_distance" yaml:"min_distance"`

	// MaxSlope bounds |dy|/|dx|; steeper movements are scrolls, not swipes.
	MaxSlope float64 `json:"max_slope" yaml:"max_slope"`
}

// DefaultConfig returns the thresholds used by the reader.
func DefaultConfig() Config {
	return Config{MinDistance: DefaultMinDistance, MaxSlope: DefaultMaxSlope}
}

// Validate checks that the thresholds are usable.
func (c Config) Validate() error {
	if !(c.MinDistance > 0) || math.IsInf(c.MinDistance, 0) {
		return errors.NewValidation("min_distance", "must be positive")
	}
	if !(c.MaxSlope > 0) || math.IsInf(c.MaxSlope, 0) {
		return errors.NewValidation("max_slope", "must be positive")
	}
	return nil
}

// Classify turns a touch delta (end minus start) into a direction.
// Swiping left turns the page forward; swiping right goes back. The second
// return value is false when the movement is too short or too vertical, or
// when either delta is not a finite number.
func (c Config) Classify(dx, dy float64) (canon.Direction, bool) {
	if !Finite(dx) || !Finite(dy) {
		return 0, false
	}
	adx := math.Abs(dx)
	if adx < c.MinDistance {
		return 0, false
	}
	if math.Abs(dy) > adx*c.MaxSlope {
		return 0, false
	}
	if dx < 0 {
		return canon.Forward, true
	}
	return canon.Backward, true
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Navigate applies a swipe to a reader position. moved is false when the
// gesture was ignored or the position is already at the end of the canon
// in that direction.
func (c Config) Navigate(p canon.Position, dx, dy float64) (next canon.Position, moved bool) {
	d, ok := c.Classify(dx, dy)
	if !ok {
		return p, false
	}
	next = canon.Step(p, d)
	return next, next != p
}
