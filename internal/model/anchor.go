package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mkotal/anchora/internal/timeutil"
)

var ErrInvalidClockRange = errors.New("model: invalid clock range")

// AnchorEvent is a fixed weekly calendar block that reminders hang off.
type AnchorEvent struct {
	ID              string       `json:"id"`
	Day             time.Weekday `json:"day"`
	Title           string       `json:"title"`
	Start           string       `json:"start"`
	End             string       `json:"end"`
	PrepMinutes     int          `json:"prep_minutes"`
	RecoveryMinutes int          `json:"recovery_minutes"`
	Tags            []string     `json:"tags,omitempty"`
}

func (a AnchorEvent) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: anchor id is required")
	}
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("model: anchor title is required")
	}
	if a.Day < time.Sunday || a.Day > time.Saturday {
		return errors.New("model: anchor day is out of range")
	}
	start, err := timeutil.ToMinutes(a.Start)
	if err != nil {
		return fmt.Errorf("model: anchor start: %w", err)
	}
	end, err := timeutil.ToMinutes(a.End)
	if err != nil {
		return fmt.Errorf("model: anchor end: %w", err)
	}
	if end <= start {
		return fmt.Errorf("%w: %s-%s", ErrInvalidClockRange, a.Start, a.End)
	}
	if a.PrepMinutes < 0 || a.RecoveryMinutes < 0 {
		return errors.New("model: anchor buffers must not be negative")
	}
	return nil
}

// StartMinutes returns the start as minutes since midnight. Callers are
// expected to have validated the anchor; malformed clocks map to 0.
func (a AnchorEvent) StartMinutes() int {
	m, _ := timeutil.ToMinutes(a.Start)
	return m
}

func (a AnchorEvent) EndMinutes() int {
	m, _ := timeutil.ToMinutes(a.End)
	return m
}

// DurationMinutes is invariant across moves: every shift recomputes the end
// as start + duration.
func (a AnchorEvent) DurationMinutes() int {
	return a.EndMinutes() - a.StartMinutes()
}

// DNDWindow is a recurring quiet period. End earlier than Start means the
// window wraps past midnight.
type DNDWindow struct {
	Day   time.Weekday `json:"day"`
	Start string       `json:"start"`
	End   string       `json:"end"`
}

func (w DNDWindow) Validate() error {
	if w.Day < time.Sunday || w.Day > time.Saturday {
		return errors.New("model: dnd day is out of range")
	}
	if !timeutil.IsValidClock(w.Start) {
		return fmt.Errorf("model: dnd start: %w: %q", timeutil.ErrInvalidClock, w.Start)
	}
	if !timeutil.IsValidClock(w.End) {
		return fmt.Errorf("model: dnd end: %w: %q", timeutil.ErrInvalidClock, w.End)
	}
	return nil
}

func (w DNDWindow) StartMinutes() int {
	m, _ := timeutil.ToMinutes(w.Start)
	return m
}

func (w DNDWindow) EndMinutes() int {
	m, _ := timeutil.ToMinutes(w.End)
	return m
}

// Wraps reports whether the window spans midnight.
func (w DNDWindow) Wraps() bool {
	return w.EndMinutes() < w.StartMinutes()
}

// Contains reports whether a minute-of-day falls inside the window.
func (w DNDWindow) Contains(minute int) bool {
	return timeutil.InWindow(minute, w.StartMinutes(), w.EndMinutes())
}
