package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidClock = errors.New("timeutil: invalid HH:MM value")

const MinutesPerDay = 24 * 60

// ToMinutes parses a wall-clock "HH:MM" string into minutes since midnight.
func ToMinutes(clock string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return hours*60 + minutes, nil
}

// FromMinutes renders minutes since midnight as "HH:MM", wrapping past 24h.
func FromMinutes(minutes int) string {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlap reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Touching endpoints do not count.
func Overlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// InWindow reports whether a minute-of-day falls inside the half-open window
// [start,end). A window whose end precedes its start spans midnight.
func InWindow(minute, start, end int) bool {
	if end < start {
		return minute >= start || minute < end
	}
	return minute >= start && minute < end
}

// IsValidClock reports whether clock is a well-formed "HH:MM" string.
func IsValidClock(clock string) bool {
	_, err := ToMinutes(clock)
	return err == nil
}
