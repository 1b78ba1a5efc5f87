package update

import (
	"strings"
	"time"
)

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func weekdayFromInt(day int) time.Weekday {
	return time.Weekday(((day % 7) + 7) % 7)
}

// timeAtHour pins a timestamp to the given hour of its day.
func timeAtHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}
