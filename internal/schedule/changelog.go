package schedule

import (
	"time"

	"github.com/mkotal/anchora/internal/model"
)

// changeLogCap bounds the undo stack; the oldest events fall off first.
const changeLogCap = 50

// ChangeEvent captures a reminder's state before one transition so the
// transition can be undone.
type ChangeEvent struct {
	ReminderID string
	Action     string
	Before     model.SmartReminder
	At         time.Time
}

type ChangeLog struct {
	events []ChangeEvent
}

func NewChangeLog() *ChangeLog {
	return &ChangeLog{}
}

func (l *ChangeLog) Record(ev ChangeEvent) {
	l.events = append(l.events, ev)
	if len(l.events) > changeLogCap {
		l.events = l.events[len(l.events)-changeLogCap:]
	}
}

// Pop removes and returns the most recent event.
func (l *ChangeLog) Pop() (ChangeEvent, bool) {
	if len(l.events) == 0 {
		return ChangeEvent{}, false
	}
	ev := l.events[len(l.events)-1]
	l.events = l.events[:len(l.events)-1]
	return ev, true
}

func (l *ChangeLog) Len() int {
	return len(l.events)
}

// Events returns a copy of the log, oldest first.
func (l *ChangeLog) Events() []ChangeEvent {
	return append([]ChangeEvent(nil), l.events...)
}
