// Package schedule owns the smart-reminder engine: resolving reminder
// trigger times against their anchors, shifting around do-not-disturb
// windows, applying reminder state transitions, and detecting conflicts
// when anchors move.
package schedule

import (
	"sort"
	"time"

	"github.com/mkotal/anchora/internal/model"
)

// Engine holds the session's schedule state. It is single-owner state:
// mutations happen one user action at a time, and derived values such as
// ActiveReminders are recomputed from wall clock on every call.
type Engine struct {
	now        func() time.Time
	anchors    map[string]model.AnchorEvent
	reminders  map[string]model.SmartReminder
	dnd        map[time.Weekday]model.DNDWindow
	pauseUntil *time.Time
	changes    *ChangeLog
}

func NewEngine() *Engine {
	return NewEngineWithClock(time.Now)
}

// NewEngineWithClock injects the clock so trigger resolution and DND
// wraparound behavior are deterministic under test.
func NewEngineWithClock(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		now:       now,
		anchors:   make(map[string]model.AnchorEvent),
		reminders: make(map[string]model.SmartReminder),
		dnd:       make(map[time.Weekday]model.DNDWindow),
		changes:   NewChangeLog(),
	}
}

func (e *Engine) UpsertAnchor(a model.AnchorEvent) error {
	if err := a.Validate(); err != nil {
		return err
	}
	e.anchors[a.ID] = a
	return nil
}

// DeleteAnchor removes an anchor. Reminders referencing it are left alone:
// the weak link is resolved at listing time and dangling reminders simply
// drop out of the active list.
func (e *Engine) DeleteAnchor(id string) {
	delete(e.anchors, id)
}

func (e *Engine) Anchor(id string) (model.AnchorEvent, bool) {
	a, ok := e.anchors[id]
	return a, ok
}

// Anchors returns all anchors ordered by day then start time.
func (e *Engine) Anchors() []model.AnchorEvent {
	out := make([]model.AnchorEvent, 0, len(e.anchors))
	for _, a := range e.anchors {
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		if out[i].StartMinutes() != out[j].StartMinutes() {
			return out[i].StartMinutes() < out[j].StartMinutes()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AnchorsOn returns the anchors for one weekday, sorted by start time.
func (e *Engine) AnchorsOn(day time.Weekday) []model.AnchorEvent {
	out := make([]model.AnchorEvent, 0)
	for _, a := range e.anchors {
		if a.Day == day {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartMinutes() != out[j].StartMinutes() {
			return out[i].StartMinutes() < out[j].StartMinutes()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (e *Engine) UpsertReminder(r model.SmartReminder) error {
	if err := r.Validate(); err != nil {
		return err
	}
	e.reminders[r.ID] = r.Clone()
	return nil
}

func (e *Engine) DeleteReminder(id string) {
	delete(e.reminders, id)
}

func (e *Engine) Reminder(id string) (model.SmartReminder, bool) {
	r, ok := e.reminders[id]
	if !ok {
		return model.SmartReminder{}, false
	}
	return r.Clone(), true
}

func (e *Engine) Reminders() []model.SmartReminder {
	out := make([]model.SmartReminder, 0, len(e.reminders))
	for _, r := range e.reminders {
		out = append(out, r.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (e *Engine) SetDNDWindow(w model.DNDWindow) error {
	if err := w.Validate(); err != nil {
		return err
	}
	e.dnd[w.Day] = w
	return nil
}

func (e *Engine) ClearDNDWindow(day time.Weekday) {
	delete(e.dnd, day)
}

func (e *Engine) DNDWindow(day time.Weekday) (model.DNDWindow, bool) {
	w, ok := e.dnd[day]
	return w, ok
}

func (e *Engine) DNDWindows() []model.DNDWindow {
	out := make([]model.DNDWindow, 0, len(e.dnd))
	for _, w := range e.dnd {
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// PauseAllUntil suppresses the entire active list until t.
func (e *Engine) PauseAllUntil(t time.Time) {
	e.pauseUntil = &t
}

func (e *Engine) ClearPause() {
	e.pauseUntil = nil
}

func (e *Engine) PauseUntil() *time.Time {
	if e.pauseUntil == nil {
		return nil
	}
	t := *e.pauseUntil
	return &t
}

// ActiveReminder is one reminder with its resolved trigger time. Shifted
// marks a trigger that was pushed out of a DND window.
type ActiveReminder struct {
	Reminder  model.SmartReminder
	Anchor    model.AnchorEvent
	TriggerAt time.Time
	Shifted   bool
}

// ActiveReminders resolves trigger times for every reminder that is still
// live today, ordered ascending by trigger time.
//
// Resolution per reminder: anchor start plus signed offset, overridden by
// snoozedUntil for Snoozed and Paused reminders; stale Active triggers are
// dropped rather than rolled to tomorrow; triggers inside a DND window are
// shifted to the window's end.
func (e *Engine) ActiveReminders() []ActiveReminder {
	now := e.now()
	if e.pauseUntil != nil && e.pauseUntil.After(now) {
		return []ActiveReminder{}
	}

	today := startOfDay(now)
	out := make([]ActiveReminder, 0, len(e.reminders))
	for _, rem := range e.Reminders() {
		switch rem.Status {
		case model.ReminderActive, model.ReminderSnoozed, model.ReminderPaused:
		default:
			continue
		}

		anchor, ok := e.anchors[rem.AnchorID]
		if !ok {
			// Anchor deleted independently; expected, not an error.
			continue
		}

		trigger := today.Add(time.Duration(anchor.StartMinutes()+rem.OffsetMinutes) * time.Minute)
		if rem.Status != model.ReminderActive && rem.SnoozedUntil != nil {
			trigger = *rem.SnoozedUntil
		}
		if rem.Status == model.ReminderActive && trigger.Before(now) {
			continue
		}

		trigger, shifted := e.shiftOutOfDND(trigger)
		out = append(out, ActiveReminder{
			Reminder:  rem,
			Anchor:    anchor,
			TriggerAt: trigger,
			Shifted:   shifted,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TriggerAt.Before(out[j].TriggerAt)
	})
	return out
}

// shiftOutOfDND moves a trigger that lands inside the day's DND window to
// the window's end. For an overnight window the end lands on the next day
// when the trigger sits in the pre-midnight half.
func (e *Engine) shiftOutOfDND(trigger time.Time) (time.Time, bool) {
	window, ok := e.dnd[trigger.Weekday()]
	if !ok {
		return trigger, false
	}
	minute := trigger.Hour()*60 + trigger.Minute()
	if !window.Contains(minute) {
		return trigger, false
	}

	day := startOfDay(trigger)
	end := time.Duration(window.EndMinutes()) * time.Minute
	if window.Wraps() && minute >= window.StartMinutes() {
		return day.AddDate(0, 0, 1).Add(end), true
	}
	return day.Add(end), true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
