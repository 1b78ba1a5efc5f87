package schedule

import (
	"time"

	"github.com/mkotal/anchora/internal/model"
)

// Transition timings.
const (
	laterTodayDelay    = 3 * time.Hour
	laterTodayFallback = time.Hour
	laterTodayDNDGap   = 15 // minutes before DND start
	pausedResumeHour   = 9  // "pause until tomorrow" resumes at 9:00
)

// Snooze moves an Active or Snoozed reminder to Snoozed for the given
// number of minutes. Returns false when the reminder does not exist;
// missing targets are tolerated as no-ops throughout this file.
func (e *Engine) Snooze(id string, minutes int) bool {
	rem, ok := e.reminders[id]
	if !ok || minutes <= 0 {
		return false
	}
	e.recordChange("snooze", rem)

	until := e.now().Add(time.Duration(minutes) * time.Minute)
	rem = rem.Clone()
	rem.Status = model.ReminderSnoozed
	rem.SnoozedUntil = &until
	rem.SnoozeHistory = append(rem.SnoozeHistory, minutes)
	rem.Outcomes = append(rem.Outcomes, model.OutcomeSnoozed)
	e.reminders[id] = rem
	return true
}

// MarkDone finishes the reminder for the day.
func (e *Engine) MarkDone(id string) bool {
	rem, ok := e.reminders[id]
	if !ok {
		return false
	}
	e.recordChange("done", rem)

	rem = rem.Clone()
	rem.Status = model.ReminderDone
	rem.SnoozedUntil = nil
	rem.Outcomes = append(rem.Outcomes, model.OutcomeSuccess)
	e.reminders[id] = rem
	return true
}

func (e *Engine) Ignore(id string) bool {
	rem, ok := e.reminders[id]
	if !ok {
		return false
	}
	e.recordChange("ignore", rem)

	rem = rem.Clone()
	rem.Status = model.ReminderIgnored
	rem.SnoozedUntil = nil
	rem.Outcomes = append(rem.Outcomes, model.OutcomeIgnored)
	e.reminders[id] = rem
	return true
}

// PauseUntilTomorrow parks the reminder until 9:00 the next day.
func (e *Engine) PauseUntilTomorrow(id string) bool {
	rem, ok := e.reminders[id]
	if !ok {
		return false
	}
	e.recordChange("pause", rem)

	now := e.now()
	until := startOfDay(now).AddDate(0, 0, 1).Add(pausedResumeHour * time.Hour)
	rem = rem.Clone()
	rem.Status = model.ReminderPaused
	rem.SnoozedUntil = &until
	e.reminders[id] = rem
	return true
}

// LaterToday defers the reminder by three hours, capped to 15 minutes
// before today's DND window start. A cap that has already passed falls
// back to one hour from now.
func (e *Engine) LaterToday(id string) bool {
	rem, ok := e.reminders[id]
	if !ok {
		return false
	}
	e.recordChange("later", rem)

	now := e.now()
	target := now.Add(laterTodayDelay)
	if window, exists := e.dnd[now.Weekday()]; exists {
		capAt := startOfDay(now).Add(time.Duration(window.StartMinutes()-laterTodayDNDGap) * time.Minute)
		if capAt.Before(target) {
			if capAt.After(now) {
				target = capAt
			} else {
				target = now.Add(laterTodayFallback)
			}
		}
	}

	rem = rem.Clone()
	rem.Status = model.ReminderSnoozed
	rem.SnoozedUntil = &target
	e.reminders[id] = rem
	return true
}

// ToggleLock flips the lock and keeps AllowExploration as its complement:
// a locked reminder never receives experimental offsets.
func (e *Engine) ToggleLock(id string) bool {
	rem, ok := e.reminders[id]
	if !ok {
		return false
	}
	e.recordChange("lock", rem)

	rem = rem.Clone()
	rem.Locked = !rem.Locked
	rem.AllowExploration = !rem.Locked
	e.reminders[id] = rem
	return true
}

// ApplyExploratoryOffset tries a new offset while remembering the original
// so the experiment can be reverted. Locked reminders refuse it.
func (e *Engine) ApplyExploratoryOffset(id string, offsetMinutes int) bool {
	rem, ok := e.reminders[id]
	if !ok || rem.Locked || !rem.AllowExploration {
		return false
	}
	e.recordChange("explore", rem)

	rem = rem.Clone()
	if !rem.Exploratory {
		original := rem.OffsetMinutes
		rem.OriginalOffset = &original
	}
	rem.Exploratory = true
	rem.OffsetMinutes = offsetMinutes
	e.reminders[id] = rem
	return true
}

// RevertExploration restores the stored original offset and reactivates
// the reminder. No-op unless an experiment is in flight.
func (e *Engine) RevertExploration(id string) bool {
	rem, ok := e.reminders[id]
	if !ok || !rem.Exploratory || rem.OriginalOffset == nil {
		return false
	}
	e.recordChange("revert", rem)

	rem = rem.Clone()
	rem.OffsetMinutes = *rem.OriginalOffset
	rem.OriginalOffset = nil
	rem.Exploratory = false
	rem.Status = model.ReminderActive
	e.reminders[id] = rem
	return true
}

// Undo restores the reminder state recorded before the most recent
// transition. Undo for a reminder deleted in the meantime recreates it.
func (e *Engine) Undo() bool {
	ev, ok := e.changes.Pop()
	if !ok {
		return false
	}
	e.reminders[ev.ReminderID] = ev.Before.Clone()
	return true
}

func (e *Engine) Changes() *ChangeLog {
	return e.changes
}

func (e *Engine) recordChange(action string, before model.SmartReminder) {
	e.changes.Record(ChangeEvent{
		ReminderID: before.ID,
		Action:     action,
		Before:     before.Clone(),
		At:         e.now(),
	})
}
