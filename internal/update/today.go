package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	quickSnoozeMinutes = 15
	exploreNudge       = -10
)

func (m Model) handleTodayKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Today.Cursor > 0 {
			m.Today.Cursor--
		}
	case "down", "j":
		if m.Today.Cursor < len(m.Today.Items)-1 {
			m.Today.Cursor++
		}
	case "s":
		m.applyReminderAction("snooze", func(id string) bool { return m.Engine.Snooze(id, quickSnoozeMinutes) })
	case "d":
		m.applyReminderAction("done", func(id string) bool { return m.Engine.MarkDone(id) })
	case "i":
		m.applyReminderAction("ignore", func(id string) bool { return m.Engine.Ignore(id) })
	case "t":
		m.applyReminderAction("later today", func(id string) bool { return m.Engine.LaterToday(id) })
	case "p":
		m.applyReminderAction("pause until tomorrow", func(id string) bool { return m.Engine.PauseUntilTomorrow(id) })
	case "P":
		m.pauseAllUntilTomorrow()
	case "L":
		m.applyReminderAction("lock toggle", func(id string) bool { return m.Engine.ToggleLock(id) })
	case "e":
		m.applyExplorationNudge()
	case "r":
		m.applyReminderAction("revert exploration", func(id string) bool { return m.Engine.RevertExploration(id) })
	case "u":
		m.undoLastChange()
	}
	return m
}

// applyReminderAction runs a state transition against the selected
// reminder, then persists, refreshes the list, and reloads the dispatcher
// so stale triggers never fire.
func (m *Model) applyReminderAction(label string, fn func(id string) bool) {
	if m.Engine == nil {
		return
	}
	selected, ok := m.currentReminder()
	if !ok {
		m.Status = StatusBar{Text: "no reminder selected", IsError: true}
		return
	}
	id := selected.Reminder.ID
	if !fn(id) {
		m.Status = StatusBar{Text: fmt.Sprintf("%s rejected for %s", label, id), IsError: true}
		return
	}
	m.persistReminder(id)
	m.refreshToday()
	m.reloadDispatcher()
	m.Status = StatusBar{Text: fmt.Sprintf("%s applied to %s", label, id), IsError: false}
	m.notify("Reminder", m.Status.Text, "info")
}

func (m *Model) applyExplorationNudge() {
	if m.Engine == nil {
		return
	}
	selected, ok := m.currentReminder()
	if !ok {
		m.Status = StatusBar{Text: "no reminder selected", IsError: true}
		return
	}
	id := selected.Reminder.ID
	next := selected.Reminder.OffsetMinutes + exploreNudge
	if !m.Engine.ApplyExploratoryOffset(id, next) {
		m.Status = StatusBar{Text: fmt.Sprintf("exploration rejected for %s (locked?)", id), IsError: true}
		return
	}
	m.persistReminder(id)
	m.refreshToday()
	m.reloadDispatcher()
	m.Status = StatusBar{Text: fmt.Sprintf("exploring offset %d for %s", next, id), IsError: false}
}

func (m *Model) pauseAllUntilTomorrow() {
	if m.Engine == nil {
		return
	}
	resume := timeAtHour(m.now().AddDate(0, 0, 1), 9)
	m.Engine.PauseAllUntil(resume)
	m.persistSettings()
	m.refreshToday()
	m.reloadDispatcher()
	m.Status = StatusBar{Text: fmt.Sprintf("all reminders paused until %s", resume.Format("Mon 15:04")), IsError: false}
	m.notify("Paused", m.Status.Text, "info")
}

func (m *Model) undoLastChange() {
	if m.Engine == nil {
		return
	}
	if !m.Engine.Undo() {
		m.Status = StatusBar{Text: "nothing to undo", IsError: true}
		return
	}
	m.refreshToday()
	m.reloadDispatcher()
	m.Status = StatusBar{Text: "last change undone", IsError: false}
}
