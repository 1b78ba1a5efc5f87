package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkotal/anchora/internal/schedule"
	"github.com/mkotal/anchora/internal/timeutil"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left":
		m.shiftCalendarFocus(-1)
	case "l", "right":
		m.shiftCalendarFocus(1)
	case "up", "k":
		if m.Calendar.Cursor > 0 {
			m.Calendar.Cursor--
		}
	case "down", "j":
		if m.Calendar.Cursor < len(m.Calendar.Anchors)-1 {
			m.Calendar.Cursor++
		}
	case "m":
		if _, ok := m.currentAnchor(); !ok {
			m.Status = StatusBar{Text: "no anchor selected", IsError: true}
			return m
		}
		m.Calendar.MoveActive = true
		m.moveInput.SetValue("")
		m.moveInput.Focus()
		m.Status = StatusBar{Text: "enter new start time (HH:MM)", IsError: false}
	}
	return m
}

func (m *Model) shiftCalendarFocus(delta int) {
	day := (int(m.Calendar.FocusDay) + delta + 7) % 7
	m.Calendar.FocusDay = weekdayFromInt(day)
	m.Calendar.Cursor = 0
	m.refreshCalendar()
	m.Status = StatusBar{Text: fmt.Sprintf("calendar focus: %s", m.Calendar.FocusDay), IsError: false}
}

func (m Model) handleMoveInputKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Calendar.MoveActive = false
		m.moveInput.Blur()
		m.Status = StatusBar{Text: "move cancelled", IsError: false}
	case "enter":
		m.Calendar.MoveActive = false
		m.moveInput.Blur()
		m = m.proposeMove(strings.TrimSpace(m.moveInput.Value()))
	default:
		if msg.Type == tea.KeyRunes {
			m.moveInput.SetValue(m.moveInput.Value() + string(msg.Runes))
			return m
		}
		var cmd tea.Cmd
		m.moveInput, cmd = m.moveInput.Update(msg)
		_ = cmd
	}
	return m
}

// proposeMove checks the new start against DND windows and sibling anchors
// before committing. A conflict parks the move behind a prompt; a clean
// proposal moves immediately.
func (m Model) proposeMove(newStart string) Model {
	anchor, ok := m.currentAnchor()
	if !ok || m.Engine == nil {
		m.Status = StatusBar{Text: "no anchor selected", IsError: true}
		return m
	}
	if !timeutil.IsValidClock(newStart) {
		m.Status = StatusBar{Text: fmt.Sprintf("invalid time: %q", newStart), IsError: true}
		return m
	}

	if c := m.Engine.DetectConflict(anchor.ID, m.Calendar.FocusDay, newStart); c != nil {
		m.Conflict = ConflictState{Active: true, Conflict: c}
		m.Status = StatusBar{Text: "move conflicts, choose a resolution", IsError: false}
		return m
	}

	if !m.Engine.MoveAnchor(anchor.ID, m.Calendar.FocusDay, newStart) {
		m.Status = StatusBar{Text: fmt.Sprintf("move rejected for %s", anchor.ID), IsError: true}
		return m
	}
	m.afterAnchorMove(anchor.ID)
	m.Status = StatusBar{Text: fmt.Sprintf("moved %s to %s", anchor.Title, newStart), IsError: false}
	return m
}

func (m Model) handleConflictKey(msg tea.KeyMsg) Model {
	if m.Conflict.Conflict == nil {
		m.Conflict = ConflictState{}
		return m
	}
	c := m.Conflict.Conflict
	switch msg.String() {
	case "s":
		m.resolveConflict(c, schedule.ResolutionShift, "shifted past the conflict")
	case "k":
		m.resolveConflict(c, schedule.ResolutionKeep, "kept the overlapping slot")
	case "c", "esc":
		m.Conflict = ConflictState{}
		m.Status = StatusBar{Text: "move cancelled", IsError: false}
	}
	return m
}

func (m *Model) resolveConflict(c *schedule.Conflict, choice schedule.Resolution, label string) {
	if !m.Engine.Resolve(c, choice) {
		m.Conflict = ConflictState{}
		m.Status = StatusBar{Text: "conflict resolution rejected", IsError: true}
		return
	}
	m.Conflict = ConflictState{}
	m.afterAnchorMove(c.AnchorID)
	m.Status = StatusBar{Text: label, IsError: false}
}

func (m *Model) afterAnchorMove(anchorID string) {
	m.persistAnchor(anchorID)
	m.refreshCalendar()
	m.refreshToday()
	m.reloadDispatcher()
	m.notify("Anchor", "schedule updated", "info")
}
