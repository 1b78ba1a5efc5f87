package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkotal/anchora/internal/commands"
	"github.com/mkotal/anchora/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Snooze: func(a commands.SnoozeArgs) (commands.Result, error) {
			if !m.Engine.Snooze(a.ReminderID, a.Minutes) {
				return commands.Result{}, unknownReminder(a.ReminderID)
			}
			m.afterReminderMutation(a.ReminderID)
			return commands.Result{Message: fmt.Sprintf("snoozed %s for %dm", a.ReminderID, a.Minutes)}, nil
		},
		Done: func(a commands.ReminderArgs) (commands.Result, error) {
			if !m.Engine.MarkDone(a.ReminderID) {
				return commands.Result{}, unknownReminder(a.ReminderID)
			}
			m.afterReminderMutation(a.ReminderID)
			return commands.Result{Message: fmt.Sprintf("marked %s done", a.ReminderID)}, nil
		},
		Ignore: func(a commands.ReminderArgs) (commands.Result, error) {
			if !m.Engine.Ignore(a.ReminderID) {
				return commands.Result{}, unknownReminder(a.ReminderID)
			}
			m.afterReminderMutation(a.ReminderID)
			return commands.Result{Message: fmt.Sprintf("ignored %s", a.ReminderID)}, nil
		},
		Later: func(a commands.ReminderArgs) (commands.Result, error) {
			if !m.Engine.LaterToday(a.ReminderID) {
				return commands.Result{}, unknownReminder(a.ReminderID)
			}
			m.afterReminderMutation(a.ReminderID)
			return commands.Result{Message: fmt.Sprintf("pushed %s to later today", a.ReminderID)}, nil
		},
		Pause: func(a commands.PauseArgs) (commands.Result, error) {
			if a.All {
				m.pauseAllUntilTomorrow()
				return commands.Result{Message: "all reminders paused until tomorrow morning"}, nil
			}
			if !m.Engine.PauseUntilTomorrow(a.ReminderID) {
				return commands.Result{}, unknownReminder(a.ReminderID)
			}
			m.afterReminderMutation(a.ReminderID)
			return commands.Result{Message: fmt.Sprintf("paused %s until tomorrow morning", a.ReminderID)}, nil
		},
		Lock: func(a commands.ReminderArgs) (commands.Result, error) {
			if !m.Engine.ToggleLock(a.ReminderID) {
				return commands.Result{}, unknownReminder(a.ReminderID)
			}
			m.afterReminderMutation(a.ReminderID)
			return commands.Result{Message: fmt.Sprintf("lock toggled on %s", a.ReminderID)}, nil
		},
		Revert: func(a commands.ReminderArgs) (commands.Result, error) {
			if !m.Engine.RevertExploration(a.ReminderID) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("%s has no exploration to revert", a.ReminderID)}
			}
			m.afterReminderMutation(a.ReminderID)
			return commands.Result{Message: fmt.Sprintf("reverted exploration on %s", a.ReminderID)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			if c := m.Engine.DetectConflict(a.AnchorID, m.Calendar.FocusDay, a.Start); c != nil {
				m.Conflict = ConflictState{Active: true, Conflict: c}
				return commands.Result{Message: "move conflicts, choose a resolution"}, nil
			}
			if !m.Engine.MoveAnchor(a.AnchorID, m.Calendar.FocusDay, a.Start) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot move %s to %s", a.AnchorID, a.Start)}
			}
			m.afterAnchorMove(a.AnchorID)
			return commands.Result{Message: fmt.Sprintf("moved %s to %s", a.AnchorID, a.Start)}, nil
		},
		Estimate: func(a commands.EstimateArgs) (commands.Result, error) {
			cat, ok := categoryFromToken(a.Category)
			if !ok {
				return commands.Result{}, unknownCategory(a.Category)
			}
			m.Estimate.Category = cat
			m.Estimate.SubSteps = a.SubSteps
			m.computeEstimate()
			m.CurrentView = ViewEstimate
			return commands.Result{Message: m.Status.Text}, nil
		},
		Log: func(a commands.LogArgs) (commands.Result, error) {
			cat, ok := categoryFromToken(a.Category)
			if !ok {
				return commands.Result{}, unknownCategory(a.Category)
			}
			difficulty, ok := difficultyFromToken(a.Difficulty)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown difficulty: %s", a.Difficulty)}
			}
			if m.History == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no completion history configured"}
			}
			now := m.now()
			_, err := m.History.Append(model.CompletionRecord{
				ActualMinutes: a.Minutes,
				Energy:        cat,
				CompletedAt:   now,
				SubSteps:      a.SubSteps,
				DayOfWeek:     int(now.Weekday()),
				Difficulty:    difficulty,
			})
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			return commands.Result{Message: fmt.Sprintf("logged %dm of %s work", a.Minutes, cat)}, nil
		},
		Undo: func() (commands.Result, error) {
			if !m.Engine.Undo() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "nothing to undo"}
			}
			m.refreshToday()
			m.reloadDispatcher()
			return commands.Result{Message: "last change undone"}, nil
		},
		Reset: func() (commands.Result, error) {
			if m.History == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no completion history configured"}
			}
			if err := m.History.Reset(); err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			m.Estimate.Result = nil
			m.Estimate.Computed = false
			return commands.Result{Message: "completion history cleared"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
		m.notify("Command", res.Message, "info")
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m
}

func (m *Model) afterReminderMutation(id string) {
	m.persistReminder(id)
	m.refreshToday()
	m.reloadDispatcher()
}

func unknownReminder(id string) *commands.CommandError {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown reminder: %s", id)}
}

func unknownCategory(token string) *commands.CommandError {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown category: %s", token)}
}

func categoryFromToken(token string) (model.EnergyCategory, bool) {
	for _, cat := range model.AllEnergyCategories() {
		if strings.EqualFold(token, string(cat)) {
			return cat, true
		}
	}
	return "", false
}

func difficultyFromToken(token string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "easy":
		return 0.8, true
	case "normal", "medium":
		return 1.0, true
	case "hard":
		return 1.25, true
	default:
		return 0, false
	}
}
