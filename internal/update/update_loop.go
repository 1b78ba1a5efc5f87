package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkotal/anchora/internal/schedule"
	"github.com/mkotal/anchora/internal/views"
)

func waitForTriggerCmd(ch <-chan schedule.TriggerEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return TriggerFiredMsg{Event: ev}
	}
}

func (m Model) Init() tea.Cmd {
	if m.Dispatcher != nil {
		return waitForTriggerCmd(m.Dispatcher.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.syncBubbleData()

	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			next := m.handlePaletteKey(typed)
			return next, nil
		}
		if m.Conflict.Active {
			next := m.handleConflictKey(typed)
			return next, nil
		}
		if m.Calendar.MoveActive {
			next := m.handleMoveInputKey(typed)
			return next, nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Today:
			m.CurrentView = ViewToday
			m.refreshToday()
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			m.refreshCalendar()
			return m, nil
		case m.Keys.Estimate:
			m.CurrentView = ViewEstimate
			return m, nil
		case m.Keys.Stats:
			m.CurrentView = ViewStats
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case "S":
			if !m.spinnerActive {
				m.spinnerActive = true
				m.refreshToday()
				m.refreshCalendar()
				m.reloadDispatcher()
				m.Status = StatusBar{Text: "refresh started", IsError: false}
				return m, tea.Batch(m.refreshSpin.Tick, tea.Tick(time.Second, func(time.Time) tea.Msg { return SetStatusMsg{Text: "refresh complete", IsError: false} }))
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		if m.CurrentView == ViewToday {
			return m.handleTodayKey(typed), nil
		}
		if m.CurrentView == ViewCalendar {
			return m.handleCalendarKey(typed), nil
		}
		if m.CurrentView == ViewEstimate {
			return m.handleEstimateKey(typed), nil
		}
	case spinner.TickMsg:
		if m.spinnerActive {
			var cmd tea.Cmd
			m.refreshSpin, cmd = m.refreshSpin.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			if typed.View == ViewToday {
				m.refreshToday()
			}
			if typed.View == ViewCalendar {
				m.refreshCalendar()
			}
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		if typed.Text == "refresh complete" {
			m.spinnerActive = false
		}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case TriggerFiredMsg:
		m.TriggerLog = append(m.TriggerLog, typed.Event)
		if len(m.TriggerLog) > 20 {
			m.TriggerLog = m.TriggerLog[len(m.TriggerLog)-20:]
		}
		body := typed.Event.Message
		if typed.Event.Shifted {
			body += " (shifted out of quiet hours)"
		}
		m.Status = StatusBar{Text: fmt.Sprintf("reminder due: %s", body), IsError: false}
		m.notify("Reminder", body, "info")
		m.refreshToday()
		if m.Dispatcher != nil {
			return m, waitForTriggerCmd(m.Dispatcher.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewToday:
		leftPane = m.renderTodayView()
		rightPane = m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewCalendar:
		leftPane = m.renderCalendarView()
		rightPane = m.renderHelpIfVisible()
	case ViewEstimate:
		leftPane = m.renderEstimateView()
		rightPane = m.renderHelpIfVisible()
	case ViewStats:
		leftPane = m.renderStatsView()
		rightPane = m.renderHelpIfVisible()
	}

	notificationView := m.renderNotificationsView()
	if m.spinnerActive {
		notificationView = notificationView + "\nrefresh: " + m.refreshSpin.View() + " running"
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("anchora | view: %s", m.CurrentView),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Prompt:       m.renderConflictPrompt(),
		Notification: notificationView,
		Footer:       fmt.Sprintf("keys: %s today | %s calendar | %s estimate | %s stats | / cmd | %s help | %s quit", m.Keys.Today, m.Keys.Calendar, m.Keys.Estimate, m.Keys.Stats, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewToday, ViewCalendar, ViewEstimate, ViewStats:
		return true
	default:
		return false
	}
}
