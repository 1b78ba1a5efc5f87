package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
)

func (m *Model) initBubbleComponents() {
	m.todayList = list.New([]list.Item{}, list.NewDefaultDelegate(), 58, 12)
	m.todayList.Title = "Today (reminders)"
	m.todayList.SetShowHelp(false)
	m.todayList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Start", Width: 7},
		{Title: "End", Width: 7},
		{Title: "Title", Width: 26},
		{Title: "Tags", Width: 14},
	}
	m.calendarTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.moveInput = textinput.New()
	m.moveInput.Prompt = "move> "
	m.moveInput.CharLimit = 5
	m.moveInput.Width = 8

	m.refreshSpin = spinner.New()
	m.refreshSpin.Spinner = spinner.Dot

	m.helpModel = help.New()
}

func (m *Model) syncBubbleData() {
	todayItems := make([]list.Item, 0, len(m.Today.Items))
	for _, item := range m.Today.Items {
		desc := fmt.Sprintf("%s | %s", item.TriggerAt.Format("15:04"), item.Reminder.Status)
		if item.Shifted {
			desc += " | shifted"
		}
		todayItems = append(todayItems, listItem{title: item.Reminder.Message, description: desc})
	}
	m.todayList.SetItems(todayItems)
	if len(todayItems) > 0 && m.Today.Cursor < len(todayItems) {
		m.todayList.Select(m.Today.Cursor)
	}

	rows := make([]table.Row, 0, len(m.Calendar.Anchors))
	for _, anchor := range m.Calendar.Anchors {
		rows = append(rows, table.Row{anchor.Start, anchor.End, anchor.Title, strings.Join(anchor.Tags, ",")})
	}
	m.calendarTable.SetRows(rows)
	if len(rows) > 0 && m.Calendar.Cursor < len(rows) {
		m.calendarTable.SetCursor(m.Calendar.Cursor)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}
	if m.Calendar.MoveActive {
		m.moveInput.Focus()
	}
}
