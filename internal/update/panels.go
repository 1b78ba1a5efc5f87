package update

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mkotal/anchora/internal/schedule"
	"github.com/mkotal/anchora/internal/views"
)

func (m Model) renderTodayView() string {
	items := make([]views.TodayReminderData, 0, len(m.Today.Items))
	selectedID := ""
	if sel, ok := m.currentReminder(); ok {
		selectedID = sel.Reminder.ID
	}
	for _, item := range m.Today.Items {
		items = append(items, views.TodayReminderData{
			ID:          item.Reminder.ID,
			Message:     item.Reminder.Message,
			AnchorTitle: item.Anchor.Title,
			TriggerAt:   item.TriggerAt.Format("15:04"),
			Status:      string(item.Reminder.Status),
			Shifted:     item.Shifted,
			Locked:      item.Reminder.Locked,
			Exploratory: item.Reminder.Exploratory,
		})
	}
	paused := ""
	if m.Engine != nil {
		if until := m.Engine.PauseUntil(); until != nil && until.After(m.now()) {
			paused = until.Format("Mon 15:04")
		}
	}
	return views.RenderTodayPanel(views.TodayPanelData{
		ListView:    m.todayList.View(),
		Items:       items,
		SelectedID:  selectedID,
		PausedUntil: paused,
	})
}

func (m Model) renderCalendarView() string {
	items := make([]views.CalendarAnchorData, 0, len(m.Calendar.Anchors))
	var selected *views.CalendarAnchorData
	for _, anchor := range m.Calendar.Anchors {
		data := views.CalendarAnchorData{
			ID:       anchor.ID,
			Title:    anchor.Title,
			Day:      anchor.Day.String(),
			Start:    anchor.Start,
			End:      anchor.End,
			Prep:     anchor.PrepMinutes,
			Recovery: anchor.RecoveryMinutes,
			Tags:     anchor.Tags,
		}
		items = append(items, data)
	}
	if sel, ok := m.currentAnchor(); ok {
		for i := range items {
			if items[i].ID == sel.ID {
				selected = &items[i]
			}
		}
	}
	var dnd *views.DNDData
	if m.Engine != nil {
		if w, ok := m.Engine.DNDWindow(m.Calendar.FocusDay); ok {
			dnd = &views.DNDData{Start: w.Start, End: w.End}
		}
	}
	panel := views.RenderCalendarPanel(views.CalendarPanelData{
		FocusDay:  m.Calendar.FocusDay.String(),
		TableView: m.calendarTable.View(),
		Items:     items,
		Selected:  selected,
		DND:       dnd,
	})
	if m.Calendar.MoveActive {
		panel += "\nmove> " + m.moveInput.Value()
	}
	return panel
}

func (m Model) renderEstimateView() string {
	data := views.EstimatePanelData{
		Category: string(m.Estimate.Category),
		SubSteps: m.Estimate.SubSteps,
	}
	if m.Estimate.Computed && m.Estimate.Result != nil {
		data.Available = true
		data.P50 = m.Estimate.Result.P50Minutes
		data.P90 = m.Estimate.Result.P90Minutes
		data.Confidence = string(m.Estimate.Result.Confidence)
		if m.History != nil {
			data.RecordCount = len(m.History.Records(m.Estimate.Category))
		}
	}
	return views.RenderEstimatePanel(data)
}

func (m Model) renderStatsView() string {
	if m.History == nil {
		return views.RenderStatsPanel(views.StatsPanelData{})
	}
	snapshot := m.History.Snapshot()
	rows := make([]views.StatsRowData, 0, len(snapshot))
	for cat, records := range snapshot {
		if len(records) == 0 {
			continue
		}
		total := 0
		for _, rec := range records {
			total += rec.ActualMinutes
		}
		rows = append(rows, views.StatsRowData{
			Category:       string(cat),
			Count:          len(records),
			AverageMinutes: total / len(records),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return views.RenderStatsPanel(views.StatsPanelData{Rows: rows})
}

func (m Model) renderConflictPrompt() string {
	if !m.Conflict.Active || m.Conflict.Conflict == nil {
		return ""
	}
	c := m.Conflict.Conflict
	desc := ""
	switch c.Kind {
	case schedule.ConflictDND:
		if c.Window != nil {
			desc = fmt.Sprintf("moving to %s lands in quiet hours %s-%s", c.ProposedStart, c.Window.Start, c.Window.End)
		} else {
			desc = fmt.Sprintf("moving to %s lands in quiet hours", c.ProposedStart)
		}
	case schedule.ConflictOverlap:
		desc = fmt.Sprintf("moving to %s overlaps anchor %s", c.ProposedStart, c.OverlapsWith)
	}
	return views.RenderConflictPrompt(views.ConflictPromptData{
		Active:      true,
		Kind:        string(c.Kind),
		Description: desc,
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return strings.TrimSpace(views.RenderNotification(n.Level, n.Body))
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		_ = m.notifier.Send(n)
	}
}
