package views

import (
	"fmt"
	"sort"
	"strings"
)

type TodayReminderData struct {
	ID          string
	Message     string
	AnchorTitle string
	TriggerAt   string
	Status      string
	Shifted     bool
	Locked      bool
	Exploratory bool
}

type TodayPanelData struct {
	ListView    string
	Items       []TodayReminderData
	SelectedID  string
	PausedUntil string
}

type CalendarAnchorData struct {
	ID       string
	Title    string
	Day      string
	Start    string
	End      string
	Prep     int
	Recovery int
	Tags     []string
}

type DNDData struct {
	Start string
	End   string
}

type CalendarPanelData struct {
	FocusDay  string
	TableView string
	Items     []CalendarAnchorData
	Selected  *CalendarAnchorData
	DND       *DNDData
}

type EstimatePanelData struct {
	Category    string
	SubSteps    int
	Available   bool
	P50         int
	P90         int
	Confidence  string
	RecordCount int
}

type StatsRowData struct {
	Category       string
	Count          int
	AverageMinutes int
}

type StatsPanelData struct {
	Rows []StatsRowData
}

type ConflictPromptData struct {
	Active      bool
	Kind        string
	Description string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTodayPanel(data TodayPanelData) string {
	var b strings.Builder
	b.WriteString("today:\n")
	b.WriteString("actions: [j/k]move [s]snooze [d]done [i]ignore [t]later [p]pause [L]lock [u]undo\n")
	if data.ListView != "" {
		b.WriteString(data.ListView + "\n")
	}
	if data.PausedUntil != "" {
		b.WriteString(fmt.Sprintf("paused until %s\n", data.PausedUntil))
	}
	if len(data.Items) == 0 {
		b.WriteString("(no reminders due)")
		return b.String()
	}
	for _, item := range data.Items {
		cursor := " "
		if data.SelectedID == item.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s", cursor, item.TriggerAt, item.Message))
		if item.AnchorTitle != "" {
			b.WriteString(fmt.Sprintf(" (%s)", item.AnchorTitle))
		}
		for _, badge := range reminderBadges(item) {
			b.WriteString(" " + badge)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString("calendar:\n")
	b.WriteString(fmt.Sprintf("focus: %s\n", data.FocusDay))
	b.WriteString("actions: [h/l]day [j/k]anchor [m]move\n")
	if data.TableView != "" {
		b.WriteString(data.TableView + "\n")
	}
	if data.DND != nil {
		b.WriteString(fmt.Sprintf("dnd: %s-%s\n", data.DND.Start, data.DND.End))
	}
	if len(data.Items) == 0 {
		b.WriteString("(no anchors)")
		return b.String()
	}

	items := make([]CalendarAnchorData, len(data.Items))
	copy(items, data.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Start < items[j].Start })
	for _, item := range items {
		cursor := " "
		if data.Selected != nil && data.Selected.ID == item.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s-%s %s", cursor, item.Start, item.End, item.Title))
		if item.Prep > 0 {
			b.WriteString(fmt.Sprintf(" prep:%dm", item.Prep))
		}
		if item.Recovery > 0 {
			b.WriteString(fmt.Sprintf(" recover:%dm", item.Recovery))
		}
		if len(item.Tags) > 0 {
			b.WriteString(" #" + strings.Join(item.Tags, " #"))
		}
		b.WriteString("\n")
	}

	if data.Selected != nil {
		b.WriteString("\nanchor-metadata:\n")
		b.WriteString(fmt.Sprintf("id: %s\n", data.Selected.ID))
		b.WriteString(fmt.Sprintf("when: %s %s-%s\n", data.Selected.Day, data.Selected.Start, data.Selected.End))
	}
	return strings.TrimSpace(b.String())
}

func RenderEstimatePanel(data EstimatePanelData) string {
	var b strings.Builder
	b.WriteString("estimate:\n")
	b.WriteString(fmt.Sprintf("category: %s | sub-steps: %d\n", data.Category, data.SubSteps))
	if !data.Available {
		b.WriteString("not enough history yet, log a few more completions")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("expected: %dm\n", data.P50))
	b.WriteString(fmt.Sprintf("safe bet: %dm\n", data.P90))
	b.WriteString(fmt.Sprintf("confidence: %s (%d records)", data.Confidence, data.RecordCount))
	return b.String()
}

func RenderStatsPanel(data StatsPanelData) string {
	var b strings.Builder
	b.WriteString("history:\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no completions logged)")
		return b.String()
	}
	for _, row := range data.Rows {
		b.WriteString(fmt.Sprintf("%-10s %3d logged, avg %dm\n", row.Category, row.Count, row.AverageMinutes))
	}
	return strings.TrimSpace(b.String())
}

func RenderConflictPrompt(data ConflictPromptData) string {
	if !data.Active {
		return ""
	}
	return fmt.Sprintf("conflict [%s]: %s\n[s]hift after  [k]eep anyway  [c]ancel move", strings.ToUpper(data.Kind), data.Description)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\nnotification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func reminderBadges(item TodayReminderData) []string {
	badges := make([]string, 0, 3)
	if item.Shifted {
		badges = append(badges, "[SHIFTED]")
	}
	if item.Locked {
		badges = append(badges, "[LOCKED]")
	}
	if item.Exploratory {
		badges = append(badges, "[EXPLORE]")
	}
	if item.Status == "Snoozed" {
		badges = append(badges, "[SNOOZED]")
	}
	return badges
}
