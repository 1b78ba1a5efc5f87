package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/mkotal/anchora/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	}) + "\n" + views.RenderMarkdown(commandReference)
}

const commandReference = `# Commands

- ` + "`/snooze <id> <minutes>`" + ` push a reminder out
- ` + "`/done <id>`" + `, ` + "`/ignore <id>`" + `, ` + "`/later <id>`" + `
- ` + "`/pause <id|all>`" + ` quiet until tomorrow morning
- ` + "`/lock <id>`" + `, ` + "`/revert <id>`" + ` control offset exploration
- ` + "`/move <anchor> <HH:MM>`" + ` reschedule an anchor
- ` + "`/estimate <category> <steps>`" + `, ` + "`/log <category> <difficulty> <steps> <minutes>`" + `
- ` + "`/undo`" + `, ` + "`/reset`" + `
`

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Today, Action: "switch to Today"},
		{Key: m.Keys.Calendar, Action: "switch to Calendar"},
		{Key: m.Keys.Estimate, Action: "switch to Estimate"},
		{Key: m.Keys.Stats, Action: "switch to Stats"},
		{Key: "/", Action: "open command palette"},
		{Key: "S", Action: "refresh reminders"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewToday:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "s", Action: "snooze 15m"},
			{Key: "d", Action: "mark done"},
			{Key: "i", Action: "ignore"},
			{Key: "t", Action: "later today"},
			{Key: "p/P", Action: "pause one / pause all until tomorrow"},
			{Key: "L", Action: "toggle offset lock"},
			{Key: "e/r", Action: "explore earlier offset / revert"},
			{Key: "u", Action: "undo last change"},
		}
	case ViewCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next day"},
			{Key: "j/k", Action: "move anchor cursor"},
			{Key: "m", Action: "move selected anchor"},
		}
	case ViewEstimate:
		return []KeyBinding{
			{Key: "c", Action: "cycle category"},
			{Key: "+/-", Action: "adjust sub-steps"},
			{Key: "enter", Action: "compute estimate"},
		}
	case ViewStats:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
