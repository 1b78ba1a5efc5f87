package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/mkotal/anchora/internal/estimate"
	"github.com/mkotal/anchora/internal/history"
	"github.com/mkotal/anchora/internal/model"
	"github.com/mkotal/anchora/internal/schedule"
)

type View string

const (
	ViewToday    View = "Today"
	ViewCalendar View = "Calendar"
	ViewEstimate View = "Estimate"
	ViewStats    View = "Stats"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today    string
	Calendar string
	Estimate string
	Stats    string
	Help     string
	Quit     string
}

// Persister saves engine mutations behind the UI. The TUI never talks to
// the database directly; the program wires a storage-backed implementation
// in main and tests use NoopPersister.
type Persister interface {
	SaveReminder(model.SmartReminder) error
	SaveAnchor(model.AnchorEvent) error
	SaveSettings(sensitivity float64, learningEnabled bool, pauseUntil *time.Time) error
}

type NoopPersister struct{}

func (NoopPersister) SaveReminder(model.SmartReminder) error { return nil }

func (NoopPersister) SaveAnchor(model.AnchorEvent) error { return nil }

func (NoopPersister) SaveSettings(float64, bool, *time.Time) error { return nil }

type Model struct {
	CurrentView View
	Engine      *schedule.Engine
	History     *history.Store
	Dispatcher  *schedule.Dispatcher

	Today    TodayState
	Calendar CalendarState
	Estimate EstimateState
	Conflict ConflictState
	Palette  CommandPaletteState

	Sensitivity     float64
	LearningEnabled bool

	TriggerLog     []schedule.TriggerEvent
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	notifier       DesktopNotifier
	persister      Persister
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	now            func() time.Time

	// Bubble components used for rich TUI controls
	todayList     list.Model
	calendarTable table.Model
	commandInput  textinput.Model
	moveInput     textinput.Model
	refreshSpin   spinner.Model
	helpModel     help.Model
	spinnerActive bool
}

type TodayState struct {
	Items  []schedule.ActiveReminder
	Cursor int
}

type CalendarState struct {
	FocusDay   time.Weekday
	Anchors    []model.AnchorEvent
	Cursor     int
	MoveActive bool
}

type EstimateState struct {
	Category model.EnergyCategory
	SubSteps int
	Result   *estimate.Result
	Computed bool
}

type ConflictState struct {
	Active   bool
	Conflict *schedule.Conflict
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type TriggerFiredMsg struct {
	Event schedule.TriggerEvent
}

func NewModel(engine *schedule.Engine, store *history.Store) Model {
	if engine == nil {
		engine = schedule.NewEngine()
	}
	m := Model{
		CurrentView:     ViewToday,
		Engine:          engine,
		History:         store,
		Sensitivity:     estimate.DefaultSensitivity,
		LearningEnabled: true,
		Estimate: EstimateState{
			Category: model.EnergyDeep,
			SubSteps: 3,
		},
		notifier:  NoopDesktopNotifier{},
		persister: NoopPersister{},
		now:       time.Now,
		Keys: GlobalKeyMap{
			Today:    "1",
			Calendar: "2",
			Estimate: "3",
			Stats:    "4",
			Help:     "?",
			Quit:     "q",
		},
	}
	m.Calendar.FocusDay = m.now().Weekday()
	m.initBubbleComponents()
	m.refreshToday()
	m.refreshCalendar()
	m.syncBubbleData()
	return m
}

func NewModelWithConfig(engine *schedule.Engine, store *history.Store, dispatcher *schedule.Dispatcher, persister Persister, notifier DesktopNotifier, cfg RuntimeConfig) Model {
	m := NewModel(engine, store)
	m.Dispatcher = dispatcher
	m.DesktopEnabled = cfg.DesktopNotifications
	if persister != nil {
		m.persister = persister
	}
	if notifier != nil {
		m.notifier = notifier
	}
	if cfg.Sensitivity > 0 && cfg.Sensitivity < 1 {
		m.Sensitivity = cfg.Sensitivity
	}
	m.LearningEnabled = cfg.LearningEnabled
	return m
}

// WithClock injects a deterministic clock, test-only.
func (m Model) WithClock(now func() time.Time) Model {
	if now != nil {
		m.now = now
		m.Calendar.FocusDay = now().Weekday()
		m.refreshCalendar()
	}
	return m
}

func (m *Model) refreshToday() {
	if m.Engine == nil {
		m.Today.Items = nil
		return
	}
	m.Today.Items = m.Engine.ActiveReminders()
	if m.Today.Cursor >= len(m.Today.Items) {
		m.Today.Cursor = len(m.Today.Items) - 1
	}
	if m.Today.Cursor < 0 {
		m.Today.Cursor = 0
	}
}

func (m *Model) refreshCalendar() {
	if m.Engine == nil {
		m.Calendar.Anchors = nil
		return
	}
	m.Calendar.Anchors = m.Engine.AnchorsOn(m.Calendar.FocusDay)
	if m.Calendar.Cursor >= len(m.Calendar.Anchors) {
		m.Calendar.Cursor = len(m.Calendar.Anchors) - 1
	}
	if m.Calendar.Cursor < 0 {
		m.Calendar.Cursor = 0
	}
}

// reloadDispatcher pushes the engine's current trigger queue into the
// dispatcher so a mutation never leaves a stale trigger pending.
func (m *Model) reloadDispatcher() {
	if m.Dispatcher == nil || m.Engine == nil {
		return
	}
	if err := m.Dispatcher.Reload(m.Engine.ActiveReminders()); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("dispatcher reload failed: %v", err), IsError: true}
	}
}

func (m *Model) persistReminder(id string) {
	if m.Engine == nil {
		return
	}
	rem, ok := m.Engine.Reminder(id)
	if !ok {
		return
	}
	if err := m.persister.SaveReminder(rem); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("save reminder failed: %v", err), IsError: true}
	}
}

func (m *Model) persistAnchor(id string) {
	if m.Engine == nil {
		return
	}
	anchor, ok := m.Engine.Anchor(id)
	if !ok {
		return
	}
	if err := m.persister.SaveAnchor(anchor); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("save anchor failed: %v", err), IsError: true}
	}
}

func (m *Model) persistSettings() {
	var pause *time.Time
	if m.Engine != nil {
		pause = m.Engine.PauseUntil()
	}
	if err := m.persister.SaveSettings(m.Sensitivity, m.LearningEnabled, pause); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("save settings failed: %v", err), IsError: true}
	}
}

func (m Model) currentReminder() (schedule.ActiveReminder, bool) {
	if len(m.Today.Items) == 0 {
		return schedule.ActiveReminder{}, false
	}
	if m.Today.Cursor < 0 || m.Today.Cursor >= len(m.Today.Items) {
		return schedule.ActiveReminder{}, false
	}
	return m.Today.Items[m.Today.Cursor], true
}

func (m Model) currentAnchor() (model.AnchorEvent, bool) {
	if len(m.Calendar.Anchors) == 0 {
		return model.AnchorEvent{}, false
	}
	if m.Calendar.Cursor < 0 || m.Calendar.Cursor >= len(m.Calendar.Anchors) {
		return model.AnchorEvent{}, false
	}
	return m.Calendar.Anchors[m.Calendar.Cursor], true
}
