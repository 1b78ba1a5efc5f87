package update

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkotal/anchora/internal/history"
	"github.com/mkotal/anchora/internal/model"
	"github.com/mkotal/anchora/internal/schedule"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC) // Monday
	return func() time.Time { return at }
}

type memoryKV struct {
	values map[string]string
}

func newMemoryKV() *memoryKV { return &memoryKV{values: make(map[string]string)} }

func (m *memoryKV) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) Set(key, value string) error {
	m.values[key] = value
	return nil
}

type recordingPersister struct {
	reminders []model.SmartReminder
	anchors   []model.AnchorEvent
	settings  int
}

func (p *recordingPersister) SaveReminder(r model.SmartReminder) error {
	p.reminders = append(p.reminders, r)
	return nil
}

func (p *recordingPersister) SaveAnchor(a model.AnchorEvent) error {
	p.anchors = append(p.anchors, a)
	return nil
}

func (p *recordingPersister) SaveSettings(float64, bool, *time.Time) error {
	p.settings++
	return nil
}

func fixtureEngine(t *testing.T) *schedule.Engine {
	t.Helper()
	engine := schedule.NewEngineWithClock(fixedClock())
	if err := engine.UpsertAnchor(model.AnchorEvent{
		ID:    "anchor-gym",
		Day:   time.Monday,
		Title: "Gym",
		Start: "09:00",
		End:   "10:00",
	}); err != nil {
		t.Fatalf("upsert anchor: %v", err)
	}
	if err := engine.UpsertReminder(model.SmartReminder{
		ID:            "rem-bag",
		AnchorID:      "anchor-gym",
		OffsetMinutes: -10,
		Message:       "pack gym bag",
		Status:        model.ReminderActive,
	}); err != nil {
		t.Fatalf("upsert reminder: %v", err)
	}
	return engine
}

func fixtureModel(t *testing.T) (Model, *recordingPersister) {
	t.Helper()
	persister := &recordingPersister{}
	m := NewModel(fixtureEngine(t), history.NewStore(newMemoryKV())).WithClock(fixedClock())
	m.persister = persister
	return m, persister
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("update returned unexpected model type %T", next)
		}
	}
	return m
}

func TestTodayListsReminderAtResolvedTrigger(t *testing.T) {
	m, _ := fixtureModel(t)

	if len(m.Today.Items) != 1 {
		t.Fatalf("expected one active reminder, got %d", len(m.Today.Items))
	}
	got := m.Today.Items[0]
	want := time.Date(2026, 3, 2, 8, 50, 0, 0, time.UTC)
	if !got.TriggerAt.Equal(want) {
		t.Fatalf("trigger = %v, want %v", got.TriggerAt, want)
	}
	if got.Shifted {
		t.Fatal("trigger outside DND must not be shifted")
	}
}

func TestMarkDoneRemovesFromTodayAndPersists(t *testing.T) {
	m, persister := fixtureModel(t)

	m = update(t, m, "d")
	if len(m.Today.Items) != 0 {
		t.Fatalf("expected empty today list after done, got %d items", len(m.Today.Items))
	}
	if len(persister.reminders) != 1 || persister.reminders[0].Status != model.ReminderDone {
		t.Fatalf("expected persisted done reminder, got %+v", persister.reminders)
	}
}

func TestSnoozeKeyKeepsReminderListed(t *testing.T) {
	m, _ := fixtureModel(t)

	m = update(t, m, "s")
	if len(m.Today.Items) != 1 {
		t.Fatalf("snoozed reminder should stay listed, got %d items", len(m.Today.Items))
	}
	rem := m.Today.Items[0].Reminder
	if rem.Status != model.ReminderSnoozed {
		t.Fatalf("status = %s, want Snoozed", rem.Status)
	}
	want := time.Date(2026, 3, 2, 8, 15, 0, 0, time.UTC)
	if !m.Today.Items[0].TriggerAt.Equal(want) {
		t.Fatalf("snoozed trigger = %v, want %v", m.Today.Items[0].TriggerAt, want)
	}
}

func TestPauseAllEmptiesTodayAndSavesSettings(t *testing.T) {
	m, persister := fixtureModel(t)

	m = update(t, m, "P")
	if len(m.Today.Items) != 0 {
		t.Fatalf("expected no reminders while paused, got %d", len(m.Today.Items))
	}
	if persister.settings != 1 {
		t.Fatalf("expected settings persisted once, got %d", persister.settings)
	}
	until := m.Engine.PauseUntil()
	want := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	if until == nil || !until.Equal(want) {
		t.Fatalf("pause until = %v, want %v", until, want)
	}
}

func TestUndoRestoresAfterDone(t *testing.T) {
	m, _ := fixtureModel(t)

	m = update(t, m, "d", "u")
	if len(m.Today.Items) != 1 {
		t.Fatalf("expected reminder restored after undo, got %d items", len(m.Today.Items))
	}
	if m.Today.Items[0].Reminder.Status != model.ReminderActive {
		t.Fatalf("status = %s, want Active", m.Today.Items[0].Reminder.Status)
	}
}

func TestPaletteSnoozeCommand(t *testing.T) {
	m, _ := fixtureModel(t)

	m = update(t, m, "/")
	if !m.Palette.Active {
		t.Fatal("palette should be active")
	}
	m = update(t, m, "snooze rem-bag 25", "enter")
	if m.Palette.Active {
		t.Fatal("palette should close after execute")
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error status: %s", m.Status.Text)
	}
	rem, ok := m.Engine.Reminder("rem-bag")
	if !ok || rem.Status != model.ReminderSnoozed {
		t.Fatalf("expected snoozed reminder, got %+v", rem)
	}
}

func TestPaletteLogAndEstimate(t *testing.T) {
	m, _ := fixtureModel(t)

	for i := 0; i < 6; i++ {
		m = update(t, m, "/", "log deep normal 3 55", "enter")
		if m.Status.IsError {
			t.Fatalf("log %d failed: %s", i, m.Status.Text)
		}
	}
	if got := len(m.History.Records(model.EnergyDeep)); got != 6 {
		t.Fatalf("expected 6 deep records, got %d", got)
	}

	m = update(t, m, "/", "estimate deep 3", "enter")
	if m.CurrentView != ViewEstimate {
		t.Fatalf("view = %s, want Estimate", m.CurrentView)
	}
	if m.Estimate.Result == nil {
		t.Fatal("expected an estimate result")
	}
	if m.Estimate.Result.P50Minutes <= 0 || m.Estimate.Result.P90Minutes < m.Estimate.Result.P50Minutes {
		t.Fatalf("implausible estimate: %+v", m.Estimate.Result)
	}
}

func TestCalendarMoveWithoutConflict(t *testing.T) {
	m, persister := fixtureModel(t)

	m = update(t, m, "2")
	if m.CurrentView != ViewCalendar {
		t.Fatalf("view = %s, want Calendar", m.CurrentView)
	}
	if len(m.Calendar.Anchors) != 1 {
		t.Fatalf("expected one Monday anchor, got %d", len(m.Calendar.Anchors))
	}
	m = update(t, m, "m", "11:00", "enter")
	if m.Conflict.Active {
		t.Fatal("clean move must not raise a conflict")
	}
	anchor, _ := m.Engine.Anchor("anchor-gym")
	if anchor.Start != "11:00" || anchor.End != "12:00" {
		t.Fatalf("anchor = %s-%s, want 11:00-12:00", anchor.Start, anchor.End)
	}
	if len(persister.anchors) != 1 {
		t.Fatalf("expected anchor persisted once, got %d", len(persister.anchors))
	}
}

func TestCalendarMoveConflictShiftPreservesDuration(t *testing.T) {
	m, _ := fixtureModel(t)
	if err := m.Engine.UpsertAnchor(model.AnchorEvent{
		ID:    "anchor-standup",
		Day:   time.Monday,
		Title: "Standup",
		Start: "10:00",
		End:   "10:30",
	}); err != nil {
		t.Fatalf("upsert anchor: %v", err)
	}
	m.refreshCalendar()

	m = update(t, m, "2")
	// cursor 0 is Gym (09:00) after day sort
	m = update(t, m, "m", "10:15", "enter")
	if !m.Conflict.Active {
		t.Fatal("overlapping move must raise a conflict")
	}
	m = update(t, m, "s")
	if m.Conflict.Active {
		t.Fatal("conflict should clear after resolution")
	}
	anchor, _ := m.Engine.Anchor("anchor-gym")
	if anchor.Start != "10:30" || anchor.End != "11:30" {
		t.Fatalf("anchor = %s-%s, want 10:30-11:30", anchor.Start, anchor.End)
	}
}

func TestTriggerFiredMsgAppendsLogAndNotifies(t *testing.T) {
	m, _ := fixtureModel(t)

	ev := schedule.TriggerEvent{
		ReminderID: "rem-bag",
		AnchorID:   "anchor-gym",
		Message:    "pack gym bag",
		TriggerAt:  time.Date(2026, 3, 2, 8, 50, 0, 0, time.UTC),
	}
	next, _ := m.Update(TriggerFiredMsg{Event: ev})
	m = next.(Model)
	if len(m.TriggerLog) != 1 || m.TriggerLog[0].ReminderID != "rem-bag" {
		t.Fatalf("unexpected trigger log: %+v", m.TriggerLog)
	}
	if len(m.Notifications) == 0 {
		t.Fatal("expected a notification for the fired trigger")
	}
}

func TestQuitKeySetsQuitting(t *testing.T) {
	m, _ := fixtureModel(t)
	m = update(t, m, "q")
	if !m.Quitting {
		t.Fatal("expected quitting after q")
	}
}
