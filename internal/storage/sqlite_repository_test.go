package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "anchora-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func TestAnchorCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	anchor := Anchor{
		ID:        "anchor-1",
		Day:       1,
		Title:     "Morning workout",
		StartTime: "07:00",
		EndTime:   "08:00",
		Tags:      []string{"health"},
		CreatedAt: created,
	}
	if err := repo.CreateAnchor(ctx, anchor); err != nil {
		t.Fatalf("create anchor: %v", err)
	}

	got, err := repo.GetAnchor(ctx, anchor.ID)
	if err != nil {
		t.Fatalf("get anchor: %v", err)
	}
	if got.Title != anchor.Title || got.StartTime != "07:00" {
		t.Fatalf("unexpected anchor: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "health" {
		t.Fatalf("tags round trip failed: %v", got.Tags)
	}

	got.Day = 3
	got.StartTime = "09:00"
	got.EndTime = "10:00"
	if err := repo.UpdateAnchor(ctx, got); err != nil {
		t.Fatalf("update anchor: %v", err)
	}

	day := 3
	listed, err := repo.ListAnchors(ctx, AnchorListFilter{Day: &day})
	if err != nil {
		t.Fatalf("list anchors: %v", err)
	}
	if len(listed) != 1 || listed[0].StartTime != "09:00" {
		t.Fatalf("unexpected list result: %+v", listed)
	}

	if err := repo.DeleteAnchor(ctx, anchor.ID); err != nil {
		t.Fatalf("delete anchor: %v", err)
	}
	if _, err := repo.GetAnchor(ctx, anchor.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestReminderRoundTripPreservesHistories(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	until := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)
	original := -10

	rem := Reminder{
		ID:               "rem-1",
		AnchorID:         "anchor-1",
		OffsetMinutes:    -25,
		Message:          "pack gym bag",
		AllowExploration: true,
		Exploratory:      true,
		OriginalOffset:   &original,
		Status:           "Snoozed",
		SnoozeHistory:    []int{5, 15},
		SnoozedUntil:     &until,
		Outcomes:         []string{"snoozed", "snoozed"},
		CreatedAt:        created,
	}
	if err := repo.CreateReminder(ctx, rem); err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	got, err := repo.GetReminder(ctx, rem.ID)
	if err != nil {
		t.Fatalf("get reminder: %v", err)
	}
	if got.OriginalOffset == nil || *got.OriginalOffset != -10 {
		t.Fatalf("original offset = %v, want -10", got.OriginalOffset)
	}
	if got.SnoozedUntil == nil || !got.SnoozedUntil.Equal(until) {
		t.Fatalf("snoozed_until = %v, want %v", got.SnoozedUntil, until)
	}
	if len(got.SnoozeHistory) != 2 || got.SnoozeHistory[1] != 15 {
		t.Fatalf("snooze history = %v", got.SnoozeHistory)
	}
	if len(got.Outcomes) != 2 || got.Outcomes[0] != "snoozed" {
		t.Fatalf("outcomes = %v", got.Outcomes)
	}

	got.Status = "Active"
	got.SnoozedUntil = nil
	if err := repo.UpdateReminder(ctx, got); err != nil {
		t.Fatalf("update reminder: %v", err)
	}
	listed, err := repo.ListReminders(ctx, ReminderListFilter{Status: "Active"})
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(listed) != 1 || listed[0].SnoozedUntil != nil {
		t.Fatalf("unexpected list result: %+v", listed)
	}
}

func TestDNDWindowUpsert(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.UpsertDNDWindow(ctx, DNDWindow{Day: 1, StartTime: "22:00", EndTime: "07:00"}); err != nil {
		t.Fatalf("upsert dnd: %v", err)
	}
	if err := repo.UpsertDNDWindow(ctx, DNDWindow{Day: 1, StartTime: "23:00", EndTime: "06:30"}); err != nil {
		t.Fatalf("second upsert dnd: %v", err)
	}

	got, err := repo.GetDNDWindow(ctx, 1)
	if err != nil {
		t.Fatalf("get dnd: %v", err)
	}
	if got.StartTime != "23:00" || got.EndTime != "06:30" {
		t.Fatalf("upsert did not replace window: %+v", got)
	}

	all, err := repo.ListDNDWindows(ctx)
	if err != nil {
		t.Fatalf("list dnd: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected single window for day, got %d", len(all))
	}
}

func TestSettingsDefaultAndSave(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	defaults, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if defaults.Sensitivity != 0.3 || !defaults.LearningEnabled {
		t.Fatalf("unexpected defaults: %+v", defaults)
	}

	pause := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	if err := repo.SaveSettings(ctx, Settings{Sensitivity: 0.5, LearningEnabled: false, PauseUntil: &pause}); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	got, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings after save: %v", err)
	}
	if got.Sensitivity != 0.5 || got.LearningEnabled {
		t.Fatalf("unexpected settings: %+v", got)
	}
	if got.PauseUntil == nil || !got.PauseUntil.Equal(pause) {
		t.Fatalf("pause_until = %v, want %v", got.PauseUntil, pause)
	}
}

func TestSQLiteKVRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	kv, err := NewSQLiteKV(repo.DB())
	if err != nil {
		t.Fatalf("new kv: %v", err)
	}

	if _, ok, err := kv.Get("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := kv.Set("blob", `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set("blob", `{"a":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := kv.Get("blob")
	if err != nil || !ok || got != `{"a":2}` {
		t.Fatalf("get: %q ok=%v err=%v", got, ok, err)
	}
	if err := kv.Delete("blob"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get("blob"); ok {
		t.Fatal("key should be gone after delete")
	}
}
