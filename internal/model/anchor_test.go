package model

import (
	"testing"
	"time"
)

func TestAnchorEventValidateSuccess(t *testing.T) {
	anchor := AnchorEvent{
		ID:    "anchor-1",
		Day:   time.Monday,
		Title: "Morning workout",
		Start: "07:00",
		End:   "08:00",
	}
	if err := anchor.Validate(); err != nil {
		t.Fatalf("expected valid anchor, got error: %v", err)
	}
	if anchor.DurationMinutes() != 60 {
		t.Fatalf("duration = %d, want 60", anchor.DurationMinutes())
	}
}

func TestAnchorEventValidateRejectsInvertedRange(t *testing.T) {
	anchor := AnchorEvent{
		ID:    "anchor-1",
		Day:   time.Monday,
		Title: "Backwards",
		Start: "10:00",
		End:   "09:00",
	}
	if err := anchor.Validate(); err == nil {
		t.Fatal("expected error for end before start, got nil")
	}
}

func TestAnchorEventValidateRejectsBadClock(t *testing.T) {
	anchor := AnchorEvent{
		ID:    "anchor-1",
		Day:   time.Tuesday,
		Title: "Bad clock",
		Start: "25:00",
		End:   "26:00",
	}
	if err := anchor.Validate(); err == nil {
		t.Fatal("expected error for malformed clock, got nil")
	}
}

func TestDNDWindowContainsOvernight(t *testing.T) {
	window := DNDWindow{Day: time.Friday, Start: "23:00", End: "07:00"}
	if err := window.Validate(); err != nil {
		t.Fatalf("expected valid window, got error: %v", err)
	}
	if !window.Wraps() {
		t.Fatal("overnight window should report Wraps")
	}
	if !window.Contains(23*60 + 30) {
		t.Fatal("23:30 should be inside window")
	}
	if !window.Contains(3 * 60) {
		t.Fatal("03:00 should be inside window")
	}
	if window.Contains(12 * 60) {
		t.Fatal("12:00 should be outside window")
	}
}

func TestSmartReminderValidate(t *testing.T) {
	reminder := SmartReminder{
		ID:       "rem-1",
		AnchorID: "anchor-1",
		Status:   ReminderActive,
	}
	if err := reminder.Validate(); err != nil {
		t.Fatalf("expected valid reminder, got error: %v", err)
	}

	reminder.Status = ReminderStatus("Dormant")
	if err := reminder.Validate(); err == nil {
		t.Fatal("expected error for invalid status, got nil")
	}

	reminder.Status = ReminderActive
	reminder.Exploratory = true
	if err := reminder.Validate(); err == nil {
		t.Fatal("expected error for exploratory reminder without original offset, got nil")
	}
}

func TestSmartReminderCloneDoesNotAlias(t *testing.T) {
	until := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	orig := 10
	reminder := SmartReminder{
		ID:             "rem-1",
		AnchorID:       "anchor-1",
		Status:         ReminderSnoozed,
		SnoozeHistory:  []int{5, 10},
		Outcomes:       []Outcome{OutcomeSnoozed},
		SnoozedUntil:   &until,
		OriginalOffset: &orig,
	}
	clone := reminder.Clone()
	clone.SnoozeHistory[0] = 99
	*clone.SnoozedUntil = until.Add(time.Hour)
	*clone.OriginalOffset = -30

	if reminder.SnoozeHistory[0] != 5 {
		t.Fatal("clone aliases snooze history")
	}
	if !reminder.SnoozedUntil.Equal(until) {
		t.Fatal("clone aliases snoozed_until")
	}
	if *reminder.OriginalOffset != 10 {
		t.Fatal("clone aliases original offset")
	}
}
