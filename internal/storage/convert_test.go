package storage

import (
	"testing"
	"time"

	"github.com/mkotal/anchora/internal/model"
)

func TestReminderConversionDoesNotAliasPointers(t *testing.T) {
	offset := -10
	until := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	row := Reminder{
		ID:             "rem-1",
		AnchorID:       "anchor-1",
		Status:         "Snoozed",
		Exploratory:    true,
		OriginalOffset: &offset,
		SnoozedUntil:   &until,
		Outcomes:       []string{"snoozed"},
	}

	domain := row.ToModel()
	*row.OriginalOffset = -99
	if *domain.OriginalOffset != -10 {
		t.Fatalf("original offset aliased: %d", *domain.OriginalOffset)
	}
	if domain.Outcomes[0] != model.OutcomeSnoozed {
		t.Fatalf("outcome = %s, want snoozed", domain.Outcomes[0])
	}

	back := ReminderFromModel(domain, time.Now())
	if back.Status != "Snoozed" || back.OriginalOffset == nil || *back.OriginalOffset != -10 {
		t.Fatalf("round trip lost fields: %+v", back)
	}
}

func TestAnchorConversionCarriesWeekday(t *testing.T) {
	row := Anchor{ID: "a", Day: int(time.Wednesday), Title: "Yoga", StartTime: "07:00", EndTime: "08:00"}
	domain := row.ToModel()
	if domain.Day != time.Wednesday || domain.Start != "07:00" {
		t.Fatalf("unexpected anchor: %+v", domain)
	}
	back := AnchorFromModel(domain, time.Now())
	if back.Day != int(time.Wednesday) || back.EndTime != "08:00" {
		t.Fatalf("unexpected row: %+v", back)
	}
}
