package storage

import (
	"time"

	"github.com/mkotal/anchora/internal/model"
)

// Converters between flat storage rows and domain values. They live here
// so the TUI layer never sees row types and the repository never sees
// domain validation.

func (a Anchor) ToModel() model.AnchorEvent {
	return model.AnchorEvent{
		ID:              a.ID,
		Day:             time.Weekday(a.Day),
		Title:           a.Title,
		Start:           a.StartTime,
		End:             a.EndTime,
		PrepMinutes:     a.PrepMinutes,
		RecoveryMinutes: a.RecoveryMinutes,
		Tags:            append([]string(nil), a.Tags...),
	}
}

func AnchorFromModel(a model.AnchorEvent, createdAt time.Time) Anchor {
	return Anchor{
		ID:              a.ID,
		Day:             int(a.Day),
		Title:           a.Title,
		StartTime:       a.Start,
		EndTime:         a.End,
		PrepMinutes:     a.PrepMinutes,
		RecoveryMinutes: a.RecoveryMinutes,
		Tags:            append([]string(nil), a.Tags...),
		CreatedAt:       createdAt,
	}
}

func (w DNDWindow) ToModel() model.DNDWindow {
	return model.DNDWindow{
		Day:   time.Weekday(w.Day),
		Start: w.StartTime,
		End:   w.EndTime,
	}
}

func DNDWindowFromModel(w model.DNDWindow) DNDWindow {
	return DNDWindow{
		Day:       int(w.Day),
		StartTime: w.Start,
		EndTime:   w.End,
	}
}

func (r Reminder) ToModel() model.SmartReminder {
	out := model.SmartReminder{
		ID:               r.ID,
		AnchorID:         r.AnchorID,
		OffsetMinutes:    r.OffsetMinutes,
		Message:          r.Message,
		Locked:           r.Locked,
		AllowExploration: r.AllowExploration,
		Exploratory:      r.Exploratory,
		Status:           model.ReminderStatus(r.Status),
		SnoozeHistory:    append([]int(nil), r.SnoozeHistory...),
	}
	if r.OriginalOffset != nil {
		v := *r.OriginalOffset
		out.OriginalOffset = &v
	}
	if r.SnoozedUntil != nil {
		t := *r.SnoozedUntil
		out.SnoozedUntil = &t
	}
	if len(r.Outcomes) > 0 {
		out.Outcomes = make([]model.Outcome, 0, len(r.Outcomes))
		for _, o := range r.Outcomes {
			out.Outcomes = append(out.Outcomes, model.Outcome(o))
		}
	}
	return out
}

func ReminderFromModel(r model.SmartReminder, createdAt time.Time) Reminder {
	out := Reminder{
		ID:               r.ID,
		AnchorID:         r.AnchorID,
		OffsetMinutes:    r.OffsetMinutes,
		Message:          r.Message,
		Locked:           r.Locked,
		AllowExploration: r.AllowExploration,
		Exploratory:      r.Exploratory,
		Status:           string(r.Status),
		SnoozeHistory:    append([]int(nil), r.SnoozeHistory...),
		CreatedAt:        createdAt,
	}
	if r.OriginalOffset != nil {
		v := *r.OriginalOffset
		out.OriginalOffset = &v
	}
	if r.SnoozedUntil != nil {
		t := *r.SnoozedUntil
		out.SnoozedUntil = &t
	}
	if len(r.Outcomes) > 0 {
		out.Outcomes = make([]string, 0, len(r.Outcomes))
		for _, o := range r.Outcomes {
			out.Outcomes = append(out.Outcomes, string(o))
		}
	}
	return out
}
