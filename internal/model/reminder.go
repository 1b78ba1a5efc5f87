package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidReminderStatus = errors.New("model: invalid reminder status")

type ReminderStatus string

const (
	ReminderActive  ReminderStatus = "Active"
	ReminderSnoozed ReminderStatus = "Snoozed"
	ReminderDone    ReminderStatus = "Done"
	ReminderPaused  ReminderStatus = "Paused"
	ReminderIgnored ReminderStatus = "Ignored"
)

func (s ReminderStatus) IsValid() bool {
	switch s {
	case ReminderActive, ReminderSnoozed, ReminderDone, ReminderPaused, ReminderIgnored:
		return true
	default:
		return false
	}
}

// Outcome tags the result of one reminder interaction.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSnoozed Outcome = "snoozed"
	OutcomeIgnored Outcome = "ignored"
)

// SmartReminder fires relative to an anchor's start. AnchorID is a weak
// reference: the anchor may be deleted independently, and the scheduling
// engine drops reminders whose anchor no longer resolves.
type SmartReminder struct {
	ID               string         `json:"id"`
	AnchorID         string         `json:"anchor_id"`
	OffsetMinutes    int            `json:"offset_minutes"`
	Message          string         `json:"message"`
	Locked           bool           `json:"locked"`
	AllowExploration bool           `json:"allow_exploration"`
	Exploratory      bool           `json:"exploratory"`
	OriginalOffset   *int           `json:"original_offset,omitempty"`
	Status           ReminderStatus `json:"status"`
	SnoozeHistory    []int          `json:"snooze_history,omitempty"`
	SnoozedUntil     *time.Time     `json:"snoozed_until,omitempty"`
	Outcomes         []Outcome      `json:"outcomes,omitempty"`
}

func (r SmartReminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: reminder id is required")
	}
	if strings.TrimSpace(r.AnchorID) == "" {
		return errors.New("model: reminder anchor_id is required")
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReminderStatus, r.Status)
	}
	if r.Exploratory && r.OriginalOffset == nil {
		return errors.New("model: exploratory reminder requires original_offset")
	}
	return nil
}

// Clone deep-copies the reminder so undo snapshots do not alias history
// slices with the live value.
func (r SmartReminder) Clone() SmartReminder {
	out := r
	if r.SnoozeHistory != nil {
		out.SnoozeHistory = append([]int(nil), r.SnoozeHistory...)
	}
	if r.Outcomes != nil {
		out.Outcomes = append([]Outcome(nil), r.Outcomes...)
	}
	if r.SnoozedUntil != nil {
		t := *r.SnoozedUntil
		out.SnoozedUntil = &t
	}
	if r.OriginalOffset != nil {
		v := *r.OriginalOffset
		out.OriginalOffset = &v
	}
	return out
}
