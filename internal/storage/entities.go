package storage

import "time"

// Storage rows are deliberately flat: enums travel as strings and list
// fields as JSON text, so schema changes stay visible in the migrations.

type Anchor struct {
	ID              string
	Day             int
	Title           string
	StartTime       string
	EndTime         string
	PrepMinutes     int
	RecoveryMinutes int
	Tags            []string
	CreatedAt       time.Time
}

type DNDWindow struct {
	Day       int
	StartTime string
	EndTime   string
}

type Reminder struct {
	ID               string
	AnchorID         string
	OffsetMinutes    int
	Message          string
	Locked           bool
	AllowExploration bool
	Exploratory      bool
	OriginalOffset   *int
	Status           string
	SnoozeHistory    []int
	SnoozedUntil     *time.Time
	Outcomes         []string
	CreatedAt        time.Time
}

// Settings is the single-row application configuration state.
type Settings struct {
	Sensitivity     float64
	LearningEnabled bool
	PauseUntil      *time.Time
}

type AnchorListFilter struct {
	Day    *int
	Limit  int
	Offset int
}

type ReminderListFilter struct {
	AnchorID string
	Status   string
	Limit    int
	Offset   int
}
