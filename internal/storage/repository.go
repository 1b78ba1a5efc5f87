package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateAnchor(ctx context.Context, in Anchor) error
	GetAnchor(ctx context.Context, id string) (Anchor, error)
	UpdateAnchor(ctx context.Context, in Anchor) error
	DeleteAnchor(ctx context.Context, id string) error
	ListAnchors(ctx context.Context, filter AnchorListFilter) ([]Anchor, error)

	CreateReminder(ctx context.Context, in Reminder) error
	GetReminder(ctx context.Context, id string) (Reminder, error)
	UpdateReminder(ctx context.Context, in Reminder) error
	DeleteReminder(ctx context.Context, id string) error
	ListReminders(ctx context.Context, filter ReminderListFilter) ([]Reminder, error)

	UpsertDNDWindow(ctx context.Context, in DNDWindow) error
	GetDNDWindow(ctx context.Context, day int) (DNDWindow, error)
	DeleteDNDWindow(ctx context.Context, day int) error
	ListDNDWindows(ctx context.Context) ([]DNDWindow, error)

	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, in Settings) error
}

// KV is the schemaless side of the store, used for the completion-history
// blob. Get's second return reports presence so a missing key is not an
// error.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
