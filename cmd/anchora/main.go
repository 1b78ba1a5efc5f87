package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkotal/anchora/internal/history"
	"github.com/mkotal/anchora/internal/model"
	"github.com/mkotal/anchora/internal/schedule"
	"github.com/mkotal/anchora/internal/storage"
	"github.com/mkotal/anchora/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "anchora failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := os.Getenv("ANCHORA_CONFIG")
	if cfgPath == "" {
		cfgPath = "anchora.toml"
	}
	cfg, err := update.LoadRuntimeConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = update.RuntimeConfigFromEnv(cfg)

	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()

	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx := context.Background()
	engine := schedule.NewEngine()
	if err := loadEngineState(ctx, repo, engine, &cfg); err != nil {
		return err
	}

	kv, err := storage.NewSQLiteKV(repo.DB())
	if err != nil {
		return fmt.Errorf("open kv store: %w", err)
	}
	store := history.NewStore(kv)

	dispatcher := schedule.NewDispatcher(cfg.DispatcherBuffer)
	dispatcher.Start()
	defer dispatcher.Stop()
	if err := dispatcher.Reload(engine.ActiveReminders()); err != nil {
		return fmt.Errorf("prime dispatcher: %w", err)
	}

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	m := update.NewModelWithConfig(engine, store, dispatcher, &repoPersister{ctx: ctx, repo: repo}, notifier, cfg)
	program := tea.NewProgram(m)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// loadEngineState hydrates the in-memory engine from the database: anchors,
// reminders, DND windows, and the persisted settings (which feed sensitivity
// and a still-running pause back into the session).
func loadEngineState(ctx context.Context, repo *storage.SQLiteRepository, engine *schedule.Engine, cfg *update.RuntimeConfig) error {
	anchors, err := repo.ListAnchors(ctx, storage.AnchorListFilter{})
	if err != nil {
		return fmt.Errorf("load anchors: %w", err)
	}
	for _, row := range anchors {
		if err := engine.UpsertAnchor(row.ToModel()); err != nil {
			return fmt.Errorf("anchor %s: %w", row.ID, err)
		}
	}

	reminders, err := repo.ListReminders(ctx, storage.ReminderListFilter{})
	if err != nil {
		return fmt.Errorf("load reminders: %w", err)
	}
	for _, row := range reminders {
		if err := engine.UpsertReminder(row.ToModel()); err != nil {
			return fmt.Errorf("reminder %s: %w", row.ID, err)
		}
	}

	windows, err := repo.ListDNDWindows(ctx)
	if err != nil {
		return fmt.Errorf("load dnd windows: %w", err)
	}
	for _, row := range windows {
		if err := engine.SetDNDWindow(row.ToModel()); err != nil {
			return fmt.Errorf("dnd window day %d: %w", row.Day, err)
		}
	}

	settings, err := repo.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings.Sensitivity > 0 && settings.Sensitivity < 1 {
		cfg.Sensitivity = settings.Sensitivity
	}
	cfg.LearningEnabled = settings.LearningEnabled
	if settings.PauseUntil != nil && settings.PauseUntil.After(time.Now()) {
		engine.PauseAllUntil(*settings.PauseUntil)
	}
	return nil
}

// repoPersister adapts the sqlite repository to the TUI's Persister. Saves
// upsert: a missing row is created, an existing one updated.
type repoPersister struct {
	ctx  context.Context
	repo *storage.SQLiteRepository
}

func (p *repoPersister) SaveReminder(r model.SmartReminder) error {
	row := storage.ReminderFromModel(r, time.Now().UTC())
	err := p.repo.UpdateReminder(p.ctx, row)
	if errors.Is(err, storage.ErrNotFound) {
		return p.repo.CreateReminder(p.ctx, row)
	}
	return err
}

func (p *repoPersister) SaveAnchor(a model.AnchorEvent) error {
	row := storage.AnchorFromModel(a, time.Now().UTC())
	err := p.repo.UpdateAnchor(p.ctx, row)
	if errors.Is(err, storage.ErrNotFound) {
		return p.repo.CreateAnchor(p.ctx, row)
	}
	return err
}

func (p *repoPersister) SaveSettings(sensitivity float64, learningEnabled bool, pauseUntil *time.Time) error {
	return p.repo.SaveSettings(p.ctx, storage.Settings{
		Sensitivity:     sensitivity,
		LearningEnabled: learningEnabled,
		PauseUntil:      pauseUntil,
	})
}
