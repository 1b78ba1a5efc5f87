package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateAnchor(ctx context.Context, in Anchor) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO anchors (id, day, title, start_time, end_time, prep_minutes, recovery_minutes, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Day, in.Title, in.StartTime, in.EndTime, in.PrepMinutes, in.RecoveryMinutes,
		jsonText(in.Tags), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetAnchor(ctx context.Context, id string) (Anchor, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, day, title, start_time, end_time, prep_minutes, recovery_minutes, tags, created_at
		FROM anchors WHERE id = ?`, id)
	anchor, err := scanAnchor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Anchor{}, ErrNotFound
		}
		return Anchor{}, err
	}
	return anchor, nil
}

func (r *SQLiteRepository) UpdateAnchor(ctx context.Context, in Anchor) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE anchors
		SET day = ?, title = ?, start_time = ?, end_time = ?, prep_minutes = ?, recovery_minutes = ?, tags = ?
		WHERE id = ?`,
		in.Day, in.Title, in.StartTime, in.EndTime, in.PrepMinutes, in.RecoveryMinutes,
		jsonText(in.Tags), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteAnchor(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM anchors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListAnchors(ctx context.Context, filter AnchorListFilter) ([]Anchor, error) {
	query := `SELECT id, day, title, start_time, end_time, prep_minutes, recovery_minutes, tags, created_at FROM anchors`
	args := make([]any, 0, 3)
	if filter.Day != nil {
		query += ` WHERE day = ?`
		args = append(args, *filter.Day)
	}
	query += ` ORDER BY day ASC, start_time ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Anchor, 0)
	for rows.Next() {
		anchor, scanErr := scanAnchor(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, anchor)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateReminder(ctx context.Context, in Reminder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminders (id, anchor_id, offset_minutes, message, locked, allow_exploration, exploratory,
			original_offset, status, snooze_history, snoozed_until, outcomes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.AnchorID, in.OffsetMinutes, in.Message,
		boolInt(in.Locked), boolInt(in.AllowExploration), boolInt(in.Exploratory),
		nullInt(in.OriginalOffset), in.Status, jsonText(in.SnoozeHistory), nullTime(in.SnoozedUntil),
		jsonText(in.Outcomes), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetReminder(ctx context.Context, id string) (Reminder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, anchor_id, offset_minutes, message, locked, allow_exploration, exploratory,
			original_offset, status, snooze_history, snoozed_until, outcomes, created_at
		FROM reminders WHERE id = ?`, id)
	item, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reminder{}, ErrNotFound
		}
		return Reminder{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateReminder(ctx context.Context, in Reminder) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET anchor_id = ?, offset_minutes = ?, message = ?, locked = ?, allow_exploration = ?, exploratory = ?,
			original_offset = ?, status = ?, snooze_history = ?, snoozed_until = ?, outcomes = ?
		WHERE id = ?`,
		in.AnchorID, in.OffsetMinutes, in.Message,
		boolInt(in.Locked), boolInt(in.AllowExploration), boolInt(in.Exploratory),
		nullInt(in.OriginalOffset), in.Status, jsonText(in.SnoozeHistory), nullTime(in.SnoozedUntil),
		jsonText(in.Outcomes), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteReminder(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListReminders(ctx context.Context, filter ReminderListFilter) ([]Reminder, error) {
	query := `SELECT id, anchor_id, offset_minutes, message, locked, allow_exploration, exploratory,
		original_offset, status, snooze_history, snoozed_until, outcomes, created_at FROM reminders`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.AnchorID != "" {
		clauses = append(clauses, "anchor_id = ?")
		args = append(args, filter.AnchorID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Reminder, 0)
	for rows.Next() {
		item, scanErr := scanReminder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpsertDNDWindow(ctx context.Context, in DNDWindow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dnd_windows (day, start_time, end_time) VALUES (?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET start_time = excluded.start_time, end_time = excluded.end_time`,
		in.Day, in.StartTime, in.EndTime,
	)
	return err
}

func (r *SQLiteRepository) GetDNDWindow(ctx context.Context, day int) (DNDWindow, error) {
	row := r.db.QueryRowContext(ctx, `SELECT day, start_time, end_time FROM dnd_windows WHERE day = ?`, day)
	var out DNDWindow
	if err := row.Scan(&out.Day, &out.StartTime, &out.EndTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DNDWindow{}, ErrNotFound
		}
		return DNDWindow{}, err
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteDNDWindow(ctx context.Context, day int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dnd_windows WHERE day = ?`, day)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListDNDWindows(ctx context.Context) ([]DNDWindow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT day, start_time, end_time FROM dnd_windows ORDER BY day ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DNDWindow, 0)
	for rows.Next() {
		var item DNDWindow
		if err := rows.Scan(&item.Day, &item.StartTime, &item.EndTime); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// GetSettings returns defaults when no row has been saved yet.
func (r *SQLiteRepository) GetSettings(ctx context.Context) (Settings, error) {
	row := r.db.QueryRowContext(ctx, `SELECT sensitivity, learning_enabled, pause_until FROM settings WHERE id = 1`)
	var out Settings
	var learning int
	var pause sql.NullString
	if err := row.Scan(&out.Sensitivity, &learning, &pause); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{Sensitivity: 0.3, LearningEnabled: true}, nil
		}
		return Settings{}, err
	}
	out.LearningEnabled = learning == 1
	pauseUntil, err := parseNullableTime(pause)
	if err != nil {
		return Settings{}, err
	}
	out.PauseUntil = pauseUntil
	return out, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, in Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, sensitivity, learning_enabled, pause_until) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET sensitivity = excluded.sensitivity,
			learning_enabled = excluded.learning_enabled, pause_until = excluded.pause_until`,
		in.Sensitivity, boolInt(in.LearningEnabled), nullTime(in.PauseUntil),
	)
	return err
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func jsonText(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnchor(s scanner) (Anchor, error) {
	var out Anchor
	var tags string
	var created string
	if err := s.Scan(&out.ID, &out.Day, &out.Title, &out.StartTime, &out.EndTime,
		&out.PrepMinutes, &out.RecoveryMinutes, &tags, &created); err != nil {
		return Anchor{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Anchor{}, err
	}
	out.CreatedAt = createdAt
	if err := json.Unmarshal([]byte(tags), &out.Tags); err != nil {
		return Anchor{}, fmt.Errorf("decode tags: %w", err)
	}
	return out, nil
}

func scanReminder(s scanner) (Reminder, error) {
	var out Reminder
	var locked, allowExploration, exploratory int
	var originalOffset sql.NullInt64
	var snoozeHistory, outcomes string
	var snoozedUntil sql.NullString
	var created string
	if err := s.Scan(&out.ID, &out.AnchorID, &out.OffsetMinutes, &out.Message,
		&locked, &allowExploration, &exploratory,
		&originalOffset, &out.Status, &snoozeHistory, &snoozedUntil, &outcomes, &created); err != nil {
		return Reminder{}, err
	}
	out.Locked = locked == 1
	out.AllowExploration = allowExploration == 1
	out.Exploratory = exploratory == 1
	if originalOffset.Valid {
		v := int(originalOffset.Int64)
		out.OriginalOffset = &v
	}
	until, err := parseNullableTime(snoozedUntil)
	if err != nil {
		return Reminder{}, err
	}
	out.SnoozedUntil = until
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Reminder{}, err
	}
	out.CreatedAt = createdAt
	if err := json.Unmarshal([]byte(snoozeHistory), &out.SnoozeHistory); err != nil {
		return Reminder{}, fmt.Errorf("decode snooze history: %w", err)
	}
	if err := json.Unmarshal([]byte(outcomes), &out.Outcomes); err != nil {
		return Reminder{}, fmt.Errorf("decode outcomes: %w", err)
	}
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
