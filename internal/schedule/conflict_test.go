package schedule

import (
	"testing"
	"time"

	"github.com/mkotal/anchora/internal/model"
)

func conflictEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngineWithClock(fixedClock())
	anchors := []model.AnchorEvent{
		{ID: "anchor-a", Day: time.Monday, Title: "Deep work", Start: "09:00", End: "11:00"},
		{ID: "anchor-b", Day: time.Tuesday, Title: "Gym", Start: "10:00", End: "11:00"},
	}
	for _, a := range anchors {
		if err := e.UpsertAnchor(a); err != nil {
			t.Fatalf("upsert anchor %s: %v", a.ID, err)
		}
	}
	return e
}

func TestDetectConflictCleanMove(t *testing.T) {
	e := conflictEngine(t)
	if c := e.DetectConflict("anchor-b", time.Wednesday, ""); c != nil {
		t.Fatalf("expected clean move, got %+v", c)
	}
}

func TestDetectConflictOverlapSurfacesBlockingAnchor(t *testing.T) {
	e := conflictEngine(t)
	c := e.DetectConflict("anchor-b", time.Monday, "10:30")
	if c == nil {
		t.Fatal("expected overlap conflict, got nil")
	}
	if c.Kind != ConflictOverlap {
		t.Fatalf("kind = %q, want overlap", c.Kind)
	}
	if c.OverlapsWith != "anchor-a" {
		t.Fatalf("overlapping anchor = %q, want anchor-a", c.OverlapsWith)
	}
	if len(c.Options) != 3 {
		t.Fatalf("overlap conflict should offer 3 options, got %v", c.Options)
	}
}

func TestDetectConflictTouchingAnchorsDoNotOverlap(t *testing.T) {
	e := conflictEngine(t)
	// anchor-a ends at 11:00; starting exactly there is clean.
	if c := e.DetectConflict("anchor-b", time.Monday, "11:00"); c != nil {
		t.Fatalf("touching ranges should not conflict, got %+v", c)
	}
}

func TestDetectConflictDNDTakesPrecedence(t *testing.T) {
	e := conflictEngine(t)
	if err := e.SetDNDWindow(model.DNDWindow{Day: time.Monday, Start: "09:30", End: "12:00"}); err != nil {
		t.Fatalf("set dnd: %v", err)
	}
	// 10:30 hits both the DND window and anchor-a; DND must win.
	c := e.DetectConflict("anchor-b", time.Monday, "10:30")
	if c == nil || c.Kind != ConflictDND {
		t.Fatalf("expected dnd conflict first, got %+v", c)
	}
	if len(c.Options) != 2 {
		t.Fatalf("dnd conflict should offer 2 options, got %v", c.Options)
	}
}

func TestDetectConflictOvernightDND(t *testing.T) {
	e := conflictEngine(t)
	if err := e.SetDNDWindow(model.DNDWindow{Day: time.Wednesday, Start: "22:00", End: "06:00"}); err != nil {
		t.Fatalf("set dnd: %v", err)
	}
	// 05:00-06:00 sits in the post-midnight half of the window.
	c := e.DetectConflict("anchor-b", time.Wednesday, "05:00")
	if c == nil || c.Kind != ConflictDND {
		t.Fatalf("expected dnd conflict in post-midnight half, got %+v", c)
	}
	// Midday is clear.
	if c := e.DetectConflict("anchor-b", time.Wednesday, "12:00"); c != nil {
		t.Fatalf("midday move should be clean, got %+v", c)
	}
}

func TestResolveOverlapShiftPreservesDuration(t *testing.T) {
	e := conflictEngine(t)
	c := e.DetectConflict("anchor-b", time.Monday, "10:30")
	if c == nil {
		t.Fatal("expected conflict")
	}
	if !e.Resolve(c, ResolutionShift) {
		t.Fatal("resolve shift should apply")
	}

	moved, _ := e.Anchor("anchor-b")
	if moved.Day != time.Monday {
		t.Fatalf("day = %v, want Monday", moved.Day)
	}
	if moved.Start != "11:00" {
		t.Fatalf("start = %q, want blocking anchor's end 11:00", moved.Start)
	}
	if moved.DurationMinutes() != 60 {
		t.Fatalf("duration = %d, want 60 preserved", moved.DurationMinutes())
	}
}

func TestResolveDNDShiftMovesToWindowEnd(t *testing.T) {
	e := conflictEngine(t)
	if err := e.SetDNDWindow(model.DNDWindow{Day: time.Monday, Start: "09:30", End: "12:00"}); err != nil {
		t.Fatalf("set dnd: %v", err)
	}
	c := e.DetectConflict("anchor-b", time.Monday, "10:30")
	if c == nil || c.Kind != ConflictDND {
		t.Fatalf("expected dnd conflict, got %+v", c)
	}
	if !e.Resolve(c, ResolutionShift) {
		t.Fatal("resolve shift should apply")
	}
	moved, _ := e.Anchor("anchor-b")
	if moved.Start != "12:00" || moved.End != "13:00" {
		t.Fatalf("moved to %s-%s, want 12:00-13:00", moved.Start, moved.End)
	}
}

func TestResolveKeepCommitsOverlap(t *testing.T) {
	e := conflictEngine(t)
	c := e.DetectConflict("anchor-b", time.Monday, "10:30")
	if !e.Resolve(c, ResolutionKeep) {
		t.Fatal("resolve keep should apply")
	}
	moved, _ := e.Anchor("anchor-b")
	if moved.Day != time.Monday || moved.Start != "10:30" {
		t.Fatalf("keep left anchor at %v %s", moved.Day, moved.Start)
	}
}

func TestResolveCancelLeavesAnchorAlone(t *testing.T) {
	e := conflictEngine(t)
	c := e.DetectConflict("anchor-b", time.Monday, "10:30")
	if e.Resolve(c, ResolutionCancel) {
		t.Fatal("cancel should not apply a move")
	}
	unchanged, _ := e.Anchor("anchor-b")
	if unchanged.Day != time.Tuesday || unchanged.Start != "10:00" {
		t.Fatalf("cancel mutated anchor: %v %s", unchanged.Day, unchanged.Start)
	}
}

func TestResolveMissingAnchorIsNoOp(t *testing.T) {
	e := conflictEngine(t)
	c := e.DetectConflict("anchor-b", time.Monday, "10:30")
	e.DeleteAnchor("anchor-b")
	if e.Resolve(c, ResolutionShift) {
		t.Fatal("resolving against a deleted anchor must be a no-op")
	}
}

func TestDetectConflictMissingAnchorIsNil(t *testing.T) {
	e := conflictEngine(t)
	if c := e.DetectConflict("ghost", time.Monday, "10:00"); c != nil {
		t.Fatalf("missing anchor should yield nil conflict, got %+v", c)
	}
}

func TestMoveAnchorKeepsStartWhenUnspecified(t *testing.T) {
	e := conflictEngine(t)
	if !e.MoveAnchor("anchor-b", time.Friday, "") {
		t.Fatal("move should apply")
	}
	moved, _ := e.Anchor("anchor-b")
	if moved.Day != time.Friday || moved.Start != "10:00" || moved.End != "11:00" {
		t.Fatalf("move without start changed times: %v %s-%s", moved.Day, moved.Start, moved.End)
	}
}
