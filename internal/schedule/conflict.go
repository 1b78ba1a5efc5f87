package schedule

import (
	"time"

	"github.com/mkotal/anchora/internal/model"
	"github.com/mkotal/anchora/internal/timeutil"
)

type ConflictKind string

const (
	ConflictDND     ConflictKind = "dnd"
	ConflictOverlap ConflictKind = "overlap"
)

type Resolution string

const (
	// ResolutionShift moves the anchor to start right after the blocking
	// range (DND window end or overlapping anchor end), duration preserved.
	ResolutionShift Resolution = "shift"
	// ResolutionKeep commits the move despite the overlap.
	ResolutionKeep Resolution = "keep"
	ResolutionCancel Resolution = "cancel"
)

// Conflict describes the first problem found for a proposed anchor move.
// Only one conflict is surfaced per attempt; a move that introduces another
// conflict is re-checked on the next mutation.
type Conflict struct {
	Kind          ConflictKind
	AnchorID      string
	TargetDay     time.Weekday
	ProposedStart string
	Window        *model.DNDWindow // set for ConflictDND
	OverlapsWith  string           // anchor id, set for ConflictOverlap
	Options       []Resolution
}

// DetectConflict checks a proposed move of an anchor to day (and optionally
// a new start, "" keeping the current one). The DND check runs first and
// takes precedence over anchor overlap. A nil result means the move is
// clean; a missing anchor also yields nil so callers can treat it as a
// no-op.
func (e *Engine) DetectConflict(anchorID string, day time.Weekday, newStart string) *Conflict {
	anchor, ok := e.anchors[anchorID]
	if !ok {
		return nil
	}

	start := anchor.StartMinutes()
	if newStart != "" {
		parsed, err := timeutil.ToMinutes(newStart)
		if err != nil {
			return nil
		}
		start = parsed
	}
	end := start + anchor.DurationMinutes()
	proposed := timeutil.FromMinutes(start)

	if window, exists := e.dnd[day]; exists && windowIntersects(window, start, end) {
		w := window
		return &Conflict{
			Kind:          ConflictDND,
			AnchorID:      anchorID,
			TargetDay:     day,
			ProposedStart: proposed,
			Window:        &w,
			Options:       []Resolution{ResolutionShift, ResolutionCancel},
		}
	}

	for _, other := range e.AnchorsOn(day) {
		if other.ID == anchorID {
			continue
		}
		if timeutil.Overlap(start, end, other.StartMinutes(), other.EndMinutes()) {
			return &Conflict{
				Kind:          ConflictOverlap,
				AnchorID:      anchorID,
				TargetDay:     day,
				ProposedStart: proposed,
				OverlapsWith:  other.ID,
				Options:       []Resolution{ResolutionShift, ResolutionKeep, ResolutionCancel},
			}
		}
	}
	return nil
}

// Resolve applies the chosen resolution. Every path funnels through
// MoveAnchor, so the anchor's duration survives any shift. Resolving
// against an anchor that has since disappeared is a no-op.
func (e *Engine) Resolve(c *Conflict, choice Resolution) bool {
	if c == nil || choice == ResolutionCancel {
		return false
	}
	if _, ok := e.anchors[c.AnchorID]; !ok {
		return false
	}

	switch {
	case c.Kind == ConflictDND && choice == ResolutionShift:
		if c.Window == nil {
			return false
		}
		return e.MoveAnchor(c.AnchorID, c.TargetDay, timeutil.FromMinutes(c.Window.EndMinutes()))
	case c.Kind == ConflictOverlap && choice == ResolutionShift:
		other, ok := e.anchors[c.OverlapsWith]
		if !ok {
			// Blocking anchor deleted concurrently; the plain move stands.
			return e.MoveAnchor(c.AnchorID, c.TargetDay, c.ProposedStart)
		}
		return e.MoveAnchor(c.AnchorID, c.TargetDay, other.End)
	case c.Kind == ConflictOverlap && choice == ResolutionKeep:
		return e.MoveAnchor(c.AnchorID, c.TargetDay, c.ProposedStart)
	default:
		return false
	}
}

// MoveAnchor relocates an anchor to a day and optional new start ("" keeps
// the current start time), recomputing the end as start + duration.
func (e *Engine) MoveAnchor(anchorID string, day time.Weekday, newStart string) bool {
	anchor, ok := e.anchors[anchorID]
	if !ok {
		return false
	}

	duration := anchor.DurationMinutes()
	start := anchor.StartMinutes()
	if newStart != "" {
		parsed, err := timeutil.ToMinutes(newStart)
		if err != nil {
			return false
		}
		start = parsed
	}

	// Keep the whole event inside the day so End stays after Start.
	if start+duration > timeutil.MinutesPerDay {
		start = timeutil.MinutesPerDay - duration
	}

	anchor.Day = day
	anchor.Start = timeutil.FromMinutes(start)
	anchor.End = timeutil.FromMinutes(start + duration)
	e.anchors[anchorID] = anchor
	return true
}

// windowIntersects checks an anchor's [start,end) range against a DND
// window, splitting an overnight window into its two same-day halves.
func windowIntersects(w model.DNDWindow, start, end int) bool {
	ws, we := w.StartMinutes(), w.EndMinutes()
	if w.Wraps() {
		return timeutil.Overlap(start, end, ws, timeutil.MinutesPerDay) ||
			timeutil.Overlap(start, end, 0, we)
	}
	return timeutil.Overlap(start, end, ws, we)
}
