package history

import (
	"errors"
	"testing"
	"time"

	"github.com/mkotal/anchora/internal/model"
)

type memoryKV struct {
	values map[string]string
	setErr error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string]string)}
}

func (m *memoryKV) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func record(at time.Time, minutes int) model.CompletionRecord {
	return model.CompletionRecord{
		ActualMinutes: minutes,
		Energy:        model.EnergyCreative,
		CompletedAt:   at,
		SubSteps:      3,
		DayOfWeek:     int(at.Weekday()),
		Difficulty:    1.0,
	}
}

func TestAppendAssignsIDAndPersists(t *testing.T) {
	kv := newMemoryKV()
	store := NewStore(kv)

	at := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	saved, err := store.Append(record(at, 45))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected synthetic id to be assigned")
	}

	reloaded := NewStore(kv)
	recs := reloaded.Records(model.EnergyCreative)
	if len(recs) != 1 || recs[0].ID != saved.ID {
		t.Fatalf("reloaded store mismatch: %+v", recs)
	}
}

func TestRetentionCapEvictsOldest(t *testing.T) {
	kv := newMemoryKV()
	store := NewStore(kv)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i <= RetentionCap; i++ {
		if _, err := store.Append(record(base.Add(time.Duration(i)*time.Hour), 30)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recs := store.Records(model.EnergyCreative)
	if len(recs) != RetentionCap {
		t.Fatalf("expected %d records after cap, got %d", RetentionCap, len(recs))
	}
	for _, rec := range recs {
		if rec.CompletedAt.Equal(base) {
			t.Fatal("oldest record should have been evicted")
		}
	}
}

func TestAllCategoriesMaterialized(t *testing.T) {
	store := NewStore(newMemoryKV())
	snapshot := store.Snapshot()
	for _, cat := range model.AllEnergyCategories() {
		recs, ok := snapshot[cat]
		if !ok {
			t.Fatalf("category %q missing from snapshot", cat)
		}
		if len(recs) != 0 {
			t.Fatalf("category %q should start empty", cat)
		}
	}
}

func TestCorruptBlobFallsBackToEmpty(t *testing.T) {
	kv := newMemoryKV()
	kv.values[StoreKey] = "{not json"
	store := NewStore(kv)
	if got := len(store.Records(model.EnergyDeep)); got != 0 {
		t.Fatalf("expected empty store for corrupt blob, got %d records", got)
	}
}

func TestAppendSurfacesPersistFailure(t *testing.T) {
	kv := newMemoryKV()
	store := NewStore(kv)
	kv.setErr = errors.New("disk full")

	at := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	if _, err := store.Append(record(at, 45)); err == nil {
		t.Fatal("expected persist error to surface")
	}
}

func TestReset(t *testing.T) {
	kv := newMemoryKV()
	store := NewStore(kv)
	at := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	if _, err := store.Append(record(at, 45)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(store.Records(model.EnergyCreative)) != 0 {
		t.Fatal("expected no records after reset")
	}
}
