// Package history keeps the per-category completion log that feeds the
// estimation engine. Retention is bounded: each category keeps the most
// recent RetentionCap records and evicts the oldest beyond that.
package history

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/mkotal/anchora/internal/model"
)

// RetentionCap is the per-category record ceiling.
const RetentionCap = 100

// StoreKey is the key-value slot the serialized log lives under.
const StoreKey = "completion_history:v1"

// KV is the persistence collaborator. The second return reports presence,
// so a missing key is not an error.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Store struct {
	kv      KV
	records map[model.EnergyCategory][]model.CompletionRecord
	newID   func() string
}

// NewStore loads the persisted log from kv. A missing or unreadable blob
// yields an empty store: losing history is preferred over refusing to start.
func NewStore(kv KV) *Store {
	s := &Store{
		kv:      kv,
		records: emptyLog(),
		newID:   uuid.NewString,
	}
	raw, ok, err := kv.Get(StoreKey)
	if err != nil || !ok {
		return s
	}
	var decoded map[model.EnergyCategory][]model.CompletionRecord
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return s
	}
	for cat, recs := range decoded {
		if cat.IsValid() {
			s.records[cat] = recs
		}
	}
	return s
}

// Append assigns a synthetic id, stores the record under its category, and
// evicts the oldest records past the retention cap.
func (s *Store) Append(rec model.CompletionRecord) (model.CompletionRecord, error) {
	rec.ID = s.newID()
	if err := rec.Validate(); err != nil {
		return model.CompletionRecord{}, err
	}

	recs := append(s.records[rec.Energy], rec)
	if len(recs) > RetentionCap {
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].CompletedAt.After(recs[j].CompletedAt)
		})
		recs = recs[:RetentionCap]
	}
	s.records[rec.Energy] = recs

	if err := s.persist(); err != nil {
		return rec, fmt.Errorf("history: persist: %w", err)
	}
	return rec, nil
}

// Records returns a copy of the category's log.
func (s *Store) Records(cat model.EnergyCategory) []model.CompletionRecord {
	return append([]model.CompletionRecord(nil), s.records[cat]...)
}

// Snapshot returns a copy of the full log, every category present.
func (s *Store) Snapshot() map[model.EnergyCategory][]model.CompletionRecord {
	out := make(map[model.EnergyCategory][]model.CompletionRecord, len(s.records))
	for cat, recs := range s.records {
		out[cat] = append([]model.CompletionRecord(nil), recs...)
	}
	return out
}

// Reset clears all history unconditionally.
func (s *Store) Reset() error {
	s.records = emptyLog()
	if err := s.persist(); err != nil {
		return fmt.Errorf("history: persist: %w", err)
	}
	return nil
}

func (s *Store) persist() error {
	payload, err := json.Marshal(s.records)
	if err != nil {
		return err
	}
	return s.kv.Set(StoreKey, string(payload))
}

func emptyLog() map[model.EnergyCategory][]model.CompletionRecord {
	out := make(map[model.EnergyCategory][]model.CompletionRecord, len(model.AllEnergyCategories()))
	for _, cat := range model.AllEnergyCategories() {
		out[cat] = []model.CompletionRecord{}
	}
	return out
}
