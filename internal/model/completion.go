package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidEnergy     = errors.New("model: invalid energy category")
	ErrInvalidDifficulty = errors.New("model: invalid difficulty multiplier")
)

type EnergyCategory string

const (
	EnergyCreative EnergyCategory = "Creative"
	EnergyDeep     EnergyCategory = "Deep"
	EnergyLight    EnergyCategory = "Light"
	EnergySocial   EnergyCategory = "Social"
	EnergyAdmin    EnergyCategory = "Admin"
)

func (e EnergyCategory) IsValid() bool {
	switch e {
	case EnergyCreative, EnergyDeep, EnergyLight, EnergySocial, EnergyAdmin:
		return true
	default:
		return false
	}
}

// AllEnergyCategories returns every category in stable order. The history
// store materializes an entry for each so that a persisted blob written by an
// older build never leaves a category missing.
func AllEnergyCategories() []EnergyCategory {
	return []EnergyCategory{EnergyCreative, EnergyDeep, EnergyLight, EnergySocial, EnergyAdmin}
}

// DifficultyMultipliers are the only self-reported difficulty values a
// completion may carry.
var DifficultyMultipliers = []float64{0.8, 1.0, 1.25}

// CompletionRecord is one finished task, immutable once appended.
type CompletionRecord struct {
	ID               string         `json:"id"`
	ActualMinutes    int            `json:"actual_minutes"`
	EstimatedMinutes int            `json:"estimated_minutes"`
	Energy           EnergyCategory `json:"energy"`
	CompletedAt      time.Time      `json:"completed_at"`
	SubSteps         int            `json:"sub_steps"`
	DayOfWeek        int            `json:"day_of_week"`
	Difficulty       float64        `json:"difficulty"`
}

func (r CompletionRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: completion id is required")
	}
	if r.ActualMinutes <= 0 {
		return errors.New("model: completion actual_minutes must be positive")
	}
	if !r.Energy.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEnergy, r.Energy)
	}
	if r.CompletedAt.IsZero() {
		return errors.New("model: completion completed_at is required")
	}
	if r.SubSteps < 0 {
		return errors.New("model: completion sub_steps must not be negative")
	}
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return errors.New("model: completion day_of_week must be in 0..6")
	}
	if !validDifficulty(r.Difficulty) {
		return fmt.Errorf("%w: %v", ErrInvalidDifficulty, r.Difficulty)
	}
	return nil
}

// AdjustedMinutes normalizes the actual duration for self-reported
// difficulty, so a hard task and an easy task become comparable.
func (r CompletionRecord) AdjustedMinutes() float64 {
	return float64(r.ActualMinutes) / r.Difficulty
}

func validDifficulty(d float64) bool {
	for _, allowed := range DifficultyMultipliers {
		if d == allowed {
			return true
		}
	}
	return false
}
