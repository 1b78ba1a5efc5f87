// Package estimate derives personalized task-duration predictions from the
// completion history. Estimation is pure: the snapshot is read, never
// mutated, and a nil result means "no personalized estimate available".
package estimate

import (
	"math"
	"sort"

	"github.com/mkotal/anchora/internal/model"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

const (
	// MinRecords is the insufficient-data guard: fewer records yield nil.
	MinRecords = 5

	// DefaultSensitivity is the recency smoothing factor used when the
	// configured value is out of the open interval (0,1).
	DefaultSensitivity = 0.3

	minP50       = 5
	minSpread    = 5
	p90Deviation = 1.3
)

type Result struct {
	P50Minutes int
	P90Minutes int
	Confidence Confidence
}

// Estimate predicts the duration of a task with subSteps sub-steps in the
// given category. It blends a complexity model (historical minutes per
// sub-step) with a recency model (EWMA over difficulty-adjusted durations,
// weighted by sensitivity) and widens the blend into a P50/P90 band.
//
// Returns nil when the category has fewer than MinRecords completions, or
// when the category's records carry zero sub-steps in total.
func Estimate(snapshot map[model.EnergyCategory][]model.CompletionRecord, cat model.EnergyCategory, subSteps int, sensitivity float64) *Result {
	records := snapshot[cat]
	if len(records) < MinRecords {
		return nil
	}
	if sensitivity <= 0 || sensitivity >= 1 {
		sensitivity = DefaultSensitivity
	}

	totalAdjusted := 0.0
	totalSubSteps := 0
	for _, rec := range records {
		totalAdjusted += rec.AdjustedMinutes()
		totalSubSteps += rec.SubSteps
	}
	if totalSubSteps == 0 {
		return nil
	}
	complexity := totalAdjusted / float64(totalSubSteps) * float64(subSteps)

	chronological := append([]model.CompletionRecord(nil), records...)
	sort.SliceStable(chronological, func(i, j int) bool {
		return chronological[i].CompletedAt.Before(chronological[j].CompletedAt)
	})
	recency := chronological[0].AdjustedMinutes()
	for _, rec := range chronological[1:] {
		recency = sensitivity*rec.AdjustedMinutes() + (1-sensitivity)*recency
	}

	p50 := int(math.Round(0.5*complexity + 0.5*recency))

	variance := 0.0
	for _, rec := range records {
		delta := rec.AdjustedMinutes() - float64(p50)
		variance += delta * delta
	}
	variance /= float64(len(records))
	p90 := int(math.Round(float64(p50) + p90Deviation*math.Sqrt(variance)))

	if p50 < minP50 {
		p50 = minP50
	}
	if p90 < p50+minSpread {
		p90 = p50 + minSpread
	}

	return &Result{
		P50Minutes: p50,
		P90Minutes: p90,
		Confidence: confidenceFor(len(records)),
	}
}

func confidenceFor(n int) Confidence {
	switch {
	case n < 10:
		return ConfidenceLow
	case n < 25:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}
