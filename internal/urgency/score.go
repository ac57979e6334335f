package urgency

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Encounter is the minimal view of one interaction the score fold needs.
type Encounter struct {
	OccurredAt       time.Time
	DangerIndicators []string
	Notes            string
}

// Params tunes the score fold.
type Params struct {
	HalfLifeDays    int
	EncounterPoints int
	IndicatorPoints int
	DangerTerms     []string
}

// DefaultParams returns the fold parameters used when none are configured.
func DefaultParams() Params {
	return Params{
		HalfLifeDays:    30,
		EncounterPoints: 5,
		IndicatorPoints: 15,
		DangerTerms: []string{
			"weapon", "knife", "gun", "overdose",
			"violent", "threat", "suicidal", "self-harm",
		},
	}
}

func (p Params) normalized() Params {
	d := DefaultParams()
	if p.HalfLifeDays <= 0 {
		p.HalfLifeDays = d.HalfLifeDays
	}
	if p.EncounterPoints <= 0 {
		p.EncounterPoints = d.EncounterPoints
	}
	if p.IndicatorPoints <= 0 {
		p.IndicatorPoints = d.IndicatorPoints
	}
	if len(p.DangerTerms) == 0 {
		p.DangerTerms = d.DangerTerms
	}
	return p
}

// ComputeBaseScore folds the ordered encounter history into a score clamped
// to [0, 100]. Each encounter contributes its base points plus indicator
// points per danger signal, decayed by half-life from its age at now.
// The fold is pure: no encounter or external state is mutated.
func ComputeBaseScore(encounters []Encounter, now time.Time, params Params) int {
	params = params.normalized()
	halfLife := float64(params.HalfLifeDays) * 24 * float64(time.Hour)

	total := 0.0
	for _, enc := range encounters {
		signals := len(enc.DangerIndicators) + countDangerTerms(enc.Notes, params.DangerTerms)
		points := float64(params.EncounterPoints + params.IndicatorPoints*signals)

		age := now.Sub(enc.OccurredAt)
		if age < 0 {
			age = 0
		}
		decay := math.Pow(0.5, float64(age)/halfLife)
		total += points * decay
	}

	score := int(math.Round(total))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func countDangerTerms(notes string, terms []string) int {
	notes = strings.ToLower(notes)
	if notes == "" {
		return 0
	}
	count := 0
	for _, term := range terms {
		if term != "" && strings.Contains(notes, term) {
			count++
		}
	}
	return count
}

// DisplayScore applies override precedence: a set override is the displayed
// value, otherwise the computed base.
func DisplayScore(base int, override *int) int {
	if override != nil {
		return *override
	}
	return base
}

// ValidateOverride enforces the override invariant: an integer in [0, 100].
func ValidateOverride(value int) error {
	if value < 0 || value > 100 {
		return fmt.Errorf("urgency override must be between 0 and 100, got %d", value)
	}
	return nil
}

// Band is the presentation tier of a display score.
type Band string

const (
	BandLow      Band = "low"
	BandMedium   Band = "medium"
	BandHigh     Band = "high"
	BandCritical Band = "critical"
)

// BandFor maps a display score to its presentation band. Banding is a pure
// function of the score and must be recomputed whenever the score changes.
func BandFor(score int) Band {
	switch {
	case score < 40:
		return BandLow
	case score < 60:
		return BandMedium
	case score < 80:
		return BandHigh
	default:
		return BandCritical
	}
}
