package match

import (
	"math"
	"sort"
	"strings"
	"time"

	"beacon/internal/record"
)

// Candidate is one existing individual's current field map plus the recency
// signal used to break confidence ties.
type Candidate struct {
	ID       string
	Fields   record.Record
	LastSeen time.Time
}

// PotentialMatch is the transient scoring result for one candidate. It exists
// only within a single resolution pass and is never persisted.
type PotentialMatch struct {
	CandidateID   string
	Confidence    float64
	MatchedFields []string
}

// nearNameCredit is the agreement granted to names within edit distance of
// each other but not identical after folding.
const nearNameCredit = 0.85

// Score ranks candidates by per-field agreement with the normalized record.
// The result is sorted by confidence descending; ties rank the most recently
// seen candidate first. Fields unknown on either side are excluded from both
// numerator and denominator, so they neither help nor hurt.
func Score(rec record.Record, candidates []Candidate, policy Policy) []PotentialMatch {
	policy = policy.normalized()

	matches := make([]PotentialMatch, 0, len(candidates))
	for _, cand := range candidates {
		matches = append(matches, scoreCandidate(rec, cand, policy))
	}

	order := make(map[string]time.Time, len(candidates))
	for _, cand := range candidates {
		order[cand.ID] = cand.LastSeen
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return order[matches[i].CandidateID].After(order[matches[j].CandidateID])
	})
	return matches
}

func scoreCandidate(rec record.Record, cand Candidate, policy Policy) PotentialMatch {
	var considered, matched float64
	var matchedFields []string

	score := func(field string, weight, agreement float64) {
		considered += weight
		if agreement > 0 {
			matched += weight * agreement
			matchedFields = append(matchedFields, field)
		}
	}

	if rec.Name != "" && cand.Fields.Name != "" {
		score(record.FieldName, policy.NameWeight, nameAgreement(rec.Name, cand.Fields.Name, policy.NameNearDistance))
	}
	if rec.Age.Known() && cand.Fields.Age.Known() {
		agreement := 0.0
		if cand.Fields.Age.Overlaps(rec.Age.Min, rec.Age.Max) {
			agreement = 1
		}
		score(record.FieldAge, policy.AgeWeight, agreement)
	}
	if rec.HeightInches > 0 && cand.Fields.HeightInches > 0 {
		score(record.FieldHeight, policy.HeightWeight,
			toleranceAgreement(rec.HeightInches, cand.Fields.HeightInches, policy.HeightToleranceInches))
	}
	if rec.WeightPounds > 0 && cand.Fields.WeightPounds > 0 {
		score(record.FieldWeight, policy.WeightWeight,
			toleranceAgreement(rec.WeightPounds, cand.Fields.WeightPounds, policy.WeightTolerancePounds))
	}
	if rec.SkinTone != "" && cand.Fields.SkinTone != "" {
		score(record.FieldSkinTone, policy.SkinToneWeight, exactAgreement(rec.SkinTone, cand.Fields.SkinTone))
	}
	if rec.Gender != "" && cand.Fields.Gender != "" {
		score(record.FieldGender, policy.GenderWeight, exactAgreement(rec.Gender, cand.Fields.Gender))
	}

	confidence := 0.0
	if considered > 0 {
		confidence = 100 * matched / considered
	}
	return PotentialMatch{
		CandidateID:   cand.ID,
		Confidence:    clampConfidence(confidence),
		MatchedFields: matchedFields,
	}
}

// nameAgreement grants full credit for a fold-equal name, partial credit
// within the near-match edit distance, and none otherwise.
func nameAgreement(a, b string, nearDistance int) float64 {
	fa, fb := record.FoldName(a), record.FoldName(b)
	if fa == fb {
		return 1
	}
	if levenshtein(fa, fb) <= nearDistance {
		return nearNameCredit
	}
	return 0
}

// toleranceAgreement grants full credit within the tolerance band and half
// credit within twice the band.
func toleranceAgreement(a, b, tolerance int) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= tolerance:
		return 1
	case diff <= 2*tolerance:
		return 0.5
	default:
		return 0
	}
}

func exactAgreement(a, b string) float64 {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return 1
	}
	return 0
}

func clampConfidence(value float64) float64 {
	return math.Min(100, math.Max(0, value))
}
