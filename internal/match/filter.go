package match

import "beacon/internal/record"

// FilterByAge keeps candidates whose age range intersects the query range.
// An unknown candidate age never satisfies a known filter, so those
// candidates are dropped. An unknown query range means no filter at all and
// retains every candidate. The scorer treats unknown ages neutrally on its
// own; this filter serves roster search, not scoring.
func FilterByAge(candidates []Candidate, query record.AgeRange) []Candidate {
	if !query.Known() {
		return candidates
	}
	kept := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Fields.Age.Overlaps(query.Min, query.Max) {
			kept = append(kept, cand)
		}
	}
	return kept
}
