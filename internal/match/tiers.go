package match

// Tier is the amount of human input a resolution requires.
type Tier string

const (
	TierAutoMerge    Tier = "auto_merge"
	TierManualReview Tier = "manual_review"
	TierNoMatch      Tier = "no_match"
)

// Decision selects the single top-ranked candidate, if any, and its tier.
// Lower-ranked candidates are discarded for the pass.
type Decision struct {
	Tier        Tier
	CandidateID string
	Confidence  float64
}

// Classify maps a ranked match list to a tier decision. It is total and
// deterministic: an empty list or a top confidence below the review threshold
// is NoMatch; [review, autoMerge) is ManualReview; autoMerge and above merges
// without interaction.
func Classify(matches []PotentialMatch, policy Policy) Decision {
	policy = policy.normalized()
	if len(matches) == 0 {
		return Decision{Tier: TierNoMatch}
	}
	top := matches[0]
	switch {
	case top.Confidence >= policy.AutoMergeThreshold:
		return Decision{Tier: TierAutoMerge, CandidateID: top.CandidateID, Confidence: top.Confidence}
	case top.Confidence >= policy.ReviewThreshold:
		return Decision{Tier: TierManualReview, CandidateID: top.CandidateID, Confidence: top.Confidence}
	default:
		return Decision{Tier: TierNoMatch, Confidence: top.Confidence}
	}
}

// RunnerUpMargin returns the confidence gap between the top two matches, and
// false when fewer than two candidates were scored. Used for diagnostics when
// the best two candidates are nearly tied.
func RunnerUpMargin(matches []PotentialMatch) (float64, bool) {
	if len(matches) < 2 {
		return 0, false
	}
	return matches[0].Confidence - matches[1].Confidence, true
}
