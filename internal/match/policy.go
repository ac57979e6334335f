package match

// Policy centralizes matching weights, tolerances, and tier thresholds.
type Policy struct {
	NameWeight     float64
	AgeWeight      float64
	HeightWeight   float64
	WeightWeight   float64
	SkinToneWeight float64
	GenderWeight   float64

	HeightToleranceInches int
	WeightTolerancePounds int
	NameNearDistance      int

	AutoMergeThreshold float64
	ReviewThreshold    float64
}

// DefaultPolicy returns the weights and thresholds tuned for field
// observations: name dominates, age is a moderate signal, body measurements
// and categorical fields are supporting signals.
func DefaultPolicy() Policy {
	return Policy{
		NameWeight:            45,
		AgeWeight:             20,
		HeightWeight:          10,
		WeightWeight:          10,
		SkinToneWeight:        7.5,
		GenderWeight:          7.5,
		HeightToleranceInches: 2,
		WeightTolerancePounds: 15,
		NameNearDistance:      2,
		AutoMergeThreshold:    95,
		ReviewThreshold:       60,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()

	if p.NameWeight <= 0 {
		p.NameWeight = d.NameWeight
	}
	if p.AgeWeight <= 0 {
		p.AgeWeight = d.AgeWeight
	}
	if p.HeightWeight <= 0 {
		p.HeightWeight = d.HeightWeight
	}
	if p.WeightWeight <= 0 {
		p.WeightWeight = d.WeightWeight
	}
	if p.SkinToneWeight <= 0 {
		p.SkinToneWeight = d.SkinToneWeight
	}
	if p.GenderWeight <= 0 {
		p.GenderWeight = d.GenderWeight
	}
	if p.HeightToleranceInches <= 0 {
		p.HeightToleranceInches = d.HeightToleranceInches
	}
	if p.WeightTolerancePounds <= 0 {
		p.WeightTolerancePounds = d.WeightTolerancePounds
	}
	if p.NameNearDistance <= 0 {
		p.NameNearDistance = d.NameNearDistance
	}
	if p.AutoMergeThreshold <= 0 || p.AutoMergeThreshold > 100 {
		p.AutoMergeThreshold = d.AutoMergeThreshold
	}
	if p.ReviewThreshold <= 0 || p.ReviewThreshold >= p.AutoMergeThreshold {
		p.ReviewThreshold = d.ReviewThreshold
	}

	return p
}
