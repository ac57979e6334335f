package resolution

import (
	"time"

	"beacon/internal/config"
	"beacon/internal/match"
)

// PolicyFromConfig projects the matching section onto a scoring policy.
func PolicyFromConfig(cfg *config.Config) match.Policy {
	return match.Policy{
		NameWeight:            cfg.Matching.NameWeight,
		AgeWeight:             cfg.Matching.AgeWeight,
		HeightWeight:          cfg.Matching.HeightWeight,
		WeightWeight:          cfg.Matching.WeightWeight,
		SkinToneWeight:        cfg.Matching.SkinToneWeight,
		GenderWeight:          cfg.Matching.GenderWeight,
		HeightToleranceInches: cfg.Matching.HeightToleranceInches,
		WeightTolerancePounds: cfg.Matching.WeightTolerancePounds,
		AutoMergeThreshold:    cfg.Matching.AutoMergeThreshold,
		ReviewThreshold:       cfg.Matching.ReviewThreshold,
	}
}

// UploadPolicyFromConfig projects the uploads section onto retry bounds.
func UploadPolicyFromConfig(cfg *config.Config) UploadPolicy {
	return UploadPolicy{
		MaxAttempts: cfg.Uploads.MaxAttempts,
		BackoffBase: time.Duration(cfg.Uploads.BackoffBaseMillis) * time.Millisecond,
	}
}
