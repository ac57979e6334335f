package config

const (
	defaultDataDir  = "~/.local/share/beacon"
	defaultLogDir   = "~/.local/share/beacon/logs"
	defaultPhotoDir = "~/.local/share/beacon/photos"

	defaultAutoMergeThreshold = 95.0
	defaultReviewThreshold    = 60.0

	defaultNameWeight     = 45.0
	defaultAgeWeight      = 20.0
	defaultHeightWeight   = 10.0
	defaultWeightWeight   = 10.0
	defaultSkinToneWeight = 7.5
	defaultGenderWeight   = 7.5

	defaultHeightToleranceInches = 2
	defaultWeightTolerancePounds = 15

	defaultUrgencyHalfLifeDays    = 30
	defaultUrgencyEncounterPoints = 5
	defaultUrgencyIndicatorPoints = 15

	defaultNotifyRequestTimeout = 10

	defaultUploadMaxAttempts       = 3
	defaultUploadBackoffBaseMillis = 500

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

func defaultDangerTerms() []string {
	return []string{
		"weapon",
		"knife",
		"gun",
		"overdose",
		"violent",
		"threat",
		"suicidal",
		"self-harm",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			PhotoDir: defaultPhotoDir,
		},
		Matching: Matching{
			AutoMergeThreshold:    defaultAutoMergeThreshold,
			ReviewThreshold:       defaultReviewThreshold,
			NameWeight:            defaultNameWeight,
			AgeWeight:             defaultAgeWeight,
			HeightWeight:          defaultHeightWeight,
			WeightWeight:          defaultWeightWeight,
			SkinToneWeight:        defaultSkinToneWeight,
			GenderWeight:          defaultGenderWeight,
			HeightToleranceInches: defaultHeightToleranceInches,
			WeightTolerancePounds: defaultWeightTolerancePounds,
		},
		Urgency: Urgency{
			HalfLifeDays:    defaultUrgencyHalfLifeDays,
			EncounterPoints: defaultUrgencyEncounterPoints,
			IndicatorPoints: defaultUrgencyIndicatorPoints,
			DangerTerms:     defaultDangerTerms(),
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Review:         true,
			Critical:       true,
			Errors:         true,
		},
		Uploads: Uploads{
			MaxAttempts:       defaultUploadMaxAttempts,
			BackoffBaseMillis: defaultUploadBackoffBaseMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
