package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeUrgency()
	c.normalizeNotifications()
	c.normalizeUploads()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PhotoDir) == "" {
		c.Paths.PhotoDir = defaultPhotoDir
	}
	if c.Paths.PhotoDir, err = expandPath(c.Paths.PhotoDir); err != nil {
		return fmt.Errorf("paths.photo_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatching() {
	if c.Matching.AutoMergeThreshold <= 0 {
		c.Matching.AutoMergeThreshold = defaultAutoMergeThreshold
	}
	if c.Matching.ReviewThreshold <= 0 {
		c.Matching.ReviewThreshold = defaultReviewThreshold
	}
	if c.Matching.NameWeight <= 0 {
		c.Matching.NameWeight = defaultNameWeight
	}
	if c.Matching.AgeWeight <= 0 {
		c.Matching.AgeWeight = defaultAgeWeight
	}
	if c.Matching.HeightWeight <= 0 {
		c.Matching.HeightWeight = defaultHeightWeight
	}
	if c.Matching.WeightWeight <= 0 {
		c.Matching.WeightWeight = defaultWeightWeight
	}
	if c.Matching.SkinToneWeight <= 0 {
		c.Matching.SkinToneWeight = defaultSkinToneWeight
	}
	if c.Matching.GenderWeight <= 0 {
		c.Matching.GenderWeight = defaultGenderWeight
	}
	if c.Matching.HeightToleranceInches <= 0 {
		c.Matching.HeightToleranceInches = defaultHeightToleranceInches
	}
	if c.Matching.WeightTolerancePounds <= 0 {
		c.Matching.WeightTolerancePounds = defaultWeightTolerancePounds
	}
}

func (c *Config) normalizeUrgency() {
	if c.Urgency.HalfLifeDays <= 0 {
		c.Urgency.HalfLifeDays = defaultUrgencyHalfLifeDays
	}
	if c.Urgency.EncounterPoints <= 0 {
		c.Urgency.EncounterPoints = defaultUrgencyEncounterPoints
	}
	if c.Urgency.IndicatorPoints <= 0 {
		c.Urgency.IndicatorPoints = defaultUrgencyIndicatorPoints
	}
	if len(c.Urgency.DangerTerms) == 0 {
		c.Urgency.DangerTerms = defaultDangerTerms()
	}
	terms := make([]string, 0, len(c.Urgency.DangerTerms))
	for _, term := range c.Urgency.DangerTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			terms = append(terms, term)
		}
	}
	c.Urgency.DangerTerms = terms
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeUploads() {
	if c.Uploads.MaxAttempts <= 0 {
		c.Uploads.MaxAttempts = defaultUploadMaxAttempts
	}
	if c.Uploads.BackoffBaseMillis <= 0 {
		c.Uploads.BackoffBaseMillis = defaultUploadBackoffBaseMillis
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
