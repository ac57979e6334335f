package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateUrgency(); err != nil {
		return err
	}
	if err := c.validateUploads(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if m.AutoMergeThreshold > 100 {
		return errors.New("matching.auto_merge_threshold must be at most 100")
	}
	if m.ReviewThreshold >= m.AutoMergeThreshold {
		return fmt.Errorf("matching.review_threshold (%.1f) must be below matching.auto_merge_threshold (%.1f)",
			m.ReviewThreshold, m.AutoMergeThreshold)
	}
	return nil
}

func (c *Config) validateUrgency() error {
	if c.Urgency.HalfLifeDays > 3650 {
		return errors.New("urgency.half_life_days is unreasonably large")
	}
	return nil
}

func (c *Config) validateUploads() error {
	if c.Uploads.MaxAttempts > 10 {
		return errors.New("uploads.max_attempts must be at most 10")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
