package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"beacon/internal/config"
	"beacon/internal/logging"
	"beacon/internal/notifications"
	"beacon/internal/photos"
	"beacon/internal/resolution"
	"beacon/internal/roster"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "beacon.log")},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	return logger, nil
}

// withStore opens the roster store for the duration of one command.
func (c *commandContext) withStore(fn func(cfg *config.Config, store *roster.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := roster.Open(cfg)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

// withResolveLock serializes resolution passes across processes. Concurrent
// submissions wait on the file lock rather than interleaving.
func (c *commandContext) withResolveLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock := flock.New(cfg.LockPath())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire resolve lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

func (c *commandContext) newEngine(cfg *config.Config, store *roster.Store, logger *slog.Logger) *resolution.Engine {
	return resolution.New(store, store, store, resolution.Options{
		Policy:   resolution.PolicyFromConfig(cfg),
		Uploads:  resolution.UploadPolicyFromConfig(cfg),
		Uploader: photos.NewStore(cfg),
		Logger:   logger,
	})
}

func (c *commandContext) notifier() (notifications.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return notifications.NewService(cfg), nil
}
