package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/romdo/go-pace"
)

// DefaultReloadWait is the quiet period Watch waits for after the last file
// event before reloading.
const DefaultReloadWait = 250 * time.Millisecond

// Watch reloads the config file at path whenever it changes, and passes each
// successfully loaded config to onChange. Bursts of file events, as produced
// by editors writing through temporary files, result in a single reload once
// wait has passed without events.
//
// Watch blocks until ctx is done.
func Watch(
	ctx context.Context,
	path string,
	wait time.Duration,
	logger *zap.Logger,
	onChange func(*Config),
) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if wait <= 0 {
		wait = DefaultReloadWait
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory, as editors often replace the file rather than
	// writing to it.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	reload, cancel := pace.New(wait, func() {
		cfg, err := Load(abs)
		if err != nil {
			logger.Warn("Config reload failed", zap.Error(err))

			return
		}

		logger.Info("Config reloaded", zap.String("path", abs))
		onChange(cfg)
	})
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
				ev.Has(fsnotify.Rename) {
				logger.Debug("Config file event",
					zap.String("path", ev.Name),
					zap.String("op", ev.Op.String()),
				)
				reload()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Config watcher error", zap.Error(err))
		}
	}
}
