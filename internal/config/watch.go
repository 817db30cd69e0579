package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"donorcrm/internal/scoring"
)

// Watch reloads path whenever it changes and hands the new thresholds to
// onChange. It watches the parent directory so editors that save through a
// rename are still seen. A file that fails to load is logged and skipped; the
// previous thresholds stay active and onReject, when set, receives the error.
// Watch returns when ctx is cancelled.
func Watch(ctx context.Context, path string, logger zerolog.Logger, onChange func(scoring.Thresholds), onReject func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info().Str("path", abs).Msg("config: watching thresholds")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			// Truncate-then-write saves surface an empty file first.
			if info, err := os.Stat(abs); err != nil || info.Size() == 0 {
				continue
			}

			t, err := Load(abs)
			if err != nil {
				logger.Error().Err(err).Str("path", abs).Msg("config: reload failed, keeping previous thresholds")
				if onReject != nil {
					onReject(err)
				}
				continue
			}

			logger.Info().Str("path", abs).Msg("config: thresholds reloaded")
			onChange(t)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("config: watcher error")
		}
	}
}
