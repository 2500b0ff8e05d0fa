// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/qbraid/qbraid-go/internal/log"
)

const reloadDebounce = 250 * time.Millisecond

// Watch monitors the profile file and invokes onChange with the freshly
// resolved configuration whenever it is rewritten. Events are debounced
// because editors and atomic saves emit bursts. Watch blocks until ctx is
// cancelled.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	// Watch the directory: atomic replace swaps the file inode, which
	// drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(path), err)
	}

	logger := log.WithComponent("config")
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("config watcher error")

		case <-fire:
			cfg, err := Load()
			if err != nil {
				logger.Error().Err(err).Msg("config reload failed, keeping previous configuration")
				continue
			}
			logger.Info().Str("path", path).Msg("configuration reloaded")
			onChange(cfg)
		}
	}
}
