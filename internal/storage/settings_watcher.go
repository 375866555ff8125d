package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pomodoro/internal/ui/preferences"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultSettingsDebounce = 250 * time.Millisecond

// SettingsWatcher reloads the settings file when it changes on disk and
// hands the parsed result to onChange.
type SettingsWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	onChange func(preferences.Settings)
	logger   *zap.Logger
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewSettingsWatcher creates a watcher for the settings file at path.
func NewSettingsWatcher(path string, onChange func(preferences.Settings), logger *zap.Logger) (*SettingsWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create settings watcher: %w", err)
	}
	return &SettingsWatcher{
		watcher:  watcher,
		path:     filepath.Clean(path),
		onChange: onChange,
		logger:   logger,
		debounce: defaultSettingsDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched so editors that
// replace the file on save are still picked up.
func (settingsWatcher *SettingsWatcher) Start(ctx context.Context) error {
	settingsWatcher.mu.Lock()
	defer settingsWatcher.mu.Unlock()
	if settingsWatcher.running {
		return nil
	}

	dir := filepath.Dir(settingsWatcher.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := settingsWatcher.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}

	settingsWatcher.running = true
	go settingsWatcher.run(ctx)
	settingsWatcher.logger.Debug("watching settings", zap.String("path", settingsWatcher.path))
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (settingsWatcher *SettingsWatcher) Stop() {
	settingsWatcher.mu.Lock()
	wasRunning := settingsWatcher.running
	settingsWatcher.running = false
	settingsWatcher.mu.Unlock()

	if wasRunning {
		close(settingsWatcher.stopCh)
		<-settingsWatcher.doneCh
	}
	if err := settingsWatcher.watcher.Close(); err != nil {
		settingsWatcher.logger.Warn("close settings watcher", zap.Error(err))
	}
}

func (settingsWatcher *SettingsWatcher) run(ctx context.Context) {
	defer close(settingsWatcher.doneCh)

	debounce := time.NewTimer(settingsWatcher.debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-settingsWatcher.stopCh:
			return
		case event, ok := <-settingsWatcher.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != settingsWatcher.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			debounce.Reset(settingsWatcher.debounce)
		case err, ok := <-settingsWatcher.watcher.Errors:
			if !ok {
				return
			}
			settingsWatcher.logger.Warn("settings watcher error", zap.Error(err))
		case <-debounce.C:
			settingsWatcher.reload()
		}
	}
}

func (settingsWatcher *SettingsWatcher) reload() {
	settings, err := LoadSettings(settingsWatcher.path)
	if err != nil {
		settingsWatcher.logger.Warn("reload settings", zap.String("path", settingsWatcher.path), zap.Error(err))
		return
	}
	settingsWatcher.logger.Info("settings reloaded", zap.String("path", settingsWatcher.path))
	if settingsWatcher.onChange != nil {
		settingsWatcher.onChange(settings)
	}
}
