package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pomodoro/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type settingsSink struct {
	mu       sync.Mutex
	received []preferences.Settings
}

func (sink *settingsSink) add(settings preferences.Settings) {
	sink.mu.Lock()
	sink.received = append(sink.received, settings)
	sink.mu.Unlock()
}

func (sink *settingsSink) last() (preferences.Settings, int) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.received) == 0 {
		return preferences.Settings{}, 0
	}
	return sink.received[len(sink.received)-1], len(sink.received)
}

func startWatcher(t *testing.T, path string, sink *settingsSink, logger *zap.Logger) *SettingsWatcher {
	t.Helper()
	watcher, err := NewSettingsWatcher(path, sink.add, logger)
	require.NoError(t, err)
	watcher.debounce = 20 * time.Millisecond
	require.NoError(t, watcher.Start(context.Background()))
	t.Cleanup(watcher.Stop)
	return watcher
}

func TestSettingsWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	sink := &settingsSink{}
	startWatcher(t, path, sink, nil)

	require.NoError(t, os.WriteFile(path, []byte("work_minutes: 40\nbreak_minutes: 8\n"), 0o644))

	require.Eventually(t, func() bool {
		settings, count := sink.last()
		return count > 0 && settings.WorkDuration == 40*time.Minute
	}, 5*time.Second, 10*time.Millisecond)

	settings, _ := sink.last()
	assert.Equal(t, 8*time.Minute, settings.BreakDuration)
}

func TestSettingsWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	sink := &settingsSink{}
	startWatcher(t, filepath.Join(dir, "settings.yaml"), sink, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	time.Sleep(150 * time.Millisecond)
	_, count := sink.last()
	assert.Zero(t, count)
}

func TestSettingsWatcherKeepsRunningAfterBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	sink := &settingsSink{}
	core, logs := observer.New(zap.WarnLevel)
	startWatcher(t, path, sink, zap.New(core))

	require.NoError(t, os.WriteFile(path, []byte("work_minutes: [broken"), 0o644))
	require.Eventually(t, func() bool {
		return logs.FilterMessage("reload settings").Len() > 0
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("work_minutes: 30\n"), 0o644))
	require.Eventually(t, func() bool {
		settings, count := sink.last()
		return count > 0 && settings.WorkDuration == 30*time.Minute
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSettingsWatcherStopWithoutStart(t *testing.T) {
	watcher, err := NewSettingsWatcher(filepath.Join(t.TempDir(), "settings.yaml"), nil, nil)
	require.NoError(t, err)

	watcher.Stop()
}
