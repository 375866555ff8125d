package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPortFromNameIsStableAndInRange(t *testing.T) {
	port := portFromName("Pomodoro")

	assert.Equal(t, port, portFromName("Pomodoro"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestSingleInstanceActivation(t *testing.T) {
	appName := fmt.Sprintf("pomodoro-test-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)

	_, err = AcquireSingleInstance(appName)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	ctx, cancel := context.WithCancel(context.Background())
	var activations atomic.Int32
	served := make(chan struct{})
	go func() {
		defer close(served)
		guard.Serve(ctx, func() { activations.Add(1) })
	}()

	require.NoError(t, ActivateRunningInstance(context.Background(), appName))
	require.Eventually(t, func() bool { return activations.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-served
	require.NoError(t, guard.Release())

	again, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestGuardAddressAndNilRelease(t *testing.T) {
	guard, err := AcquireSingleInstance(fmt.Sprintf("pomodoro-free-%d", time.Now().UnixNano()))
	require.NoError(t, err)
	name := guard.Address()
	require.NoError(t, guard.Release())
	assert.NotEmpty(t, name)

	var nilGuard *InstanceGuard
	assert.NoError(t, nilGuard.Release())
	assert.Empty(t, nilGuard.Address())
}

type fakeIdle struct {
	idle time.Duration
	err  error
}

func (provider *fakeIdle) IdleDuration() (time.Duration, error) {
	return provider.idle, provider.err
}

func TestIdleMonitorFiresOncePerIdleStretch(t *testing.T) {
	provider := &fakeIdle{}
	var fired []time.Duration
	monitor := NewIdleMonitor(provider, 5*time.Minute, func(idle time.Duration) { fired = append(fired, idle) }, nil)

	provider.idle = time.Minute
	monitor.check()
	provider.idle = 5 * time.Minute
	monitor.check()
	provider.idle = 6 * time.Minute
	monitor.check()
	provider.idle = 0
	monitor.check()
	provider.idle = 7 * time.Minute
	monitor.check()

	assert.Equal(t, []time.Duration{5 * time.Minute, 7 * time.Minute}, fired)
}

func TestIdleMonitorStopsWhenUnsupported(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	provider := &fakeIdle{err: ErrIdleUnsupported}
	monitor := NewIdleMonitor(provider, time.Minute, func(time.Duration) { t.Fatal("unexpected idle") }, zap.New(core))
	monitor.poll = time.Millisecond

	done := make(chan struct{})
	go func() {
		monitor.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor kept polling an unsupported provider")
	}
	assert.Equal(t, 1, logs.FilterMessage("idle detection unavailable on this session").Len())
}

func TestIdleMonitorIgnoresTransientErrors(t *testing.T) {
	provider := &fakeIdle{err: errors.New("xprintidle: exit status 1")}
	monitor := NewIdleMonitor(provider, time.Minute, nil, nil)

	monitor.check()

	assert.False(t, monitor.unsupported)
	assert.False(t, monitor.idle)
}

func TestIdleMonitorDisabledWithZeroThreshold(t *testing.T) {
	monitor := NewIdleMonitor(&fakeIdle{}, 0, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	start := time.Now()
	monitor.Run(ctx)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

type recordingAutostart struct {
	enabled  []string
	disabled int
}

func (item *recordingAutostart) Enable(execPath string) error {
	item.enabled = append(item.enabled, execPath)
	return nil
}

func (item *recordingAutostart) Disable() error {
	item.disabled++
	return nil
}

func (item *recordingAutostart) Enabled() (bool, error) {
	return len(item.enabled) > item.disabled, nil
}

func TestSyncAutostart(t *testing.T) {
	item := &recordingAutostart{}

	require.NoError(t, SyncAutostart(item, true))
	require.NoError(t, SyncAutostart(item, false))

	require.Len(t, item.enabled, 1)
	assert.True(t, filepath.IsAbs(item.enabled[0]))
	assert.Equal(t, 1, item.disabled)
}

func TestParseIdleMillis(t *testing.T) {
	idle, err := parseIdleMillis([]byte("90500\n"))
	require.NoError(t, err)
	assert.Equal(t, 90500*time.Millisecond, idle)

	_, err = parseIdleMillis([]byte("not a number"))
	require.Error(t, err)
}

func TestParseHIDIdleTime(t *testing.T) {
	output := []byte(`+-o IOHIDSystem  <class IOHIDSystem, id 0x100000>
    {
      "HIDIdleTimeDelta" = 1000
      "HIDIdleTime" = 12000000000
    }
`)
	idle, err := parseHIDIdleTime(output)
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, idle)

	_, err = parseHIDIdleTime([]byte("{}"))
	require.Error(t, err)
}

func TestUnsupportedIdleProvider(t *testing.T) {
	provider := lookupIdleCommand("pomodoro-no-such-idle-tool", nil, parseIdleMillis)

	_, err := provider.IdleDuration()
	require.ErrorIs(t, err, ErrIdleUnsupported)
}

func TestFileAutostart(t *testing.T) {
	item := &fileAutostart{
		path:   filepath.Join(t.TempDir(), "autostart", "pomodoro.desktop"),
		render: func(execPath string) string { return "Exec=" + execPath + "\n" },
	}

	enabled, err := item.Enabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, item.Enable("/usr/bin/pomodoro"))
	content, err := os.ReadFile(item.path)
	require.NoError(t, err)
	assert.Equal(t, "Exec=/usr/bin/pomodoro\n", string(content))
	enabled, err = item.Enabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, item.Disable())
	require.NoError(t, item.Disable())
	enabled, err = item.Enabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	require.Error(t, item.Enable(""))
}

func TestAppSlug(t *testing.T) {
	assert.Equal(t, "pomodoro-timer", appSlug(" Pomodoro Timer "))
}

func TestNewAutostartRejectsEmptyName(t *testing.T) {
	_, err := NewAutostart("  ")
	require.Error(t, err)
}
