package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/progress"
	"pomodoro/internal/progressapi"
	"pomodoro/resources"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// execute runs the root command with fresh flag state and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigAppliesFlagOverrides(t *testing.T) {
	path := writeSettings(t, "work_minutes: 30\nbreak_minutes: 10\napi_base_url: http://file.example:5000\n")

	out, err := execute(t, "config", "--config", path, "--work", "10m", "--api", "http://flag.example:5000")

	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "work_minutes: 10")
	assert.Contains(t, out, "break_minutes: 10")
	assert.Contains(t, out, "api_base_url: http://flag.example:5000")
	assert.Equal(t, 10*time.Minute, settings.WorkDuration)
}

func TestSavingKeepsFlagOverridesOutOfFile(t *testing.T) {
	path := writeSettings(t, "work_minutes: 30\nbreak_minutes: 10\napi_base_url: http://file.example:5000\n")
	_, err := execute(t, "config", "--config", path, "--work", "10m", "--break", "2m", "--api", "http://flag.example:5000")
	require.NoError(t, err)

	edited := settings
	edited.Notifications = false
	edited.BreakDuration = 3 * time.Minute

	saved := overrides.persist(fileSettings, settings, edited)

	assert.Equal(t, 30*time.Minute, saved.WorkDuration)
	assert.Equal(t, "http://file.example:5000", saved.APIBaseURL)
	assert.Equal(t, 3*time.Minute, saved.BreakDuration)
	assert.False(t, saved.Notifications)

	reloaded := overrides.apply(saved)
	assert.Equal(t, 10*time.Minute, reloaded.WorkDuration)
	assert.Equal(t, "http://flag.example:5000", reloaded.APIBaseURL)
	assert.Equal(t, 3*time.Minute, reloaded.BreakDuration)
}

func TestConfigWithoutFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	out, err := execute(t, "config", "--config", path)

	require.NoError(t, err)
	assert.Contains(t, out, "work_minutes: 25")
	assert.Contains(t, out, "break_minutes: 5")
}

func TestConfigRejectsFractionalSeconds(t *testing.T) {
	path := writeSettings(t, "")

	_, err := execute(t, "config", "--config", path, "--work", "1500ms")

	require.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestStatusReadsProgressAPI(t *testing.T) {
	logger = zap.NewNop()
	server := httptest.NewServer(newAPIHandler(progressapi.NewMemoryRepository()))
	defer server.Close()

	_, err := progress.NewClient(server.URL, nil).CompleteSession(context.Background(), progress.CompleteRequest{
		SessionID:    "one",
		FocusMinutes: 25,
	})
	require.NoError(t, err)

	out, err := execute(t, "status", "--config", writeSettings(t, ""), "--api", server.URL)

	require.NoError(t, err)
	assert.Contains(t, out, "Today: 1 sessions, 25 min focus")
	assert.Contains(t, out, "Total: 1 sessions, 25 min focus")
	assert.NotContains(t, out, "unreachable")
}

func TestStatusPrintsZerosWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	out, err := execute(t, "status", "--config", writeSettings(t, ""), "--api", url)

	require.NoError(t, err)
	assert.Contains(t, out, "Today: 0 sessions, 0 min focus")
	assert.Contains(t, out, "unreachable")
}

func TestServeUntilDoneShutsDownOnCancel(t *testing.T) {
	logger = zap.NewNop()
	server := &http.Server{Addr: "127.0.0.1:0", Handler: newAPIHandler(progressapi.NewMemoryRepository())}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- serveUntilDone(ctx, server)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

type fakeTimer struct {
	phase   timer.Phase
	running atomic.Bool
	starts  atomic.Int32
	pauses  atomic.Int32
}

func (fake *fakeTimer) Phase() timer.Phase { return fake.phase }
func (fake *fakeTimer) Running() bool      { return fake.running.Load() }
func (fake *fakeTimer) Pause() {
	fake.pauses.Add(1)
	fake.running.Store(false)
}
func (fake *fakeTimer) Start() {
	fake.starts.Add(1)
	fake.running.Store(true)
}
func (fake *fakeTimer) Toggle() {
	if fake.Running() {
		fake.Pause()
		return
	}
	fake.Start()
}
func (fake *fakeTimer) Reset() {
	fake.running.Store(false)
}

func TestPauseIfWorking(t *testing.T) {
	working := &fakeTimer{phase: timer.PhaseWork}
	working.running.Store(true)
	pauseIfWorking(working)
	assert.Equal(t, int32(1), working.pauses.Load())

	resting := &fakeTimer{phase: timer.PhaseBreak}
	resting.running.Store(true)
	pauseIfWorking(resting)
	assert.Zero(t, resting.pauses.Load())

	idle := &fakeTimer{phase: timer.PhaseWork}
	pauseIfWorking(idle)
	assert.Zero(t, idle.pauses.Load())
}

func TestSnoozeStartsAgainAfterDelay(t *testing.T) {
	fake := &fakeTimer{phase: timer.PhaseWork}
	fake.running.Store(true)
	snooze := &snoozer{timer: fake}

	snooze.pauseFor(time.Hour)
	snooze.pauseFor(20 * time.Millisecond)

	assert.Equal(t, int32(2), fake.pauses.Load())
	assert.Eventually(t, fake.running.Load, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), fake.starts.Load())
}

func TestSnoozeCancel(t *testing.T) {
	fake := &fakeTimer{phase: timer.PhaseWork}
	snooze := &snoozer{timer: fake}

	snooze.pauseFor(20 * time.Millisecond)
	snooze.cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, fake.starts.Load())
}

func TestSnoozeDroppedByManualControl(t *testing.T) {
	tests := []struct {
		name    string
		control func(*snoozer)
		starts  int32
	}{
		{name: "reset", control: (*snoozer).reset, starts: 0},
		{name: "start then pause", control: func(s *snoozer) {
			s.toggle()
			s.toggle()
		}, starts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTimer{phase: timer.PhaseWork}
			fake.running.Store(true)
			snooze := &snoozer{timer: fake}

			snooze.pauseFor(20 * time.Millisecond)
			tt.control(snooze)

			time.Sleep(60 * time.Millisecond)
			assert.False(t, fake.Running())
			assert.Equal(t, tt.starts, fake.starts.Load())
		})
	}
}

func TestTrayIconName(t *testing.T) {
	assert.Equal(t, resources.IconPaused, trayIconName(timer.Display{Phase: timer.PhaseWork}))
	assert.Equal(t, resources.IconApp, trayIconName(timer.Display{Phase: timer.PhaseWork, Running: true}))
	assert.Equal(t, resources.IconBreak, trayIconName(timer.Display{Phase: timer.PhaseBreak, Running: true}))
}
