package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/platform"
	"pomodoro/internal/progress"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/dashboard"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/tray"
	"pomodoro/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runDesktop(cmd *cobra.Command, args []string) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()
		logger.Info("already running, activating existing window")
		return platform.ActivateRunningInstance(ctx, appName)
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	path, err := settingsFile()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tracker := progress.NewTracker(progress.NewClient(settings.APIBaseURL, nil), logger.Named("progress"))
	sessionTimer, err := timer.New(settings.TimerConfig(), timer.Options{
		Recorder: tracker,
		Logger:   logger.Named("timer"),
	})
	if err != nil {
		return err
	}
	defer sessionTimer.Close()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconApp))

	snooze := &snoozer{timer: sessionTimer}
	defer snooze.cancel()

	var prefsWindow *preferences.Window
	dashboardWindow := dashboard.New(fyneApp, dashboard.Callbacks{
		OnToggle:      snooze.toggle,
		OnReset:       snooze.reset,
		OnPreferences: func() { prefsWindow.Show() },
	}, settings.Notifications)

	idle := newIdleWatch(ctx, sessionTimer, logger.Named("idle"))
	idle.restart(settings.IdlePauseAfter)
	defer idle.stop()

	apply := func(updated preferences.Settings) {
		if err := sessionTimer.UpdateSettings(updated.TimerConfig()); err != nil {
			logger.Warn("rejected timer settings", zap.Error(err))
			return
		}
		if updated.APIBaseURL != settings.APIBaseURL {
			logger.Info("progress api url changes apply after restart", zap.String("url", updated.APIBaseURL))
		}
		if updated.IdlePauseAfter != settings.IdlePauseAfter {
			idle.restart(updated.IdlePauseAfter)
		}
		if updated.LaunchAtLogin != settings.LaunchAtLogin {
			syncLaunchAtLogin(updated.LaunchAtLogin)
		}
		settings = updated
		dashboardWindow.SetNotifications(updated.Notifications)
	}

	prefsWindow = preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		saved := overrides.persist(fileSettings, settings, updated)
		if err := storage.SaveSettings(path, saved); err != nil {
			logger.Error("save settings", zap.Error(err))
		} else {
			fileSettings = saved
		}
		apply(updated)
	})

	watcher, err := storage.NewSettingsWatcher(path, func(loaded preferences.Settings) {
		fyne.Do(func() {
			fileSettings = loaded
			effective := overrides.apply(loaded)
			apply(effective)
			prefsWindow.UpdateSettings(effective)
		})
	}, logger.Named("settings"))
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		logger.Warn("settings live reload disabled", zap.Error(err))
	}
	defer watcher.Stop()

	tracker.SetOnChange(dashboardWindow.SetSummary)

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnShow:        dashboardWindow.Show,
			OnToggle:      snooze.toggle,
			OnReset:       snooze.reset,
			OnPauseFor:    snooze.pauseFor,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayMenu(trayManager.Menu())
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconPaused))
		sessionTimer.AddPresenter(trayManager)
		sessionTimer.AddPresenter(&trayIcon{app: desktopApp})
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	sessionTimer.AddPresenter(dashboardWindow)
	sessionTimer.AddPresenter(timer.NewLogPresenter(logger.Named("presenter")))

	go guard.Serve(ctx, func() {
		fyne.Do(dashboardWindow.Show)
	})
	go func() {
		tracker.Refresh(ctx)
	}()

	if settings.LaunchAtLogin {
		syncLaunchAtLogin(true)
	}
	if settings.StartOnLaunch {
		sessionTimer.Start()
	}

	dashboardWindow.Show()
	fyneApp.Run()
	dashboardWindow.Close()
	return nil
}

func syncLaunchAtLogin(enabled bool) {
	autostart, err := platform.NewAutostart(appName)
	if err == nil {
		err = platform.SyncAutostart(autostart, enabled)
	}
	if err != nil {
		logger.Warn("update launch at login", zap.Bool("enabled", enabled), zap.Error(err))
	}
}

// snoozer pauses the timer and starts it again after a delay. A new snooze
// replaces the pending one; a manual toggle or reset drops it.
type snoozer struct {
	timer interface {
		Pause()
		Start()
		Toggle()
		Reset()
	}

	mu      sync.Mutex
	pending *time.Timer
}

func (s *snoozer) pauseFor(duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
	}
	s.timer.Pause()
	s.pending = time.AfterFunc(duration, s.timer.Start)
}

func (s *snoozer) toggle() {
	s.cancel()
	s.timer.Toggle()
}

func (s *snoozer) reset() {
	s.cancel()
	s.timer.Reset()
}

func (s *snoozer) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// trayIcon switches the tray icon between running, paused and break.
type trayIcon struct {
	app     desktop.App
	current string
}

func (icon *trayIcon) OnTick(display timer.Display) {
	name := trayIconName(display)
	fyne.Do(func() {
		if name == icon.current {
			return
		}
		icon.current = name
		icon.app.SetSystemTrayIcon(resources.MustIcon(name))
	})
}

func (icon *trayIcon) OnPhaseChange(timer.Phase) {}

func trayIconName(display timer.Display) string {
	switch {
	case !display.Running:
		return resources.IconPaused
	case display.Phase == timer.PhaseBreak:
		return resources.IconBreak
	default:
		return resources.IconApp
	}
}

// idleWatch pauses a running work phase once the user has been away for the
// configured threshold.
type idleWatch struct {
	parent   context.Context
	timer    *timer.SessionTimer
	provider platform.IdleProvider
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newIdleWatch(parent context.Context, sessionTimer *timer.SessionTimer, logger *zap.Logger) *idleWatch {
	return &idleWatch{
		parent:   parent,
		timer:    sessionTimer,
		provider: platform.NewIdleProvider(),
		logger:   logger,
	}
}

func (watch *idleWatch) restart(threshold time.Duration) {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	watch.stopLocked()
	if threshold <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(watch.parent)
	done := make(chan struct{})
	watch.cancel = cancel
	watch.done = done

	monitor := platform.NewIdleMonitor(watch.provider, threshold, func(time.Duration) {
		pauseIfWorking(watch.timer)
	}, watch.logger)
	go func() {
		defer close(done)
		monitor.Run(ctx)
	}()
}

func (watch *idleWatch) stop() {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	watch.stopLocked()
}

func (watch *idleWatch) stopLocked() {
	if watch.cancel == nil {
		return
	}
	watch.cancel()
	<-watch.done
	watch.cancel = nil
	watch.done = nil
}

type pausable interface {
	Phase() timer.Phase
	Running() bool
	Pause()
}

// pauseIfWorking pauses the timer only while a work phase is counting down.
func pauseIfWorking(sessionTimer pausable) {
	if sessionTimer.Running() && sessionTimer.Phase() == timer.PhaseWork {
		sessionTimer.Pause()
	}
}
