package tray

import (
	"fmt"
	"time"

	"pomodoro/internal/core/timer"

	"fyne.io/fyne/v2"
)

// MenuHost is the part of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnToggle      func()
	OnReset       func()
	OnPauseFor    func(time.Duration)
	OnPreferences func()
	OnQuit        func()
}

// SnoozeOptions are the durations offered under "Pause for...".
var SnoozeOptions = []time.Duration{5 * time.Minute, 15 * time.Minute, 30 * time.Minute, 60 * time.Minute}

// Manager handles system tray state. It implements timer.Presenter.
type Manager struct {
	host        MenuHost
	statusItem  *fyne.MenuItem
	toggleItem  *fyne.MenuItem
	pauseFor    *fyne.MenuItem
	callbacks   Callbacks
	running     bool
	statusLabel string
}

var _ timer.Presenter = (*Manager)(nil)

// New creates a tray manager with the provided callbacks.
func New(host MenuHost, callbacks Callbacks) *Manager {
	manager := &Manager{
		host:        host,
		callbacks:   callbacks,
		statusLabel: "starting...",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggle != nil {
			manager.callbacks.OnToggle()
		}
	})

	snoozeItems := make([]*fyne.MenuItem, 0, len(SnoozeOptions))
	for _, duration := range SnoozeOptions {
		snoozeItems = append(snoozeItems, fyne.NewMenuItem(fmt.Sprintf("%d minutes", int(duration.Minutes())), func() {
			if manager.callbacks.OnPauseFor != nil {
				manager.callbacks.OnPauseFor(duration)
			}
		}))
	}
	manager.pauseFor = fyne.NewMenuItem("Pause for...", nil)
	manager.pauseFor.ChildMenu = fyne.NewMenu("", snoozeItems...)

	manager.refreshStatus()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetRunning updates the Start/Pause item.
func (manager *Manager) SetRunning(running bool) {
	manager.running = running
	if running {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.pauseFor.Disabled = !running
	manager.refreshStatus()
}

// OnTick implements timer.Presenter.
func (manager *Manager) OnTick(display timer.Display) {
	fyne.Do(func() {
		manager.statusLabel = fmt.Sprintf("%s %s", display.Phase.Label(), display.Clock)
		manager.SetRunning(display.Running)
	})
}

// OnPhaseChange implements timer.Presenter. The status is refreshed by the
// tick that follows every phase change.
func (manager *Manager) OnPhaseChange(timer.Phase) {}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu("Pomodoro",
		manager.statusItem,
		fyne.NewMenuItem("Show timer", manager.callback(manager.callbacks.OnShow)),
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		fyne.NewMenuItem("Reset", manager.callback(manager.callbacks.OnReset)),
		manager.pauseFor,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", manager.callback(manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", manager.callback(manager.callbacks.OnQuit)),
	)
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if !manager.running {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.host != nil {
		manager.host.SetSystemTrayMenu(manager.Menu())
	}
}

func (manager *Manager) callback(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
