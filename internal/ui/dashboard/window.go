// Package dashboard is the desktop timer window.
package dashboard

import (
	"context"
	"fmt"
	"image/color"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/progress"
	"pomodoro/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Callbacks defines dashboard action handlers.
type Callbacks struct {
	OnToggle      func()
	OnReset       func()
	OnPreferences func()
}

// Window shows the running timer and today's progress. It implements
// timer.Presenter.
type Window struct {
	app           fyne.App
	window        fyne.Window
	callbacks     Callbacks
	phaseLabel    *canvas.Text
	clockLabel    *canvas.Text
	progressBar   *widget.ProgressBar
	flash         *canvas.Rectangle
	toggleButton  *widget.Button
	resetButton   *widget.Button
	sessionsLabel *widget.Label
	summaryLabel  *widget.Label
	engine        *animation.Engine
	notifications bool
	cancelFlash   context.CancelFunc
}

var _ timer.Presenter = (*Window)(nil)

// New creates the dashboard window. It is not shown until Show is called.
func New(app fyne.App, callbacks Callbacks, notifications bool) *Window {
	window := app.NewWindow("Pomodoro")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	phaseLabel := canvas.NewText(timer.PhaseWork.Label(), theme.Color(theme.ColorNameForeground))
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	phaseLabel.TextSize = 18

	clockLabel := canvas.NewText("--:--", animation.ProgressColor(0))
	clockLabel.Alignment = fyne.TextAlignCenter
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.TextSize = 56

	progressBar := widget.NewProgressBar()
	progressBar.Max = 100

	flash := canvas.NewRectangle(color.NRGBA{A: 0})
	flash.CornerRadius = 12

	sessionsLabel := widget.NewLabel("")
	sessionsLabel.Alignment = fyne.TextAlignCenter
	summaryLabel := widget.NewLabel(summaryText(progress.Summary{}))
	summaryLabel.Alignment = fyne.TextAlignCenter

	dashboard := &Window{
		app:           app,
		window:        window,
		callbacks:     callbacks,
		phaseLabel:    phaseLabel,
		clockLabel:    clockLabel,
		progressBar:   progressBar,
		flash:         flash,
		sessionsLabel: sessionsLabel,
		summaryLabel:  summaryLabel,
		notifications: notifications,
	}

	dashboard.toggleButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		if dashboard.callbacks.OnToggle != nil {
			dashboard.callbacks.OnToggle()
		}
	})
	dashboard.toggleButton.Importance = widget.HighImportance
	dashboard.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() {
		if dashboard.callbacks.OnReset != nil {
			dashboard.callbacks.OnReset()
		}
	})
	settingsButton := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		if dashboard.callbacks.OnPreferences != nil {
			dashboard.callbacks.OnPreferences()
		}
	})

	dashboard.engine = animation.New(animation.DefaultConfig(), dashboard.paintFlash)

	clockArea := container.NewStack(flash, container.NewPadded(clockLabel))
	buttons := container.NewHBox(layout.NewSpacer(), dashboard.toggleButton, dashboard.resetButton, settingsButton, layout.NewSpacer())
	content := container.NewVBox(
		phaseLabel,
		clockArea,
		progressBar,
		buttons,
		widget.NewSeparator(),
		sessionsLabel,
		summaryLabel,
	)

	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(360, 320))
	window.SetCloseIntercept(window.Hide)
	return dashboard
}

// Show displays the window.
func (dashboard *Window) Show() {
	dashboard.window.Show()
	dashboard.window.RequestFocus()
}

// Hide hides the window without stopping the timer.
func (dashboard *Window) Hide() {
	dashboard.window.Hide()
}

// SetNotifications toggles desktop notifications on phase changes.
func (dashboard *Window) SetNotifications(enabled bool) {
	fyne.Do(func() {
		dashboard.notifications = enabled
	})
}

// SetSummary shows the latest progress totals.
func (dashboard *Window) SetSummary(summary progress.Summary) {
	fyne.Do(func() {
		dashboard.summaryLabel.SetText(summaryText(summary))
	})
}

// OnTick implements timer.Presenter.
func (dashboard *Window) OnTick(display timer.Display) {
	fyne.Do(func() {
		dashboard.render(display)
	})
}

// OnPhaseChange implements timer.Presenter.
func (dashboard *Window) OnPhaseChange(phase timer.Phase) {
	fyne.Do(func() {
		dashboard.announce(phase)
	})
}

// Close stops running animations.
func (dashboard *Window) Close() {
	if dashboard.cancelFlash != nil {
		dashboard.cancelFlash()
	}
	dashboard.engine.Stop()
}

func (dashboard *Window) render(display timer.Display) {
	dashboard.phaseLabel.Text = display.Phase.Label()
	dashboard.phaseLabel.Refresh()

	dashboard.clockLabel.Text = display.Clock
	if display.Phase == timer.PhaseWork {
		dashboard.clockLabel.Color = animation.ProgressColor(display.Percent)
	} else {
		dashboard.clockLabel.Color = theme.Color(theme.ColorNameSuccess)
	}
	dashboard.clockLabel.Refresh()

	dashboard.progressBar.SetValue(display.Percent)

	if display.Running {
		dashboard.toggleButton.SetText("Pause")
		dashboard.toggleButton.SetIcon(theme.MediaPauseIcon())
	} else {
		dashboard.toggleButton.SetText("Start")
		dashboard.toggleButton.SetIcon(theme.MediaPlayIcon())
	}

	dashboard.sessionsLabel.SetText(fmt.Sprintf("Completed this run: %d", display.CompletedWorkSessions))
}

func (dashboard *Window) announce(phase timer.Phase) {
	spec := animation.WorkFlash()
	title, body := "Back to work", "Break is over. Time to focus."
	if phase == timer.PhaseBreak {
		spec = animation.BreakFlash()
		title, body = "Time for a break", "Work session complete. Step away for a few minutes."
	}

	if dashboard.cancelFlash != nil {
		dashboard.cancelFlash()
	}
	ctx, cancel := context.WithCancel(context.Background())
	dashboard.cancelFlash = cancel
	dashboard.engine.Flash(ctx, spec)

	if dashboard.notifications {
		dashboard.app.SendNotification(fyne.NewNotification(title, body))
	}
}

func (dashboard *Window) paintFlash(fill color.Color) {
	fyne.Do(func() {
		dashboard.flash.FillColor = fill
		dashboard.flash.Refresh()
	})
}

func summaryText(summary progress.Summary) string {
	return fmt.Sprintf("Today: %d sessions, %d min   Total: %d sessions, %d min",
		summary.TodayCompleted, summary.TodayFocusMinutes,
		summary.TotalCompleted, summary.TotalFocusMinutes)
}
